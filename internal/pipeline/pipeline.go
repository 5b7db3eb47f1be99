// Package pipeline assembles the service graph (upstream clients, call
// flows, catalogs and the event publisher) from a Config.
package pipeline

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"callpal-go/internal/api"
	"callpal-go/internal/config"
	"callpal-go/internal/dataset"
	"callpal-go/internal/events"
	"callpal-go/internal/extractor"
	"callpal-go/internal/logger"
	"callpal-go/internal/metrics"
	"callpal-go/internal/processor"
	"callpal-go/internal/profile"
	"callpal-go/internal/speech"
	"callpal-go/internal/transcription"
	"callpal-go/internal/voice"
)

type Services struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics

	Intents     *extractor.Client
	Speech      *speech.Client
	Transcripts *processor.Transcripts
	Calls       *processor.Calls
	Profiles    *profile.Store
	Scenarios   *dataset.Catalog
	Events      *events.Publisher
}

// Build wires every component. m may be nil to use the default registry.
func Build(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*Services, error) {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	entry := log.Component("pipeline")

	profiles, err := profile.Open(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	scenarios, err := dataset.Open(cfg.ScenariosPath)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	pub := events.New(cfg.Kafka, m, log.Entry)
	vapi := voice.New(cfg.Vapi, cfg.HTTPTimeout, m, log.Entry)
	jobs := transcription.NewClient(cfg.Speechmatics, cfg.HTTPTimeout, m, log.Entry)
	driver := transcription.NewDriver(vapi, jobs, cfg.Poll, m, log.Entry)

	s := &Services{
		Config:      cfg,
		Log:         log,
		Metrics:     m,
		Intents:     extractor.New(cfg.MiniMax, cfg.LLMDemo(), cfg.HTTPTimeout, m, log.Entry),
		Speech:      speech.New(cfg.MiniMax, cfg.LLMDemo(), cfg.HTTPTimeout, m, log.Entry),
		Transcripts: processor.NewTranscripts(driver, cfg.TranscriptsDemo(), pub, log.Entry),
		Calls:       processor.NewCalls(vapi, cfg.Vapi.CallToNumber, cfg.CallsDemo(), pub, m, log.Entry),
		Profiles:    profiles,
		Scenarios:   scenarios,
		Events:      pub,
	}

	entry.WithField("llm_demo", cfg.LLMDemo()).
		WithField("calls_demo", cfg.CallsDemo()).
		WithField("transcripts_demo", cfg.TranscriptsDemo()).
		WithField("scenarios", scenarios.Len()).
		Info("services ready")
	return s, nil
}

// Router returns the HTTP surface over these services. g backs /metrics and
// may be nil for the default registry.
func (s *Services) Router(g prometheus.Gatherer) http.Handler {
	return api.NewRouter(&api.Server{
		Intents:     s.Intents,
		Calls:       s.Calls,
		Transcripts: s.Transcripts,
		Speech:      s.Speech,
		Profiles:    s.Profiles,
		Scenarios:   s.Scenarios,
		Metrics:     s.Metrics,
		Gatherer:    g,
		Log:         s.Log,
	})
}

func (s *Services) Close() error {
	return s.Events.Close()
}
