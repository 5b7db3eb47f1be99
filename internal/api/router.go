// Package api is the JSON HTTP surface of the service.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"callpal-go/internal/dataset"
	"callpal-go/internal/logger"
	"callpal-go/internal/metrics"
	"callpal-go/internal/profile"
	"callpal-go/internal/speech"
	"callpal-go/internal/types"
)

type IntentExtractor interface {
	Extract(ctx context.Context, message string, profile types.UserProfile, mode types.Mode) (types.Intent, error)
}

type CallPlacer interface {
	Place(ctx context.Context, intent types.Intent, profile types.UserProfile) (types.CallResult, error)
}

type TranscriptSource interface {
	Get(ctx context.Context, callID string) ([]types.TranscriptLine, error)
}

type SpeechGenerator interface {
	Generate(ctx context.Context, text string, mode types.Mode) (speech.Result, error)
}

// Server holds the services the handlers delegate to.
type Server struct {
	Intents     IntentExtractor
	Calls       CallPlacer
	Transcripts TranscriptSource
	Speech      SpeechGenerator
	Profiles    *profile.Store
	Scenarios   *dataset.Catalog
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
	Log      *logger.Logger
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(s *Server) http.Handler {
	if s.Metrics == nil {
		s.Metrics = metrics.DefaultMetrics
	}
	if s.Gatherer == nil {
		s.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract-intent", s.extractIntent)
		r.Post("/make-call", s.makeCall)
		r.Post("/transcript", s.transcript)
		r.Get("/profile", s.getProfile)
		r.Patch("/profile", s.patchProfile)
		r.Get("/scenarios", s.scenarios)
		r.Post("/speak", s.speak)
		r.Get("/health", s.health)
		r.Get("/theme", s.theme)
		r.Post("/onboarding", s.onboarding)
	})

	return r
}

// requestID makes sure every request and response carries an X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logger.RequestID(r)
		r.Header.Set(logger.RequestIDHeader, id)
		w.Header().Set(logger.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.Metrics.RecordHTTP(route, r.Method, strconv.Itoa(status), elapsed.Seconds())

		entry := s.Log.WithRequest(r).WithFields(logrus.Fields{
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	})
}
