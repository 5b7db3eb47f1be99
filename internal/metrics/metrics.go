// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "callpal"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP surface
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Upstream integrations
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Transcription jobs
	PollAttempts    prometheus.Histogram
	JobOutcomes     *prometheus.CounterVec
	TranscriptLines prometheus.Histogram

	// Calls
	CallsPlaced *prometheus.CounterVec

	// Events
	EventsPublished *prometheus.CounterVec
}

// DefaultMetrics is registered with the default Prometheus registry.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates and registers all metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "method", "status"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"route"}),

		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total upstream API requests by provider, operation and outcome",
		}, []string{"provider", "op", "outcome"}),
		UpstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider", "op"}),

		PollAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_poll_attempts",
			Help:      "Status checks needed per transcription job",
			Buckets:   []float64{1, 2, 3, 5, 8, 12, 16, 20},
		}),
		JobOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_jobs_total",
			Help:      "Transcription jobs by terminal outcome",
		}, []string{"outcome"}),
		TranscriptLines: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcript_lines",
			Help:      "Speaker turns per fetched transcript",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),

		CallsPlaced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_placed_total",
			Help:      "Outbound calls by mode and whether they were simulated",
		}, []string{"mode", "demo"}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Call events published by type and outcome",
		}, []string{"event_type", "outcome"}),
	}
}

// RecordUpstream records one upstream API request.
func (m *Metrics) RecordUpstream(provider, op string, err error, latencySeconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(provider, op, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(provider, op).Observe(latencySeconds)
}

// RecordHTTP records one served HTTP request.
func (m *Metrics) RecordHTTP(route, method, status string, latencySeconds float64) {
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(latencySeconds)
}

// RecordJob records a finished transcription job and how many checks it took.
func (m *Metrics) RecordJob(outcome string, attempts int) {
	m.JobOutcomes.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		m.PollAttempts.Observe(float64(attempts))
	}
}

// RecordTranscript records the size of an aggregated transcript.
func (m *Metrics) RecordTranscript(lines int) {
	m.TranscriptLines.Observe(float64(lines))
}

// RecordCall records an outbound call.
func (m *Metrics) RecordCall(mode string, demo bool) {
	d := "false"
	if demo {
		d = "true"
	}
	m.CallsPlaced.WithLabelValues(mode, d).Inc()
}

// RecordEvent records a call event publish attempt.
func (m *Metrics) RecordEvent(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
