package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the voice backend.
type Metrics struct {
	RequestTotal         *prometheus.CounterVec
	CompletionDurationMs *prometheus.HistogramVec
	GroundingFetchTotal  *prometheus.CounterVec
	RateLimitHitTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bughunt_request_total",
			Help: "Total requests handled, by request kind and outcome.",
		}, []string{"kind", "outcome"}),

		CompletionDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bughunt_completion_duration_ms",
			Help:    "Language-model completion latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"provider", "status"}),

		GroundingFetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bughunt_grounding_fetch_total",
			Help: "Grounding-text cache accesses, by result (hit, refresh, fallback).",
		}, []string{"result"}),

		RateLimitHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bughunt_rate_limit_hit_total",
			Help: "Requests rejected by the session rate limiter.",
		}, []string{"dimension"}),
	}
}

// RecordRequest records one handled request. Nil receivers are safe so
// handlers can run without telemetry wired.
func (m *Metrics) RecordRequest(kind, outcome string) {
	if m == nil {
		return
	}
	m.RequestTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordCompletion records one completion attempt.
func (m *Metrics) RecordCompletion(provider, status string, durationMs float64) {
	if m == nil {
		return
	}
	m.CompletionDurationMs.WithLabelValues(provider, status).Observe(durationMs)
}

// RecordGrounding records one grounding-text access result.
func (m *Metrics) RecordGrounding(result string) {
	if m == nil {
		return
	}
	m.GroundingFetchTotal.WithLabelValues(result).Inc()
}

// RecordRateLimitHit records a rejected request.
func (m *Metrics) RecordRateLimitHit(dimension string) {
	if m == nil {
		return
	}
	m.RateLimitHitTotal.WithLabelValues(dimension).Inc()
}
