// Package metrics provides Prometheus metrics for the lead intelligence engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the Prometheus collectors of one engine instance.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	completionAttempts *prometheus.CounterVec
	completionLatency  *prometheus.HistogramVec
	fallbacks          *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	cacheEntries       prometheus.Gauge
	insightRequests    *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// NewManager creates a metrics manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leadintel",
		subsystem:        "insights",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.completionAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completion_attempts_total",
		Help:      "Calls made to the completion service by purpose and outcome",
	}, []string{"purpose", "outcome"})

	m.completionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completion_latency_seconds",
		Help:      "Latency of individual completion attempts",
		Buckets:   m.histogramBuckets,
	}, []string{"purpose"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_narratives_total",
		Help:      "Narratives generated offline because the completion service was unavailable",
	}, []string{"purpose", "reason"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Response cache lookups by result (hit, miss)",
	}, []string{"result"})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Entries currently held by the response cache, valid or not",
	})

	m.insightRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Insight operations by name and status",
	}, []string{"operation", "status"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})
}

// RecordCompletionAttempt counts one attempt and observes its latency.
func (m *Manager) RecordCompletionAttempt(purpose, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.completionAttempts.WithLabelValues(purpose, outcome).Inc()
	m.completionLatency.WithLabelValues(purpose).Observe(latency.Seconds())
}

// RecordFallback counts an offline narrative substitution.
func (m *Manager) RecordFallback(purpose, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(purpose, reason).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Manager) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetCacheEntries updates the cache size gauge.
func (m *Manager) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}

// RecordInsightRequest counts a caller-facing operation.
func (m *Manager) RecordInsightRequest(operation, status string) {
	if m == nil {
		return
	}
	m.insightRequests.WithLabelValues(operation, status).Inc()
}

// RecordHTTPRequest counts a served HTTP request.
func (m *Manager) RecordHTTPRequest(route, method, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, code).Inc()
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
