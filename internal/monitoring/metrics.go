package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects engine-level counters and latencies on a dedicated
// registry. A nil *Metrics is valid and records nothing, so pure-logic tests
// can run without a registry.
type Metrics struct {
	registry *prometheus.Registry

	utterances      *prometheus.CounterVec
	generateLatency prometheus.Histogram
	llmFailures     prometheus.Counter
	repairFallbacks prometheus.Counter
	sessionsActive  prometheus.Gauge
	sessionsExpired prometheus.Counter
}

// NewMetrics creates and registers the engine collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		utterances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "utterances_total",
				Help: "Utterances processed, by outcome",
			},
			[]string{"outcome"},
		),
		generateLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generate_latency_seconds",
				Help:    "Latency of model generate calls",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		llmFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "llm_failures_total",
				Help: "Model generate calls that failed or timed out",
			},
		),
		repairFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "repair_fallbacks_total",
				Help: "Structured payloads repaired with the fallback reply",
			},
		),
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Live conversation sessions",
			},
		),
		sessionsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_expired_total",
				Help: "Sessions evicted by the idle sweep",
			},
		),
	}

	m.registry.MustRegister(
		m.utterances,
		m.generateLatency,
		m.llmFailures,
		m.repairFallbacks,
		m.sessionsActive,
		m.sessionsExpired,
	)
	return m
}

// Handler exposes the registry for a metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUtterance counts one processed utterance by outcome
func (m *Metrics) ObserveUtterance(outcome string) {
	if m == nil {
		return
	}
	m.utterances.WithLabelValues(outcome).Inc()
}

// ObserveGenerate records one model call's latency and failure state
func (m *Metrics) ObserveGenerate(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.generateLatency.Observe(d.Seconds())
	if err != nil {
		m.llmFailures.Inc()
	}
}

// RecordRepairFallback counts a repaired payload that needed the canned reply
func (m *Metrics) RecordRepairFallback() {
	if m == nil {
		return
	}
	m.repairFallbacks.Inc()
}

// SetActiveSessions tracks the live session count
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

// AddExpired counts sessions evicted by a sweep
func (m *Metrics) AddExpired(n int) {
	if m == nil {
		return
	}
	m.sessionsExpired.Add(float64(n))
}
