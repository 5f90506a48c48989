// metrics.go — Prometheus gauges/counters for the capture pipeline,
// grounded on the same promauto.With(registry) factory pattern used for
// request/session metrics elsewhere in the ecosystem.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the metrics namespace and registry.
type Config struct {
	Namespace string
	Registry  prometheus.Registerer
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{Namespace: "causality", Registry: prometheus.DefaultRegisterer}
}

// Metrics holds every gauge/counter this module exports.
type Metrics struct {
	totalRequests   prometheus.Gauge
	pendingRequests prometheus.Gauge
	totalActions    prometheus.Gauge
	correlations    prometheus.Counter
	chainsDetected  *prometheus.CounterVec
}

// New registers and returns the metrics set. Safe to call once per
// process; calling it twice against the same registry panics, matching
// promauto's own behavior.
func New(cfg Config) *Metrics {
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		totalRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "total_requests",
			Help:      "Number of finalized requests currently in the store.",
		}),
		pendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "pending_requests",
			Help:      "Number of in-flight requests not yet finalized.",
		}),
		totalActions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "total_actions",
			Help:      "Number of actions recorded in the action log.",
		}),
		correlations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "correlations_total",
			Help:      "Number of correlation results produced.",
		}),
		chainsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "chains_detected_total",
			Help:      "Number of causal chains detected, by kind.",
		}, []string{"kind"}),
	}
}

// ObserveStats updates the point-in-time gauges.
func (m *Metrics) ObserveStats(totalRequests, pendingRequests, totalActions int) {
	m.totalRequests.Set(float64(totalRequests))
	m.pendingRequests.Set(float64(pendingRequests))
	m.totalActions.Set(float64(totalActions))
}

// RecordCorrelation increments the correlation counter and tallies any
// chains found within that result by kind.
func (m *Metrics) RecordCorrelation(chainKinds []string) {
	m.correlations.Inc()
	for _, kind := range chainKinds {
		m.chainsDetected.WithLabelValues(kind).Inc()
	}
}
