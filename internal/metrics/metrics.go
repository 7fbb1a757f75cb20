// Package metrics exposes Prometheus counters for the bootstrap cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rdap_bootstrap"

// Metrics implements bootstrap.Observer on top of Prometheus collectors.
type Metrics struct {
	Decisions     *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
}

// New registers the cache collectors on reg. Pass a fresh prometheus.NewRegistry()
// in tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "decisions_total",
				Help:      "Cache decisions by slot (hit, miss, stale, repair)",
			},
			[]string{"slot", "decision"},
		),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Upstream fetches by slot and result",
			},
			[]string{"slot", "result"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Upstream fetch and commit duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"slot"},
		),
	}
	reg.MustRegister(m.Decisions, m.Fetches, m.FetchDuration)
	return m
}

// ObserveDecision counts one freshness decision.
func (m *Metrics) ObserveDecision(slot, decision string) {
	m.Decisions.WithLabelValues(slot, decision).Inc()
}

// ObserveFetch records an upstream fetch.
func (m *Metrics) ObserveFetch(slot string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Fetches.WithLabelValues(slot, result).Inc()
	m.FetchDuration.WithLabelValues(slot).Observe(elapsed.Seconds())
}
