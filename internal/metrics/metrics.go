// Package metrics exposes Prometheus instruments for registry activity.
//
// A nil *Metrics is valid and records nothing, so packages can take one
// unconditionally.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "favorites"

type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	saveFailures prometheus.Counter
	loadFailures prometheus.Counter
	cleanedUp    prometheus.Counter
	cleanupRuns  *prometheus.CounterVec
	entries      prometheus.Gauge
	groups       prometheus.Gauge
}

// New registers every instrument on a private registry, plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Registry operations by name and outcome",
		}, []string{"op", "result"}),

		saveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_failures_total",
			Help:      "Failed attempts to persist the favorites document",
		}),

		loadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Failed attempts to load the favorites document",
		}),

		cleanedUp: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_entries_removed_total",
			Help:      "Entries removed because their resource is gone",
		}),

		cleanupRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_runs_total",
			Help:      "Cleanup passes by trigger",
		}, []string{"trigger"}),

		entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Favorites currently held",
		}),

		groups: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups currently held",
		}),
	}
}

// Operation counts one registry call. ok selects the "ok" or "rejected"
// result label.
func (m *Metrics) Operation(op string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) SaveFailed() {
	if m == nil {
		return
	}
	m.saveFailures.Inc()
}

func (m *Metrics) LoadFailed() {
	if m == nil {
		return
	}
	m.loadFailures.Inc()
}

// CleanedUp adds n removed entries.
func (m *Metrics) CleanedUp(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cleanedUp.Add(float64(n))
}

// CleanupRun counts a cleanup pass started by trigger ("interval", "watch",
// "manual").
func (m *Metrics) CleanupRun(trigger string) {
	if m == nil {
		return
	}
	m.cleanupRuns.WithLabelValues(trigger).Inc()
}

// SetSize records the current entry and group counts.
func (m *Metrics) SetSize(entries, groups int) {
	if m == nil {
		return
	}
	m.entries.Set(float64(entries))
	m.groups.Set(float64(groups))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
