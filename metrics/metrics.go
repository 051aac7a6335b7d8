// Package metrics exposes Prometheus collectors for ledger mutations,
// cascades and batch recalculation.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/labour-ledger/ledger"
)

const namespace = "labour_ledger"

// Metrics implements ledger.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
	cascadeSize     *prometheus.HistogramVec
	recalculations  *prometheus.CounterVec
	recalcChanged   prometheus.Counter
	recalcLatency   prometheus.Histogram
}

var _ ledger.Recorder = (*Metrics)(nil)

// New registers every collector on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Ledger mutations by operation and result.",
		}, []string{"operation", "result"}),
		mutationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mutation_duration_seconds",
			Help:      "Time spent applying a ledger mutation, lock wait included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cascadeSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cascade_events",
			Help:      "Work entries rewritten by a committed mutation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"operation"}),
		recalculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculations_total",
			Help:      "Per-labour batch recalculations by result.",
		}, []string{"result"}),
		recalcChanged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculation_repaired_events_total",
			Help:      "Work entries whose stored balances were corrected by recalculation.",
		}),
		recalcLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recalculation_duration_seconds",
			Help:      "Time spent recalculating one labour.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordMutation(op ledger.Operation, cascade int, elapsed time.Duration, err error) {
	m.mutations.WithLabelValues(string(op), result(err)).Inc()
	m.mutationLatency.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	if err == nil {
		m.cascadeSize.WithLabelValues(string(op)).Observe(float64(cascade))
	}
}

func (m *Metrics) RecordRecalculation(changed int, dryRun bool, elapsed time.Duration, err error) {
	m.recalculations.WithLabelValues(result(err)).Inc()
	m.recalcLatency.Observe(elapsed.Seconds())
	// A dry run repairs nothing.
	if err == nil && !dryRun {
		m.recalcChanged.Add(float64(changed))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// result buckets an error into a low-cardinality label.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrValidation):
		return "invalid"
	case errors.Is(err, ledger.ErrDuplicateEntry):
		return "duplicate"
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
