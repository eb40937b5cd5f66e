package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics counts facade operations per puppet, operation and outcome.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "puppet",
			Subsystem: "facade",
			Name:      "operations_total",
			Help:      "Facade operations issued through a puppet.",
		}, []string{"puppet", "operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "puppet",
			Subsystem: "facade",
			Name:      "operation_duration_seconds",
			Help:      "Duration of facade operations, puppet round trips included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"puppet", "operation"}),
	}
	reg.MustRegister(m.operations, m.latency)
	return m
}

// Observe records one operation started at start; err decides the outcome.
func (m *Metrics) Observe(puppet, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(puppet, operation, outcome).Inc()
	m.latency.WithLabelValues(puppet, operation).Observe(time.Since(start).Seconds())
}

// Operations exposes the counter, mostly for tests.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}
