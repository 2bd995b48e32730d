package pacer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the pacer package.
type Metrics struct {
	// Wait outcomes and imposed delays
	waits        *prometheus.CounterVec
	waitDuration *prometheus.HistogramVec

	// Reported operation outcomes
	outcomes *prometheus.CounterVec

	// Current limiter state
	operationsToday *prometheus.GaugeVec
	backoffSeconds  *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		waits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_pacer_waits_total",
				Help: "Total number of Wait calls by outcome",
			},
			[]string{"limiter", "decision"},
		),

		waitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cadence_pacer_wait_seconds",
				Help:    "Imposed delay before operations were allowed",
				Buckets: []float64{0.1, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"limiter"},
		),

		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_pacer_operations_total",
				Help: "Total number of reported operation outcomes",
			},
			[]string{"limiter", "outcome"},
		),

		operationsToday: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cadence_pacer_operations_today",
				Help: "Operations recorded against the daily quota",
			},
			[]string{"limiter"},
		),

		backoffSeconds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cadence_pacer_backoff_seconds",
				Help: "Current failure backoff in seconds",
			},
			[]string{"limiter"},
		),
	}
}

// RecordWait records one Wait call and its imposed delay.
func (m *Metrics) RecordWait(limiter string, decision string, waited time.Duration) {
	if m == nil {
		return
	}
	m.waits.WithLabelValues(limiter, decision).Inc()
	m.waitDuration.WithLabelValues(limiter).Observe(waited.Seconds())
}

// RecordOutcome records one reported operation outcome.
func (m *Metrics) RecordOutcome(limiter string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.outcomes.WithLabelValues(limiter, outcome).Inc()
}

// SetOperationsToday updates the daily quota consumption gauge.
func (m *Metrics) SetOperationsToday(limiter string, count int) {
	if m == nil {
		return
	}
	m.operationsToday.WithLabelValues(limiter).Set(float64(count))
}

// SetBackoff updates the current backoff gauge.
func (m *Metrics) SetBackoff(limiter string, seconds float64) {
	if m == nil {
		return
	}
	m.backoffSeconds.WithLabelValues(limiter).Set(seconds)
}
