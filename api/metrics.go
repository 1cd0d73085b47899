package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/mortgage-engine/amortization"
)

// Simulation outcomes used as the "outcome" label.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidTerms   = "invalid_terms"
	OutcomeNonTerminating = "non_terminating"
	OutcomeDegenerate     = "degenerate"
	OutcomeError          = "error"
)

// Metrics holds the Prometheus metrics of the API. Each instance owns its
// registry so several servers (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	SimulationsTotal   *prometheus.CounterVec
	SimulatedYears     prometheus.Histogram
	SimulationDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mortgage_engine"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SimulationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Amortization runs by outcome",
		}, []string{"outcome"}),
		SimulatedYears: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulated_years",
			Help:      "Years until the balance reached zero",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 25, 30, 40, 50},
		}),
		SimulationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of one run",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one run. Terms rejected before the first year only count
// towards the outcome.
func (m *Metrics) Observe(s *amortization.Schedule, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := outcomeOf(err)
	m.SimulationsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeInvalidTerms {
		return
	}
	m.SimulationDuration.Observe(elapsed.Seconds())
	if s != nil {
		m.SimulatedYears.Observe(float64(s.Report.Years))
	}
}

// Reject counts a request whose terms never reached the engine.
func (m *Metrics) Reject(err error) {
	if m == nil {
		return
	}
	m.SimulationsTotal.WithLabelValues(outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, amortization.ErrInvalidTerms):
		return OutcomeInvalidTerms
	case errors.Is(err, amortization.ErrNonTerminating):
		return OutcomeNonTerminating
	case errors.Is(err, amortization.ErrArithmeticDegenerate):
		return OutcomeDegenerate
	}
	return OutcomeError
}
