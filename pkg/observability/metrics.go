package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the solver.
type Metrics struct {
	Iterations   *prometheus.CounterVec
	GlobalDelta  prometheus.Gauge
	SweepSeconds *prometheus.HistogramVec
	HaloSeconds  *prometheus.HistogramVec
	Runs         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laplace_iterations_total",
				Help: "Total number of Jacobi iterations completed",
			},
			[]string{"rank"},
		),
		GlobalDelta: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "laplace_global_delta",
				Help: "Maximum temperature change of the last iteration",
			},
		),
		SweepSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "laplace_sweep_duration_seconds",
				Help:    "Duration of the stencil sweep of one band",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"rank"},
		),
		HaloSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "laplace_halo_duration_seconds",
				Help:    "Duration of the ghost row exchange",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"rank"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laplace_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.Iterations, m.GlobalDelta, m.SweepSeconds, m.HaloSeconds, m.Runs)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIteration: func(_ context.Context, e *domain.IterationEvent) {
			rank := strconv.Itoa(e.Rank)
			m.Iterations.WithLabelValues(rank).Inc()
			m.SweepSeconds.WithLabelValues(rank).Observe(e.Sweep.Seconds())
			m.HaloSeconds.WithLabelValues(rank).Observe(e.Halo.Seconds())
			if e.Rank == 0 {
				m.GlobalDelta.Set(e.GlobalDelta)
			}
		},
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			// Failures are counted per worker, successful outcomes once per run.
			if e.To == domain.PhaseFailed {
				m.Runs.WithLabelValues(string(domain.PhaseFailed)).Inc()
			}
		},
		OnReport: func(_ context.Context, r *domain.Report) {
			m.Runs.WithLabelValues(string(r.Outcome)).Inc()
		},
	}
}
