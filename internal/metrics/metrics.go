// Package metrics exposes the run's Prometheus collectors and a runtime
// memory snapshot helper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors bundles the Prometheus instruments of one test run. A
// fresh registry per run keeps tests independent of global state.
type Collectors struct {
	registry *prometheus.Registry

	// Squarings counts completed squarings.
	Squarings prometheus.Counter
	// RoundError tracks the running maximum rounding error.
	RoundError prometheus.Gauge
	// SquareSeconds observes per-squaring wall time.
	SquareSeconds prometheus.Histogram
	// Progress is the fraction of exponent bits consumed, in [0, 1].
	Progress prometheus.Gauge
}

// New creates the collectors on their own registry.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		registry: reg,
		Squarings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gfn_squarings_total",
			Help: "Number of completed squarings.",
		}),
		RoundError: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gfn_round_error_max",
			Help: "Running maximum per-squaring rounding error.",
		}),
		SquareSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gfn_square_duration_seconds",
			Help:    "Wall time of one squaring.",
			Buckets: prometheus.ExponentialBuckets(1e-4, 2, 16),
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gfn_progress_ratio",
			Help: "Fraction of exponent bits processed.",
		}),
	}
	reg.MustRegister(c.Squarings, c.RoundError, c.SquareSeconds, c.Progress)
	return c
}

// Registry returns the backing registry for HTTP exposition.
func (c *Collectors) Registry() *prometheus.Registry { return c.registry }
