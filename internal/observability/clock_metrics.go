package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClockCollector exposes metrics about the sampling clock itself.
type ClockCollector struct {
	gatherer prometheus.Gatherer

	TicksTotal  prometheus.Counter
	TickLag     prometheus.Histogram
	RunElapsed  prometheus.Gauge
	RunProgress prometheus.Gauge
}

// NewClockCollector registers clock metrics against the provided registerer.
func NewClockCollector(reg prometheus.Registerer) (*ClockCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sampler_ticks_total",
		Help: "Ticks fired by the sampling clock.",
	})
	ticks, err := registerCounter(reg, ticks, "sampler_ticks_total")
	if err != nil {
		return nil, err
	}

	lag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sampler_tick_lag_seconds",
		Help:    "How late each tick fired relative to its nominal schedule.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	lag, err = registerHistogram(reg, lag, "sampler_tick_lag_seconds")
	if err != nil {
		return nil, err
	}

	elapsed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sampler_run_elapsed_seconds",
		Help: "Time since the sampling run started.",
	})
	elapsed, err = registerGauge(reg, elapsed, "sampler_run_elapsed_seconds")
	if err != nil {
		return nil, err
	}

	progress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sampler_run_progress_ratio",
		Help: "Fraction of the configured run duration that has elapsed.",
	})
	progress, err = registerGauge(reg, progress, "sampler_run_progress_ratio")
	if err != nil {
		return nil, err
	}

	return &ClockCollector{
		gatherer:    gatherer,
		TicksTotal:  ticks,
		TickLag:     lag,
		RunElapsed:  elapsed,
		RunProgress: progress,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *ClockCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveTick records tick number n of a run that began at start and fires
// every interval. A non-positive duration leaves the progress gauge at 0.
func (c *ClockCollector) ObserveTick(n int, start, now time.Time, interval, duration time.Duration) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()

	elapsed := now.Sub(start)
	c.RunElapsed.Set(elapsed.Seconds())

	lag := elapsed - time.Duration(n)*interval
	if lag < 0 {
		lag = 0
	}
	c.TickLag.Observe(lag.Seconds())

	if duration > 0 {
		ratio := elapsed.Seconds() / duration.Seconds()
		if ratio > 1 {
			ratio = 1
		}
		c.RunProgress.Set(ratio)
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
