// Package metrics exports the activity of a reactive runtime as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/AnatoleLucet/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run and flush durations.
	// Default: exponential from 10µs to ~160ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactive",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a reactive.Observer recording:
//   - reactive_writes_total: accepted signal writes
//   - reactive_evaluations_total: computed evaluations
//   - reactive_watcher_runs_total: watcher runs by effect type
//   - reactive_watcher_run_duration_seconds: watcher run duration by effect type
//   - reactive_flushes_total: flushes
//   - reactive_flush_passes: passes needed for a flush to settle
//   - reactive_flush_duration_seconds: flush duration
//   - reactive_cycles_total: cyclic dependencies detected
//
// Example:
//
//	rt := reactive.NewRuntime(
//	    reactive.WithObserver(metrics.New(metrics.WithRegistry(reg))),
//	)
type Observer struct {
	writes        prometheus.Counter
	evaluations   prometheus.Counter
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	flushes       prometheus.Counter
	flushPasses   prometheus.Histogram
	flushDuration prometheus.Histogram
	cycles        prometheus.Counter
}

var _ reactive.Observer = (*Observer)(nil)

// New registers the metrics and returns the observer updating them.
// Registering twice on the same registry panics, as with promauto.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of accepted signal writes",
			ConstLabels: config.ConstLabels,
		}),

		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "evaluations_total",
			Help:        "Total number of computed evaluations",
			ConstLabels: config.ConstLabels,
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_runs_total",
			Help:        "Total number of watcher runs by effect type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_run_duration_seconds",
			Help:        "Watcher run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Number of passes a flush needed to settle",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		cycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_total",
			Help:        "Total number of cyclic dependencies detected",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (o *Observer) OnWrite(reactive.NodeInfo) {
	o.writes.Inc()
}

func (o *Observer) OnCompute(reactive.NodeInfo, time.Duration) {
	o.evaluations.Inc()
}

func (o *Observer) OnRun(_ reactive.NodeInfo, typ reactive.EffectType, took time.Duration) {
	o.runs.WithLabelValues(typ.String()).Inc()
	o.runDuration.WithLabelValues(typ.String()).Observe(took.Seconds())
}

func (o *Observer) OnFlush(stats reactive.FlushStats) {
	o.flushes.Inc()
	o.flushPasses.Observe(float64(stats.Passes))
	o.flushDuration.Observe(stats.Duration.Seconds())
}

func (o *Observer) OnCycle(*reactive.CycleError) {
	o.cycles.Inc()
}
