// Package tracing records the activity of a reactive runtime as OpenTelemetry spans.
package tracing

import (
	"context"
	"time"

	"github.com/AnatoleLucet/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "reactive"

// Config configures the OpenTelemetry observer.
type Config struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider

	// Context is the parent context of the recorded spans.
	Context context.Context

	// TraceComputes also records a span per computed evaluation.
	// Disabled by default, evaluations are frequent.
	TraceComputes bool
}

type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithContext sets the parent context of the spans.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithComputes enables spans for computed evaluations.
func WithComputes(enabled bool) Option {
	return func(c *Config) {
		c.TraceComputes = enabled
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Observer is a reactive.Observer emitting a span for each flush,
// watcher run and detected cycle.
//
// Hooks are called once the work is done, spans are created with
// explicit start and end timestamps.
type Observer struct {
	reactive.NopObserver

	tracer   trace.Tracer
	ctx      context.Context
	computes bool
}

var _ reactive.Observer = (*Observer)(nil)

func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Observer{
		tracer:   tp.Tracer(config.TracerName),
		ctx:      config.Context,
		computes: config.TraceComputes,
	}
}

func (o *Observer) record(name string, took time.Duration, attrs ...attribute.KeyValue) {
	end := time.Now()

	_, span := o.tracer.Start(o.ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-took)),
	)
	span.End(trace.WithTimestamp(end))
}

func nodeAttributes(node reactive.NodeInfo) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("reactive.node.id", int64(node.ID)),
		attribute.String("reactive.node.kind", node.Kind.String()),
		attribute.String("reactive.node.name", node.Label()),
	}
}

func (o *Observer) OnCompute(node reactive.NodeInfo, took time.Duration) {
	if !o.computes {
		return
	}

	o.record("reactive.compute", took, nodeAttributes(node)...)
}

func (o *Observer) OnRun(node reactive.NodeInfo, typ reactive.EffectType, took time.Duration) {
	attrs := append(nodeAttributes(node), attribute.String("reactive.effect_type", typ.String()))

	o.record("reactive.run", took, attrs...)
}

func (o *Observer) OnFlush(stats reactive.FlushStats) {
	o.record("reactive.flush", stats.Duration,
		attribute.Int("reactive.flush.passes", stats.Passes),
		attribute.Int("reactive.flush.runs", stats.Runs),
	)
}

func (o *Observer) OnCycle(err *reactive.CycleError) {
	_, span := o.tracer.Start(o.ctx, "reactive.cycle",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.StringSlice("reactive.cycle.path", err.Path)),
	)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
