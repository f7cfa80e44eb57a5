package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/AnatoleLucet/reactive"
	"github.com/AnatoleLucet/reactive/metrics"
	"github.com/AnatoleLucet/reactive/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type options struct {
	logLevel string
	equality string
	manual   bool
	metrics  bool
	trace    bool
}

func (o *options) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&o.equality, "equality", "identity", "Write equality (identity, structural)")
	flags.BoolVar(&o.manual, "manual", false, "Only run watchers on explicit flushes")
	flags.BoolVar(&o.metrics, "metrics", false, "Print runtime metrics when done")
	flags.BoolVar(&o.trace, "trace", false, "Print recorded spans when done")
}

// session is a runtime configured from the command line flags.
type session struct {
	*reactive.Runtime

	out io.Writer

	registry *prometheus.Registry
	spans    *spanPrinter
	tp       *sdktrace.TracerProvider
}

func (o *options) session(cmd *cobra.Command) (*session, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	s := &session{out: cmd.OutOrStdout()}
	runtimeOpts := []reactive.Option{reactive.WithLogger(logger)}

	switch o.equality {
	case "identity":
		runtimeOpts = append(runtimeOpts, reactive.WithEquality(reactive.Identical))
	case "structural":
		runtimeOpts = append(runtimeOpts, reactive.WithEquality(reactive.Structural))
	default:
		return nil, fmt.Errorf("invalid --equality %q: expected identity or structural", o.equality)
	}

	if o.manual {
		runtimeOpts = append(runtimeOpts, reactive.WithFlushMode(reactive.FlushManual))
	}

	if o.metrics {
		s.registry = prometheus.NewRegistry()
		runtimeOpts = append(runtimeOpts, reactive.WithObserver(metrics.New(metrics.WithRegistry(s.registry))))
	}

	if o.trace {
		s.spans = &spanPrinter{}
		s.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(s.spans))
		runtimeOpts = append(runtimeOpts, reactive.WithObserver(tracing.New(tracing.WithTracerProvider(s.tp))))
	}

	s.Runtime = reactive.NewRuntime(runtimeOpts...)

	return s, nil
}

// step runs fn then flushes, which only matters in manual mode.
func (s *session) step(fn func()) {
	s.Run(fn)
	s.Flush()
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// close prints the collected metrics and spans.
func (s *session) close(ctx context.Context) error {
	if s.tp != nil {
		if err := s.tp.Shutdown(ctx); err != nil {
			return err
		}

		s.printf("\nspans:\n")
		for _, line := range s.spans.lines {
			s.printf("  %s\n", line)
		}
	}

	if s.registry != nil {
		families, err := s.registry.Gather()
		if err != nil {
			return err
		}

		lines := []string{}
		for _, f := range families {
			for _, m := range f.GetMetric() {
				switch {
				case m.GetCounter() != nil:
					lines = append(lines, fmt.Sprintf("%s%s %g", f.GetName(), labels(m.GetLabel()), m.GetCounter().GetValue()))
				case m.GetHistogram() != nil:
					lines = append(lines, fmt.Sprintf("%s_count%s %d", f.GetName(), labels(m.GetLabel()), m.GetHistogram().GetSampleCount()))
				}
			}
		}
		sort.Strings(lines)

		s.printf("\nmetrics:\n")
		for _, line := range lines {
			s.printf("  %s\n", line)
		}
	}

	return nil
}
