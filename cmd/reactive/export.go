package main

import (
	"context"
	"fmt"
	"strings"

	dto "github.com/prometheus/client_model/go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanPrinter is a span exporter keeping one summary line per span.
type spanPrinter struct {
	lines []string
}

var _ sdktrace.SpanExporter = (*spanPrinter)(nil)

func (p *spanPrinter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := []string{}
		for _, kv := range span.Attributes() {
			attrs = append(attrs, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
		}

		p.lines = append(p.lines, fmt.Sprintf("%s %s", span.Name(), strings.Join(attrs, " ")))
	}
	return nil
}

func (p *spanPrinter) Shutdown(context.Context) error {
	return nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
