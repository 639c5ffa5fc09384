package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans against whatever global provider NewTraceProvider
// installed. With the empty provider every span is a no-op.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
}

type openTracer struct {
	tracer trace.Tracer
}

func NewTracer(name string) Tracer {
	return &openTracer{
		otel.Tracer(name),
	}
}

func (t *openTracer) StartSpanFromContext(
	ctx context.Context, name string, opts ...trace.SpanStartOption,
) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, newSpan(span)
}

// TraceID extracts the active trace id from ctx, or "" when no span is
// in flight. Handed to the logger so log records correlate with traces.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}

	return sc.TraceID().String()
}
