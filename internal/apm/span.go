package apm

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the slice of the OpenTelemetry span surface the evaluation
// pipeline uses: attributes, error recording, and completion.
type Span interface {
	SetAttribute(value attribute.KeyValue)
	SetAttributes(values ...attribute.KeyValue)
	NoticeError(err error)
	End(options ...trace.SpanEndOption)
}

type traceSpan struct {
	span trace.Span
}

func newSpan(span trace.Span) Span {
	return &traceSpan{span}
}

func (t *traceSpan) SetAttribute(value attribute.KeyValue) {
	t.span.SetAttributes(value)
}

func (t *traceSpan) SetAttributes(values ...attribute.KeyValue) {
	t.span.SetAttributes(values...)
}

// NoticeError records the error on the span and marks the span failed.
func (t *traceSpan) NoticeError(err error) {
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())
}

func (t *traceSpan) End(options ...trace.SpanEndOption) {
	t.span.End(options...)
}
