package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/authgate"

// Span names.
const (
	SpanGateDecide = "gate.decide"
	SpanLogin      = "auth.login"
	SpanRegister   = "auth.register"
	SpanRefresh    = "auth.refresh"
)

// Attribute keys.
const (
	AttrOutcome     = "auth.outcome"
	AttrFailureKind = "auth.failure_kind"
	AttrSubject     = "auth.subject"
	AttrPath        = "http.route"
)

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span on the service tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SetSpanError marks the span failed with err. nil is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
