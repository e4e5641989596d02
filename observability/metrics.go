package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the authentication instruments.
type Metrics struct {
	gateDecisions   metric.Int64Counter
	logins          metric.Int64Counter
	registrations   metric.Int64Counter
	refreshes       metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewMetrics creates instruments on meter. A nil meter uses the global
// provider, which is a no-op until Init installs one.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	var (
		m   Metrics
		err error
	)
	if m.gateDecisions, err = meter.Int64Counter("auth.gate.decisions",
		metric.WithDescription("Request gate decisions by outcome and failure kind"),
	); err != nil {
		return nil, fmt.Errorf("creating auth.gate.decisions counter: %w", err)
	}
	if m.logins, err = meter.Int64Counter("auth.logins",
		metric.WithDescription("Login attempts by result"),
	); err != nil {
		return nil, fmt.Errorf("creating auth.logins counter: %w", err)
	}
	if m.registrations, err = meter.Int64Counter("auth.registrations",
		metric.WithDescription("Registration attempts by result"),
	); err != nil {
		return nil, fmt.Errorf("creating auth.registrations counter: %w", err)
	}
	if m.refreshes, err = meter.Int64Counter("auth.refreshes",
		metric.WithDescription("Token refresh attempts by result"),
	); err != nil {
		return nil, fmt.Errorf("creating auth.refreshes counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.request.duration histogram: %w", err)
	}
	if m.requestActive, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.active_requests counter: %w", err)
	}
	return &m, nil
}

// RecordGateDecision counts one gate outcome. kind is empty on success.
func (m *Metrics) RecordGateDecision(ctx context.Context, outcome, kind string) {
	m.gateDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.String(AttrFailureKind, kind),
	))
}

// RecordLogin counts one login attempt. result is "ok" or a failure kind.
func (m *Metrics) RecordLogin(ctx context.Context, result string) {
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordRegistration counts one registration attempt.
func (m *Metrics) RecordRegistration(ctx context.Context, result string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordRefresh counts one refresh attempt.
func (m *Metrics) RecordRefresh(ctx context.Context, result string) {
	m.refreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RequestStarted increments the in-flight gauge. Pair with RequestFinished.
func (m *Metrics) RequestStarted(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RequestFinished decrements the in-flight gauge and records the duration.
func (m *Metrics) RequestFinished(ctx context.Context, method, route string, status int, d time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String(AttrPath, route),
		attribute.Int("http.response.status_code", status),
	))
}
