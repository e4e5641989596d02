// Package observability wires OpenTelemetry tracing and metrics for the
// authentication service.
//
//	shutdown, err := observability.Init(ctx, cfg.Observability, observability.ServiceInfo{Name: "authgate"})
//	defer shutdown(ctx)
//
//	metrics, _ := observability.NewMetrics(nil)
//	metrics.RecordGateDecision(ctx, "respond", "EXPIRED")
package observability
