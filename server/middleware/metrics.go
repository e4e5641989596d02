package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/authgate/observability"
)

// Observe records a server span and request metrics per routed request.
// The route template (c.FullPath) is used instead of the raw path to keep
// metric cardinality bounded. A nil m records spans only.
func Observe(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observability.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String(observability.AttrPath, route),
				attribute.String("http.request.method", c.Request.Method),
			),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		if m != nil {
			m.RequestStarted(ctx)
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if m != nil {
			m.RequestFinished(ctx, c.Request.Method, route, status, time.Since(start))
		}
	}
}
