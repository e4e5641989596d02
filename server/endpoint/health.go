package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/component"
)

// HealthChecker collects the health of every component.
type HealthChecker func(ctx context.Context) []component.Health

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components,omitempty"`
}

var severity = map[component.HealthStatus]int{
	component.StatusHealthy:   0,
	component.StatusDegraded:  1,
	component.StatusUnhealthy: 2,
}

// Health answers 503 when any component is unhealthy and 200 otherwise.
func Health(service string, check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var comps []component.Health
		if check != nil {
			comps = check(c.Request.Context())
		}
		overall := Aggregate(comps)

		code := http.StatusOK
		if overall == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, HealthResponse{
			Status:     overall,
			Service:    service,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: comps,
		})
	}
}

// Aggregate returns the most severe status in hs, healthy when hs is empty.
func Aggregate(hs []component.Health) component.HealthStatus {
	worst := component.StatusHealthy
	for _, h := range hs {
		if severity[h.Status] > severity[worst] {
			worst = h.Status
		}
	}
	return worst
}
