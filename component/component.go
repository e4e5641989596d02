package component

import "context"

// HealthStatus is what /health and the startup summary show per component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is anything the service starts and stops: a store backend,
// the redis client, the HTTP listener. A Registry rejects duplicate names.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description feeds the infrastructure section of the startup summary.
// Name defaults to the component name.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

type Describable interface {
	Describe() Description
}

// Route feeds the routes section of the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}
