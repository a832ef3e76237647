package component

import "context"

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

// Component is a piece of infrastructure with a lifecycle: the database,
// the Redis choice store, the HTTP server. Names are unique per Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop releases resources; the registry bounds it with
	// DefaultStopTimeout.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is one row of the startup summary, e.g.
// {Type: "redis", Details: "localhost:6379 db=0"}. An empty Name means
// the component's own Name.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable components list themselves in the startup summary.
type Describable interface {
	Describe() Description
}

type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider components list their HTTP routes in the startup summary.
type RouteProvider interface {
	Routes() []Route
}
