package provider

import "context"

// Provider is implemented by every outbound dependency the service calls.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider can take requests right now.
	IsAvailable(ctx context.Context) bool
}

// Closeable providers hold connections that outlive a call.
type Closeable interface {
	Close(ctx context.Context) error
}
