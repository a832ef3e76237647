package provider

import (
	"context"
	"time"
)

// ContextStore persists small typed values under opaque keys. The caller
// owns the key schema. A TTL of 0 means no expiration.
type ContextStore[C any] interface {
	// Load returns (nil, nil) when the key is missing or expired.
	Load(ctx context.Context, key string) (*C, error)
	Save(ctx context.Context, key string, val *C, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Take atomically loads and deletes. Of several concurrent callers at
	// most one gets the value; the rest get (nil, nil).
	Take(ctx context.Context, key string) (*C, error)
}
