package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voicemention/provider"
)

// TypedStore keeps JSON-encoded values of type C under prefixed keys.
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
}

var _ provider.ContextStore[any] = (*TypedStore[any])(nil)

// NewTypedStore creates a TypedStore backed by client. Keys are written as
// keyPrefix + ":" + key, or bare when keyPrefix is empty.
func NewTypedStore[C any](client *Client, keyPrefix string) *TypedStore[C] {
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns (nil, nil) when the key is missing or expired.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	raw, err := s.client.rdb.Get(ctx, s.fullKey(key)).Bytes()
	return s.decode(key, raw, err)
}

// Save stores val with ttl. A ttl of 0 means no expiration.
func (s *TypedStore[C]) Save(ctx context.Context, key string, val *C, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	if err := s.client.rdb.Set(ctx, s.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}

// Take reads and removes the key with a single GETDEL, so concurrent callers
// on any replica see the value at most once.
func (s *TypedStore[C]) Take(ctx context.Context, key string) (*C, error) {
	raw, err := s.client.rdb.GetDel(ctx, s.fullKey(key)).Bytes()
	return s.decode(key, raw, err)
}

func (s *TypedStore[C]) decode(key string, raw []byte, err error) (*C, error) {
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	var val C
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}
