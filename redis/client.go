package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voicemention/provider"
)

// Client is a go-redis pool that knows whether it has been closed.
type Client struct {
	rdb    *goredis.Client
	closed atomic.Bool
}

var _ provider.Provider = (*Client)(nil)

// New builds the pool without dialing.
func New(cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, errors.New("redis: disabled in config")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{rdb: goredis.NewClient(cfg.options())}, nil
}

func (c *Client) Name() string { return "redis" }

func (c *Client) IsAvailable(ctx context.Context) bool {
	return !c.closed.Load() && c.Ping(ctx) == nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close is idempotent.
func (c *Client) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

// Unwrap exposes the go-redis client for commands the store does not wrap.
func (c *Client) Unwrap() *goredis.Client { return c.rdb }
