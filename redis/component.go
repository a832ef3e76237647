package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/voicemention/component"
	"github.com/kbukum/voicemention/logger"
)

// Component dials Redis on Start and fails the boot if PING does not
// answer.
type Component struct {
	cfg    Config
	client *Client
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return fmt.Errorf("redis: %s: %w", c.cfg.Addr, err)
	}
	c.client = client
	c.log.Info("Redis connected", logger.Fields("addr", c.cfg.Addr, "db", c.cfg.DB, "pool_size", c.cfg.PoolSize))
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.client == nil {
		return nil
	}
	c.log.Info("Redis closing")
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	if c.client == nil {
		return h
	}
	if err := c.client.Ping(ctx); err != nil {
		h.Message = err.Error()
		return h
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d prefix=%s", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, c.cfg.KeyPrefix),
	}
}
