package database

import (
	"context"
	"fmt"

	"github.com/kbukum/voicemention/component"
	"github.com/kbukum/voicemention/logger"
)

// Component opens the database on Start and, with auto_migrate on,
// migrates the models handed to WithAutoMigrate.
type Component struct {
	cfg    Config
	models []any
	db     *DB
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
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

func (c *Component) WithAutoMigrate(models ...any) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	c.db = db
	if !c.cfg.AutoMigrate || len(c.models) == 0 {
		return nil
	}
	return db.AutoMigrate(c.models...)
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	if c.db == nil {
		return h
	}
	if err := c.db.PingContext(ctx); err != nil {
		h.Message = err.Error()
		return h
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("sqlite %s pool=%d/%d", c.cfg.DSN, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
