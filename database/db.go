package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/provider"
	"github.com/kbukum/voicemention/resilience"
)

// DB is a GORM handle with a tracked closed state.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	closed atomic.Bool
}

var _ provider.Provider = (*DB)(nil)

// Open connects to the SQLite database at cfg.DSN.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	return NewWithDialector(ctx, sqlite.Open(cfg.DSN), cfg, log)
}

// NewWithDialector connects through d. Failed attempts are retried one
// second apart, up to cfg.MaxRetries attempts in total.
func NewWithDialector(ctx context.Context, d gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	gcfg := &gorm.Config{Logger: newGormLogger(log, cfg.SlowQueryThreshold, parseLogLevel(cfg.LogLevel))}

	policy := resilience.RetryConfig{
		MaxAttempts:    cfg.MaxRetries,
		InitialBackoff: time.Second,
		BackoffFactor:  1,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Warn("database connection attempt failed, retrying",
				logger.MergeWithError(logger.Fields("attempt", attempt, "backoff", wait.String()), err))
		},
	}
	gdb, err := resilience.Retry(ctx, policy, func() (*gorm.DB, error) { return connect(ctx, d, gcfg) })
	if err != nil {
		return nil, fmt.Errorf("database: connect %s (%d attempts): %w", cfg.DSN, cfg.MaxRetries, err)
	}

	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("database connection established", logger.Fields("dsn", cfg.DSN))
	return &DB{GormDB: gdb, log: log}, nil
}

func connect(ctx context.Context, d gorm.Dialector, gcfg *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(d, gcfg)
	if err != nil {
		return nil, err
	}
	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return gdb, pool.PingContext(ctx)
}

func (d *DB) Name() string { return "database" }

func (d *DB) IsAvailable(ctx context.Context) bool {
	return !d.closed.Load() && d.PingContext(ctx) == nil
}

func (d *DB) PingContext(ctx context.Context) error {
	pool, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Close is idempotent.
func (d *DB) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	pool, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	d.log.Info("closing database connection")
	return pool.Close()
}

// WithContext starts a GORM session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB { return d.GormDB.WithContext(ctx) }

func (d *DB) AutoMigrate(models ...any) error {
	for _, m := range models {
		if err := d.GormDB.AutoMigrate(m); err != nil {
			return fmt.Errorf("database: migrate %T: %w", m, err)
		}
	}
	d.log.Info("auto-migration completed", logger.Fields("models", len(models)))
	return nil
}

// WithTransaction commits when fn returns nil. An error or a panic rolls
// back; the panic propagates.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.GormDB.WithContext(ctx).Transaction(fn)
}
