package database

import (
	"errors"
	"slices"
	"time"
)

var logLevels = []string{"silent", "error", "warn", "info"}

// Config is the database block. SQLite serialises writers, so the
// default pool is small.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// DSN is a SQLite file path or URI; ":memory:" works for tests.
	DSN string `mapstructure:"dsn"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MaxRetries counts connection attempts, the first included.
	MaxRetries  int  `mapstructure:"max_retries"`
	AutoMigrate bool `mapstructure:"auto_migrate"`

	// Queries slower than this are logged at warn.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	// LogLevel is GORM's: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`
}

func (c *Config) ApplyDefaults() {
	if c.DSN == "" {
		c.DSN = "voicemention.db"
	}
	c.MaxOpenConns = positiveOr(c.MaxOpenConns, 4)
	c.MaxIdleConns = positiveOr(c.MaxIdleConns, 2)
	c.MaxRetries = positiveOr(c.MaxRetries, 3)
	c.ConnMaxLifetime = positiveOr(c.ConnMaxLifetime, time.Hour)
	c.SlowQueryThreshold = positiveOr(c.SlowQueryThreshold, 200*time.Millisecond)
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

func positiveOr[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.MaxOpenConns <= 0 || c.MaxRetries <= 0 {
		errs = append(errs, errors.New("database.max_open_conns and max_retries must be positive"))
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, errors.New("database.max_idle_conns exceeds max_open_conns"))
	}
	if c.ConnMaxLifetime < 0 || c.SlowQueryThreshold < 0 {
		errs = append(errs, errors.New("database durations must not be negative"))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, errors.New("database.log_level must be one of silent, error, warn, info"))
	}
	return errors.Join(errs...)
}
