package redis

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key the service writes.
const DefaultKeyPrefix = "voicemention"

// Config is the redis block. With Enabled false pending choices stay in
// process memory and nothing here is checked.
type Config struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix becomes "<prefix>:" in front of every key.
	KeyPrefix string `mapstructure:"key_prefix"`

	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func (c *Config) ApplyDefaults() {
	setDefault(&c.Addr, "localhost:6379")
	setDefault(&c.KeyPrefix, DefaultKeyPrefix)
	setDefault(&c.PoolSize, 10)
	setDefault(&c.MinIdleConns, 2)
	setDefault(&c.MaxRetries, 3)
	setDefault(&c.DialTimeout, 5*time.Second)
	setDefault(&c.ReadTimeout, 3*time.Second)
	setDefault(&c.WriteTimeout, 3*time.Second)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

func (c *Config) Validate() error {
	switch {
	case !c.Enabled:
		return nil
	case c.Addr == "":
		return fmt.Errorf("redis.addr is required")
	case c.PoolSize <= 0:
		return fmt.Errorf("redis.pool_size must be positive")
	case c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return fmt.Errorf("redis timeouts must not be negative")
	}
	return nil
}

func (c *Config) options() *goredis.Options {
	return &goredis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}
