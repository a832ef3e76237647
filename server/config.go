package server

import (
	"fmt"
	"time"

	"github.com/kbukum/voicemention/server/middleware"
)

// Config is the server block.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration         `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration         `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration         `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults leaves a long write timeout: a voice request waits for
// recognition before it answers.
func (c *Config) ApplyDefaults() {
	defaults := []struct {
		field *time.Duration
		value time.Duration
	}{
		{&c.ReadTimeout, 30 * time.Second},
		{&c.WriteTimeout, 10 * time.Minute},
		{&c.IdleTimeout, 2 * time.Minute},
	}
	for _, d := range defaults {
		if *d.field == 0 {
			*d.field = d.value
		}
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "25MB"
	}
	if c.CORS.AllowedMethods == nil {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if c.CORS.AllowedHeaders == nil {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Port)
	}
	if min(c.ReadTimeout, c.WriteTimeout, c.IdleTimeout) < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}
