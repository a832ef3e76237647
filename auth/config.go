package auth

import (
	"fmt"

	"github.com/kbukum/voicemention/auth/jwt"
)

// Config holds API authentication configuration.
type Config struct {
	// Enabled puts bearer auth in front of /api routes.
	Enabled bool       `mapstructure:"enabled"`
	JWT     jwt.Config `mapstructure:"jwt"`
}

func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("JWT(%s) TTL=%s", c.JWT.Method, c.JWT.AccessTokenTTL)
}
