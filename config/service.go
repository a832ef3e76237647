package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/voicemention/logger"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig is the identity and logging block shared by every binary.
// Embed it squashed; the embedding config calls ApplyDefaults and
// Validate from its own methods.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig lets bootstrap reach the shared block through embedding.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }

func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = environments[0]
	}
	c.Logging.Debug = c.Logging.Debug || c.Debug
	c.Logging.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment %q is not one of %v", c.Environment, environments)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
