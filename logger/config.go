package logger

import (
	"fmt"
	"slices"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formats = []string{FormatJSON, FormatConsole, FormatPretty, "text"}
)

// Config is the logging block of the service config.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
	// Debug wins over Level.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

func (c *Config) ApplyDefaults() {
	switch {
	case c.Debug:
		c.Level = "debug"
	case c.Level == "":
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level %q is not one of %v", c.Level, levels)
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("logging.format %q is not one of %v", c.Format, formats)
	}
	return nil
}
