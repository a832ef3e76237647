package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/voicemention/httpclient"
	"github.com/kbukum/voicemention/resilience"
)

const defaultTimeout = 60 * time.Second

// Config is one chat-completion endpoint.
type Config struct {
	Name    string `mapstructure:"name"`
	Dialect string `mapstructure:"dialect"`
	BaseURL string `mapstructure:"base_url"`
	// APIKey is sent as a bearer token.
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// JSONMode turns on provider-side JSON output for every request.
	JSONMode bool `mapstructure:"json_mode"`

	Headers map[string]string `mapstructure:"headers"`

	// Set in code, not from files.
	Retry          *resilience.RetryConfig          `mapstructure:"-"`
	CircuitBreaker *resilience.CircuitBreakerConfig `mapstructure:"-"`
	RateLimiter    *resilience.RateLimiterConfig    `mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("llm: base_url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm: temperature must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}

func (c *Config) httpConfig() httpclient.Config {
	cfg := httpclient.Config{
		Name:           c.Name,
		BaseURL:        c.BaseURL,
		Timeout:        c.Timeout,
		Headers:        c.Headers,
		Retry:          c.Retry,
		CircuitBreaker: c.CircuitBreaker,
		RateLimiter:    c.RateLimiter,
	}
	if c.APIKey != "" {
		cfg.Auth = httpclient.BearerAuth(c.APIKey)
	}
	return cfg
}
