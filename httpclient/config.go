package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/voicemention/resilience"
)

const defaultTimeout = 30 * time.Second

// Config configures an Adapter.
type Config struct {
	// Name identifies the adapter in logs and health reports.
	Name string
	// BaseURL is prepended to relative request paths. Absolute paths
	// (http:// or https://) are used as-is.
	BaseURL string
	// Timeout bounds every single request. Defaults to 30s.
	Timeout time.Duration
	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig
	// Headers are sent with every request.
	Headers map[string]string
	// Retry enables automatic retries. Nil disables them.
	Retry *resilience.RetryConfig
	// CircuitBreaker fails fast while the remote side keeps failing. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig
	// RateLimiter throttles outbound calls. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.Auth != nil && c.Auth.secret == "" {
		return fmt.Errorf("httpclient: %s: %s auth configured without a credential", c.Name, c.Auth.Header)
	}
	return nil
}

// DefaultRetryConfig retries only errors classified as retryable.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
