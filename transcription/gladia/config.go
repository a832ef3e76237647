package gladia

import (
	"fmt"
	"time"

	"github.com/kbukum/voicemention/transcription"
)

const (
	DefaultBaseURL   = "https://api.gladia.io/v2"
	DefaultKeyHeader = "x-gladia-key"
)

// Config configures the Gladia client.
type Config struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	KeyHeader string `mapstructure:"key_header"`
	// Timeout bounds each HTTP call, not the whole poll.
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// MaxWait bounds polling. Zero waits until the caller's context ends.
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Language    string        `mapstructure:"language"`
	Diarization bool          `mapstructure:"diarization"`
}

func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.KeyHeader == "" {
		c.KeyHeader = DefaultKeyHeader
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.Language == "" {
		c.Language = "ru"
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("gladia: api_key is required")
	}
	if c.MaxWait < 0 {
		return fmt.Errorf("gladia: max_wait must not be negative")
	}
	return nil
}

// SubmitOptions returns the configured language and diarization flag.
func (c *Config) SubmitOptions() transcription.SubmitOptions {
	return transcription.SubmitOptions{Language: c.Language, Diarization: c.Diarization}
}
