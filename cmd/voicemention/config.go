package main

import (
	"fmt"
	"time"

	"github.com/kbukum/voicemention/auth"
	"github.com/kbukum/voicemention/config"
	"github.com/kbukum/voicemention/database"
	"github.com/kbukum/voicemention/httpclient"
	"github.com/kbukum/voicemention/llm"
	"github.com/kbukum/voicemention/llm/openai"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/observability"
	"github.com/kbukum/voicemention/redis"
	"github.com/kbukum/voicemention/resilience"
	"github.com/kbukum/voicemention/server"
	"github.com/kbukum/voicemention/transcription/gladia"
	"github.com/kbukum/voicemention/validation"
	"github.com/kbukum/voicemention/voice"
)

const (
	defaultLLMBaseURL = "https://api.deepseek.com/v1"
	defaultLLMModel   = "deepseek-chat"
)

// envAliases maps the bare variable names operators already use.
var envAliases = map[string]string{
	"GLADIA_API_KEY":   "transcription.api_key",
	"DEEPSEEK_API_KEY": "llm.api_key",
	"DEBUG":            "debug",
	"JWT_SECRET":       "auth.jwt.secret",
	"REDIS_ADDR":       "redis.addr",
	"DATABASE_DSN":     "database.dsn",
}

// Config is the voicemention service configuration.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `mapstructure:"server"`
	Database      database.Config      `mapstructure:"database"`
	Redis         redis.Config         `mapstructure:"redis"`
	Auth          auth.Config          `mapstructure:"auth"`
	Transcription gladia.Config        `mapstructure:"transcription"`
	LLM           llm.Config           `mapstructure:"llm"`
	Voice         voice.Config         `mapstructure:"voice"`
	Mention       MentionConfig        `mapstructure:"mention"`
	API           APIConfig            `mapstructure:"api"`
	Observability observability.Config `mapstructure:"observability"`
}

type MentionConfig struct {
	// ChoiceTTL is how long an unanswered choice can still be selected.
	ChoiceTTL time.Duration `mapstructure:"choice_ttl" validate:"gte=0"`
}

type APIConfig struct {
	VoicePerMinute int `mapstructure:"voice_per_minute" validate:"gte=0,max=600"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Voice.ApplyDefaults()

	if c.LLM.Dialect == "" {
		c.LLM.Dialect = openai.DialectName
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.Retry == nil {
		c.LLM.Retry = httpclient.DefaultRetryConfig()
	}
	if c.LLM.CircuitBreaker == nil {
		cb := resilience.DefaultCircuitBreakerConfig("llm")
		c.LLM.CircuitBreaker = &cb
	}
	c.LLM.ApplyDefaults()

	if c.Mention.ChoiceTTL == 0 {
		c.Mention.ChoiceTTL = mention.DefaultChoiceTTL
	}
	if c.API.VoicePerMinute == 0 {
		c.API.VoicePerMinute = 20
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if !c.Database.Enabled {
		return fmt.Errorf("database.enabled must be true: users and usage live there")
	}
	checks := []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"auth", c.Auth.Validate},
		{"transcription", c.Transcription.Validate},
		{"llm", c.LLM.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm: api_key is required")
	}
	if err := validation.Validate(c.Mention); err != nil {
		return fmt.Errorf("mention: %w", err)
	}
	if err := validation.Validate(c.API); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
