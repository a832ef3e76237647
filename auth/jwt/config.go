package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

var hmacMethods = map[SigningMethod]*gojwt.SigningMethodHMAC{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
}

const minSecretLen = 16

// Config configures the token service.
type Config struct {
	// Secret is the HMAC key, at least 16 bytes.
	Secret   string        `mapstructure:"secret"`
	Method   SigningMethod `mapstructure:"method"`
	Issuer   string        `mapstructure:"issuer"`
	Audience []string      `mapstructure:"audience"`
	// AccessTokenTTL defaults to 30 days. Gateway tokens are long-lived and
	// rotated by redeploying.
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 30 * 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if _, ok := hmacMethods[c.Method]; !ok {
		return fmt.Errorf("unsupported signing method %q", c.Method)
	}
	switch {
	case c.Secret == "":
		return fmt.Errorf("secret is required")
	case len(c.Secret) < minSecretLen:
		return fmt.Errorf("secret must be at least %d bytes", minSecretLen)
	}
	return nil
}
