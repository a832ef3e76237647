package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// TokenValidator validates a token string and returns the parsed claims.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts an ordinary function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// Claims identify the caller of the API. Client names the adapter that
// holds the token, e.g. "telegram-gateway".
type Claims struct {
	gojwt.RegisteredClaims
	Client string `json:"client"`
}

// SetDefaults fills issuer, audience and time claims that are still unset.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}
