// Package jwt issues and verifies HMAC-signed tokens for a caller-defined
// claims type.
//
//	svc, err := jwt.NewService(cfg, func() *auth.Claims { return &auth.Claims{} })
//	token, err := svc.GenerateAccess(&auth.Claims{Client: "telegram-gateway"})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Defaulter is implemented by claims that fill in their own registered
// fields before signing.
type Defaulter interface {
	SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string)
}

// Service signs and parses tokens with claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	method   *gojwt.SigningMethodHMAC
	key      []byte
	newEmpty func() T
	now      func() time.Time
}

// NewService validates cfg. newEmpty returns a fresh T to parse into.
func NewService[T gojwt.Claims](cfg Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{
		cfg:      cfg,
		method:   hmacMethods[cfg.Method],
		key:      []byte(cfg.Secret),
		newEmpty: newEmpty,
		now:      time.Now,
	}, nil
}

// Generate signs claims as given.
func (s *Service[T]) Generate(claims T) (string, error) {
	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccess stamps issuer, audience and expiry on claims that
// implement Defaulter, then signs them.
func (s *Service[T]) GenerateAccess(claims T) (string, error) {
	if d, ok := any(claims).(Defaulter); ok {
		d.SetDefaults(s.now(), s.cfg.AccessTokenTTL, s.cfg.Issuer, s.cfg.Audience)
	}
	return s.Generate(claims)
}

// Parse checks the signature, expiry, and the configured issuer and
// audience.
func (s *Service[T]) Parse(token string) (T, error) {
	var zero T
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}

	parsed, err := gojwt.ParseWithClaims(token, s.newEmpty(), func(*gojwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	claims, ok := parsed.Claims.(T)
	if !ok || !parsed.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	return claims, nil
}

// ValidatorFunc adapts Parse to auth.TokenValidatorFunc.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) { return s.Parse(token) }
}

func IsExpired(err error) bool {
	return errors.Is(err, gojwt.ErrTokenExpired)
}
