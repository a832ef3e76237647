package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	Name string
	// Rate is tokens added per second.
	Rate float64
	// Burst is the bucket size. It defaults to Rate, and at least 1.
	Burst   int
	OnLimit func(name string)
}

// RateLimiter is a token bucket that starts full.
type RateLimiter struct {
	cfg RateLimiterConfig
	lim *rate.Limiter
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.Rate), 1)
	}
	return &RateLimiter{cfg: cfg, lim: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
}

// Allow takes one token without blocking.
func (rl *RateLimiter) Allow() bool {
	if rl.lim.Allow() {
		return true
	}
	if rl.cfg.OnLimit != nil {
		rl.cfg.OnLimit(rl.cfg.Name)
	}
	return false
}

// Wait blocks until a token is available. When ctx ends first the token
// is handed back and ctx.Err() returned.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.lim.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
