package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/resilience"
)

// RateLimitConfig configures per-key token buckets.
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests per key.
	PerMinute int
	// Burst is the bucket size (default: PerMinute).
	Burst int
	// KeyFunc picks the bucket. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// IdleTTL drops buckets unused for this long (default: 10m).
	IdleTTL time.Duration
}

// RateLimit answers 429 once a key's bucket is empty.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 60
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerMinute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	b := &buckets{cfg: cfg, entries: make(map[string]*bucket)}

	return func(c *gin.Context) {
		if !b.get(cfg.KeyFunc(c)).Allow() {
			abort(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}

type bucket struct {
	*resilience.RateLimiter
	lastUsed time.Time
}

type buckets struct {
	cfg       RateLimitConfig
	mu        sync.Mutex
	entries   map[string]*bucket
	lastSweep time.Time
}

func (b *buckets) get(key string) *resilience.RateLimiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.Sub(b.lastSweep) > b.cfg.IdleTTL {
		for k, e := range b.entries {
			if now.Sub(e.lastUsed) > b.cfg.IdleTTL {
				delete(b.entries, k)
			}
		}
		b.lastSweep = now
	}

	e, ok := b.entries[key]
	if !ok {
		e = &bucket{RateLimiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  key,
			Rate:  float64(b.cfg.PerMinute) / 60,
			Burst: b.cfg.Burst,
		})}
		b.entries[key] = e
	}
	e.lastUsed = now
	return e.RateLimiter
}
