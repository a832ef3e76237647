package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBulkheadFull is returned when no slot frees up within MaxWait.
var ErrBulkheadFull = errors.New("bulkhead is full")

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	Name string
	// MaxConcurrent defaults to 10.
	MaxConcurrent int
	// MaxWait is how long to queue for a slot. Zero fails immediately.
	MaxWait  time.Duration
	OnReject func(name string)
}

// Bulkhead caps how many calls run at once.
type Bulkhead struct {
	cfg   BulkheadConfig
	slots *semaphore.Weighted
	inUse atomic.Int64
}

func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	cfg.MaxConcurrent = positiveOr(cfg.MaxConcurrent, 10)
	return &Bulkhead{cfg: cfg, slots: semaphore.NewWeighted(int64(cfg.MaxConcurrent))}
}

// Execute runs fn in a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.cfg.OnReject != nil {
			b.cfg.OnReject(b.cfg.Name)
		}
		return err
	}
	b.inUse.Add(1)
	defer func() {
		b.inUse.Add(-1)
		b.slots.Release(1)
	}()
	return fn()
}

// acquire returns ctx.Err() only when the caller's ctx ended; running out
// of MaxWait is ErrBulkheadFull.
func (b *Bulkhead) acquire(ctx context.Context) error {
	if b.slots.TryAcquire(1) {
		return nil
	}
	if b.cfg.MaxWait <= 0 {
		return ErrBulkheadFull
	}
	waitCtx, cancel := context.WithTimeout(ctx, b.cfg.MaxWait)
	defer cancel()
	if err := b.slots.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrBulkheadFull
	}
	return nil
}

func (b *Bulkhead) InUse() int {
	return int(b.inUse.Load())
}
