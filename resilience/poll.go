package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrPollTimeout is returned by Poll when MaxWait elapses before the polled
// operation reaches a terminal state.
var ErrPollTimeout = errors.New("poll: maximum wait exceeded")

// DefaultPollInterval is the fixed delay between two status checks.
const DefaultPollInterval = time.Second

// PollConfig configures Poll.
type PollConfig struct {
	// Interval is the fixed delay between attempts. There is no backoff.
	Interval time.Duration
	// MaxWait bounds the whole loop. Zero means unbounded: only ctx can stop it.
	MaxWait time.Duration
	// OnPending is called after every non-terminal attempt.
	OnPending func(attempt int)
}

// PollFunc performs one status check. It reports done=true once the remote
// operation is terminal; a non-nil error stops the loop immediately.
type PollFunc[T any] func(ctx context.Context) (result T, done bool, err error)

// Poll calls fn until it reports done, returns an error, ctx ends or MaxWait
// elapses. Attempts are strictly sequential and the wait between them is a
// context-aware timer.
//
// When the caller's own ctx ends, ctx.Err() is returned unchanged. When
// MaxWait elapses, the error wraps ErrPollTimeout.
func Poll[T any](ctx context.Context, cfg PollConfig, fn PollFunc[T]) (T, error) {
	var zero T
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}

	pollCtx := ctx
	if cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeoutCause(ctx, cfg.MaxWait, ErrPollTimeout)
		defer cancel()
	}

	timer := time.NewTimer(cfg.Interval)
	timer.Stop()
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		if err := pollCtx.Err(); err != nil {
			return zero, pollErr(ctx, pollCtx)
		}

		result, done, err := fn(pollCtx)
		if err != nil {
			if pollCtx.Err() != nil && ctx.Err() == nil {
				return zero, pollErr(ctx, pollCtx)
			}
			return zero, err
		}
		if done {
			return result, nil
		}
		if cfg.OnPending != nil {
			cfg.OnPending(attempt)
		}

		timer.Reset(cfg.Interval)
		select {
		case <-pollCtx.Done():
			return zero, pollErr(ctx, pollCtx)
		case <-timer.C:
		}
	}
}

// pollErr distinguishes the caller cancelling from the MaxWait bound firing.
func pollErr(parent, pollCtx context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if cause := context.Cause(pollCtx); errors.Is(cause, ErrPollTimeout) {
		return ErrPollTimeout
	}
	return pollCtx.Err()
}
