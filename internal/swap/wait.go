package swap

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// WaitPolicy paces candidate evaluation against the platform's request budget
type WaitPolicy interface {
	Wait(ctx context.Context) error
}

// NoWait never blocks
type NoWait struct{}

func (NoWait) Wait(ctx context.Context) error {
	return ctx.Err()
}

// FixedDelay sleeps for the given duration on every call
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RateLimitWait allows one candidate per interval. Unlike FixedDelay it
// credits time already spent fetching stats.
type RateLimitWait struct {
	limiter *rate.Limiter
}

// Candidate pacing modes
const (
	PacingFixed = "fixed"
	PacingRate  = "rate"
)

// NewWaitPolicy picks the per-candidate wait. Fixed pacing sleeps the full
// interval after every evaluated candidate; rate pacing only waits out what
// is left of the interval.
func NewWaitPolicy(pacing string, interval time.Duration) WaitPolicy {
	if interval <= 0 {
		return NoWait{}
	}
	if pacing == PacingRate {
		return NewRateLimitWait(interval)
	}
	return FixedDelay(interval)
}

// NewRateLimitWait returns NoWait for a non-positive interval
func NewRateLimitWait(interval time.Duration) WaitPolicy {
	if interval <= 0 {
		return NoWait{}
	}
	return &RateLimitWait{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (w *RateLimitWait) Wait(ctx context.Context) error {
	return w.limiter.Wait(ctx)
}
