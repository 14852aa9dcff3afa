package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Backoff retries rate-limited failures with exponentially doubling delays.
// Every other failure is returned immediately.
type Backoff struct {
	// Retries is the number of additional attempts after the first failure.
	Retries int
	// Base is the delay before the first retry.
	Base  time.Duration
	Sleep SleepFunc
}

// MaxBackoffDelay caps the doubling so large retry budgets never overflow.
const MaxBackoffDelay = 5 * time.Minute

// Delay returns the wait before retry attempt n (1-based): Base * 2^(n-1),
// saturating at MaxBackoffDelay (or Base, if that is larger).
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 1; i < attempt && d < MaxBackoffDelay; i++ {
		d *= 2
	}
	return min(d, max(b.Base, MaxBackoffDelay))
}

// retry calls fn until it succeeds, fails with a non rate-limited error,
// or the retry budget is spent.
func retry[T any](ctx context.Context, b Backoff, logger *slog.Logger, fn func(context.Context) (T, error)) (T, error) {
	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	out, err := fn(ctx)
	for attempt := 1; err != nil && IsRateLimited(err) && attempt <= b.Retries; attempt++ {
		delay := b.Delay(attempt)
		logger.Warn("retrying after rate limit",
			"attempt", attempt,
			"max_retries", b.Retries,
			"delay", delay,
			"error", err,
		)
		if serr := sleep(ctx, delay); serr != nil {
			var zero T
			return zero, fmt.Errorf("retry cancelled: %w", serr)
		}
		out, err = fn(ctx)
	}
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
