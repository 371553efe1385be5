package uploader

import (
	"context"
	"time"
)

const (
	// MaxRetries is the total attempt budget: the original attempt plus up
	// to two retries.
	MaxRetries = 3

	// RetryDelay is the base backoff unit between attempts.
	RetryDelay = time.Second
)

// RetryCoordinator wraps a single transfer in a bounded retry loop. The
// backoff is linear: the wait after attempt n is base * (n + 1), so delays
// run 1x, 2x, 3x the base unit.
type RetryCoordinator struct {
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewRetryCoordinator(maxRetries int, baseDelay time.Duration) *RetryCoordinator {
	if maxRetries <= 0 {
		maxRetries = MaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = RetryDelay
	}
	return &RetryCoordinator{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepCtx,
	}
}

// Do runs attempt until it succeeds, the budget is exhausted, or a
// non-retryable error occurs. onRetry(n) fires before the n-th retry starts
// waiting. Returns the number of retries consumed and the error from the
// final attempt, if any.
func (r *RetryCoordinator) Do(ctx context.Context, attempt func(ctx context.Context) error, onRetry func(n int)) (int, error) {
	var err error
	for i := 0; i < r.maxRetries; i++ {
		err = attempt(ctx)
		if err == nil {
			return i, nil
		}
		if !retryable(err) || i == r.maxRetries-1 {
			return i, err
		}
		if onRetry != nil {
			onRetry(i + 1)
		}
		if sleepErr := r.sleep(ctx, r.baseDelay*time.Duration(i+1)); sleepErr != nil {
			return i, err
		}
	}
	return r.maxRetries - 1, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
