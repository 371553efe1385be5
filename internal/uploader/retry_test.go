package uploader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCoordinator(delays *[]time.Duration) *RetryCoordinator {
	r := NewRetryCoordinator(MaxRetries, 100*time.Millisecond)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return r
}

func TestRetryCoordinator_FirstAttemptSucceeds(t *testing.T) {
	var delays []time.Duration
	r := newTestCoordinator(&delays)

	calls := 0
	retries, err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	require.Equal(t, 0, retries)
	require.Equal(t, 1, calls)
	require.Empty(t, delays)
}

func TestRetryCoordinator_SucceedsAfterFailures(t *testing.T) {
	var delays []time.Duration
	r := newTestCoordinator(&delays)

	calls := 0
	var notified []int
	retries, err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &TransportError{StatusCode: 500}
		}
		return nil
	}, func(n int) {
		notified = append(notified, n)
	})

	require.NoError(t, err)
	require.Equal(t, 2, retries)
	require.Equal(t, 3, calls)
	require.Equal(t, []int{1, 2}, notified)
}

func TestRetryCoordinator_LinearBackoff(t *testing.T) {
	var delays []time.Duration
	r := newTestCoordinator(&delays)

	_, err := r.Do(context.Background(), func(ctx context.Context) error {
		return &NetworkError{Err: errors.New("connection reset")}
	}, nil)

	require.Error(t, err)
	// Delays grow linearly: 1x, 2x the base. No sleep after the last attempt.
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestRetryCoordinator_Exhaustion(t *testing.T) {
	var delays []time.Duration
	r := newTestCoordinator(&delays)

	calls := 0
	lastErr := &TransportError{StatusCode: 503}
	retries, err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return lastErr
	}, nil)

	require.Equal(t, MaxRetries, calls)
	require.Equal(t, MaxRetries-1, retries)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 503, transportErr.StatusCode)
}

func TestRetryCoordinator_NonRetryableStopsImmediately(t *testing.T) {
	var delays []time.Duration
	r := newTestCoordinator(&delays)

	calls := 0
	_, err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &ServerError{Op: "presign", Err: errors.New("boom")}
	}, nil)

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, delays)
}

func TestRetryCoordinator_ContextCancelledDuringBackoff(t *testing.T) {
	r := NewRetryCoordinator(MaxRetries, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := r.Do(ctx, func(ctx context.Context) error {
		calls++
		return &NetworkError{Err: errors.New("down")}
	}, nil)

	// The transfer error, not the context error, surfaces.
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, 1, calls)
}
