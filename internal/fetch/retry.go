package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultAttempts  = 5
	defaultBaseDelay = 2 * time.Second
	defaultMaxDelay  = 2 * time.Minute
)

// Policy controls Retry.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay is the wait after the first failure; it doubles per attempt.
	BaseDelay time.Duration
	// MaxDelay caps a single wait.
	MaxDelay time.Duration
	// Retryable filters which errors are retried. Nil retries every error.
	Retryable func(error) bool
	// Sleep overrides how waits are performed (useful for tests).
	Sleep func(context.Context, time.Duration) error
}

// DefaultPolicy returns five attempts starting at a two second backoff.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  defaultAttempts,
		BaseDelay: defaultBaseDelay,
		MaxDelay:  defaultMaxDelay,
	}
}

// Retry runs op until it succeeds, the attempts run out, op returns a
// non-retryable error, or ctx is done.
func Retry[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}
		if err := policy.sleep(ctx, policy.backoff(attempt)); err != nil {
			return zero, err
		}
	}
	if attempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// backoff returns the wait before attempt+1: base, base*2, base*4, ...
func (p Policy) backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		return 0
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			return maxDelay
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (p Policy) sleep(ctx context.Context, delay time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, delay)
	}
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
