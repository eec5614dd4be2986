package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func recordingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetryReturnsFirstSuccess(t *testing.T) {
	var delays []time.Duration
	calls := 0
	policy := Policy{Attempts: 5, BaseDelay: time.Second, Sleep: recordingSleep(&delays)}
	got, err := Retry(context.Background(), policy, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Fatalf("got %q after %d calls", got, calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("unexpected delays %v", delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay %d = %s, want %s", i, delays[i], want[i])
		}
	}
}

func TestRetryPropagatesLastFailure(t *testing.T) {
	var delays []time.Duration
	calls := 0
	last := errors.New("attempt 5")
	policy := Policy{Attempts: 5, BaseDelay: 2 * time.Second, Sleep: recordingSleep(&delays)}
	_, err := Retry(context.Background(), policy, func(context.Context) (int, error) {
		calls++
		if calls == 5 {
			return 0, last
		}
		return 0, errors.New("earlier")
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected 5 calls, got %d", calls)
	}
	if len(delays) != 4 || delays[3] != 16*time.Second {
		t.Fatalf("unexpected delays %v", delays)
	}
}

func TestRetrySkipsNonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	policy := Policy{
		Attempts:  5,
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
		Sleep:     func(context.Context, time.Duration) error { return nil },
	}
	_, err := Retry(context.Background(), policy, func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected single call with permanent error, got %d calls: %v", calls, err)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{Attempts: 5, Sleep: func(context.Context, time.Duration) error { return nil }}
	_, err := Retry(ctx, policy, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected to stop after cancel, calls=%d err=%v", calls, err)
	}
}

func TestBackoffCaps(t *testing.T) {
	policy := Policy{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	if got := policy.backoff(1); got != time.Second {
		t.Fatalf("backoff(1) = %s", got)
	}
	if got := policy.backoff(3); got != 4*time.Second {
		t.Fatalf("backoff(3) = %s", got)
	}
	if got := policy.backoff(10); got != 5*time.Second {
		t.Fatalf("backoff(10) = %s", got)
	}
}
