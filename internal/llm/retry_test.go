package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	r := NewRetrier(3, time.Millisecond)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("503 service unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetrier_StopsOnNonRetryable(t *testing.T) {
	r := NewRetrier(5, time.Millisecond)

	authErr := NewProviderError("openai", "gpt-4o-mini", errors.New("bad key")).WithStatus(401)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return authErr
	})
	if !errors.Is(err, authErr) {
		t.Fatalf("Do() = %v, want the auth error", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestRetrier_ExhaustsAttempts(t *testing.T) {
	r := NewRetrier(3, time.Millisecond)

	transient := errors.New("rate limit exceeded")
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("Do() = %v, want last error", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetrier_HonorsContextCancellation(t *testing.T) {
	r := NewRetrier(10, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := r.Do(ctx, func() error {
		calls++
		return errors.New("timeout")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() = %v, want context.Canceled", err)
	}
	if calls == 0 {
		t.Error("op should run at least once before cancellation")
	}
}
