package llm

import (
	"context"
	"time"
)

// Retrier holds shared retry configuration for generation backends.
type Retrier struct {
	maxRetries int
	retryDelay time.Duration
}

// NewRetrier creates a Retrier with sane defaults for non-positive
// arguments (3 attempts, 1s base delay).
func NewRetrier(maxRetries int, retryDelay time.Duration) Retrier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return Retrier{maxRetries: maxRetries, retryDelay: retryDelay}
}

// Do executes op, retrying with linear backoff while IsRetryable says
// the failure is transient. The first non-retryable error or the last
// attempt's error is returned.
func (r Retrier) Do(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := op(); err == nil {
			return nil
		} else {
			lastErr = err
			if !IsRetryable(err) {
				return err
			}
			if attempt >= r.maxRetries {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryDelay * time.Duration(attempt)):
			}
		}
	}
	return lastErr
}
