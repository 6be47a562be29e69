package connection

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is returned when every attempt failed.
var ErrAttemptsExhausted = errors.New("connect attempts exhausted")

// ConnectFunc makes one connection attempt.
type ConnectFunc func(ctx context.Context) error

// RetryFunc observes a failed attempt before the wait for the next one.
type RetryFunc func(attempt int, delay time.Duration, err error)

// Policy bounds the startup connect.
type Policy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int

	Backoff BackoffConfig

	// OnRetry, if set, is called after each failed attempt that will be
	// retried.
	OnRetry RetryFunc
}

// DefaultPolicy tries five times with the default backoff.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 5,
		Backoff:  BackoffConfig{Jitter: JitterFactor},
	}
}

// Connect calls fn until it succeeds, the attempts run out or ctx is done.
// The final error wraps both ErrAttemptsExhausted and the last failure.
func Connect(ctx context.Context, policy Policy, fn ConnectFunc) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := NewBackoffWithConfig(policy.Backoff)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		delay := backoff.Next()
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, delay, lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d tries: %w", ErrAttemptsExhausted, attempts, lastErr)
}
