// Package retry re-invokes failing operations with exponential backoff
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Policy describe how many times and how far apart an operation is retried
type Policy struct {
	// MaxAttempts counts the first call, 1 means no retry
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Multiplier grows the delay between attempts, 2 doubles it
	Multiplier float64
	// Jitter is the +/- fraction applied to each delay, 0.1 is 10%
	Jitter float64
	// Retryable decides whether err is worth another attempt, nil uses IsRetryable
	Retryable func(err error) bool
	// OnRetry is called before sleeping for the next attempt
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultPolicy is used for idempotent GET calls
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    10 * time.Second,
	Multiplier:  2,
	Jitter:      0.1,
}

// NoRetry runs the operation once
var NoRetry = Policy{MaxAttempts: 1}

// ErrMaxAttempts is wrapped into the error returned once every attempt failed
var ErrMaxAttempts = errors.New("max attempts exceeded")

// Backoff returns the delay to wait before attempt+1, attempt starts from 1
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := time.Duration(float64(p.BaseDelay) * math.Pow(multiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		spread := float64(delay) * p.Jitter
		delay += time.Duration(spread * (2*rand.Float64() - 1))
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRetryable(err)
}

// Do calls fn until it succeeds, returns a non-retryable error, ctx is done or attempts run out
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Do is the value returning form of Policy.Do
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !p.retryable(err) {
			return zero, err
		}
		if attempt == maxAttempts {
			break
		}

		delay := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		} else {
			log.Printf("Retry attempt %d/%d after %v: %v", attempt+1, maxAttempts, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("context done during retry: %w", ctx.Err())
		}
	}

	if maxAttempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("%w (%d): %w", ErrMaxAttempts, maxAttempts, lastErr)
}

// IsRetryable is the default classifier. Errors exposing IsRetryable() decide for themselves,
// otherwise context errors never retry and connection level failures do.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var classified interface{ IsRetryable() bool }
	if errors.As(err, &classified) {
		return classified.IsRetryable()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}
