// Package resilience provides retry with exponential backoff for collaborator
// calls that may fail transiently.
package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for retry logic.
type RetryConfig struct {
	MaxAttempts    int           // Maximum number of attempts, including the first
	InitialBackoff time.Duration // Backoff before the second attempt
	MaxBackoff     time.Duration // Backoff ceiling
	Multiplier     float64       // Exponential growth factor
	Jitter         bool          // Randomize each backoff up to its full value
}

// DefaultRetryConfig returns a default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
		Jitter:         true,
	}
}

// Retry runs fn until it succeeds, the attempts are exhausted, or the context
// is cancelled. When isRetryable is non-nil, a non-retryable error aborts
// immediately. The last error is returned.
func Retry(ctx context.Context, fn func() error, cfg *RetryConfig, isRetryable func(error) bool) error {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if isRetryable != nil && !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		sleep := backoff
		if cfg.Jitter {
			sleep = time.Duration(rand.Int63n(int64(backoff)) + 1)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}
