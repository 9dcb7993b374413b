package shopify

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryOptions tunes the exponential-backoff retry loop around Admin API
// calls.
type RetryOptions struct {
	// MaxRetries is the number of attempts after the first. Zero disables
	// retries entirely.
	MaxRetries int
	// BaseDelay is the first backoff interval.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
	// JitterFactor (0..1) randomizes each delay by ±factor to avoid
	// synchronized retry storms.
	JitterFactor float64
}

// DefaultRetryOptions matches the Admin API guidance: up to three retries,
// half-second base, five-second cap, 20% jitter.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		JitterFactor: 0.2,
	}
}

// Delay computes the backoff before retry number attempt (zero-based):
// base*2^attempt, capped at MaxDelay, with symmetric jitter applied.
func (o RetryOptions) Delay(attempt int) time.Duration {
	d := float64(o.BaseDelay) * math.Pow(2, float64(attempt))
	if capped := float64(o.MaxDelay); d > capped {
		d = capped
	}
	d += d * o.JitterFactor * (2*rand.Float64() - 1)
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// WithRetry runs fn until it succeeds, fails terminally, or exhausts the
// retry budget. Only errors classified retryable by IsRetryable are
// attempted again; backoff sleeps respect ctx cancellation.
func WithRetry(ctx context.Context, opts RetryOptions, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt >= opts.MaxRetries || !IsRetryable(lastErr) {
			return lastErr
		}

		timer := time.NewTimer(opts.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
