package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/stellarcade/querycache/errs"
)

// BackoffStrategy defines how delays grow between attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear grows the delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for every retry.
	BackoffConstant
)

// RetryConfig configures the retry guard.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 200ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	// Default: 10s
	MaxDelay time.Duration

	// Multiplier scales the delay under BackoffExponential.
	// Default: 2.0
	Multiplier float64

	// Strategy selects the backoff curve.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds up to 25% random variance to each delay.
	Jitter bool

	// RetryIf decides whether an error is worth another attempt.
	// Default: Retryable
	RetryIf func(err error) bool

	// OnRetry runs before each wait, with the attempt number, the
	// error, and the chosen delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-runs failed fetches with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry guard.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 200 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 10 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = Retryable
	}

	return &Retry{config: config}
}

// Retryable reports whether err is worth another attempt. Network
// failures, timeouts, and unclassified errors are retryable.
// Validation and precondition failures are not, nor are context
// cancellation and local guard rejections.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrCircuitOpen),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrBulkheadFull):
		return false
	case errors.Is(err, ErrTimeout):
		return true
	}

	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindPrecondition:
		return false
	}
	return true
}

// Execute runs op, retrying failures according to the config. The
// value of the first successful attempt is returned; once attempts
// are exhausted the last error is.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) (any, error)) (any, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}

		lastErr = err

		if !r.config.RetryIf(err) {
			return nil, err
		}

		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

func (r *Retry) delay(attempt int) time.Duration {
	var delay time.Duration

	switch r.config.Strategy {
	case BackoffConstant:
		delay = r.config.InitialDelay

	case BackoffLinear:
		delay = r.config.InitialDelay * time.Duration(attempt)

	case BackoffExponential:
		multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
		delay = time.Duration(float64(r.config.InitialDelay) * multiplier)
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter {
		if quarter := int64(delay / 4); quarter > 0 {
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			delay += time.Duration(rand.Int64N(quarter))
		}
	}

	return delay
}

// Guard lifts the retry into a composable Guard.
func (r *Retry) Guard() Guard {
	return func(op func(context.Context) (any, error)) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return r.Execute(ctx, op)
		}
	}
}

// WithRetry wraps op so failed attempts are retried.
func WithRetry(config RetryConfig, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	r := NewRetry(config)
	return func(ctx context.Context) (any, error) {
		return r.Execute(ctx, op)
	}
}

// Config returns the effective configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
