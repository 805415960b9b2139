package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout guard.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one fetch attempt.
	// Default: 10 seconds
	Timeout time.Duration
}

// Timeout bounds fetch attempts.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout guard.
func NewTimeout(config TimeoutConfig) *Timeout {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs op under a deadline. A fetch that misses the deadline
// keeps running in its goroutine; its eventual result is discarded.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	type result struct {
		value any
		err   error
	}
	done := make(chan result, 1)

	go func() {
		value, err := op(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

// Guard lifts the timeout into a composable Guard.
func (t *Timeout) Guard() Guard {
	return func(op func(context.Context) (any, error)) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return t.Execute(ctx, op)
		}
	}
}

// WithTimeout wraps op with a per-attempt deadline.
func WithTimeout(timeout time.Duration, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return func(ctx context.Context) (any, error) {
		return t.Execute(ctx, op)
	}
}

// Config returns the effective configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
