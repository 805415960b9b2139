package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of fetches allowed per second.
	// Default: 20
	Rate float64

	// Burst is the maximum burst size.
	// Default: 10
	Burst int

	// WaitOnLimit waits for a token instead of returning an error.
	// Default: false
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter is a token bucket keeping fetch rates inside an
// endpoint's quota.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	tokens      float64
	lastRefresh time.Time
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 20
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:      config,
		tokens:      float64(config.Burst),
		lastRefresh: time.Now(),
	}
}

// Allow reports whether one fetch is allowed right now.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN reports whether n fetches are allowed right now.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}

	return false
}

// Wait blocks until a token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are available, up to MaxWait.
func (rl *RateLimiter) WaitN(ctx context.Context, n int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if rl.AllowN(n) {
		return nil
	}

	rl.mu.Lock()
	tokensNeeded := float64(n) - rl.tokens
	waitTime := time.Duration(tokensNeeded / rl.config.Rate * float64(time.Second))
	rl.mu.Unlock()

	if waitTime > rl.config.MaxWait {
		waitTime = rl.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(waitTime):
		if rl.AllowN(n) {
			return nil
		}
		return ErrRateLimited
	}
}

// Execute runs op if the rate limit allows it. With WaitOnLimit set,
// the call blocks for a token instead of failing fast.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) (any, error)) (any, error) {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return nil, err
		}
	} else if !rl.Allow() {
		return nil, ErrRateLimited
	}

	return op(ctx)
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefresh)
	rl.lastRefresh = now

	rl.tokens += elapsed.Seconds() * rl.config.Rate

	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to full capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Burst)
	rl.lastRefresh = time.Now()
}

// Guard lifts the limiter into a composable Guard.
func (rl *RateLimiter) Guard() Guard {
	return func(op func(context.Context) (any, error)) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return rl.Execute(ctx, op)
		}
	}
}

// WithRateLimit wraps op with a token bucket shared across every call
// of the returned operation.
func WithRateLimit(config RateLimiterConfig, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	rl := NewRateLimiter(config)
	return func(ctx context.Context) (any, error) {
		return rl.Execute(ctx, op)
	}
}
