package resilience

import (
	"context"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Closed measures happy path execution.
func BenchmarkCircuitBreaker_Closed(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  100,
		ResetTimeout: time.Minute,
	})
	ctx := context.Background()
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cb.Execute(ctx, op)
	}
}

// BenchmarkCircuitBreaker_Concurrent measures parallel execution.
func BenchmarkCircuitBreaker_Concurrent(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1000,
		ResetTimeout: time.Minute,
	})
	ctx := context.Background()
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cb.Execute(ctx, op)
		}
	})
}

// BenchmarkRetry_FirstAttempt measures retry overhead when the fetch
// succeeds immediately.
func BenchmarkRetry_FirstAttempt(b *testing.B) {
	r := NewRetry(RetryConfig{})
	ctx := context.Background()
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Execute(ctx, op)
	}
}

// BenchmarkRateLimiter_Allow measures token bucket checks under a
// limit high enough to never reject.
func BenchmarkRateLimiter_Allow(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:  1e9,
		Burst: 1 << 20,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rl.Allow()
	}
}

// BenchmarkBulkhead_Execute measures slot bookkeeping on an
// uncontended bulkhead.
func BenchmarkBulkhead_Execute(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 64})
	ctx := context.Background()
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bh.Execute(ctx, op)
	}
}

// BenchmarkCompose_FullStack measures a fetch passing through every
// guard except timeout, which spawns a goroutine per call.
func BenchmarkCompose_FullStack(b *testing.B) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: 1e9, Burst: 1 << 20})
	bulkhead := NewBulkhead(BulkheadConfig{MaxConcurrent: 64})
	breaker := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1000})
	retry := NewRetry(RetryConfig{})

	op := Compose(func(ctx context.Context) (any, error) {
		return "ok", nil
	}, limiter.Guard(), bulkhead.Guard(), breaker.Guard(), retry.Guard())

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = op(ctx)
	}
}
