// Package resilience guards cache fetchers against unreliable upstreams.
//
// A fetcher is a value-returning operation, func(ctx) (any, error),
// usually backed by a Soroban RPC node, Horizon, or an indexer. Remote
// endpoints stall, fail in bursts, and throttle; the guards here wrap
// a fetcher so those failure modes surface as prompt, typed errors
// instead of hung or hammering reads.
//
// # Guards
//
// The package provides the following guards:
//
//   - Retry: re-runs a failed fetch with configurable backoff
//     (exponential, linear, constant). The default predicate retries
//     network failures and leaves validation and precondition errors
//     alone.
//
//   - Timeout: bounds a single fetch attempt.
//
//   - CircuitBreaker: stops calling an endpoint that keeps failing and
//     probes it again after a cooldown.
//
//   - RateLimiter: token bucket that keeps request rates inside an
//     endpoint's quota.
//
//   - Bulkhead: caps concurrent fetches so one hot key cannot exhaust
//     the connection pool.
//
// # Usage
//
// The With helpers wrap an operation directly:
//
//	fetch := resilience.WithRetry(resilience.RetryConfig{MaxAttempts: 3},
//	    resilience.WithTimeout(5*time.Second, fetchBalance))
//
// When several guards apply, or when breaker and limiter state must be
// shared or inspected, build the guards and compose them:
//
//	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{MaxFailures: 5})
//	retry := resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3})
//
//	guarded := resilience.Compose(fetchBalance,
//	    breaker.Guard(),
//	    retry.Guard(),
//	)
//
// The guarded operation keeps the fetcher signature, so it registers
// with a cache store unchanged:
//
//	store.RegisterFetcher(key, guarded)
package resilience
