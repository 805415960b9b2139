package resilience

import "context"

// Guard wraps one fetch operation in another. The Guard methods on
// Retry, Timeout, CircuitBreaker, RateLimiter, and Bulkhead all
// produce compatible wrappers.
type Guard func(op func(context.Context) (any, error)) func(context.Context) (any, error)

// Compose applies guards to op with the first guard outermost. The
// conventional order puts admission control outside failure handling:
//
//	guarded := resilience.Compose(fetch,
//	    limiter.Guard(),  // shed excess load first
//	    bulkhead.Guard(), // then cap concurrency
//	    breaker.Guard(),  // skip an endpoint that keeps failing
//	    retry.Guard(),    // re-run attempts that may recover
//	    timeout.Guard(),  // bound each attempt
//	)
//
// The result keeps the fetcher signature and registers with a cache
// store unchanged.
func Compose(op func(context.Context) (any, error), guards ...Guard) func(context.Context) (any, error) {
	for i := len(guards) - 1; i >= 0; i-- {
		op = guards[i](op)
	}
	return op
}
