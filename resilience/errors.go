package resilience

import "errors"

// Sentinel errors for guarded fetches.
var (
	// ErrCircuitOpen is returned while the circuit breaker refuses calls.
	ErrCircuitOpen = errors.New("resilience: circuit open")

	// ErrRateLimited is returned when the token bucket is empty.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when concurrency is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when a fetch attempt exceeds its deadline.
	ErrTimeout = errors.New("resilience: fetch timed out")
)
