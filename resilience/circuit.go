package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means fetches flow normally.
	StateClosed State = iota
	// StateOpen means the breaker is refusing all fetches.
	StateOpen
	// StateHalfOpen means the breaker is probing whether the endpoint
	// recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of failures before the circuit opens.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxRequests is the max fetches allowed while half-open.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure decides whether an error counts against the failure
	// threshold.
	// Default: Retryable
	IsFailure func(err error) bool
}

// CircuitBreaker stops calling an endpoint that keeps failing.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	lastFailure   time.Time
	halfOpenCount int
}

// NewCircuitBreaker creates a circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = Retryable
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs op through the circuit breaker. While the circuit is
// open, op is not called and ErrCircuitOpen is returned.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) (any, error)) (any, error) {
	if err := cb.beforeFetch(); err != nil {
		return nil, err
	}

	value, err := op(ctx)
	cb.afterFetch(err)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset returns the circuit to closed and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCount = 0

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeFetch() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentStateLocked()

	switch state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}

	return nil
}

func (cb *CircuitBreaker) afterFetch(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.MaxFailures {
				cb.setState(StateOpen)
			}
		} else {
			// A success clears the failure streak.
			cb.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// Probe failed; the open timeout starts over.
			cb.lastFailure = time.Now()
			cb.setState(StateOpen)
		} else {
			cb.successes++
			cb.setState(StateClosed)
			cb.failures = 0
			cb.successes = 0
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(state State) {
	cb.state = state
	if state == StateHalfOpen {
		cb.halfOpenCount = 0
	}
}

// Guard lifts the breaker into a composable Guard.
func (cb *CircuitBreaker) Guard() Guard {
	return func(op func(context.Context) (any, error)) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return cb.Execute(ctx, op)
		}
	}
}

// WithBreaker wraps op with a circuit breaker. The breaker's state is
// shared across every call of the returned operation.
func WithBreaker(config CircuitBreakerConfig, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	cb := NewCircuitBreaker(config)
	return func(ctx context.Context) (any, error) {
		return cb.Execute(ctx, op)
	}
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Successes   int
	LastFailure time.Time
}
