package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of in-flight fetches.
	// Default: 8
	MaxConcurrent int

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Bulkhead caps concurrent fetches.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 8
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire claims a slot. It returns ErrBulkheadFull when none is
// available within MaxWait.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		b.mu.Lock()
		b.active++
		if b.active > b.maxActive {
			b.maxActive = b.active
		}
		b.mu.Unlock()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.mu.Lock()
		b.rejected++
		b.mu.Unlock()
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		b.mu.Lock()
		b.active++
		if b.active > b.maxActive {
			b.maxActive = b.active
		}
		b.mu.Unlock()
		return nil
	case <-timer.C:
		b.mu.Lock()
		b.rejected++
		b.mu.Unlock()
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire is ignored.
	}
}

// Execute runs op inside the bulkhead.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) (any, error)) (any, error) {
	if err := b.Acquire(ctx); err != nil {
		return nil, err
	}
	defer b.Release()

	return op(ctx)
}

// Guard lifts the bulkhead into a composable Guard.
func (b *Bulkhead) Guard() Guard {
	return func(op func(context.Context) (any, error)) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return b.Execute(ctx, op)
		}
	}
}

// WithBulkhead wraps op with a concurrency cap shared across every
// call of the returned operation.
func WithBulkhead(config BulkheadConfig, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	b := NewBulkhead(config)
	return func(ctx context.Context) (any, error) {
		return b.Execute(ctx, op)
	}
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}
