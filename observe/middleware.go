package observe

import (
	"context"
	"time"

	"github.com/stellarcade/querycache/query"
)

// Middleware wraps cache fetchers with observability (tracing,
// metrics, logging).
//
// Contract:
//   - Concurrency: WrapFetcher returns a thread-safe operation.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped fetcher are recorded and
//     propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics *StoreMetrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given components.
func NewMiddleware(tracer Tracer, metrics *StoreMetrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// WrapFetcher wraps fn with a span, a fetch duration measurement, and
// a log line per call. The result keeps the fetcher signature.
func (m *Middleware) WrapFetcher(key query.Key, fn func(context.Context) (any, error)) func(context.Context) (any, error) {
	meta := MetaFromKey(key)
	meta.Operation = "fetch"

	return func(ctx context.Context) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, err := fn(ctx)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordFetch(ctx, meta.Namespace, duration, err)

		queryLogger := m.logger.WithQuery(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration) / float64(time.Millisecond)},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			queryLogger.Error(ctx, "fetch failed", fields...)
		} else {
			queryLogger.Debug(ctx, "fetch completed", fields...)
		}

		return value, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewStoreMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// InstrumentFetcher wraps fn for one key using obs. This is the
// convenience path for instrumenting a fetcher at registration:
//
//	fetch, err := observe.InstrumentFetcher(obs, key, fetchBalance)
//	store.RegisterFetcher(key, fetch)
func InstrumentFetcher(obs Observer, key query.Key, fn func(context.Context) (any, error)) (func(context.Context) (any, error), error) {
	m, err := MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}
	return m.WrapFetcher(key, fn), nil
}
