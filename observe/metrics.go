package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/stellarcade/querycache/cache"
)

// StoreMetrics records cache activity on OpenTelemetry instruments.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording must not panic.
type StoreMetrics struct {
	writes        metric.Int64Counter
	invalidations metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

// NewStoreMetrics creates the synchronous store instruments on meter.
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	writes, err := meter.Int64Counter(
		"querycache.writes.total",
		metric.WithDescription("Entries written through Set"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"querycache.invalidations.total",
		metric.WithDescription("Entries marked invalidated"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"querycache.fetch.duration_ms",
		metric.WithDescription("Fetcher round trip duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		writes:        writes,
		invalidations: invalidations,
		fetchDuration: fetchDuration,
	}, nil
}

// RecordWrite counts one cache write in the given namespace.
func (m *StoreMetrics) RecordWrite(ctx context.Context, namespace string) {
	m.writes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordInvalidation counts one invalidation with its reason.
func (m *StoreMetrics) RecordInvalidation(ctx context.Context, namespace, reason string) {
	m.invalidations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.String("reason", reason),
	))
}

// RecordFetch records one fetcher round trip.
func (m *StoreMetrics) RecordFetch(ctx context.Context, namespace string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.fetchDuration.Record(ctx, float64(duration)/float64(time.Millisecond),
		metric.WithAttributes(
			attribute.String("namespace", namespace),
			attribute.String("result", result),
		))
}

// ObserveStats registers asynchronous instruments that report store
// counters on every metrics collection: querycache.reads.total split
// by result, querycache.evictions.total, and the querycache.entries
// gauge. Pass the store's Stats method as the source:
//
//	reg, err := observe.ObserveStats(obs.Meter(), store.Stats)
//
// The returned registration unregisters the callback when closed.
func ObserveStats(meter metric.Meter, stats func() cache.Stats) (metric.Registration, error) {
	reads, err := meter.Int64ObservableCounter(
		"querycache.reads.total",
		metric.WithDescription("Cache reads, split by hit or miss"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64ObservableCounter(
		"querycache.evictions.total",
		metric.WithDescription("Entries evicted by the size bound"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64ObservableGauge(
		"querycache.entries",
		metric.WithDescription("Entries currently stored"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(reads, s.Hits, metric.WithAttributes(attribute.String("result", "hit")))
		o.ObserveInt64(reads, s.Misses, metric.WithAttributes(attribute.String("result", "miss")))
		o.ObserveInt64(evictions, s.Evictions)
		o.ObserveInt64(entries, int64(s.Size))
		return nil
	}, reads, evictions, entries)
}
