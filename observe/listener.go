package observe

import (
	"context"

	"github.com/stellarcade/querycache/cache"
	"github.com/stellarcade/querycache/query"
)

// Listener builds a store subscriber that logs entry changes and
// counts writes and invalidations. Subscribe it like any other
// subscriber:
//
//	fn, err := observe.Listener(obs)
//	unsubscribe := store.Subscribe(fn)
//
// The store stays decoupled from telemetry; dropping the subscription
// removes all instrumentation.
func Listener(obs Observer) (cache.SubscriberFunc, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewStoreMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	logger := obs.Logger()

	return func(key query.Key, entry *cache.Entry) {
		// Subscribers run outside request scope.
		ctx := context.Background()
		meta := MetaFromKey(key)
		queryLogger := logger.WithQuery(meta)

		switch {
		case entry == nil:
			queryLogger.Debug(ctx, "entry removed")

		case entry.Invalidation != nil:
			reason := string(entry.Invalidation.Reason)
			metrics.RecordInvalidation(ctx, meta.Namespace, reason)

			fields := []Field{{Key: "reason", Value: reason}}
			if entry.Invalidation.Tx != nil && entry.Invalidation.Tx.TxHash != "" {
				fields = append(fields, Field{Key: "tx_hash", Value: entry.Invalidation.Tx.TxHash})
			}
			queryLogger.Info(ctx, "entry invalidated", fields...)

		default:
			metrics.RecordWrite(ctx, meta.Namespace)
			queryLogger.Debug(ctx, "entry updated")
		}
	}, nil
}
