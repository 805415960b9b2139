// Package cache implements the read-through query cache at the center
// of the StellarCade data layer.
//
// A Store maps canonical query keys to entries carrying data plus
// staleness metadata. Staleness is advisory: entries are never deleted
// by the passage of time, and invalidation marks data suspect without
// discarding it, so readers always keep a last-known-good value until
// an explicit remove or a successful refresh.
//
// # Read-through
//
// Callers register one fetcher per key and read via GetOrFetch. A
// fresh entry is returned without suspension; a missing or stale entry
// triggers the fetcher, with concurrent callers for the same key
// sharing a single flight. A successful fetch writes through Set; a
// failed fetch returns a structured error and never corrupts or
// erases previously cached data.
//
// # Invalidation
//
// Invalidate and InvalidatePrefix stamp entries as invalidated,
// optionally carrying the event that caused it. When the entry's
// policy asks for it, invalidation schedules a detached background
// refetch whose outcome is observable only through later reads and
// subscription notifications.
//
// # Usage
//
//	store := cache.New(cache.Config{MaxEntries: 512})
//
//	key := query.BalanceAccount(addr)
//	store.RegisterFetcher(key, func(ctx context.Context) (any, error) {
//	    return horizon.LoadBalance(ctx, addr)
//	})
//
//	balance, err := store.GetOrFetch(ctx, key)
package cache
