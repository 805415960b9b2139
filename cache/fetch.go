package cache

import (
	"context"

	"github.com/stellarcade/querycache/errs"
	"github.com/stellarcade/querycache/query"
)

// Fetcher produces the current value for exactly one key. The store
// may invoke a fetcher repeatedly (refetch, lost races), so fetchers
// must be idempotent. Timeout and retry policy belong to the fetcher;
// the store imposes none.
type Fetcher func(ctx context.Context) (any, error)

// RegisterFetcher binds fetcher to key, replacing any previous
// binding. Nil fetchers and zero keys are ignored.
func (s *Store) RegisterFetcher(key query.Key, fetcher Fetcher) {
	if key.IsZero() || fetcher == nil {
		return
	}
	s.mu.Lock()
	s.fetchers[key.Encode()] = fetcher
	s.mu.Unlock()
}

// UnregisterFetcher removes the binding for key, if any.
func (s *Store) UnregisterFetcher(key query.Key) {
	if key.IsZero() {
		return
	}
	s.mu.Lock()
	delete(s.fetchers, key.Encode())
	s.mu.Unlock()
}

// GetOrFetch returns the data for key, reading through to the
// registered fetcher when the entry is missing or stale. A fresh entry
// returns without suspension. Concurrent read-throughs for the same
// key share a single fetcher flight. Success writes through Set;
// failure returns a normalized error and performs no mutation, so a
// failed fetch can never corrupt or erase previously cached data.
// Reading through a key with no fetcher is an error that likewise
// leaves the cache unchanged.
func (s *Store) GetOrFetch(ctx context.Context, key query.Key) (any, error) {
	if key.IsZero() {
		return nil, errs.Wrap(errs.KindValidation, errs.CodeInvalidKey, "invalid key", ErrZeroKey)
	}
	slot := key.Encode()

	s.mu.RLock()
	entry, ok := s.entries[slot]
	stale := s.isStaleLocked(slot)
	fetcher := s.fetchers[slot]
	s.mu.RUnlock()

	if ok && !stale {
		s.hits.Add(1)
		return entry.Data, nil
	}
	s.misses.Add(1)
	if fetcher == nil {
		return nil, errs.Wrap(errs.KindValidation, errs.CodeMissingFetcher, "no fetcher registered", ErrNoFetcher).
			WithDetail("key", key.String())
	}

	data, err, _ := s.group.Do(slot, func() (any, error) {
		data, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, data)
		return data, nil
	})
	if err != nil {
		// The error instance may be shared across flight callers.
		return nil, errs.Normalize(err)
	}
	return data, nil
}

// Refetch unconditionally runs the registered fetcher for key,
// ignoring current staleness. Success is a full replace through Set.
// Failure keeps the previous data but marks the entry invalidated with
// reason consistency_check, without scheduling another attempt, so the
// next read still sees the last-known-good value while IsStale reports
// true. No registered fetcher is the same error as GetOrFetch, cache
// unchanged.
func (s *Store) Refetch(ctx context.Context, key query.Key) (any, error) {
	if key.IsZero() {
		return nil, errs.Wrap(errs.KindValidation, errs.CodeInvalidKey, "invalid key", ErrZeroKey)
	}

	s.mu.RLock()
	fetcher := s.fetchers[key.Encode()]
	s.mu.RUnlock()

	if fetcher == nil {
		return nil, errs.Wrap(errs.KindValidation, errs.CodeMissingFetcher, "no fetcher registered", ErrNoFetcher).
			WithDetail("key", key.String())
	}

	data, err := fetcher(ctx)
	if err != nil {
		s.invalidate(key, &Event{At: s.clock(), Reason: ReasonConsistencyCheck}, false)
		return nil, errs.Normalize(err)
	}
	s.Set(key, data)
	return data, nil
}
