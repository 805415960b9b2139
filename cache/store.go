package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stellarcade/querycache/errs"
	"github.com/stellarcade/querycache/query"
)

// SubscriberFunc observes store changes. It receives the affected key
// and the entry after the change, or nil when the key was removed.
type SubscriberFunc func(key query.Key, entry *Entry)

// Config configures a Store.
type Config struct {
	// MaxEntries bounds the store size; zero or negative means
	// unbounded. When a write pushes the store over the bound, the
	// least recently updated entries are evicted until it fits.
	MaxEntries int

	// Policies overrides per-namespace defaults. Namespaces absent
	// here keep query.DefaultPolicies; namespaces unknown to both
	// resolve to query.FallbackPolicy.
	Policies map[query.Namespace]query.Policy

	// Clock supplies the current time, defaulting to time.Now.
	Clock func() time.Time
}

// Store is a bounded in-memory query cache with read-through fetch
// coordination and change subscriptions.
//
// Contract:
//   - Concurrency: safe for concurrent use. Every read and write is
//     atomic from the caller's point of view; a reader never observes
//     a partially written entry.
//   - Blocking: only GetOrFetch and Refetch suspend the caller, while
//     awaiting a fetcher. The touched entry stays unlocked during the
//     fetch, so a concurrent write on the same key is permitted and
//     wins by timestamp.
//   - Notifications: subscribers run synchronously after the store's
//     own state change, outside the store lock, once per affected key.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	fetchers map[string]Fetcher
	subs     []subscriber
	subSeq   int64

	policies   map[query.Namespace]query.Policy
	maxEntries int
	clock      func() time.Time

	group singleflight.Group

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
	evictions     atomic.Int64
	removals      atomic.Int64
}

type subscriber struct {
	id int64
	fn SubscriberFunc
}

// New constructs a Store. Omitted Config fields keep their documented
// defaults.
func New(config ...Config) *Store {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	policies := query.DefaultPolicies()
	for ns, p := range cfg.Policies {
		policies[ns] = p
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		entries:    make(map[string]*Entry),
		fetchers:   make(map[string]Fetcher),
		policies:   policies,
		maxEntries: cfg.MaxEntries,
		clock:      clock,
	}
}

// Get returns the entry for key. Pure read: no staleness judgment, no
// side effects.
func (s *Store) Get(key query.Key) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key.Encode()]
	return entry, ok
}

// Set inserts or overwrites the entry for key and returns it. The
// effective policy is the per-write override when given, else the
// namespace default. CreatedAt survives overwrites; UpdatedAt and
// StaleAt advance and any invalidation mark is cleared. The zero key
// is a no-op returning nil.
func (s *Store) Set(key query.Key, data any, policy ...query.Policy) *Entry {
	if key.IsZero() {
		return nil
	}
	slot := key.Encode()

	s.mu.Lock()
	now := s.clock()
	pol := s.policyFor(key.Namespace())
	if len(policy) > 0 {
		pol = policy[0]
	}
	entry := &Entry{
		Key:    key,
		Data:   data,
		Meta:   Meta{CreatedAt: now, UpdatedAt: now, StaleAt: pol.StaleAt(now)},
		Policy: pol,
	}
	if existing, ok := s.entries[slot]; ok {
		entry.Meta.CreatedAt = existing.Meta.CreatedAt
	}
	s.entries[slot] = entry
	evicted := s.evictLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.sets.Add(1)
	s.evictions.Add(int64(len(evicted)))
	s.publish(subs, key, entry)
	for _, old := range evicted {
		s.publish(subs, old.Key, nil)
	}
	return entry
}

// IsStale reports whether key needs refreshing: no entry, explicitly
// invalidated, or past its staleness deadline.
func (s *Store) IsStale(key query.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isStaleLocked(key.Encode())
}

func (s *Store) isStaleLocked(slot string) bool {
	entry, ok := s.entries[slot]
	if !ok {
		return true
	}
	if entry.Meta.InvalidatedAt != nil {
		return true
	}
	return !s.clock().Before(entry.Meta.StaleAt)
}

// Invalidate marks key's data as suspect without deleting it, a no-op
// when the key has no entry. The optional event records why; without
// one the entry is stamped with ReasonManual. When the entry's policy
// has RefetchOnInvalidate and a fetcher is registered, a detached
// background refetch is scheduled; its outcome is observable only
// through later reads and notifications, never returned here.
func (s *Store) Invalidate(key query.Key, event ...*Event) {
	s.invalidate(key, firstEvent(event), true)
}

// invalidate stamps the entry and publishes the change. allowRefetch
// distinguishes caller-driven invalidation from the mark left by a
// failed refetch, which must not schedule another attempt.
func (s *Store) invalidate(key query.Key, ev *Event, allowRefetch bool) bool {
	if key.IsZero() {
		return false
	}
	slot := key.Encode()

	s.mu.Lock()
	existing, ok := s.entries[slot]
	if !ok {
		s.mu.Unlock()
		return false
	}
	now := s.clock()
	if ev == nil {
		ev = &Event{At: now, Reason: ReasonManual}
	}
	entry := existing.clone()
	entry.Meta.InvalidatedAt = &now
	entry.Invalidation = ev
	s.entries[slot] = entry
	refetch := allowRefetch && entry.Policy.RefetchOnInvalidate && s.fetchers[slot] != nil
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.invalidations.Add(1)
	s.publish(subs, key, entry)
	if refetch {
		go func() {
			_, _ = s.Refetch(context.Background(), key)
		}()
	}
	return true
}

// InvalidatePrefix invalidates every stored key under prefix and
// returns how many entries it touched. Keys are processed in canonical
// order so notification order is deterministic.
func (s *Store) InvalidatePrefix(prefix query.Key, event ...*Event) int {
	if prefix.IsZero() {
		return 0
	}
	ev := firstEvent(event)

	s.mu.RLock()
	matched := make([]query.Key, 0)
	for _, entry := range s.entries {
		if entry.Key.HasPrefix(prefix) {
			matched = append(matched, entry.Key)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Encode() < matched[j].Encode() })
	count := 0
	for _, key := range matched {
		if s.invalidate(key, ev, true) {
			count++
		}
	}
	return count
}

// Remove hard-deletes the entry for key, reporting whether one
// existed. Subscribers see a nil entry.
func (s *Store) Remove(key query.Key) bool {
	if key.IsZero() {
		return false
	}
	slot := key.Encode()

	s.mu.Lock()
	_, ok := s.entries[slot]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, slot)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.removals.Add(1)
	s.publish(subs, key, nil)
	return true
}

// Clear removes every entry, notifying once per key in canonical
// order.
func (s *Store) Clear() {
	s.mu.Lock()
	removed := make([]query.Key, 0, len(s.entries))
	for _, entry := range s.entries {
		removed = append(removed, entry.Key)
	}
	s.entries = make(map[string]*Entry)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool { return removed[i].Encode() < removed[j].Encode() })
	s.removals.Add(int64(len(removed)))
	for _, key := range removed {
		s.publish(subs, key, nil)
	}
}

// EnsureDependencies checks the declared dependencies of a derived
// key. The first stale dependency invalidates parent with reason
// consistency_check and comes back inside a structured error; with all
// dependencies fresh, parent is left untouched and the result is nil.
// One level only; dependencies of dependencies are not followed.
func (s *Store) EnsureDependencies(parent query.Key, deps []query.Key) error {
	for _, dep := range deps {
		if !s.IsStale(dep) {
			continue
		}
		s.invalidate(parent, &Event{At: s.clock(), Reason: ReasonConsistencyCheck}, true)
		return errs.Wrap(errs.KindPrecondition, errs.CodeDependencyStale, "dependency is stale", ErrStaleDependency).
			WithDetail("parent", parent.String()).
			WithDetail("dependency", dep.String())
	}
	return nil
}

// Subscribe registers fn for change notifications and returns its
// unsubscribe function. Subscribers run in registration order; a
// subscriber panic is swallowed so it cannot break notification to
// the rest or abort the mutating call.
func (s *Store) Subscribe(fn SubscriberFunc) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.subSeq++
	id := s.subSeq
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot is a diagnostic view of the stored keys.
type Snapshot struct {
	Keys []query.Key
	Size int
}

// Snapshot returns the stored keys in canonical order plus the count.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	keys := make([]query.Key, 0, len(s.entries))
	for _, entry := range s.entries {
		keys = append(keys, entry.Key)
	}
	s.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].Encode() < keys[j].Encode() })
	return Snapshot{Keys: keys, Size: len(keys)}
}

// Stats are cumulative operation counters plus the current size. Hits
// and misses count read-through reads only; Get stays a pure read.
type Stats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Invalidations int64
	Evictions     int64
	Removals      int64
	Size          int
	MaxEntries    int
}

// Stats returns the store's counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()

	return Stats{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		Sets:          s.sets.Load(),
		Invalidations: s.invalidations.Load(),
		Evictions:     s.evictions.Load(),
		Removals:      s.removals.Load(),
		Size:          size,
		MaxEntries:    s.maxEntries,
	}
}

func (s *Store) policyFor(ns query.Namespace) query.Policy {
	return query.PolicyFor(ns, s.policies)
}

// evictLocked removes the least recently updated entries until the
// store fits its bound, ties broken by canonical key. Runs under the
// write lock and never schedules asynchronous work.
func (s *Store) evictLocked() []*Entry {
	if s.maxEntries <= 0 || len(s.entries) <= s.maxEntries {
		return nil
	}
	all := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		all = append(all, entry)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Meta.UpdatedAt.Equal(all[j].Meta.UpdatedAt) {
			return all[i].Meta.UpdatedAt.Before(all[j].Meta.UpdatedAt)
		}
		return all[i].Key.Encode() < all[j].Key.Encode()
	})
	evicted := all[:len(all)-s.maxEntries]
	for _, entry := range evicted {
		delete(s.entries, entry.Key.Encode())
	}
	return evicted
}

func (s *Store) subscribersLocked() []subscriber {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]subscriber, len(s.subs))
	copy(out, s.subs)
	return out
}

// publish runs the subscribers captured at mutation time.
func (s *Store) publish(subs []subscriber, key query.Key, entry *Entry) {
	for _, sub := range subs {
		publishOne(sub.fn, key, entry)
	}
}

func publishOne(fn SubscriberFunc, key query.Key, entry *Entry) {
	defer func() { _ = recover() }()
	fn(key, entry)
}

func firstEvent(events []*Event) *Event {
	if len(events) > 0 {
		return events[0]
	}
	return nil
}
