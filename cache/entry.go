package cache

import (
	"time"

	"github.com/stellarcade/querycache/query"
)

// Meta carries an entry's staleness bookkeeping.
type Meta struct {
	// CreatedAt is fixed at the first insert for the key and never
	// changes on later writes.
	CreatedAt time.Time

	// UpdatedAt is the time of the most recent successful write.
	UpdatedAt time.Time

	// StaleAt is UpdatedAt plus the effective policy's StaleTime at
	// the moment of the write that produced UpdatedAt.
	StaleAt time.Time

	// InvalidatedAt is set by explicit invalidation or a failed
	// refresh and cleared by every successful write. Nil while the
	// entry is trustworthy.
	InvalidatedAt *time.Time
}

// Entry is one cached item. Entries handed out by the store are
// immutable snapshots: the store replaces rather than mutates them, so
// a held pointer never changes underneath the caller. Data is shared,
// not copied; callers must not modify it.
type Entry struct {
	Key    query.Key
	Data   any
	Meta   Meta
	Policy query.Policy

	// Invalidation is the event that most recently invalidated the
	// entry, nil while Meta.InvalidatedAt is nil.
	Invalidation *Event
}

// clone returns a copy safe to modify before publishing.
func (e *Entry) clone() *Entry {
	dup := *e
	if e.Meta.InvalidatedAt != nil {
		t := *e.Meta.InvalidatedAt
		dup.Meta.InvalidatedAt = &t
	}
	return &dup
}

// DataAs returns the entry's data as T. The second return is false
// when the entry is nil or holds a different type.
func DataAs[T any](entry *Entry) (T, bool) {
	var zero T
	if entry == nil {
		return zero, false
	}
	v, ok := entry.Data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
