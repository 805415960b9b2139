package cache

import "errors"

// Fetch and dependency errors. The store wraps these in a structured
// error carrying the affected key.
var (
	// ErrNoFetcher indicates a read-through was attempted on a key
	// with no registered fetcher.
	ErrNoFetcher = errors.New("cache: no fetcher registered for key")

	// ErrStaleDependency indicates a dependency check found a stale
	// or missing dependency.
	ErrStaleDependency = errors.New("cache: stale dependency")

	// ErrZeroKey indicates an operation was attempted with the zero
	// key.
	ErrZeroKey = errors.New("cache: key is zero")
)
