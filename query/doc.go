// Package query defines the canonical identity of cached data.
//
// A Key is an ordered tuple of a namespace plus scalar path segments
// with a deterministic, collision-free encoding used as the storage
// slot. Policy carries the per-namespace staleness and refetch
// behavior. The package holds pure data and construction helpers; all
// behavior lives in the cache store.
package query
