// Package rules turns transaction and mutation outcomes into cache
// invalidations.
//
// The Engine consumes an Outcome from the execution layer together
// with the event describing what ran, derives the canonical
// invalidation reason, and applies an ordered, additive table of
// rules against the cache store. Each rule owns one concern (balances,
// game records, tournaments, rewards); new contract mappings are
// appended with AddRule without touching callers.
//
// The package also exposes RequirePreconditions, the single guard
// entry point that aborts a caller's flow when wallet or network
// preconditions do not hold.
package rules
