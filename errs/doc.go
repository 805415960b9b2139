// Package errs defines the structured error type shared by the
// querycache packages.
//
// It classifies failures by Kind (broad family) and Code (specific
// condition) so callers branch on machine-readable fields instead of
// message text, and it normalizes raw fetcher errors at the cache
// boundary.
package errs
