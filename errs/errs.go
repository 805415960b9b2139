package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the broad failure family an error belongs to. Callers use it
// to pick a recovery strategy (retry network failures, surface
// validation failures).
type Kind string

const (
	// KindNetwork covers transport failures, timeouts, and cancelled
	// requests. Operations of this kind are generally retryable.
	KindNetwork Kind = "network"

	// KindValidation covers malformed inputs such as keys or
	// configuration. Retrying without a code change will not help.
	KindValidation Kind = "validation"

	// KindPrecondition covers operations refused before execution
	// because required client state was missing.
	KindPrecondition Kind = "precondition"

	// KindUnknown is the classification for errors that fit no other
	// family.
	KindUnknown Kind = "unknown"
)

// Code identifies the specific failure condition within a Kind.
type Code string

const (
	// CodeMissingFetcher indicates a read-through was attempted on a
	// key that has no registered fetcher.
	CodeMissingFetcher Code = "missing_fetcher"

	// CodeFetchFailure indicates a registered fetcher returned an
	// error or could not complete.
	CodeFetchFailure Code = "fetch_failure"

	// CodeDependencyStale indicates a dependency check found at least
	// one stale or missing dependency.
	CodeDependencyStale Code = "dependency_stale"

	// CodePreconditionFailed indicates a wallet or network
	// precondition was not satisfied.
	CodePreconditionFailed Code = "precondition_failed"

	// CodeInvalidKey indicates a query key could not be constructed
	// from the given segments.
	CodeInvalidKey Code = "invalid_key"

	// CodeBadConfig indicates invalid environment or programmatic
	// configuration.
	CodeBadConfig Code = "bad_config"
)

// Error is the structured error surfaced by the querycache packages.
// Details carries diagnostic fields (operation names, keys, expected
// versus actual values) for logging; it is never required for control
// flow.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so errors.Is and errors.As can
// traverse the chain.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with no underlying cause.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap constructs an Error around an underlying cause.
func Wrap(kind Kind, code Code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// WithDetail attaches a diagnostic field and returns the receiver for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Normalize coerces err into an *Error at the point where raw fetcher
// errors enter the cache. It is idempotent: an err that already is (or
// wraps) an *Error is returned as-is. Context cancellation, deadline
// expiry, and net errors classify as KindNetwork; everything else as
// KindUnknown.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindNetwork, CodeFetchFailure, "request aborted", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindNetwork, CodeFetchFailure, "network failure", err)
	}
	return Wrap(KindUnknown, CodeFetchFailure, "fetch failed", err)
}

// CodeOf extracts the Code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf extracts the Kind from err, or KindUnknown when err carries
// none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsCode reports whether err carries the given Code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
