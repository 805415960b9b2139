package query

import "errors"

// Key construction errors. New wraps these in a structured error
// carrying the offending segment index.
var (
	// ErrEmptyNamespace indicates a key was constructed without a namespace.
	ErrEmptyNamespace = errors.New("query: namespace is required")

	// ErrNonScalarSegment indicates a segment that is not a string,
	// number, boolean, or nil.
	ErrNonScalarSegment = errors.New("query: key segments must be strings, numbers, booleans, or nil")

	// ErrNonFiniteNumber indicates a NaN or infinite numeric segment.
	ErrNonFiniteNumber = errors.New("query: numeric segments must be finite")

	// ErrNumberOverflow indicates an unsigned segment too large to
	// normalize without loss.
	ErrNumberOverflow = errors.New("query: unsigned segment exceeds the representable range")
)
