package irgen

import "errors"

// Configuration and input errors (returned by [Engine.Transform]).
var (
	// ErrNilDocument indicates Transform was called without a document.
	ErrNilDocument = errors.New("irgen: nil document")

	// ErrInvalidDocument indicates the input failed the opt-in document
	// sanity check.
	ErrInvalidDocument = errors.New("irgen: invalid document")
)
