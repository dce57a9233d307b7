package reflector

import "errors"

// Sentinel errors for reflection failures. They support error wrapping and
// can be checked using errors.Is().
var (
	// ErrCircular indicates a path-query result contains a reference cycle.
	// The message is stable so callers and logs can recognize it.
	ErrCircular = errors.New("Circular data structure detected.")

	// ErrInvalidSpec indicates a mapping entry is none of the three extractor
	// kinds (query string, function, nested mapping).
	ErrInvalidSpec = errors.New("invalid extractor spec")

	// ErrMaxDepth indicates nested mappings recursed past the engine's
	// depth limit.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// IsCircular checks if an error indicates a circular data structure.
// Returns true for ErrCircular and any error that wraps it.
func IsCircular(err error) bool {
	return errors.Is(err, ErrCircular)
}
