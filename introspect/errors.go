package introspect

import "errors"

// Introspection errors.
var (
	// ErrShapeMismatch is returned when an expected host internal is
	// absent, renamed, or of an unexpected type. This is fatal to the
	// control plane: if the host's shape cannot be matched once, no later
	// operation can succeed either.
	ErrShapeMismatch = errors.New("host internal shape mismatch")

	// ErrNilAdapter is returned when a Cache is built without an adapter.
	ErrNilAdapter = errors.New("introspection adapter cannot be nil")
)
