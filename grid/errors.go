package grid

import "errors"

var (
	// ErrInvalidSize reports a non-positive communicator size.
	ErrInvalidSize = errors.New("grid: communicator size must be positive")

	// ErrInvalidRoot reports a root rank outside [0, size).
	ErrInvalidRoot = errors.New("grid: root rank out of range")

	// ErrDimensionMismatch reports collective buffers whose lengths differ
	// across ranks where the operation requires agreement.
	ErrDimensionMismatch = errors.New("grid: collective buffer length mismatch")
)
