package sparse

import "errors"

var (
	// ErrBadShape reports non-positive or inconsistent matrix dimensions.
	ErrBadShape = errors.New("sparse: invalid matrix shape")

	// ErrOutOfRange reports an index outside the matrix bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch reports operand shapes that do not conform.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNonSquare reports a square-only operation applied to a rectangular
	// matrix.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrBreakdown reports a zero or non-finite pivot during numeric
	// factorization. The factor is unusable; callers decide whether to
	// retry with stronger regularization or stop.
	ErrBreakdown = errors.New("sparse: numeric factorization breakdown")
)
