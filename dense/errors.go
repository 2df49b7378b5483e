// Package dense: sentinel error set.
// All kernels return these sentinels (optionally wrapped with call-site
// context via fmt.Errorf("...: %w", err)); tests match them with errors.Is.

package dense

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (r<=0 or c<=0).
	ErrBadShape = errors.New("dense: invalid shape")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("dense: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. Gemv where len(x) does not match the operand width.
	ErrDimensionMismatch = errors.New("dense: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but not supplied.
	ErrNonSquare = errors.New("dense: matrix is not square")

	// ErrSingular is returned when LU factorization meets a zero pivot column,
	// i.e. the matrix is numerically singular.
	ErrSingular = errors.New("dense: singular matrix")
)
