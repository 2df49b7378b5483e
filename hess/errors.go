package hess

import "errors"

var (
	// ErrBadShape reports negative matrix dimensions.
	ErrBadShape = errors.New("hess: invalid matrix shape")

	// ErrNonSquare reports a non-square Hessenberg matrix.
	ErrNonSquare = errors.New("hess: matrix is not square")

	// ErrDimensionMismatch reports operands whose shapes do not conform.
	ErrDimensionMismatch = errors.New("hess: dimension mismatch")

	// ErrUnsupportedOrientation reports a Transpose or Adjoint solve, which
	// the sweep algorithm does not cover.
	ErrUnsupportedOrientation = errors.New("hess: orientation not supported")
)
