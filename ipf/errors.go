package ipf

import "errors"

var (
	// ErrBadOptions reports an invalid configuration (centering outside
	// (0,1), non-positive tolerances or budgets, unknown KKT system).
	ErrBadOptions = errors.New("ipf: invalid options")

	// ErrDimensionMismatch reports LP data whose shapes do not conform.
	ErrDimensionMismatch = errors.New("ipf: dimension mismatch")

	// ErrNonPositiveIterate reports an iterate that left the strictly
	// positive cone. The iteration is built to keep x and z interior, so
	// this signals a logic error upstream, not a recoverable condition.
	ErrNonPositiveIterate = errors.New("ipf: iterate left the positive cone")

	// ErrNumericalFailure reports that the solve could not reach MinTol:
	// a factorization breakdown, a zero line-search step, or an exhausted
	// iteration budget occurred while the relative error was still above
	// the minimum tolerance.
	ErrNumericalFailure = errors.New("ipf: could not achieve minimum tolerance")
)
