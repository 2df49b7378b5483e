package dist

import "errors"

var (
	// ErrDimensionMismatch reports operands whose global shapes do not
	// conform.
	ErrDimensionMismatch = errors.New("dist: dimension mismatch")

	// ErrDistributionMismatch reports operands that live on different
	// communicators or use different block layouts.
	ErrDistributionMismatch = errors.New("dist: distribution mismatch")
)
