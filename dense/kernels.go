// Package dense: BLAS-style kernels used by the interior-point iteration.
// Level-1/2 operations delegate to gonum's blas64; cone utilities and
// diagonal scalings are simple deterministic loops.

package dense

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// vec adapts a contiguous slice to a blas64.Vector with unit increment.
func vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Inc: 1, Data: x}
}

// general adapts a Dense to a blas64.General without copying.
func (m *Dense) general() blas64.General {
	return blas64.General{Rows: m.r, Cols: m.c, Stride: m.c, Data: m.data}
}

// Gemv computes y ← alpha·op(A)·x + beta·y, where op(A) is A when trans is
// false and Aᵀ when trans is true.
//
// Contract: len(x) matches the op(A) width, len(y) its height; violations
// return ErrDimensionMismatch before any mutation.
// Complexity: O(r*c).
func Gemv(trans bool, alpha float64, a *Dense, x []float64, beta float64, y []float64) error {
	h, w := a.r, a.c
	t := blas.NoTrans
	if trans {
		h, w = a.c, a.r
		t = blas.Trans
	}
	if len(x) != w || len(y) != h {
		return fmt.Errorf("Gemv: op(A) is %dx%d, len(x)=%d, len(y)=%d: %w",
			h, w, len(x), len(y), ErrDimensionMismatch)
	}
	if h == 0 {
		return nil
	}
	blas64.Gemv(t, alpha, a.general(), vec(x), beta, vec(y))

	return nil
}

// Dot returns the inner product xᵀy.
// Panics on mismatched lengths (programmer error in an inner loop).
func Dot(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("dense: Dot length mismatch")
	}
	if len(x) == 0 {
		return 0
	}

	return blas64.Dot(vec(x), vec(y))
}

// Nrm2 returns the Euclidean norm of x.
func Nrm2(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return blas64.Nrm2(vec(x))
}

// Axpy computes y += alpha·x.
func Axpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic("dense: Axpy length mismatch")
	}
	if len(x) == 0 {
		return
	}
	blas64.Axpy(alpha, vec(x), vec(y))
}

// Scal computes x *= alpha in place.
func Scal(alpha float64, x []float64) {
	if len(x) == 0 {
		return
	}
	blas64.Scal(alpha, vec(x))
}

// DiagonalScale computes y[i] *= d[i] in place.
func DiagonalScale(d, y []float64) {
	if len(d) != len(y) {
		panic("dense: DiagonalScale length mismatch")
	}
	for i, di := range d {
		y[i] *= di
	}
}

// DiagonalSolve computes y[i] /= d[i] in place. The diagonal must be
// nonzero; a zero entry yields ±Inf, surfaced by downstream guards.
func DiagonalSolve(d, y []float64) {
	if len(d) != len(y) {
		panic("dense: DiagonalSolve length mismatch")
	}
	for i, di := range d {
		y[i] /= di
	}
}

// Shift computes y[i] += s for every entry.
func Shift(s float64, y []float64) {
	for i := range y {
		y[i] += s
	}
}

// NumNonPositive counts entries with x[i] <= 0.
// Interior-point iterates must keep this at zero for x and z.
func NumNonPositive(x []float64) int {
	n := 0
	for _, v := range x {
		if v <= 0 {
			n++
		}
	}

	return n
}

// MaxStepInPositiveCone returns the largest step alpha in [0, upperBound]
// such that x + alpha·dx stays componentwise nonnegative. Components with
// dx[i] >= 0 impose no bound.
func MaxStepInPositiveCone(x, dx []float64, upperBound float64) float64 {
	if len(x) != len(dx) {
		panic("dense: MaxStepInPositiveCone length mismatch")
	}
	alpha := upperBound
	for i, v := range dx {
		if v < 0 {
			if step := -x[i] / v; step < alpha {
				alpha = step
			}
		}
	}

	return alpha
}

// MinEntry returns the smallest entry of x, or +Inf when x is empty.
func MinEntry(x []float64) float64 {
	m := math.Inf(1)
	for _, v := range x {
		if v < m {
			m = v
		}
	}

	return m
}
