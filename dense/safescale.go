package dense

import "math"

// SafeMin is the smallest normalized positive float64 whose reciprocal does
// not overflow (2^-1022). SafeMax is its reciprocal.
const (
	SafeMin = 0x1p-1022
	SafeMax = 1 / SafeMin
)

// Scaler is any target SafeScale can apply a partial scale factor to.
// Scale must multiply every owned entry by alpha in place.
type Scaler interface {
	Scale(alpha float64)
}

// SliceScaler adapts a plain []float64 to the Scaler interface.
type SliceScaler []float64

// Scale multiplies every entry by alpha.
func (s SliceScaler) Scale(alpha float64) { Scal(alpha, s) }

// Scale multiplies every matrix entry by alpha, satisfying Scaler.
func (m *Dense) Scale(alpha float64) { Scal(alpha, m.data) }

// SafeScaleStep performs one reduction step of the safe scaling loop.
//
// It inspects the pending ratio numerator/denominator and either
//
//  1. emits the partial factor SafeMin and shrinks the denominator when the
//     ratio is still too large to form (|den·SafeMin| > |num|, num != 0),
//  2. emits the partial factor SafeMax and shrinks the numerator when the
//     ratio is still too small to form (|num/SafeMax| > |den|), or
//  3. emits the now-safe final factor num/den and reports done.
//
// Each non-final step strictly moves |num| and |den| toward a representable
// ratio, so the loop terminates in a bounded number of steps (at most four
// for float64 inputs).
func SafeScaleStep(num, den *float64) (alpha float64, done bool) {
	shrunkDen := *den * SafeMin
	if math.Abs(shrunkDen) > math.Abs(*num) && *num != 0 {
		*den = shrunkDen
		return SafeMin, false
	}

	shrunkNum := *num / SafeMax
	if math.Abs(shrunkNum) > math.Abs(*den) {
		*num = shrunkNum
		return SafeMax, false
	}

	return *num / *den, true
}

// SafeScale applies the scale factor num/den to target without the
// intermediate ratio ever overflowing or underflowing: the factor is applied
// as a short sequence of safe partial multiplications.
//
// The aggregate effect equals multiplying by num/den exactly up to
// floating-point rounding, even for extreme inputs such as
// num = math.MaxFloat64, den = SafeMin.
func SafeScale(num, den float64, target Scaler) {
	for {
		alpha, done := SafeScaleStep(&num, &den)
		target.Scale(alpha)
		if done {
			return
		}
	}
}

// SafeScaleHermitianTridiagonal applies the scale factor num/den to the
// diagonal d and off-diagonal e of a Hermitian tridiagonal matrix. Both
// arrays receive every partial factor atomically per step, so the matrix is
// consistently scaled even if the caller observes intermediate states.
func SafeScaleHermitianTridiagonal(num, den float64, d, e []float64) {
	for {
		alpha, done := SafeScaleStep(&num, &den)
		Scal(alpha, d)
		Scal(alpha, e)
		if done {
			return
		}
	}
}
