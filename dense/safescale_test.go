package dense_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/dense"
)

// recordingScaler counts partial factors and tracks their running product.
type recordingScaler struct {
	steps   int
	product float64
}

func (r *recordingScaler) Scale(alpha float64) {
	r.steps++
	if r.steps == 1 {
		r.product = alpha
	} else {
		r.product *= alpha
	}
}

func TestSafeScale_ModerateRatioSingleStep(t *testing.T) {
	rec := &recordingScaler{}
	dense.SafeScale(6, 3, rec)

	assert.Equal(t, 1, rec.steps)
	assert.Equal(t, 2.0, rec.product)
}

func TestSafeScale_ExtremeRatiosTerminate(t *testing.T) {
	cases := []struct {
		name     string
		num, den float64
	}{
		{"huge over tiny", math.MaxFloat64, dense.SafeMin},
		{"tiny over huge", dense.SafeMin, math.MaxFloat64},
		{"huge over huge", math.MaxFloat64, math.MaxFloat64},
		{"negative extreme", -math.MaxFloat64, dense.SafeMin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingScaler{}
			dense.SafeScale(tc.num, tc.den, rec)

			assert.LessOrEqual(t, rec.steps, 4)
			assert.False(t, math.IsNaN(rec.product))
		})
	}
}

func TestSafeScale_ZeroNumerator(t *testing.T) {
	x := dense.SliceScaler{1, 2, 3}
	dense.SafeScale(0, 5, x)
	assert.Equal(t, dense.SliceScaler{0, 0, 0}, x)
}

func TestSafeScale_AggregateMatchesDirectRatio(t *testing.T) {
	// A ratio in (SafeMax, MaxFloat64] is representable, yet the loop splits
	// it into two partial factors. The aggregate must still equal num/den.
	rec := &recordingScaler{}
	dense.SafeScale(1e308, 1, rec)
	assert.Equal(t, 2, rec.steps)
	assert.InEpsilon(t, 1e308, rec.product, 1e-12)

	x := dense.SliceScaler{1, -0.5}
	dense.SafeScale(1e308, 1, x)
	assert.InEpsilon(t, 1e308, x[0], 1e-12)
	assert.InEpsilon(t, -5e307, x[1], 1e-12)
}

func TestSafeScaleStep_ShrinksTowardSafeRatio(t *testing.T) {
	num, den := math.MaxFloat64, dense.SafeMin
	alpha, done := dense.SafeScaleStep(&num, &den)

	require.False(t, done)
	assert.Equal(t, dense.SafeMax, alpha)
	assert.Less(t, math.Abs(num), math.MaxFloat64)
}

func TestSafeScaleHermitianTridiagonal(t *testing.T) {
	d := []float64{1, 2, 3}
	e := []float64{4, 5}
	dense.SafeScaleHermitianTridiagonal(3, 2, d, e)

	assert.InDeltaSlice(t, []float64{1.5, 3, 4.5}, d, 1e-15)
	assert.InDeltaSlice(t, []float64{6, 7.5}, e, 1e-15)
}

func TestDenseScale(t *testing.T) {
	m, err := dense.NewFromSlice(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	m.Scale(2)
	assert.Equal(t, []float64{2, 4, 6, 8}, m.Data())
}
