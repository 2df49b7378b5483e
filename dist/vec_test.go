package dist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/dist"
	"github.com/katalvlaran/lvlopt/grid"
)

func TestBlockRange_CoversAllItems(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 100} {
		for _, size := range []int{1, 2, 3, 4, 7} {
			next := 0
			for r := 0; r < size; r++ {
				off, cnt := dist.BlockRange(n, size, r)
				assert.Equal(t, next, off, "n=%d size=%d rank=%d", n, size, r)
				next = off + cnt
			}
			assert.Equal(t, n, next, "n=%d size=%d", n, size)
		}
	}
}

func TestVec_GlobalReductions(t *testing.T) {
	global := []float64{3, -4, 1, 2, 5, -1, 0.5}
	err := grid.Run(3, func(c *grid.Comm) error {
		v := dist.NewVecFromGlobal(c, global)

		d, derr := v.Dot(v)
		require.NoError(t, derr)
		assert.InDelta(t, 56.25, d, 1e-12)
		assert.InDelta(t, 7.5, v.Nrm2(), 1e-12)
		assert.InDelta(t, 6.5, v.Sum(), 1e-12)
		assert.Equal(t, -4.0, v.MinEntry())
		assert.Equal(t, 2, v.NumNonPositive())
		return nil
	})
	require.NoError(t, err)
}

func TestVec_AllGatherRoundTrip(t *testing.T) {
	global := []float64{1, 2, 3, 4, 5}
	err := grid.Run(2, func(c *grid.Comm) error {
		v := dist.NewVecFromGlobal(c, global)
		assert.Equal(t, global, v.AllGather())
		return nil
	})
	require.NoError(t, err)
}

func TestVec_MaxStepInPositiveCone(t *testing.T) {
	x := []float64{1, 2, 4, 8}
	dx := []float64{-2, 1, -1, -8}
	err := grid.Run(2, func(c *grid.Comm) error {
		v := dist.NewVecFromGlobal(c, x)
		dv := dist.NewVecFromGlobal(c, dx)

		alpha, aerr := v.MaxStepInPositiveCone(dv, 10)
		require.NoError(t, aerr)
		// Binding component is x[0]: 1/2.
		assert.InDelta(t, 0.5, alpha, 1e-15)
		return nil
	})
	require.NoError(t, err)
}

func TestVec_LocalOpsComposeGlobally(t *testing.T) {
	err := grid.Run(3, func(c *grid.Comm) error {
		v := dist.NewVecFromGlobal(c, []float64{1, 2, 3, 4})
		w := dist.NewVecFromGlobal(c, []float64{10, 20, 30, 40})

		require.NoError(t, v.Axpy(2, w))
		v.Scale(0.5)
		v.Shift(1)
		assert.Equal(t, []float64{11.5, 22, 32.5, 43}, v.AllGather())
		return nil
	})
	require.NoError(t, err)
}

func TestVec_ConformanceErrors(t *testing.T) {
	err := grid.Run(2, func(c *grid.Comm) error {
		v := dist.NewVec(c, 4)
		w := dist.NewVec(c, 5)
		_, derr := v.Dot(w)
		assert.ErrorIs(t, derr, dist.ErrDimensionMismatch)
		assert.ErrorIs(t, v.SetFromGlobal([]float64{1}), dist.ErrDimensionMismatch)
		return nil
	})
	require.NoError(t, err)
}
