package grid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/grid"
)

func TestRun_InvalidSize(t *testing.T) {
	err := grid.Run(0, func(c *grid.Comm) error { return nil })
	assert.ErrorIs(t, err, grid.ErrInvalidSize)
}

func TestRun_JoinsRankErrors(t *testing.T) {
	sentinel := errors.New("rank failure")
	err := grid.Run(3, func(c *grid.Comm) error {
		if c.Rank() == 1 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestAllReduceSum(t *testing.T) {
	err := grid.Run(4, func(c *grid.Comm) error {
		x := []float64{float64(c.Rank()), 1}
		if err := c.AllReduceSum(x); err != nil {
			return err
		}
		// 0+1+2+3 = 6 on every rank.
		assert.Equal(t, []float64{6, 4}, x)
		return nil
	})
	require.NoError(t, err)
}

func TestAllReduceSum_RepeatedCollectivesStayInSync(t *testing.T) {
	err := grid.Run(3, func(c *grid.Comm) error {
		for iter := 1; iter <= 10; iter++ {
			x := []float64{float64(iter)}
			if err := c.AllReduceSum(x); err != nil {
				return err
			}
			assert.Equal(t, float64(3*iter), x[0])
		}
		return nil
	})
	require.NoError(t, err)
}

func TestAllReduceScalarMinMax(t *testing.T) {
	err := grid.Run(4, func(c *grid.Comm) error {
		v := float64(c.Rank() + 1)
		assert.Equal(t, 10.0, c.AllReduceScalarSum(v))
		assert.Equal(t, 1.0, c.AllReduceMin(v))
		assert.Equal(t, 4.0, c.AllReduceMax(v))
		return nil
	})
	require.NoError(t, err)
}

func TestBroadcast(t *testing.T) {
	err := grid.Run(3, func(c *grid.Comm) error {
		x := []float64{0, 0}
		if c.Rank() == 1 {
			x = []float64{7, -2}
		}
		if err := c.Broadcast(x, 1); err != nil {
			return err
		}
		assert.Equal(t, []float64{7, -2}, x)
		return nil
	})
	require.NoError(t, err)
}

func TestBroadcast_InvalidRoot(t *testing.T) {
	err := grid.Run(2, func(c *grid.Comm) error {
		e := c.Broadcast([]float64{1}, 5)
		assert.ErrorIs(t, e, grid.ErrInvalidRoot)
		return nil
	})
	require.NoError(t, err)
}

func TestAllGather_UnevenShards(t *testing.T) {
	err := grid.Run(3, func(c *grid.Comm) error {
		local := make([]float64, c.Rank()+1)
		for i := range local {
			local[i] = float64(10*c.Rank() + i)
		}
		got := c.AllGather(local)
		assert.Equal(t, []float64{0, 10, 11, 20, 21, 22}, got)
		return nil
	})
	require.NoError(t, err)
}

func TestGather_OnlyRootReceives(t *testing.T) {
	err := grid.Run(3, func(c *grid.Comm) error {
		out, gerr := c.Gather([]float64{float64(c.Rank())}, 0)
		if gerr != nil {
			return gerr
		}
		if c.Rank() == 0 {
			assert.Equal(t, []float64{0, 1, 2}, out)
		} else {
			assert.Nil(t, out)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestBarrier_DoesNotDeadlockAcrossGenerations(t *testing.T) {
	err := grid.Run(5, func(c *grid.Comm) error {
		for i := 0; i < 100; i++ {
			c.Barrier()
		}
		return nil
	})
	require.NoError(t, err)
}
