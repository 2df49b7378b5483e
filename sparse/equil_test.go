package sparse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/sparse"
)

func TestGeomEquil_RoundTripAndRange(t *testing.T) {
	b := sparse.NewBuilder(2, 3)
	require.NoError(t, b.Add(0, 0, 1e6))
	require.NoError(t, b.Add(0, 2, 3e-4))
	require.NoError(t, b.Add(1, 0, 2))
	require.NoError(t, b.Add(1, 1, 5e5))
	a, err := b.Build()
	require.NoError(t, err)
	orig := a.Clone()

	dRow, dCol := sparse.GeomEquil(a)
	require.Len(t, dRow, 2)
	require.Len(t, dCol, 3)

	// Undo the scaling entrywise and compare with the original values.
	for i := 0; i < 2; i++ {
		for p := a.RowPtr()[i]; p < a.RowPtr()[i+1]; p++ {
			j := a.ColIdx()[p]
			assert.InEpsilon(t, orig.Values()[p], dRow[i]*a.Values()[p]*dCol[j], 1e-12)
		}
	}

	// Dynamic range must not exceed the input's.
	rng := func(v []float64) float64 {
		lo, hi := math.Inf(1), 0.0
		for _, x := range v {
			ax := math.Abs(x)
			if ax == 0 {
				continue
			}
			lo = math.Min(lo, ax)
			hi = math.Max(hi, ax)
		}
		return hi / lo
	}
	assert.Less(t, rng(a.Values()), rng(orig.Values()))
}

func TestSymmetricGeomEquil_PreservesSymmetry(t *testing.T) {
	b := sparse.NewBuilder(3, 3)
	require.NoError(t, b.Add(0, 0, 1e8))
	require.NoError(t, b.Add(1, 1, 1))
	require.NoError(t, b.Add(2, 2, 1e-8))
	require.NoError(t, b.Add(0, 2, 4))
	require.NoError(t, b.Add(2, 0, 4))
	a, err := b.Build()
	require.NoError(t, err)

	d, err := sparse.SymmetricGeomEquil(a)
	require.NoError(t, err)
	require.Len(t, d, 3)

	// Scaled matrix stays symmetric.
	p02, ok := a.Find(0, 2)
	require.True(t, ok)
	p20, ok := a.Find(2, 0)
	require.True(t, ok)
	assert.InEpsilon(t, a.Values()[p02], a.Values()[p20], 1e-15)

	// The scaling round-trips: d[i]·J[i,j]·d[j] recovers the input.
	assert.InEpsilon(t, 4.0, d[0]*a.Values()[p02]*d[2], 1e-12)
}

func TestSymmetricGeomEquil_NonSquare(t *testing.T) {
	b := sparse.NewBuilder(2, 3)
	a, err := b.Build()
	require.NoError(t, err)

	_, err = sparse.SymmetricGeomEquil(a)
	assert.ErrorIs(t, err, sparse.ErrNonSquare)
}
