package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/sparse"
)

// buildTestMatrix assembles
//
//	[ 1  0  2 ]
//	[ 0  3  0 ]
func buildTestMatrix(t *testing.T) *sparse.CSR {
	t.Helper()
	b := sparse.NewBuilder(2, 3)
	require.NoError(t, b.Add(0, 0, 1))
	require.NoError(t, b.Add(1, 1, 3))
	require.NoError(t, b.Add(0, 2, 2))
	a, err := b.Build()
	require.NoError(t, err)

	return a
}

func TestBuilder_CoalescesDuplicates(t *testing.T) {
	b := sparse.NewBuilder(2, 2)
	require.NoError(t, b.Add(0, 1, 1.5))
	require.NoError(t, b.Add(0, 1, 2.5))
	require.NoError(t, b.Add(1, 0, -1))
	a, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 2, a.NNZ())
	pos, ok := a.Find(0, 1)
	require.True(t, ok)
	assert.Equal(t, 4.0, a.Values()[pos])
}

func TestBuilder_RejectsOutOfRange(t *testing.T) {
	b := sparse.NewBuilder(2, 2)
	assert.ErrorIs(t, b.Add(2, 0, 1), sparse.ErrOutOfRange)
	assert.ErrorIs(t, b.Add(0, -1, 1), sparse.ErrOutOfRange)
}

func TestCSR_Multiply(t *testing.T) {
	a := buildTestMatrix(t)

	y := []float64{10, 10}
	require.NoError(t, a.Multiply(false, 1, []float64{1, 2, 3}, 0, y))
	assert.Equal(t, []float64{7, 6}, y)

	// beta accumulation.
	require.NoError(t, a.Multiply(false, 2, []float64{1, 2, 3}, 1, y))
	assert.Equal(t, []float64{21, 18}, y)

	yt := make([]float64, 3)
	require.NoError(t, a.Multiply(true, 1, []float64{1, 1}, 0, yt))
	assert.Equal(t, []float64{1, 3, 2}, yt)

	err := a.Multiply(false, 1, []float64{1, 2}, 0, y)
	assert.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

func TestCSR_TransposeRoundTrip(t *testing.T) {
	a := buildTestMatrix(t)
	tt := a.Transpose().Transpose()

	assert.Equal(t, a.RowPtr(), tt.RowPtr())
	assert.Equal(t, a.ColIdx(), tt.ColIdx())
	assert.Equal(t, a.Values(), tt.Values())
}

func TestCSR_Find(t *testing.T) {
	a := buildTestMatrix(t)

	pos, ok := a.Find(0, 2)
	require.True(t, ok)
	assert.Equal(t, 2.0, a.Values()[pos])

	_, ok = a.Find(0, 1)
	assert.False(t, ok)
	_, ok = a.Find(5, 0)
	assert.False(t, ok)
}

func TestNormalMatrix(t *testing.T) {
	a := buildTestMatrix(t)

	// A·diag(d)·Aᵀ with d = (1, 2, 1):
	//   [1 0 2]   [1    ]   [1 0]
	//   [0 3 0] · [  2  ] · [0 3] = [[5, 0], [0, 18]]
	//             [    1]   [2 0]
	g, err := sparse.NormalMatrix(a, []float64{1, 2, 1})
	require.NoError(t, err)

	require.Equal(t, 2, g.Rows())
	require.Equal(t, 2, g.Cols())
	p00, ok := g.Find(0, 0)
	require.True(t, ok)
	assert.Equal(t, 5.0, g.Values()[p00])
	p11, ok := g.Find(1, 1)
	require.True(t, ok)
	assert.Equal(t, 18.0, g.Values()[p11])
	_, ok = g.Find(0, 1)
	assert.False(t, ok)
}

func TestNormalMatrix_PatternStableAcrossWeights(t *testing.T) {
	a := buildTestMatrix(t)

	g1, err := sparse.NormalMatrix(a, []float64{1, 1, 1})
	require.NoError(t, err)
	g2, err := sparse.NormalMatrix(a, []float64{0.25, 7, 3})
	require.NoError(t, err)

	assert.Equal(t, g1.RowPtr(), g2.RowPtr())
	assert.Equal(t, g1.ColIdx(), g2.ColIdx())
}
