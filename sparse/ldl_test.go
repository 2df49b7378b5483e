package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/sparse"
)

// buildSPD assembles the symmetric positive definite tridiagonal
//
//	[ 2 -1  0  0 ]
//	[-1  2 -1  0 ]
//	[ 0 -1  2 -1 ]
//	[ 0  0 -1  2 ]
func buildSPD(t *testing.T) *sparse.CSR {
	t.Helper()
	b := sparse.NewBuilder(4, 4)
	for i := 0; i < 4; i++ {
		require.NoError(t, b.Add(i, i, 2))
		if i > 0 {
			require.NoError(t, b.Add(i, i-1, -1))
			require.NoError(t, b.Add(i-1, i, -1))
		}
	}
	a, err := b.Build()
	require.NoError(t, err)

	return a
}

func TestLDL_SolveRecoversKnownSolution(t *testing.T) {
	a := buildSPD(t)

	sym, err := sparse.Analyze(a, sparse.IdentityPerm(4))
	require.NoError(t, err)
	f, err := sparse.Factorize(a, sym)
	require.NoError(t, err)

	// b = A·[1, 2, 3, 4]ᵀ
	x := []float64{1, 2, 3, 4}
	b := make([]float64, 4)
	require.NoError(t, a.Multiply(false, 1, x, 0, b))

	require.NoError(t, f.Solve(b))
	assert.InDeltaSlice(t, x, b, 1e-12)
}

func TestLDL_IndefiniteSaddleSystem(t *testing.T) {
	// [ 1  0  1 ]
	// [ 0  2  1 ]   indefinite but factorizable without pivoting.
	// [ 1  1  0 ]
	b := sparse.NewBuilder(3, 3)
	require.NoError(t, b.Add(0, 0, 1))
	require.NoError(t, b.Add(1, 1, 2))
	require.NoError(t, b.Add(0, 2, 1))
	require.NoError(t, b.Add(2, 0, 1))
	require.NoError(t, b.Add(1, 2, 1))
	require.NoError(t, b.Add(2, 1, 1))
	a, err := b.Build()
	require.NoError(t, err)

	sym, err := sparse.Analyze(a, sparse.IdentityPerm(3))
	require.NoError(t, err)
	f, err := sparse.Factorize(a, sym)
	require.NoError(t, err)

	x := []float64{2, -1, 3}
	rhs := make([]float64, 3)
	require.NoError(t, a.Multiply(false, 1, x, 0, rhs))
	require.NoError(t, f.Solve(rhs))
	assert.InDeltaSlice(t, x, rhs, 1e-12)
}

func TestLDL_SymbolicReuseAcrossValues(t *testing.T) {
	a := buildSPD(t)
	sym, err := sparse.Analyze(a, sparse.IdentityPerm(4))
	require.NoError(t, err)

	// Same pattern, different values: scale everything by 3.
	a2 := a.Clone()
	a2.Scale(3)
	f, err := sparse.Factorize(a2, sym)
	require.NoError(t, err)

	x := []float64{1, 0, -1, 2}
	rhs := make([]float64, 4)
	require.NoError(t, a2.Multiply(false, 1, x, 0, rhs))
	require.NoError(t, f.Solve(rhs))
	assert.InDeltaSlice(t, x, rhs, 1e-12)
}

func TestLDL_PermutedFactorization(t *testing.T) {
	a := buildSPD(t)

	perm, _, err := sparse.NestedDissection(a)
	require.NoError(t, err)
	sym, err := sparse.Analyze(a, perm)
	require.NoError(t, err)
	f, err := sparse.Factorize(a, sym)
	require.NoError(t, err)

	x := []float64{-1, 4, 0.5, 2}
	rhs := make([]float64, 4)
	require.NoError(t, a.Multiply(false, 1, x, 0, rhs))
	require.NoError(t, f.Solve(rhs))
	assert.InDeltaSlice(t, x, rhs, 1e-12)
}

func TestLDL_BreakdownOnZeroPivot(t *testing.T) {
	// Leading pivot is exactly zero and no pivoting is performed.
	b := sparse.NewBuilder(2, 2)
	require.NoError(t, b.Add(0, 1, 1))
	require.NoError(t, b.Add(1, 0, 1))
	a, err := b.Build()
	require.NoError(t, err)

	sym, err := sparse.Analyze(a, sparse.IdentityPerm(2))
	require.NoError(t, err)
	_, err = sparse.Factorize(a, sym)
	assert.ErrorIs(t, err, sparse.ErrBreakdown)
}

func TestAnalyze_Validation(t *testing.T) {
	b := sparse.NewBuilder(2, 3)
	a, err := b.Build()
	require.NoError(t, err)
	_, err = sparse.Analyze(a, sparse.IdentityPerm(2))
	assert.ErrorIs(t, err, sparse.ErrNonSquare)

	spd := buildSPD(t)
	_, err = sparse.Analyze(spd, sparse.IdentityPerm(3))
	assert.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}
