package ipf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/dist"
	"github.com/katalvlaran/lvlopt/grid"
	"github.com/katalvlaran/lvlopt/ipf"
	"github.com/katalvlaran/lvlopt/sparse"
)

// tinyLP is min x1+x2 s.t. x1+2·x2 = 3, x >= 0, with the unique optimum
// x* = (0, 1.5), y* = -0.5, z* = (0.5, 0) and objective 1.5.
func tinyLP(t testing.TB) (*dense.Dense, []float64, []float64) {
	t.Helper()
	a, err := dense.NewFromSlice(1, 2, []float64{1, 2})
	require.NoError(t, err)

	return a, []float64{3}, []float64{1, 1}
}

// mediumLP is min 2x1+3x2+x3+4x4 s.t. x1+x2+x3 = 4, x2+2x3+x4 = 5, x >= 0,
// with the unique optimum x* = (1.5, 0, 2.5, 0) and objective 5.5.
func mediumLP(t testing.TB) (*dense.Dense, []float64, []float64) {
	t.Helper()
	a, err := dense.NewFromSlice(2, 4, []float64{
		1, 1, 1, 0,
		0, 1, 2, 1,
	})
	require.NoError(t, err)

	return a, []float64{4, 5}, []float64{2, 3, 1, 4}
}

func mediumLPSparse(t testing.TB) *sparse.CSR {
	t.Helper()
	b := sparse.NewBuilder(2, 4)
	require.NoError(t, b.Add(0, 0, 1))
	require.NoError(t, b.Add(0, 1, 1))
	require.NoError(t, b.Add(0, 2, 1))
	require.NoError(t, b.Add(1, 1, 1))
	require.NoError(t, b.Add(1, 2, 2))
	require.NoError(t, b.Add(1, 3, 1))
	a, err := b.Build()
	require.NoError(t, err)

	return a
}

func newIterate(m, n int) (x, y, z []float64) {
	return make([]float64, n), make([]float64, m), make([]float64, n)
}

func TestSolve_TinyAllSystems(t *testing.T) {
	a, b, c := tinyLP(t)
	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		t.Run(sys.String(), func(t *testing.T) {
			opts := ipf.DefaultOptions()
			opts.System = sys
			x, y, z := newIterate(1, 2)

			info, err := ipf.Solve(a, b, c, x, y, z, opts)
			require.NoError(t, err)
			assert.LessOrEqual(t, info.RelError, opts.TargetTol)
			assert.InDelta(t, 0.0, x[0], 1e-6)
			assert.InDelta(t, 1.5, x[1], 1e-6)
			assert.InDelta(t, -0.5, y[0], 1e-6)
			assert.InDelta(t, 0.5, z[0], 1e-6)
		})
	}
}

func TestSolve_MediumAllSystems(t *testing.T) {
	a, b, c := mediumLP(t)
	want := []float64{1.5, 0, 2.5, 0}
	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		t.Run(sys.String(), func(t *testing.T) {
			opts := ipf.DefaultOptions()
			opts.System = sys
			x, y, z := newIterate(2, 4)

			info, err := ipf.Solve(a, b, c, x, y, z, opts)
			require.NoError(t, err)
			assert.LessOrEqual(t, info.RelError, opts.TargetTol)
			assert.InDeltaSlice(t, want, x, 1e-5)
			assert.InDelta(t, 5.5, dense.Dot(c, x), 1e-6)

			// Primal feasibility in the original scaling.
			r := append([]float64(nil), b...)
			require.NoError(t, dense.Gemv(false, 1, a, x, -1, r))
			assert.InDelta(t, 0, dense.Nrm2(r), 1e-6)
		})
	}
}

func TestSolveSparse_MatchesDense(t *testing.T) {
	aDense, b, c := mediumLP(t)
	aSparse := mediumLPSparse(t)
	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		t.Run(sys.String(), func(t *testing.T) {
			opts := ipf.DefaultOptions()
			opts.System = sys

			xd, yd, zd := newIterate(2, 4)
			_, err := ipf.Solve(aDense, b, c, xd, yd, zd, opts)
			require.NoError(t, err)

			xs, ys, zs := newIterate(2, 4)
			_, err = ipf.SolveSparse(aSparse, b, c, xs, ys, zs, opts)
			require.NoError(t, err)

			assert.InDeltaSlice(t, xd, xs, 1e-5)
			assert.InDeltaSlice(t, yd, ys, 1e-5)
			assert.InDeltaSlice(t, zd, zs, 1e-5)
		})
	}
}

func TestSolve_EquilibrationRoundTrip(t *testing.T) {
	// Badly row-scaled rendition of the tiny LP: same feasible set, same
	// optimum in the original coordinates.
	a, err := dense.NewFromSlice(1, 2, []float64{1e3, 2e3})
	require.NoError(t, err)
	b := []float64{3e3}
	c := []float64{1, 1}
	aCopy := a.Clone()
	bCopy := append([]float64(nil), b...)

	opts := ipf.DefaultOptions()
	opts.Equilibrate = true
	x, y, z := newIterate(1, 2)
	_, err = ipf.Solve(a, b, c, x, y, z, opts)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, x[0], 1e-6)
	assert.InDelta(t, 1.5, x[1], 1e-6)
	// Complementarity in the caller's scaling.
	assert.InDelta(t, 0, x[0]*z[0]+x[1]*z[1], 1e-6)

	// The caller's problem data must come back untouched.
	assert.Equal(t, aCopy.Data(), a.Data())
	assert.Equal(t, bCopy, b)
}

func TestSolve_WarmStartPrimal(t *testing.T) {
	a, b, c := mediumLP(t)
	opts := ipf.DefaultOptions()
	opts.PrimalInit = true

	// Strictly feasible interior start.
	x := []float64{1.5, 1, 1.5, 1}
	_, y, z := newIterate(2, 4)
	info, err := ipf.Solve(a, b, c, x, y, z, opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.RelError, opts.TargetTol)
	assert.InDelta(t, 5.5, dense.Dot(c, x), 1e-5)
}

func TestSolve_NonPositiveWarmStart(t *testing.T) {
	a, b, c := tinyLP(t)
	opts := ipf.DefaultOptions()
	opts.PrimalInit = true

	x := []float64{-1, 2}
	_, y, z := newIterate(1, 2)
	_, err := ipf.Solve(a, b, c, x, y, z, opts)
	assert.ErrorIs(t, err, ipf.ErrNonPositiveIterate)
}

func TestSolve_IterationBudget(t *testing.T) {
	a, b, c := mediumLP(t)

	t.Run("escalates above MinTol", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		opts.MaxIts = 1
		opts.TargetTol = 1e-14
		opts.MinTol = 1e-14
		x, y, z := newIterate(2, 4)

		_, err := ipf.Solve(a, b, c, x, y, z, opts)
		assert.ErrorIs(t, err, ipf.ErrNumericalFailure)
	})

	t.Run("soft accept below MinTol", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		opts.MaxIts = 3
		opts.TargetTol = 1e-14
		opts.MinTol = 1e9
		x, y, z := newIterate(2, 4)

		info, err := ipf.Solve(a, b, c, x, y, z, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, info.Iterations)
	})
}

func TestSolve_Validation(t *testing.T) {
	a, b, c := tinyLP(t)

	t.Run("bad centering", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		opts.Centering = 0
		x, y, z := newIterate(1, 2)
		_, err := ipf.Solve(a, b, c, x, y, z, opts)
		assert.ErrorIs(t, err, ipf.ErrBadOptions)
	})

	t.Run("bad system", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		opts.System = ipf.System(7)
		x, y, z := newIterate(1, 2)
		_, err := ipf.Solve(a, b, c, x, y, z, opts)
		assert.ErrorIs(t, err, ipf.ErrBadOptions)
	})

	t.Run("iterate shape", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		_, err := ipf.Solve(a, b, c, make([]float64, 3), make([]float64, 1), make([]float64, 2), opts)
		assert.ErrorIs(t, err, ipf.ErrDimensionMismatch)
	})

	t.Run("data shape", func(t *testing.T) {
		opts := ipf.DefaultOptions()
		x, y, z := newIterate(1, 2)
		_, err := ipf.Solve(a, []float64{3, 4}, c, x, y, z, opts)
		assert.ErrorIs(t, err, ipf.ErrDimensionMismatch)
	})
}

func TestSolve_LogAndCheckDirections(t *testing.T) {
	a, b, c := tinyLP(t)
	opts := ipf.DefaultOptions()
	opts.CheckDirections = true
	logged := 0
	opts.Log = func(format string, args ...any) { logged++ }

	x, y, z := newIterate(1, 2)
	_, err := ipf.Solve(a, b, c, x, y, z, opts)
	require.NoError(t, err)
	assert.Greater(t, logged, 0)
}

func TestSolveDist_MatchesSequential(t *testing.T) {
	aGlobal, b, c := mediumLP(t)

	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		t.Run(sys.String(), func(t *testing.T) {
			opts := ipf.DefaultOptions()
			opts.System = sys

			xSeq, ySeq, zSeq := newIterate(2, 4)
			_, err := ipf.Solve(aGlobal, b, c, xSeq, ySeq, zSeq, opts)
			require.NoError(t, err)

			err = grid.Run(2, func(gc *grid.Comm) error {
				a := dist.NewDenseFromGlobal(gc, aGlobal)
				bd := dist.NewVecFromGlobal(gc, b)
				cd := dist.NewVecFromGlobal(gc, c)
				x := dist.NewVec(gc, 4)
				y := dist.NewVec(gc, 2)
				z := dist.NewVec(gc, 4)

				info, err := ipf.SolveDist(a, bd, cd, x, y, z, opts)
				require.NoError(t, err)
				assert.LessOrEqual(t, info.RelError, opts.TargetTol)
				assert.InDeltaSlice(t, xSeq, x.AllGather(), 1e-5)
				assert.InDeltaSlice(t, ySeq, y.AllGather(), 1e-5)
				assert.InDeltaSlice(t, zSeq, z.AllGather(), 1e-5)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestSolveDistSparse_MatchesSequential(t *testing.T) {
	aGlobal := mediumLPSparse(t)
	_, b, c := mediumLP(t)

	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		t.Run(sys.String(), func(t *testing.T) {
			opts := ipf.DefaultOptions()
			opts.System = sys
			opts.Equilibrate = true

			xSeq, ySeq, zSeq := newIterate(2, 4)
			_, err := ipf.SolveSparse(aGlobal, b, c, xSeq, ySeq, zSeq, opts)
			require.NoError(t, err)

			err = grid.Run(2, func(gc *grid.Comm) error {
				a := dist.NewCSRFromGlobal(gc, aGlobal)
				bd := dist.NewVecFromGlobal(gc, b)
				cd := dist.NewVecFromGlobal(gc, c)
				x := dist.NewVec(gc, 4)
				y := dist.NewVec(gc, 2)
				z := dist.NewVec(gc, 4)

				info, err := ipf.SolveDistSparse(a, bd, cd, x, y, z, opts)
				require.NoError(t, err)
				assert.LessOrEqual(t, info.RelError, opts.TargetTol)
				assert.InDeltaSlice(t, xSeq, x.AllGather(), 1e-5)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestSystem_String(t *testing.T) {
	assert.Equal(t, "FullKKT", ipf.FullKKT.String())
	assert.Equal(t, "AugmentedKKT", ipf.AugmentedKKT.String())
	assert.Equal(t, "NormalKKT", ipf.NormalKKT.String())
	assert.Equal(t, "UnknownKKT", ipf.System(9).String())
}
