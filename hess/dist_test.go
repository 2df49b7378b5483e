package hess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/dist"
	"github.com/katalvlaran/lvlopt/grid"
	"github.com/katalvlaran/lvlopt/hess"
)

// shardCols copies columns [off, off+cnt) of src into a fresh matrix.
func shardCols(t *testing.T, src *hess.Matrix, off, cnt int) *hess.Matrix {
	t.Helper()
	m := src.Rows()
	out, err := hess.NewMatrix(m, cnt)
	require.NoError(t, err)
	for j := 0; j < cnt; j++ {
		for i := 0; i < m; i++ {
			v, aerr := src.At(i, off+j)
			require.NoError(t, aerr)
			require.NoError(t, out.Set(i, j, v))
		}
	}

	return out
}

func TestSolveDist_MatchesSequential(t *testing.T) {
	shifts := []complex128{0.3 + 0.1i, -1, 2i}
	alpha := complex128(1.5 - 0.5i)

	for _, tc := range []struct {
		name string
		uplo hess.Uplo
		mk   func(*testing.T) *hess.Matrix
	}{
		{"lower", hess.Lower, lowerHessenberg},
		{"upper", hess.Upper, upperHessenberg},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.mk(t)
			want := rhs(t)
			require.NoError(t, hess.Solve(tc.uplo, hess.Normal, alpha, h, shifts, want))

			err := grid.Run(3, func(c *grid.Comm) error {
				off, cnt := dist.BlockRange(len(shifts), c.Size(), c.Rank())

				var hLocal *hess.Matrix
				if c.Rank() == 0 {
					hLocal = tc.mk(t)
				}
				x := shardCols(t, rhs(t), off, cnt)

				if derr := hess.SolveDist(c, tc.uplo, hess.Normal, alpha, hLocal, shifts[off:off+cnt], x); derr != nil {
					return derr
				}

				for j := 0; j < cnt; j++ {
					for i := 0; i < x.Rows(); i++ {
						got, aerr := x.At(i, j)
						require.NoError(t, aerr)
						exp, eerr := want.At(i, off+j)
						require.NoError(t, eerr)
						assert.InDelta(t, real(exp), real(got), 1e-12)
						assert.InDelta(t, imag(exp), imag(got), 1e-12)
					}
				}

				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestSolveDist_ShapeValidation(t *testing.T) {
	err := grid.Run(2, func(c *grid.Comm) error {
		var h *hess.Matrix
		if c.Rank() == 0 {
			var merr error
			h, merr = hess.NewMatrix(3, 4)
			if merr != nil {
				return merr
			}
		}
		x, merr := hess.NewMatrix(3, 1)
		if merr != nil {
			return merr
		}

		return hess.SolveDist(c, hess.Lower, hess.Normal, 1, h, []complex128{0}, x)
	})
	assert.ErrorIs(t, err, hess.ErrNonSquare)
}

func TestSolveDist_UnsupportedOrientation(t *testing.T) {
	err := grid.Run(2, func(c *grid.Comm) error {
		x, merr := hess.NewMatrix(1, 1)
		if merr != nil {
			return merr
		}

		return hess.SolveDist(c, hess.Lower, hess.Adjoint, 1, x, []complex128{0}, x)
	})
	assert.ErrorIs(t, err, hess.ErrUnsupportedOrientation)
}
