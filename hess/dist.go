package hess

import (
	"github.com/katalvlaran/lvlopt/grid"
)

// distRoot owns the Hessenberg operand at the start of a distributed solve.
const distRoot = 0

// SolveDist is the distributed multi-shift solve: the shifts and the
// matching columns of x are sharded across the communicator, each rank
// passing only the shard it owns, while the read-only Hessenberg operand is
// replicated from rank 0 to every rank before the purely local elimination.
// Since the sweeps never couple columns, no further communication is
// needed once the operand is replicated.
//
// Collective: every rank must call with the same uplo, orient and alpha.
// h must be the full matrix on rank 0 and is ignored (may be nil) on the
// other ranks. The solution overwrites each rank's x shard.
//
// Errors: as Solve; shape errors are reported on every rank whose local
// shard does not conform.
func SolveDist(c *grid.Comm, uplo Uplo, orient Orientation, alpha complex128, h *Matrix, shifts []complex128, x *Matrix) error {
	if orient != Normal {
		return ErrUnsupportedOrientation
	}

	// Replicate the operand: shape header first, then the entries split
	// into real and imaginary parts for the float64 collectives.
	hdr := make([]float64, 2)
	if c.Rank() == distRoot {
		hdr[0], hdr[1] = float64(h.r), float64(h.c)
	}
	if err := c.Broadcast(hdr, distRoot); err != nil {
		return err
	}
	rows, cols := int(hdr[0]), int(hdr[1])

	re := make([]float64, rows*cols)
	im := make([]float64, rows*cols)
	if c.Rank() == distRoot {
		for i, v := range h.data {
			re[i] = real(v)
			im[i] = imag(v)
		}
	}
	if err := c.Broadcast(re, distRoot); err != nil {
		return err
	}
	if err := c.Broadcast(im, distRoot); err != nil {
		return err
	}

	if rows != cols {
		return ErrNonSquare
	}
	if x.r != rows || len(shifts) != x.c {
		return ErrDimensionMismatch
	}

	local := h
	if c.Rank() != distRoot {
		local = &Matrix{r: rows, c: cols, data: make([]complex128, rows*cols)}
		for i := range local.data {
			local.data[i] = complex(re[i], im[i])
		}
	}

	if uplo == Lower {
		ln(alpha, local, shifts, x)
	} else {
		un(alpha, local, shifts, x)
	}

	return nil
}
