package ipf

import (
	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/dist"
	"github.com/katalvlaran/lvlopt/grid"
	"github.com/katalvlaran/lvlopt/sparse"
)

// Solve minimizes cᵀx subject to A·x = b, x ≥ 0 with the sequential dense
// regime. The iterate (x, y, z) is updated in place: sides declared supplied
// through opts.PrimalInit / opts.DualInit are used as the warm start, the
// rest are initialized by the least-squares heuristic. a, b and c are not
// modified.
//
// Errors: ErrBadOptions; ErrDimensionMismatch; ErrNonPositiveIterate when
// the iterate leaves the positive cone; ErrNumericalFailure when a
// breakdown occurs above opts.MinTol.
func Solve(a *dense.Dense, b, c, x, y, z []float64, opts Options) (Info, error) {
	if len(x) != a.Cols() || len(z) != a.Cols() || len(y) != a.Rows() {
		return Info{}, ErrDimensionMismatch
	}
	ws, err := newDenseWorkspace(a, b, c)
	if err != nil {
		return Info{}, err
	}

	return run(ws, x, y, z, opts)
}

// SolveSparse minimizes cᵀx subject to A·x = b, x ≥ 0 with the sequential
// sparse regime: regularized LDLᵀ factorizations under a nested-dissection
// ordering, with the symbolic analysis reused across iterations.
func SolveSparse(a *sparse.CSR, b, c, x, y, z []float64, opts Options) (Info, error) {
	if len(x) != a.Cols() || len(z) != a.Cols() || len(y) != a.Rows() {
		return Info{}, ErrDimensionMismatch
	}
	ws, err := newSparseWorkspace(a, b, c)
	if err != nil {
		return Info{}, err
	}

	return run(ws, x, y, z, opts)
}

// SolveDist is the distributed dense regime. Collective: every rank of the
// communicator must call it with conforming operands and the same opts. The
// iterate shards are updated in place.
func SolveDist(a *dist.Dense, b, c, x, y, z *dist.Vec, opts Options) (Info, error) {
	if err := checkDistIterate(a.Comm(), a.Rows(), a.Cols(), x, y, z); err != nil {
		return Info{}, err
	}
	ws, err := newDistDenseWorkspace(a, b, c)
	if err != nil {
		return Info{}, err
	}

	return run(ws, x.LocalData(), y.LocalData(), z.LocalData(), opts)
}

// SolveDistSparse is the distributed sparse regime. Collective.
func SolveDistSparse(a *dist.CSR, b, c, x, y, z *dist.Vec, opts Options) (Info, error) {
	if err := checkDistIterate(a.Comm(), a.Rows(), a.Cols(), x, y, z); err != nil {
		return Info{}, err
	}
	ws, err := newDistSparseWorkspace(a, b, c)
	if err != nil {
		return Info{}, err
	}

	return run(ws, x.LocalData(), y.LocalData(), z.LocalData(), opts)
}

func checkDistIterate(comm *grid.Comm, m, n int, x, y, z *dist.Vec) error {
	if x.Len() != n || z.Len() != n || y.Len() != m {
		return ErrDimensionMismatch
	}
	if x.Comm() != comm || y.Comm() != comm || z.Comm() != comm {
		return dist.ErrDistributionMismatch
	}

	return nil
}
