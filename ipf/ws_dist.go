package ipf

import (
	"math"

	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/dist"
	"github.com/katalvlaran/lvlopt/grid"
	"github.com/katalvlaran/lvlopt/sparse"
)

// distMatrix is the distributed matrix capability both dist regimes share.
type distMatrix interface {
	Multiply(trans bool, alpha float64, x *dist.Vec, beta float64, y *dist.Vec) error
	ScaleRowsCols(dRow, dCol []float64) error
}

// distBase carries the distributed-regime state shared by the dense and
// sparse workspaces: the communicator, the distributed working copies of b
// and c, the distributed matrix for residual products, and the replicated
// equilibration scalings.
//
// The iteration-level vector work (residuals, objectives, norms, the line
// search) runs distributed; the KKT solve runs replicated — every rank
// gathers the full iterate and computes the identical direction, so all
// branch decisions stay globally consistent and no rank can diverge from
// the collective sequence.
type distBase struct {
	comm *grid.Comm
	m, n int
	b, c *dist.Vec
	mat  distMatrix

	dRow, dCol []float64
}

func (w *distBase) rows() int    { return w.m }
func (w *distBase) cols() int    { return w.n }
func (w *distBase) isRoot() bool { return w.comm.Rank() == 0 }

func (w *distBase) dot(x, y []float64) float64 {
	return w.comm.AllReduceScalarSum(dense.Dot(x, y))
}

func (w *distBase) nrm2(x []float64) float64 {
	return math.Sqrt(w.comm.AllReduceScalarSum(dense.Dot(x, x)))
}

func (w *distBase) minEntry(x []float64) float64 {
	return w.comm.AllReduceMin(dense.MinEntry(x))
}

func (w *distBase) numNonPositive(x []float64) int {
	return int(w.comm.AllReduceScalarSum(float64(dense.NumNonPositive(x))))
}

func (w *distBase) maxStep(v, dv []float64, upper float64) float64 {
	return w.comm.AllReduceMin(dense.MaxStepInPositiveCone(v, dv, upper))
}

func (w *distBase) bNorm() float64 { return w.b.Nrm2() }
func (w *distBase) cNorm() float64 { return w.c.Nrm2() }

func (w *distBase) primalObjective(x []float64) float64 {
	return w.comm.AllReduceScalarSum(dense.Dot(w.c.LocalData(), x))
}

func (w *distBase) dualObjective(y []float64) float64 {
	return -w.comm.AllReduceScalarSum(dense.Dot(w.b.LocalData(), y))
}

func (w *distBase) primalResidual(x, rb []float64) {
	bl := w.b.LocalData()
	for i := range rb {
		rb[i] = -bl[i]
	}
	// Shard lengths follow the workspace distribution by construction.
	xv, _ := dist.WrapVec(w.comm, w.n, x)
	rbv, _ := dist.WrapVec(w.comm, w.m, rb)
	_ = w.mat.Multiply(false, 1, xv, 1, rbv)
}

func (w *distBase) dualResidual(y, z, rc []float64) {
	cl := w.c.LocalData()
	for k := range rc {
		rc[k] = cl[k] - z[k]
	}
	yv, _ := dist.WrapVec(w.comm, w.m, y)
	rcv, _ := dist.WrapVec(w.comm, w.n, rc)
	_ = w.mat.Multiply(true, 1, yv, 1, rcv)
}

// scaleShards applies the forward equilibration to the distributed b and c
// and to the caller-supplied iterate shards, indexing the replicated
// scalings at the shard offsets.
func (w *distBase) scaleShards(x, y, z []float64, opts *Options) {
	bl, bOff := w.b.LocalData(), w.b.Offset()
	for i := range bl {
		bl[i] /= w.dRow[bOff+i]
	}
	cl, cOff := w.c.LocalData(), w.c.Offset()
	for k := range cl {
		cl[k] /= w.dCol[cOff+k]
	}
	if opts.PrimalInit {
		for k := range x {
			x[k] *= w.dCol[cOff+k]
		}
	}
	if opts.DualInit {
		for i := range y {
			y[i] *= w.dRow[bOff+i]
		}
		for k := range z {
			z[k] /= w.dCol[cOff+k]
		}
	}
}

func (w *distBase) unequilibrate(x, y, z []float64) {
	if w.dRow == nil {
		return
	}
	bOff, cOff := w.b.Offset(), w.c.Offset()
	for k := range x {
		x[k] /= w.dCol[cOff+k]
	}
	for i := range y {
		y[i] /= w.dRow[bOff+i]
	}
	for k := range z {
		z[k] *= w.dCol[cOff+k]
	}
}

// gatherIterate replicates the iterate shards on every rank. Collective.
func (w *distBase) gatherIterate(x, y, z []float64) (xF, yF, zF []float64) {
	return w.comm.AllGather(x), w.comm.AllGather(y), w.comm.AllGather(z)
}

func copyShard(dst, full []float64, off int) {
	copy(dst, full[off:off+len(dst)])
}

// distDenseWorkspace is the distributed dense regime: a block-row
// distributed copy of A for the iteration-level products plus a replicated
// copy for the KKT solves.
type distDenseWorkspace struct {
	distBase
	full *dense.Dense
}

func newDistDenseWorkspace(a *dist.Dense, b, c *dist.Vec) (*distDenseWorkspace, error) {
	if b.Len() != a.Rows() || c.Len() != a.Cols() {
		return nil, ErrDimensionMismatch
	}
	if b.Comm() != a.Comm() || c.Comm() != a.Comm() {
		return nil, dist.ErrDistributionMismatch
	}
	aw := a.Clone()
	full, err := aw.Replicate()
	if err != nil {
		return nil, err
	}
	w := &distDenseWorkspace{
		distBase: distBase{
			comm: a.Comm(),
			m:    a.Rows(),
			n:    a.Cols(),
			b:    b.Clone(),
			c:    c.Clone(),
			mat:  aw,
		},
		full: full,
	}

	return w, nil
}

func (w *distDenseWorkspace) equilibrate(x, y, z []float64, opts *Options) error {
	if !opts.Equilibrate {
		return nil
	}
	// GeomEquil on the replicated copy is deterministic, so every rank
	// computes identical scalings; the distributed copy follows.
	w.dRow, w.dCol = dense.GeomEquil(w.full)
	if err := w.mat.ScaleRowsCols(w.dRow, w.dCol); err != nil {
		return err
	}
	w.scaleShards(x, y, z, opts)

	return nil
}

func (w *distDenseWorkspace) initialize(x, y, z []float64, opts *Options) error {
	xF, yF, zF := w.gatherIterate(x, y, z)
	bF := w.b.AllGather()
	cF := w.c.AllGather()
	if err := denseInitialize(w.full, bF, cF, xF, yF, zF, opts); err != nil {
		return err
	}
	copyShard(x, xF, w.c.Offset())
	copyShard(y, yF, w.b.Offset())
	copyShard(z, zF, w.c.Offset())

	return nil
}

func (w *distDenseWorkspace) newton(x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error {
	xF := w.comm.AllGather(x)
	zF := w.comm.AllGather(z)
	rbF := w.comm.AllGather(rb)
	rcF := w.comm.AllGather(rc)
	rmuF := w.comm.AllGather(rmu)
	dxF := make([]float64, w.n)
	dyF := make([]float64, w.m)
	dzF := make([]float64, w.n)
	if err := denseNewton(w.full, xF, zF, rbF, rcF, rmuF, dxF, dyF, dzF, opts.System); err != nil {
		return err
	}
	copyShard(dx, dxF, w.c.Offset())
	copyShard(dy, dyF, w.b.Offset())
	copyShard(dz, dzF, w.c.Offset())

	return nil
}

// distSparseWorkspace is the distributed sparse regime: a block-row
// distributed CSR for the iteration-level products plus a replicated CSR
// and per-rank symbolic cache for the KKT solves.
type distSparseWorkspace struct {
	distBase
	full  *sparse.CSR
	cache kktCache
}

func newDistSparseWorkspace(a *dist.CSR, b, c *dist.Vec) (*distSparseWorkspace, error) {
	if b.Len() != a.Rows() || c.Len() != a.Cols() {
		return nil, ErrDimensionMismatch
	}
	if b.Comm() != a.Comm() || c.Comm() != a.Comm() {
		return nil, dist.ErrDistributionMismatch
	}
	aw := a.Clone()
	full, err := aw.Replicate()
	if err != nil {
		return nil, err
	}
	w := &distSparseWorkspace{
		distBase: distBase{
			comm: a.Comm(),
			m:    a.Rows(),
			n:    a.Cols(),
			b:    b.Clone(),
			c:    c.Clone(),
			mat:  aw,
		},
		full: full,
	}

	return w, nil
}

func (w *distSparseWorkspace) equilibrate(x, y, z []float64, opts *Options) error {
	if !opts.Equilibrate {
		return nil
	}
	w.dRow, w.dCol = sparse.GeomEquil(w.full)
	if err := w.mat.ScaleRowsCols(w.dRow, w.dCol); err != nil {
		return err
	}
	w.scaleShards(x, y, z, opts)

	return nil
}

func (w *distSparseWorkspace) initialize(x, y, z []float64, opts *Options) error {
	xF, yF, zF := w.gatherIterate(x, y, z)
	bF := w.b.AllGather()
	cF := w.c.AllGather()
	if err := sparseInitialize(w.full, &w.cache, bF, cF, xF, yF, zF, opts); err != nil {
		return err
	}
	copyShard(x, xF, w.c.Offset())
	copyShard(y, yF, w.b.Offset())
	copyShard(z, zF, w.c.Offset())

	return nil
}

func (w *distSparseWorkspace) newton(x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error {
	xF := w.comm.AllGather(x)
	zF := w.comm.AllGather(z)
	rbF := w.comm.AllGather(rb)
	rcF := w.comm.AllGather(rc)
	rmuF := w.comm.AllGather(rmu)
	dxF := make([]float64, w.n)
	dyF := make([]float64, w.m)
	dzF := make([]float64, w.n)
	if err := sparseNewton(w.full, &w.cache, xF, zF, rbF, rcF, rmuF, dxF, dyF, dzF, opts); err != nil {
		return err
	}
	copyShard(dx, dxF, w.c.Offset())
	copyShard(dy, dyF, w.b.Offset())
	copyShard(dz, dzF, w.c.Offset())

	return nil
}
