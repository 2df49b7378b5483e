package ipf

import (
	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/sparse"
)

// sparseWorkspace is the sequential sparse regime: CSR matrix data and the
// regularized LDL pipeline, with the symbolic analysis cached across
// iterations.
type sparseWorkspace struct {
	seqReductions
	a     *sparse.CSR
	b, c  []float64
	cache kktCache

	dRow, dCol []float64
}

func newSparseWorkspace(a *sparse.CSR, b, c []float64) (*sparseWorkspace, error) {
	if len(b) != a.Rows() || len(c) != a.Cols() {
		return nil, ErrDimensionMismatch
	}
	w := &sparseWorkspace{
		a: a.Clone(),
		b: append([]float64(nil), b...),
		c: append([]float64(nil), c...),
	}

	return w, nil
}

func (w *sparseWorkspace) rows() int { return w.a.Rows() }
func (w *sparseWorkspace) cols() int { return w.a.Cols() }

func (w *sparseWorkspace) bNorm() float64 { return dense.Nrm2(w.b) }
func (w *sparseWorkspace) cNorm() float64 { return dense.Nrm2(w.c) }

func (w *sparseWorkspace) primalObjective(x []float64) float64 { return dense.Dot(w.c, x) }
func (w *sparseWorkspace) dualObjective(y []float64) float64   { return -dense.Dot(w.b, y) }

func (w *sparseWorkspace) primalResidual(x, rb []float64) {
	for i := range rb {
		rb[i] = -w.b[i]
	}
	_ = w.a.Multiply(false, 1, x, 1, rb)
}

func (w *sparseWorkspace) dualResidual(y, z, rc []float64) {
	for k := range rc {
		rc[k] = w.c[k] - z[k]
	}
	_ = w.a.Multiply(true, 1, y, 1, rc)
}

func (w *sparseWorkspace) equilibrate(x, y, z []float64, opts *Options) error {
	if !opts.Equilibrate {
		return nil
	}
	w.dRow, w.dCol = sparse.GeomEquil(w.a)
	scaleProblem(w.b, w.c, x, y, z, w.dRow, w.dCol, opts)

	return nil
}

func (w *sparseWorkspace) unequilibrate(x, y, z []float64) {
	unscaleIterate(x, y, z, w.dRow, w.dCol)
}

func (w *sparseWorkspace) initialize(x, y, z []float64, opts *Options) error {
	return sparseInitialize(w.a, &w.cache, w.b, w.c, x, y, z, opts)
}

func (w *sparseWorkspace) newton(x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error {
	return sparseNewton(w.a, &w.cache, x, z, rb, rc, rmu, dx, dy, dz, opts)
}
