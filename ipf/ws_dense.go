package ipf

import (
	"github.com/katalvlaran/lvlopt/dense"
)

// seqReductions provides the sequential implementations of the global
// reductions: with one rank, they are plain dense kernels.
type seqReductions struct{}

func (seqReductions) isRoot() bool                      { return true }
func (seqReductions) dot(x, y []float64) float64        { return dense.Dot(x, y) }
func (seqReductions) nrm2(x []float64) float64          { return dense.Nrm2(x) }
func (seqReductions) minEntry(x []float64) float64      { return dense.MinEntry(x) }
func (seqReductions) numNonPositive(x []float64) int    { return dense.NumNonPositive(x) }
func (seqReductions) maxStep(v, dv []float64, upper float64) float64 {
	return dense.MaxStepInPositiveCone(v, dv, upper)
}

// denseWorkspace is the sequential dense regime: working copies of the LP
// data, mutated by equilibration, and dense KKT solves.
type denseWorkspace struct {
	seqReductions
	a    *dense.Dense
	b, c []float64
	// Equilibration scalings; nil while equilibration is off.
	dRow, dCol []float64
}

func newDenseWorkspace(a *dense.Dense, b, c []float64) (*denseWorkspace, error) {
	if len(b) != a.Rows() || len(c) != a.Cols() {
		return nil, ErrDimensionMismatch
	}
	w := &denseWorkspace{
		a: a.Clone(),
		b: append([]float64(nil), b...),
		c: append([]float64(nil), c...),
	}

	return w, nil
}

func (w *denseWorkspace) rows() int { return w.a.Rows() }
func (w *denseWorkspace) cols() int { return w.a.Cols() }

func (w *denseWorkspace) bNorm() float64 { return dense.Nrm2(w.b) }
func (w *denseWorkspace) cNorm() float64 { return dense.Nrm2(w.c) }

func (w *denseWorkspace) primalObjective(x []float64) float64 { return dense.Dot(w.c, x) }
func (w *denseWorkspace) dualObjective(y []float64) float64   { return -dense.Dot(w.b, y) }

func (w *denseWorkspace) primalResidual(x, rb []float64) {
	for i := range rb {
		rb[i] = -w.b[i]
	}
	// rb = A·x − b; sizes are fixed by construction.
	_ = dense.Gemv(false, 1, w.a, x, 1, rb)
}

func (w *denseWorkspace) dualResidual(y, z, rc []float64) {
	for k := range rc {
		rc[k] = w.c[k] - z[k]
	}
	_ = dense.Gemv(true, 1, w.a, y, 1, rc)
}

func (w *denseWorkspace) equilibrate(x, y, z []float64, opts *Options) error {
	if !opts.Equilibrate {
		return nil
	}
	w.dRow, w.dCol = dense.GeomEquil(w.a)
	scaleProblem(w.b, w.c, x, y, z, w.dRow, w.dCol, opts)

	return nil
}

func (w *denseWorkspace) unequilibrate(x, y, z []float64) {
	unscaleIterate(x, y, z, w.dRow, w.dCol)
}

func (w *denseWorkspace) initialize(x, y, z []float64, opts *Options) error {
	return denseInitialize(w.a, w.b, w.c, x, y, z, opts)
}

func (w *denseWorkspace) newton(x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error {
	return denseNewton(w.a, x, z, rb, rc, rmu, dx, dy, dz, opts.System)
}

// scaleProblem applies the forward equilibration to b, c and to the
// caller-supplied iterate sides: with A ← Dr⁻¹·A·Dc⁻¹ the scaled problem
// uses b ← Dr⁻¹·b, c ← Dc⁻¹·c, x ← Dc·x, y ← Dr·y, z ← Dc⁻¹·z.
func scaleProblem(b, c, x, y, z, dRow, dCol []float64, opts *Options) {
	for i := range b {
		b[i] /= dRow[i]
	}
	for k := range c {
		c[k] /= dCol[k]
	}
	if opts.PrimalInit {
		for k := range x {
			x[k] *= dCol[k]
		}
	}
	if opts.DualInit {
		for i := range y {
			y[i] *= dRow[i]
		}
		for k := range z {
			z[k] /= dCol[k]
		}
	}
}

// unscaleIterate exactly inverts the iterate scaling on every exit path:
// x ← Dc⁻¹·x, y ← Dr⁻¹·y, z ← Dc·z. A nil scaling means equilibration
// never ran.
func unscaleIterate(x, y, z, dRow, dCol []float64) {
	if dRow == nil {
		return
	}
	for k := range x {
		x[k] /= dCol[k]
	}
	for i := range y {
		y[i] /= dRow[i]
	}
	for k := range z {
		z[k] *= dCol[k]
	}
}
