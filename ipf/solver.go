package ipf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// workspace is the linear-algebra capability interface one regime
// implements. Vector arguments are regime-local shards: full vectors in the
// sequential regimes, block shards in the distributed ones. Reductions are
// global; elementwise operations are local.
type workspace interface {
	rows() int
	cols() int
	// isRoot gates logging; true on the only rank that should print.
	isRoot() bool

	dot(x, y []float64) float64
	nrm2(x []float64) float64
	minEntry(x []float64) float64
	numNonPositive(x []float64) int
	maxStep(v, dv []float64, upper float64) float64

	bNorm() float64
	cNorm() float64
	primalObjective(x []float64) float64 // cᵀx
	dualObjective(y []float64) float64   // −bᵀy
	primalResidual(x, rb []float64)      // rb ← A·x − b
	dualResidual(y, z, rc []float64)     // rc ← Aᵀ·y − z + c

	// equilibrate scales the working copies of A, b, c and any
	// caller-supplied iterate sides; unequilibrate exactly inverts the
	// iterate scaling and is a no-op when equilibrate did not run.
	equilibrate(x, y, z []float64, opts *Options) error
	unequilibrate(x, y, z []float64)

	// initialize fills the iterate sides the caller did not supply.
	initialize(x, y, z []float64, opts *Options) error

	// newton computes the search direction from the selected KKT system.
	newton(x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error
}

// acceptOrEscalate implements the soft-fail policy shared by every
// breakdown site: a numerical failure is a success if the iterate already
// meets the minimum tolerance, fatal otherwise.
func acceptOrEscalate(relError, minTol float64, cause error) error {
	if relError <= minTol {
		return nil
	}

	return fmt.Errorf("relative error %.3e above minTol %.3e (%v): %w",
		relError, minTol, cause, ErrNumericalFailure)
}

// run drives the interior-point iteration over a regime workspace. The
// iterate shards x, y, z are updated in place; on return they are expressed
// in the caller's original (unequilibrated) scaling on every exit path.
func run(ws workspace, x, y, z []float64, opts Options) (Info, error) {
	if err := opts.validate(); err != nil {
		return Info{}, err
	}
	n := ws.cols()

	if err := ws.equilibrate(x, y, z, &opts); err != nil {
		return Info{}, err
	}
	defer ws.unequilibrate(x, y, z)

	if err := ws.initialize(x, y, z, &opts); err != nil {
		return Info{}, err
	}

	bNrm2 := ws.bNorm()
	cNrm2 := ws.cNorm()
	logf := func(format string, args ...any) {
		if opts.Log != nil && ws.isRoot() {
			opts.Log(format, args...)
		}
	}

	rb := make([]float64, len(y))
	rc := make([]float64, len(x))
	rmu := make([]float64, len(x))
	dx := make([]float64, len(x))
	dy := make([]float64, len(y))
	dz := make([]float64, len(x))

	var info Info
	for numIts := 0; ; numIts++ {
		info.Iterations = numIts

		// The iterate must stay strictly interior.
		if ws.numNonPositive(x) > 0 || ws.numNonPositive(z) > 0 {
			return info, ErrNonPositiveIterate
		}

		mu := ws.dot(x, z) / float64(n)
		info.Mu = mu

		// Relative objective gap and primal/dual feasibility measures.
		primObj := ws.primalObjective(x)
		dualObj := ws.dualObjective(y)
		objConv := math.Abs(primObj-dualObj) / (1 + math.Abs(primObj))
		ws.primalResidual(x, rb)
		rbNrm2 := ws.nrm2(rb)
		rbConv := rbNrm2 / (1 + bNrm2)
		ws.dualResidual(y, z, rc)
		rcNrm2 := ws.nrm2(rc)
		rcConv := rcNrm2 / (1 + cNrm2)
		relError := math.Max(objConv, math.Max(rbConv, rcConv))
		info.RelError = relError

		logf("iter %d: mu=%.3e objConv=%.3e rbConv=%.3e rcConv=%.3e",
			numIts, mu, objConv, rbConv, rcConv)

		if relError <= opts.TargetTol {
			break
		}
		if numIts == opts.MaxIts {
			if err := acceptOrEscalate(relError, opts.MinTol,
				fmt.Errorf("iteration budget %d exhausted", opts.MaxIts)); err != nil {
				return info, err
			}
			break
		}

		// Centering residual rmu = x∘z − sigma·mu·e.
		for i := range rmu {
			rmu[i] = x[i]*z[i] - opts.Centering*mu
		}

		if err := ws.newton(x, z, rb, rc, rmu, dx, dy, dz, &opts); err != nil {
			if aerr := acceptOrEscalate(relError, opts.MinTol, err); aerr != nil {
				return info, aerr
			}
			// Soft success: keep the previous iterate, never apply the
			// failed direction.
			break
		}
		if opts.CheckDirections {
			checkDirections(ws, logf, x, z, rb, rc, rmu, dx, dy, dz)
		}

		alphaPrimal := ws.maxStep(x, dx, 1)
		alphaDual := ws.maxStep(z, dz, 1)
		alphaMax := math.Min(alphaPrimal, alphaDual)
		logf("iter %d: alphaMax=%.3e", numIts, alphaMax)

		alpha := lineSearch(ws, x, y, z, dx, dy, dz, lineSearchBounds{
			upper:   0.99 * alphaMax,
			mu0:     mu,
			rbNrm0:  rbNrm2,
			rcNrm0:  rcNrm2,
			bTol:    opts.TargetTol * (1 + bNrm2),
			cTol:    opts.TargetTol * (1 + cNrm2),
			gamma:   opts.LineSearch.Gamma,
			ratio:   opts.LineSearch.StepRatio,
			maxIts:  opts.LineSearch.MaxIts,
			numCols: n,
		})
		logf("iter %d: alpha=%.3e", numIts, alpha)
		if alpha == 0 {
			if err := acceptOrEscalate(relError, opts.MinTol,
				fmt.Errorf("zero step length")); err != nil {
				return info, err
			}
			break
		}

		// Shard-local iterate update.
		floats.AddScaled(x, alpha, dx)
		floats.AddScaled(y, alpha, dy)
		floats.AddScaled(z, alpha, dz)
	}

	return info, nil
}

// checkDirections logs the residual norms of the computed direction against
// the Newton system it should satisfy:
//
//	dxError = rb + A·dx
//	dyError = rc + Aᵀ·dy − dz
//	dzError = rmu + x∘dz + z∘dx
func checkDirections(ws workspace, logf func(string, ...any),
	x, z, rb, rc, rmu, dx, dy, dz []float64) {

	dxError := make([]float64, len(rb))
	copy(dxError, rb)
	tmp := make([]float64, len(rb))
	ws.primalResidual(dx, tmp)
	// primalResidual subtracts b; add it back by using the relation
	// (A·dx − b) + b = A·dx through a second call with the zero vector.
	zero := make([]float64, len(dx))
	base := make([]float64, len(rb))
	ws.primalResidual(zero, base) // base = −b
	for i := range dxError {
		dxError[i] += tmp[i] - base[i]
	}

	dyError := make([]float64, len(rc))
	copy(dyError, rc)
	tmp2 := make([]float64, len(rc))
	ws.dualResidual(dy, dz, tmp2)
	zeroY := make([]float64, len(dy))
	baseC := make([]float64, len(rc))
	ws.dualResidual(zeroY, zero, baseC) // baseC = +c
	for i := range dyError {
		dyError[i] += tmp2[i] - baseC[i]
	}

	dzError := make([]float64, len(rmu))
	for i := range dzError {
		dzError[i] = rmu[i] + x[i]*dz[i] + z[i]*dx[i]
	}

	logf("direction residuals: |dx|=%.3e |dy|=%.3e |dz|=%.3e",
		ws.nrm2(dxError), ws.nrm2(dyError), ws.nrm2(dzError))
}
