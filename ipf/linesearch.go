package ipf

import "math"

// lineSearchBounds carries the per-iteration constants of the backtracking
// search: the cone-limited upper bound, the incumbent duality measure and
// residual norms, and the feasibility floors derived from the target
// tolerance.
type lineSearchBounds struct {
	upper          float64
	mu0            float64
	rbNrm0, rcNrm0 float64
	bTol, cTol     float64
	gamma          float64
	ratio          float64
	maxIts         int
	numCols        int
}

// lineSearch backtracks from the cone bound until a step satisfies all of:
//
//  1. centrality: min(x̂∘ẑ) ≥ gamma·mû,
//  2. progress:   mû ≤ (1 − 0.01·alpha)·mu0,
//  3. primal feasibility: ‖r̂b‖ ≤ max(bTol, (1 − alpha/2)·‖rb‖),
//  4. dual feasibility:   ‖r̂c‖ ≤ max(cTol, (1 − alpha/2)·‖rc‖),
//
// and returns 0 when no such step is found within the backtracking budget.
// The feasibility floors bTol and cTol allow residuals already below the
// target tolerance to stop shrinking.
func lineSearch(ws workspace, x, y, z, dx, dy, dz []float64, b lineSearchBounds) float64 {
	xCand := make([]float64, len(x))
	yCand := make([]float64, len(y))
	zCand := make([]float64, len(z))
	prod := make([]float64, len(x))
	rbCand := make([]float64, len(y))
	rcCand := make([]float64, len(x))

	alpha := b.upper
	for it := 0; it < b.maxIts && alpha > 0; it++ {
		for i := range x {
			xCand[i] = x[i] + alpha*dx[i]
			zCand[i] = z[i] + alpha*dz[i]
			prod[i] = xCand[i] * zCand[i]
		}
		for i := range y {
			yCand[i] = y[i] + alpha*dy[i]
		}

		muCand := ws.dot(xCand, zCand) / float64(b.numCols)
		if ws.minEntry(prod) < b.gamma*muCand {
			alpha *= b.ratio
			continue
		}
		if muCand > (1-0.01*alpha)*b.mu0 {
			alpha *= b.ratio
			continue
		}
		ws.primalResidual(xCand, rbCand)
		if ws.nrm2(rbCand) > math.Max(b.bTol, (1-alpha/2)*b.rbNrm0) {
			alpha *= b.ratio
			continue
		}
		ws.dualResidual(yCand, zCand, rcCand)
		if ws.nrm2(rcCand) > math.Max(b.cTol, (1-alpha/2)*b.rcNrm0) {
			alpha *= b.ratio
			continue
		}

		return alpha
	}

	return 0
}
