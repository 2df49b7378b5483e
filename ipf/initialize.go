package ipf

import (
	"math"

	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/sparse"
)

// standardShift moves the heuristic starting point strictly into the
// positive cone: each side is translated by
//
//	dpHat = dp + (xsᵀzs)/(2·Σzs),  dp = max(−1.5·min(x), 0)
//
// (and symmetrically for the dual side), which balances the initial
// complementarity products. Sides the caller supplied are left untouched.
func standardShift(x, z []float64, primalInit, dualInit bool) {
	dp := math.Max(-1.5*dense.MinEntry(x), 0)
	dd := math.Max(-1.5*dense.MinEntry(z), 0)

	gap := 0.0
	sumXs, sumZs := 0.0, 0.0
	for i := range x {
		xs := x[i] + dp
		zs := z[i] + dd
		gap += xs * zs
		sumXs += xs
		sumZs += zs
	}

	if !primalInit {
		dpHat := dp
		if sumZs > 0 {
			dpHat += 0.5 * gap / sumZs
		}
		dense.Shift(dpHat, x)
		// Degenerate data (b = 0) can leave the shift at zero; fall back
		// to the unit interior point.
		if m := dense.MinEntry(x); m <= 0 {
			dense.Shift(1-m, x)
		}
	}
	if !dualInit {
		ddHat := dd
		if sumXs > 0 {
			ddHat += 0.5 * gap / sumXs
		}
		dense.Shift(ddHat, z)
		if m := dense.MinEntry(z); m <= 0 {
			dense.Shift(1-m, z)
		}
	}
}

// denseInitialize computes the least-squares starting point for the sides
// the caller did not supply:
//
//	x = Aᵀ·(A·Aᵀ)⁻¹·b            (minimum-norm primal)
//	y = −(A·Aᵀ)⁻¹·A·c, z = Aᵀ·y + c   (least-squares dual)
//
// then applies the standard positive shift.
func denseInitialize(a *dense.Dense, b, c, x, y, z []float64, opts *Options) error {
	if opts.PrimalInit && opts.DualInit {
		return nil
	}
	m, n := a.Rows(), a.Cols()

	// Gram matrix A·Aᵀ, factored once for both solves.
	g, err := dense.New(m, m)
	if err != nil {
		return err
	}
	gd := g.Data()
	ad := a.Data()
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			s := 0.0
			for k := 0; k < n; k++ {
				s += ad[i*n+k] * ad[j*n+k]
			}
			gd[i*m+j] = s
			gd[j*m+i] = s
		}
	}
	f, err := dense.Factor(g)
	if err != nil {
		return err
	}

	if !opts.PrimalInit {
		u := make([]float64, m)
		copy(u, b)
		if err := f.Solve(u); err != nil {
			return err
		}
		for k := range x {
			x[k] = 0
		}
		if err := dense.Gemv(true, 1, a, u, 0, x); err != nil {
			return err
		}
	}
	if !opts.DualInit {
		q := make([]float64, m)
		if err := dense.Gemv(false, -1, a, c, 0, q); err != nil {
			return err
		}
		if err := f.Solve(q); err != nil {
			return err
		}
		copy(y, q)
		copy(z, c)
		if err := dense.Gemv(true, 1, a, y, 1, z); err != nil {
			return err
		}
	}

	standardShift(x, z, opts.PrimalInit, opts.DualInit)

	return nil
}

// sparseInitialize computes the same starting point through the augmented
// system with X = Z = I using the regularized LDL pipeline. When the solve
// runs with AugmentedKKT, the symbolic analysis performed here seeds the
// iteration's cache (the pattern is identical), so the loop never reruns
// the nested dissection.
func sparseInitialize(a *sparse.CSR, cache *kktCache, b, c, x, y, z []float64, opts *Options) error {
	if opts.PrimalInit && opts.DualInit {
		return nil
	}
	m, n := a.Rows(), a.Cols()

	ones := dense.Ones(n)
	j, err := buildSparseAugmentedKKT(a, ones, ones)
	if err != nil {
		return err
	}
	jOrig := j.Clone()
	if err := applyRegularization(j, n, opts.Reg); err != nil {
		return err
	}
	initCache := &kktCache{}
	if opts.System == AugmentedKKT {
		initCache = cache
	}
	inner, err := regularizedFactor(j, initCache)
	if err != nil {
		return err
	}

	if !opts.PrimalInit {
		// [I Aᵀ; A 0]·(v, u) = (0, b) gives v = −Aᵀu with A·v = b.
		rhs := make([]float64, n+m)
		copy(rhs[n:], b)
		if err := refineSolve(jOrig, inner, rhs, opts.Reg); err != nil {
			return err
		}
		copy(x, rhs[:n])
	}
	if !opts.DualInit {
		// [I Aᵀ; A 0]·(v, y) = (−c, 0) gives A·Aᵀ·y = −A·c, z = −v.
		rhs := make([]float64, n+m)
		for k := 0; k < n; k++ {
			rhs[k] = -c[k]
		}
		if err := refineSolve(jOrig, inner, rhs, opts.Reg); err != nil {
			return err
		}
		copy(y, rhs[n:])
		for k := 0; k < n; k++ {
			z[k] = -rhs[k]
		}
	}

	standardShift(x, z, opts.PrimalInit, opts.DualInit)

	return nil
}
