package ipf

import (
	"fmt"

	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/sparse"
)

// kktCache holds the write-once symbolic factorization state reused across
// iterations while the KKT sparsity pattern is static.
type kktCache struct {
	sym *sparse.Symbolic
}

// buildSparseFullKKT assembles the (n+m+n) full KKT matrix for the current
// iterate. Every diagonal entry is stored explicitly (zero where the block
// diagonal vanishes) so the regularization update and the symbolic pattern
// are iteration-invariant.
func buildSparseFullKKT(a *sparse.CSR, x, z []float64) (*sparse.CSR, error) {
	m, n := a.Rows(), a.Cols()
	dim := n + m + n
	b := sparse.NewBuilder(dim, dim)
	rowPtr, colIdx, val := a.RowPtr(), a.ColIdx(), a.Values()
	for i := 0; i < m; i++ {
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			k := colIdx[p]
			if err := b.Add(k, n+i, val[p]); err != nil {
				return nil, err
			}
			if err := b.Add(n+i, k, val[p]); err != nil {
				return nil, err
			}
		}
	}
	for k := 0; k < n; k++ {
		if err := b.Add(k, n+m+k, -1); err != nil {
			return nil, err
		}
		if err := b.Add(n+m+k, k, -1); err != nil {
			return nil, err
		}
	}
	for i := 0; i < dim; i++ {
		v := 0.0
		if i >= n+m {
			k := i - n - m
			v = -x[k] / z[k]
		}
		if err := b.Add(i, i, v); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// buildSparseAugmentedKKT assembles the (n+m) augmented KKT matrix, again
// with every diagonal entry explicit.
func buildSparseAugmentedKKT(a *sparse.CSR, x, z []float64) (*sparse.CSR, error) {
	m, n := a.Rows(), a.Cols()
	dim := n + m
	b := sparse.NewBuilder(dim, dim)
	rowPtr, colIdx, val := a.RowPtr(), a.ColIdx(), a.Values()
	for i := 0; i < m; i++ {
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			k := colIdx[p]
			if err := b.Add(k, n+i, val[p]); err != nil {
				return nil, err
			}
			if err := b.Add(n+i, k, val[p]); err != nil {
				return nil, err
			}
		}
	}
	for i := 0; i < dim; i++ {
		v := 0.0
		if i < n {
			v = z[i] / x[i]
		}
		if err := b.Add(i, i, v); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// applyRegularization adds the quasi-definite diagonal perturbation in
// place: +Primal on the first nPrimal diagonal entries, −Dual on the rest.
// Every diagonal entry exists by construction.
func applyRegularization(j *sparse.CSR, nPrimal int, reg RegOptions) error {
	for i := 0; i < j.Rows(); i++ {
		pos, ok := j.Find(i, i)
		if !ok {
			return fmt.Errorf("missing diagonal entry %d: %w", i, ErrDimensionMismatch)
		}
		if i < nPrimal {
			j.Values()[pos] += reg.Primal
		} else {
			j.Values()[pos] -= reg.Dual
		}
	}

	return nil
}

// regularizedFactor equilibrates and factors the regularized system,
// populating the symbolic cache on first use, and returns an in-place
// solver for the regularized-but-unequilibrated system.
func regularizedFactor(j *sparse.CSR, cache *kktCache) (func([]float64) error, error) {
	d, err := sparse.SymmetricGeomEquil(j)
	if err != nil {
		return nil, err
	}
	if cache.sym == nil {
		perm, _, err := sparse.NestedDissection(j)
		if err != nil {
			return nil, err
		}
		cache.sym, err = sparse.Analyze(j, perm)
		if err != nil {
			return nil, err
		}
	}
	f, err := sparse.Factorize(j, cache.sym)
	if err != nil {
		return nil, err
	}

	return func(v []float64) error {
		for i := range v {
			v[i] /= d[i]
		}
		if err := f.Solve(v); err != nil {
			return err
		}
		for i := range v {
			v[i] /= d[i]
		}
		return nil
	}, nil
}

// refineSolve solves jOrig·v = b by iterative refinement: inner solves a
// nearby (regularized, equilibrated) system; the loop drives the residual
// against jOrig below reg.RefineTol. The solution overwrites b.
func refineSolve(jOrig *sparse.CSR, inner func([]float64) error, b []float64, reg RegOptions) error {
	v := make([]float64, len(b))
	copy(v, b)
	if err := inner(v); err != nil {
		return err
	}
	bNrm := dense.Nrm2(b)
	if bNrm == 0 {
		copy(b, v)
		return nil
	}

	r := make([]float64, len(b))
	corr := make([]float64, len(b))
	for it := 0; it < reg.MaxRefineIts; it++ {
		copy(r, b)
		if err := jOrig.Multiply(false, -1, v, 1, r); err != nil {
			return err
		}
		if dense.Nrm2(r)/bNrm <= reg.RefineTol {
			break
		}
		copy(corr, r)
		if err := inner(corr); err != nil {
			return err
		}
		dense.Axpy(1, corr, v)
	}
	copy(b, v)

	return nil
}

// sparseNewton computes the Newton direction from the selected system using
// the regularized LDL pipeline. The symbolic cache is populated on first
// use and reused afterwards.
func sparseNewton(a *sparse.CSR, cache *kktCache,
	x, z, rb, rc, rmu, dx, dy, dz []float64, opts *Options) error {

	m, n := a.Rows(), a.Cols()
	switch opts.System {
	case FullKKT:
		j, err := buildSparseFullKKT(a, x, z)
		if err != nil {
			return err
		}
		jOrig := j.Clone()
		if err := applyRegularization(j, n, opts.Reg); err != nil {
			return err
		}
		inner, err := regularizedFactor(j, cache)
		if err != nil {
			return err
		}
		rhs := make([]float64, n+m+n)
		for k := 0; k < n; k++ {
			rhs[k] = -rc[k]
			rhs[n+m+k] = rmu[k] / z[k]
		}
		for i := 0; i < m; i++ {
			rhs[n+i] = -rb[i]
		}
		if err := refineSolve(jOrig, inner, rhs, opts.Reg); err != nil {
			return err
		}
		copy(dx, rhs[:n])
		copy(dy, rhs[n:n+m])
		copy(dz, rhs[n+m:])
		return nil

	case AugmentedKKT:
		j, err := buildSparseAugmentedKKT(a, x, z)
		if err != nil {
			return err
		}
		jOrig := j.Clone()
		if err := applyRegularization(j, n, opts.Reg); err != nil {
			return err
		}
		inner, err := regularizedFactor(j, cache)
		if err != nil {
			return err
		}
		rhs := make([]float64, n+m)
		for k := 0; k < n; k++ {
			rhs[k] = -rc[k] - rmu[k]/x[k]
		}
		for i := 0; i < m; i++ {
			rhs[n+i] = -rb[i]
		}
		if err := refineSolve(jOrig, inner, rhs, opts.Reg); err != nil {
			return err
		}
		copy(dx, rhs[:n])
		copy(dy, rhs[n:])
		for k := 0; k < n; k++ {
			dz[k] = -(rmu[k] + z[k]*dx[k]) / x[k]
		}
		return nil

	case NormalKKT:
		// No regularization or equilibration here: the Gram matrix is
		// positive definite for an interior iterate.
		dvec := make([]float64, n)
		for k := 0; k < n; k++ {
			dvec[k] = x[k] / z[k]
		}
		g, err := sparse.NormalMatrix(a, dvec)
		if err != nil {
			return err
		}
		if cache.sym == nil {
			perm, _, err := sparse.NestedDissection(g)
			if err != nil {
				return err
			}
			cache.sym, err = sparse.Analyze(g, perm)
			if err != nil {
				return err
			}
		}
		f, err := sparse.Factorize(g, cache.sym)
		if err != nil {
			return err
		}

		w := make([]float64, n)
		for k := 0; k < n; k++ {
			w[k] = dvec[k] * (rc[k] + rmu[k]/x[k])
		}
		rhs := make([]float64, m)
		copy(rhs, rb)
		if err := a.Multiply(false, -1, w, 1, rhs); err != nil {
			return err
		}
		if err := refineSolve(g, f.Solve, rhs, opts.Reg); err != nil {
			return err
		}
		copy(dy, rhs)

		copy(dz, rc)
		if err := a.Multiply(true, 1, dy, 1, dz); err != nil {
			return err
		}
		for k := 0; k < n; k++ {
			dx[k] = -(rmu[k] + x[k]*dz[k]) / z[k]
		}
		return nil

	default:
		return fmt.Errorf("system %v: %w", opts.System, ErrBadOptions)
	}
}
