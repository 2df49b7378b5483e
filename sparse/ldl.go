package sparse

import (
	"math"
)

// Symbolic holds the structure of an LDLᵀ factorization of PAPᵀ: the
// permutation, the elimination tree, and the column pointers of L. It
// depends only on the sparsity pattern of A, so one Symbolic serves every
// numeric refactorization of a matrix whose pattern is static.
type Symbolic struct {
	n      int
	perm   []int // perm[k]: original index eliminated k-th
	inv    []int // inv[perm[k]] == k
	parent []int // elimination tree
	lp     []int // column pointers of L, length n+1
}

// IdentityPerm returns the trivial ordering of length n.
func IdentityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	return p
}

// Analyze computes the symbolic LDLᵀ factorization of the symmetric matrix
// a under the ordering perm: the elimination tree and the exact nonzero
// count of every column of L. The matrix must store its full symmetric
// pattern (both triangles).
//
// Errors: ErrNonSquare; ErrDimensionMismatch when len(perm) != n.
// Complexity: O(nnz) amortized via the path-compression flag walk.
func Analyze(a *CSR, perm []int) (*Symbolic, error) {
	if a.m != a.n {
		return nil, ErrNonSquare
	}
	n := a.n
	if len(perm) != n {
		return nil, ErrDimensionMismatch
	}

	s := &Symbolic{
		n:      n,
		perm:   make([]int, n),
		inv:    make([]int, n),
		parent: make([]int, n),
		lp:     make([]int, n+1),
	}
	copy(s.perm, perm)
	for k, v := range perm {
		s.inv[v] = k
	}

	flag := make([]int, n)
	lnz := make([]int, n)
	for k := 0; k < n; k++ {
		s.parent[k] = -1
		flag[k] = k
		row := s.perm[k]
		for p := a.rowPtr[row]; p < a.rowPtr[row+1]; p++ {
			i := s.inv[a.colIdx[p]]
			if i >= k {
				continue
			}
			// Walk from i toward the root of the partial etree, marking the
			// path; every unflagged vertex gains a nonzero in column i of L.
			for flag[i] != k {
				if s.parent[i] == -1 {
					s.parent[i] = k
				}
				lnz[i]++
				flag[i] = k
				i = s.parent[i]
			}
		}
	}
	for k := 0; k < n; k++ {
		s.lp[k+1] = s.lp[k] + lnz[k]
	}

	return s, nil
}

// LDLFactor is a numeric LDLᵀ factorization PAPᵀ = L·D·Lᵀ with L unit lower
// triangular (unit diagonal not stored) and D diagonal.
type LDLFactor struct {
	sym *Symbolic
	li  []int
	lx  []float64
	d   []float64
}

// Factorize computes the numeric factorization of the symmetric matrix a
// using the precomputed symbolic structure. The same Symbolic may be reused
// across calls as long as the pattern of a is unchanged.
//
// Errors: ErrBreakdown on a zero or non-finite pivot; the returned factor is
// nil and must not be used.
// Complexity: O(nnz(L) · average column length).
func Factorize(a *CSR, sym *Symbolic) (*LDLFactor, error) {
	n := sym.n
	if a.m != n || a.n != n {
		return nil, ErrDimensionMismatch
	}

	f := &LDLFactor{
		sym: sym,
		li:  make([]int, sym.lp[n]),
		lx:  make([]float64, sym.lp[n]),
		d:   make([]float64, n),
	}

	y := make([]float64, n)
	pattern := make([]int, n)
	flag := make([]int, n)
	lnz := make([]int, n)
	for i := range flag {
		flag[i] = -1
	}

	for k := 0; k < n; k++ {
		top := n
		flag[k] = k
		lnz[k] = 0
		row := sym.perm[k]
		for p := a.rowPtr[row]; p < a.rowPtr[row+1]; p++ {
			i := sym.inv[a.colIdx[p]]
			if i > k {
				continue
			}
			y[i] += a.val[p]
			var stack int
			for ; flag[i] != k; i = sym.parent[i] {
				pattern[stack] = i
				stack++
				flag[i] = k
			}
			// Reverse the path onto the pattern stack so columns are
			// processed in elimination order.
			for stack > 0 {
				stack--
				top--
				pattern[top] = pattern[stack]
			}
		}

		f.d[k] = y[k]
		y[k] = 0
		for ; top < n; top++ {
			i := pattern[top]
			yi := y[i]
			y[i] = 0
			end := sym.lp[i] + lnz[i]
			for p := sym.lp[i]; p < end; p++ {
				y[f.li[p]] -= f.lx[p] * yi
			}
			lki := yi / f.d[i]
			f.d[k] -= lki * yi
			f.li[end] = k
			f.lx[end] = lki
			lnz[i]++
		}
		if f.d[k] == 0 || math.IsNaN(f.d[k]) || math.IsInf(f.d[k], 0) {
			return nil, ErrBreakdown
		}
	}

	return f, nil
}

// Solve overwrites b with the solution of A·x = b through the factorization:
// permute, forward solve with L, scale by D⁻¹, backward solve with Lᵀ,
// unpermute.
//
// Errors: ErrDimensionMismatch when len(b) != n.
// Complexity: O(nnz(L)).
func (f *LDLFactor) Solve(b []float64) error {
	n := f.sym.n
	if len(b) != n {
		return ErrDimensionMismatch
	}

	x := make([]float64, n)
	for k := 0; k < n; k++ {
		x[k] = b[f.sym.perm[k]]
	}
	for k := 0; k < n; k++ {
		xk := x[k]
		for p := f.sym.lp[k]; p < f.sym.lp[k+1]; p++ {
			x[f.li[p]] -= f.lx[p] * xk
		}
	}
	for k := 0; k < n; k++ {
		x[k] /= f.d[k]
	}
	for k := n - 1; k >= 0; k-- {
		s := x[k]
		for p := f.sym.lp[k]; p < f.sym.lp[k+1]; p++ {
			s -= f.lx[p] * x[f.li[p]]
		}
		x[k] = s
	}
	for k := 0; k < n; k++ {
		b[f.sym.perm[k]] = x[k]
	}

	return nil
}
