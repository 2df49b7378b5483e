package sparse

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlopt/dense"
)

// CSR is an m×n matrix in compressed sparse row form. Column indices within
// each row are strictly increasing, so entry lookup is a binary search and
// patterns built from the same insertion sequence are bit-identical.
type CSR struct {
	m, n   int
	rowPtr []int     // length m+1; row i occupies [rowPtr[i], rowPtr[i+1])
	colIdx []int     // column index per stored entry
	val    []float64 // value per stored entry
}

// Rows returns the number of rows.
func (c *CSR) Rows() int { return c.m }

// Cols returns the number of columns.
func (c *CSR) Cols() int { return c.n }

// NNZ returns the number of stored entries.
func (c *CSR) NNZ() int { return len(c.val) }

// RowPtr exposes the row pointer array without copying.
func (c *CSR) RowPtr() []int { return c.rowPtr }

// ColIdx exposes the column index array without copying.
func (c *CSR) ColIdx() []int { return c.colIdx }

// Values exposes the value array without copying. Mutating values through
// the returned slice is the supported way to refresh a matrix whose pattern
// is static across iterations.
func (c *CSR) Values() []float64 { return c.val }

// Scale multiplies every stored value by alpha, satisfying dense.Scaler.
func (c *CSR) Scale(alpha float64) { dense.Scal(alpha, c.val) }

// Find returns the storage position of entry (i, j), or ok=false when the
// entry is not part of the pattern. Complexity: O(log nnz(row i)).
func (c *CSR) Find(i, j int) (pos int, ok bool) {
	if i < 0 || i >= c.m || j < 0 || j >= c.n {
		return 0, false
	}
	lo, hi := c.rowPtr[i], c.rowPtr[i+1]
	p := lo + sort.SearchInts(c.colIdx[lo:hi], j)
	if p < hi && c.colIdx[p] == j {
		return p, true
	}

	return 0, false
}

// Clone returns a deep copy sharing no storage with the receiver.
func (c *CSR) Clone() *CSR {
	d := &CSR{
		m:      c.m,
		n:      c.n,
		rowPtr: make([]int, len(c.rowPtr)),
		colIdx: make([]int, len(c.colIdx)),
		val:    make([]float64, len(c.val)),
	}
	copy(d.rowPtr, c.rowPtr)
	copy(d.colIdx, c.colIdx)
	copy(d.val, c.val)

	return d
}

// Multiply computes y ← alpha·op(A)·x + beta·y, with op(A) = A when trans is
// false and Aᵀ when trans is true.
//
// Contract: len(x) matches the op(A) width and len(y) its height; violations
// return ErrDimensionMismatch before any mutation.
// Complexity: O(nnz).
func (c *CSR) Multiply(trans bool, alpha float64, x []float64, beta float64, y []float64) error {
	h, w := c.m, c.n
	if trans {
		h, w = c.n, c.m
	}
	if len(x) != w || len(y) != h {
		return fmt.Errorf("Multiply: op(A) is %dx%d, len(x)=%d, len(y)=%d: %w",
			h, w, len(x), len(y), ErrDimensionMismatch)
	}

	if beta == 0 {
		for i := range y {
			y[i] = 0
		}
	} else if beta != 1 {
		dense.Scal(beta, y)
	}
	if alpha == 0 {
		return nil
	}

	if !trans {
		for i := 0; i < c.m; i++ {
			s := 0.0
			for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
				s += c.val[p] * x[c.colIdx[p]]
			}
			y[i] += alpha * s
		}
		return nil
	}
	for i := 0; i < c.m; i++ {
		ax := alpha * x[i]
		if ax == 0 {
			continue
		}
		for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
			y[c.colIdx[p]] += ax * c.val[p]
		}
	}

	return nil
}

// Transpose returns Aᵀ as a new CSR. Complexity: O(m + n + nnz).
func (c *CSR) Transpose() *CSR {
	t := &CSR{
		m:      c.n,
		n:      c.m,
		rowPtr: make([]int, c.n+1),
		colIdx: make([]int, len(c.colIdx)),
		val:    make([]float64, len(c.val)),
	}
	for _, j := range c.colIdx {
		t.rowPtr[j+1]++
	}
	for j := 0; j < c.n; j++ {
		t.rowPtr[j+1] += t.rowPtr[j]
	}
	next := make([]int, c.n)
	copy(next, t.rowPtr[:c.n])
	for i := 0; i < c.m; i++ {
		for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
			j := c.colIdx[p]
			q := next[j]
			t.colIdx[q] = i
			t.val[q] = c.val[p]
			next[j]++
		}
	}

	return t
}

// NormalMatrix computes the weighted Gram product A·diag(d)·Aᵀ as a new
// symmetric m×m CSR with sorted rows. The pattern depends only on the
// pattern of a, so repeated calls with different weights produce identical
// structure and can share one symbolic factorization.
//
// Contract: len(d) == a.Cols().
// Complexity: O(Σᵢ Σ_{k∈row i} nnz(col k)) — the classic SpGEMM bound.
func NormalMatrix(a *CSR, d []float64) (*CSR, error) {
	if len(d) != a.n {
		return nil, fmt.Errorf("NormalMatrix: len(d)=%d, want %d: %w", len(d), a.n, ErrDimensionMismatch)
	}
	at := a.Transpose()

	b := NewBuilder(a.m, a.m)
	w := make([]float64, a.m)
	mark := make([]int, a.m)
	for i := range mark {
		mark[i] = -1
	}
	touched := make([]int, 0, a.m)
	for i := 0; i < a.m; i++ {
		touched = touched[:0]
		for p := a.rowPtr[i]; p < a.rowPtr[i+1]; p++ {
			k := a.colIdx[p]
			scale := a.val[p] * d[k]
			for q := at.rowPtr[k]; q < at.rowPtr[k+1]; q++ {
				j := at.colIdx[q]
				if mark[j] != i {
					mark[j] = i
					w[j] = 0
					touched = append(touched, j)
				}
				w[j] += scale * at.val[q]
			}
		}
		sort.Ints(touched)
		for _, j := range touched {
			b.add(i, j, w[j])
		}
	}

	return b.Build()
}

// Builder accumulates triplet entries and assembles them into a CSR.
// Duplicate coordinates are coalesced by summation, so finite-element style
// repeated Add calls compose naturally.
type Builder struct {
	m, n int
	row  []int
	col  []int
	val  []float64
}

// NewBuilder creates an empty triplet accumulator for an m×n matrix.
func NewBuilder(m, n int) *Builder {
	return &Builder{m: m, n: n}
}

// Add records the contribution v at (i, j).
// Errors: ErrOutOfRange when the coordinate is outside the matrix.
func (b *Builder) Add(i, j int, v float64) error {
	if i < 0 || i >= b.m || j < 0 || j >= b.n {
		return fmt.Errorf("Builder.Add(%d,%d) of %dx%d: %w", i, j, b.m, b.n, ErrOutOfRange)
	}
	b.add(i, j, v)

	return nil
}

// add appends without range checking, for internal callers with validated
// coordinates.
func (b *Builder) add(i, j int, v float64) {
	b.row = append(b.row, i)
	b.col = append(b.col, j)
	b.val = append(b.val, v)
}

// Build sorts, coalesces, and compresses the accumulated triplets.
// The builder may be reused afterwards; it is reset to empty.
// Complexity: O(nnz·log nnz).
func (b *Builder) Build() (*CSR, error) {
	if b.m < 0 || b.n < 0 {
		return nil, ErrBadShape
	}
	idx := make([]int, len(b.row))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(p, q int) bool {
		ip, iq := idx[p], idx[q]
		if b.row[ip] != b.row[iq] {
			return b.row[ip] < b.row[iq]
		}
		return b.col[ip] < b.col[iq]
	})

	c := &CSR{m: b.m, n: b.n, rowPtr: make([]int, b.m+1)}
	lastRow, lastCol := -1, -1
	for _, t := range idx {
		r, cl, v := b.row[t], b.col[t], b.val[t]
		if r == lastRow && cl == lastCol {
			c.val[len(c.val)-1] += v
			continue
		}
		c.colIdx = append(c.colIdx, cl)
		c.val = append(c.val, v)
		c.rowPtr[r+1]++
		lastRow, lastCol = r, cl
	}
	for i := 0; i < b.m; i++ {
		c.rowPtr[i+1] += c.rowPtr[i]
	}
	b.row, b.col, b.val = nil, nil, nil

	return c, nil
}
