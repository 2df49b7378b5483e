package dist

import (
	"github.com/katalvlaran/lvlopt/grid"
	"github.com/katalvlaran/lvlopt/sparse"
)

// CSR is a block-row distributed sparse matrix: rank r owns the contiguous
// rows [off, off+local.Rows()) of an m×n global matrix, stored as a local
// sparse.CSR with global column indices.
type CSR struct {
	comm  *grid.Comm
	m, n  int
	off   int
	local *sparse.CSR
	plan  *MultPlan
}

// MultPlan is the cached communication plan of a non-transposed multiply:
// the sorted set of global columns the local pattern touches and, per local
// entry, the position of its column in that compacted set. Built once on
// first use and reused while the sparsity pattern is static.
type MultPlan struct {
	cols []int // sorted unique global columns needed locally
	pos  []int // per stored entry, index into cols
}

// NewCSRFromGlobal distributes the replicated global matrix a over the
// communicator by block rows. Must be called by every rank with an
// identical a.
func NewCSRFromGlobal(c *grid.Comm, a *sparse.CSR) *CSR {
	off, cnt := BlockRange(a.Rows(), c.Size(), c.Rank())

	b := sparse.NewBuilder(cnt, a.Cols())
	rowPtr, colIdx, val := a.RowPtr(), a.ColIdx(), a.Values()
	for i := 0; i < cnt; i++ {
		g := off + i
		for p := rowPtr[g]; p < rowPtr[g+1]; p++ {
			// Coordinates come straight from a valid CSR.
			_ = b.Add(i, colIdx[p], val[p])
		}
	}
	local, _ := b.Build()

	return &CSR{comm: c, m: a.Rows(), n: a.Cols(), off: off, local: local}
}

// Comm returns the communicator the matrix is distributed over.
func (c *CSR) Comm() *grid.Comm { return c.comm }

// Clone returns a deep copy of the local block on the same distribution.
// The gather plan is not copied; the clone rebuilds it on first multiply.
func (c *CSR) Clone() *CSR {
	return &CSR{comm: c.comm, m: c.m, n: c.n, off: c.off, local: c.local.Clone()}
}

// Replicate gathers the full global matrix onto every rank. Collective.
func (c *CSR) Replicate() (*sparse.CSR, error) {
	rowPtr, colIdx, val := c.local.RowPtr(), c.local.ColIdx(), c.local.Values()
	rows := make([]float64, c.local.NNZ())
	cols := make([]float64, c.local.NNZ())
	for i := 0; i < c.local.Rows(); i++ {
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			rows[p] = float64(c.off + i)
			cols[p] = float64(colIdx[p])
		}
	}
	rAll := c.comm.AllGather(rows)
	cAll := c.comm.AllGather(cols)
	vAll := c.comm.AllGather(val)

	b := sparse.NewBuilder(c.m, c.n)
	for p := range rAll {
		if err := b.Add(int(rAll[p]), int(cAll[p]), vAll[p]); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// Rows returns the global row count.
func (c *CSR) Rows() int { return c.m }

// Cols returns the global column count.
func (c *CSR) Cols() int { return c.n }

// Offset returns the global index of the first locally owned row.
func (c *CSR) Offset() int { return c.off }

// Local exposes this rank's row block (global column indices).
func (c *CSR) Local() *sparse.CSR { return c.local }

// InvalidatePlan drops the cached gather plan. Must be called whenever the
// local sparsity pattern changes; value-only updates keep the plan valid.
func (c *CSR) InvalidatePlan() { c.plan = nil }

// buildPlan scans the local pattern once, recording the unique global
// columns needed and the compacted position of every stored entry.
func (c *CSR) buildPlan() {
	seen := make(map[int]int, c.local.NNZ())
	cols := make([]int, 0, c.local.NNZ())
	colIdx := c.local.ColIdx()
	pos := make([]int, len(colIdx))
	// First pass assigns positions in first-touch order, then a stable
	// renumbering sorts the column set for deterministic gathers.
	for p, j := range colIdx {
		idx, ok := seen[j]
		if !ok {
			idx = len(cols)
			seen[j] = idx
			cols = append(cols, j)
		}
		pos[p] = idx
	}
	order := make([]int, len(cols))
	for i := range order {
		order[i] = i
	}
	sortByColumn(order, cols)
	rankOf := make([]int, len(cols))
	sorted := make([]int, len(cols))
	for newIdx, oldIdx := range order {
		rankOf[oldIdx] = newIdx
		sorted[newIdx] = cols[oldIdx]
	}
	for p := range pos {
		pos[p] = rankOf[pos[p]]
	}
	c.plan = &MultPlan{cols: sorted, pos: pos}
}

func sortByColumn(order, cols []int) {
	// Insertion sort keeps this dependency-free; plans are built once per
	// pattern, not per iteration.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && cols[order[j]] < cols[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

// Multiply computes y ← alpha·op(A)·x + beta·y over the distributed
// operands. Collective.
//
// The non-transposed product gathers the global x once, fills the plan's
// compacted halo buffer, and multiplies purely locally. The transposed
// product scatters local contributions into a global accumulator and
// all-reduces it.
//
// Errors: ErrDimensionMismatch when the vector lengths do not conform to
// op(A); ErrDistributionMismatch when operands live on other communicators.
func (c *CSR) Multiply(trans bool, alpha float64, x *Vec, beta float64, y *Vec) error {
	h, w := c.m, c.n
	if trans {
		h, w = c.n, c.m
	}
	if x.n != w || y.n != h {
		return ErrDimensionMismatch
	}
	if x.comm != c.comm || y.comm != c.comm {
		return ErrDistributionMismatch
	}

	if !trans {
		if c.plan == nil {
			c.buildPlan()
		}
		xFull := x.AllGather()
		halo := make([]float64, len(c.plan.cols))
		for i, j := range c.plan.cols {
			halo[i] = xFull[j]
		}
		rowPtr, val := c.local.RowPtr(), c.local.Values()
		for i := 0; i < c.local.Rows(); i++ {
			s := 0.0
			for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
				s += val[p] * halo[c.plan.pos[p]]
			}
			y.data[i] = alpha*s + beta*y.data[i]
		}
		return nil
	}

	// Aᵀx: accumulate this rank's row contributions over the full output,
	// reduce, keep the owned shard.
	acc := make([]float64, c.n)
	rowPtr, colIdx, val := c.local.RowPtr(), c.local.ColIdx(), c.local.Values()
	for i := 0; i < c.local.Rows(); i++ {
		ax := alpha * x.data[i]
		if ax == 0 {
			continue
		}
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			acc[colIdx[p]] += ax * val[p]
		}
	}
	if err := c.comm.AllReduceSum(acc); err != nil {
		return err
	}
	for i := range y.data {
		y.data[i] = acc[y.off+i] + beta*y.data[i]
	}

	return nil
}

// ScaleRowsCols applies A ← inv(diag(dRow))·A·inv(diag(dCol)) to the local
// block, with dRow and dCol replicated global scalings. Values change but
// the pattern does not, so the gather plan stays valid.
func (c *CSR) ScaleRowsCols(dRow, dCol []float64) error {
	if len(dRow) != c.m || len(dCol) != c.n {
		return ErrDimensionMismatch
	}
	rowPtr, colIdx, val := c.local.RowPtr(), c.local.ColIdx(), c.local.Values()
	for i := 0; i < c.local.Rows(); i++ {
		ri := dRow[c.off+i]
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			val[p] /= ri * dCol[colIdx[p]]
		}
	}

	return nil
}
