package dist

import (
	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/grid"
)

// Dense is a block-row distributed dense matrix: rank r owns the contiguous
// rows [off, off+local.Rows()) of an m×n global matrix.
type Dense struct {
	comm  *grid.Comm
	m, n  int
	off   int
	local *dense.Dense
}

// NewDenseFromGlobal distributes the replicated global matrix a over the
// communicator by block rows. Must be called by every rank with an
// identical a.
func NewDenseFromGlobal(c *grid.Comm, a *dense.Dense) *Dense {
	off, cnt := BlockRange(a.Rows(), c.Size(), c.Rank())

	local, _ := dense.New(cnt, a.Cols())
	for i := 0; i < cnt; i++ {
		copy(local.Row(i), a.Row(off+i))
	}

	return &Dense{comm: c, m: a.Rows(), n: a.Cols(), off: off, local: local}
}

// Comm returns the communicator the matrix is distributed over.
func (d *Dense) Comm() *grid.Comm { return d.comm }

// Clone returns a deep copy of the local block on the same distribution.
func (d *Dense) Clone() *Dense {
	return &Dense{comm: d.comm, m: d.m, n: d.n, off: d.off, local: d.local.Clone()}
}

// Replicate gathers the full global matrix onto every rank. Collective:
// block-row shards concatenate in rank order into row-major storage.
func (d *Dense) Replicate() (*dense.Dense, error) {
	full := d.comm.AllGather(d.local.Data())

	return dense.NewFromSlice(d.m, d.n, full)
}

// Rows returns the global row count.
func (d *Dense) Rows() int { return d.m }

// Cols returns the global column count.
func (d *Dense) Cols() int { return d.n }

// Offset returns the global index of the first locally owned row.
func (d *Dense) Offset() int { return d.off }

// Local exposes this rank's row block.
func (d *Dense) Local() *dense.Dense { return d.local }

// Multiply computes y ← alpha·op(A)·x + beta·y over the distributed
// operands. Collective: the non-transposed product gathers the global x and
// applies the local row block; the transposed product all-reduces the local
// contributions.
func (d *Dense) Multiply(trans bool, alpha float64, x *Vec, beta float64, y *Vec) error {
	h, w := d.m, d.n
	if trans {
		h, w = d.n, d.m
	}
	if x.n != w || y.n != h {
		return ErrDimensionMismatch
	}
	if x.comm != d.comm || y.comm != d.comm {
		return ErrDistributionMismatch
	}

	if !trans {
		xFull := x.AllGather()
		return dense.Gemv(false, alpha, d.local, xFull, beta, y.data)
	}

	acc := make([]float64, d.n)
	if err := dense.Gemv(true, alpha, d.local, x.data, 0, acc); err != nil {
		return err
	}
	if err := d.comm.AllReduceSum(acc); err != nil {
		return err
	}
	for i := range y.data {
		y.data[i] = acc[y.off+i] + beta*y.data[i]
	}

	return nil
}

// ScaleRowsCols applies A ← inv(diag(dRow))·A·inv(diag(dCol)) to the local
// block, with replicated global scalings.
func (d *Dense) ScaleRowsCols(dRow, dCol []float64) error {
	if len(dRow) != d.m || len(dCol) != d.n {
		return ErrDimensionMismatch
	}
	for i := 0; i < d.local.Rows(); i++ {
		row := d.local.Row(i)
		ri := dRow[d.off+i]
		for j := range row {
			row[j] /= ri * dCol[j]
		}
	}

	return nil
}
