package dist

import (
	"math"

	"github.com/katalvlaran/lvlopt/dense"
	"github.com/katalvlaran/lvlopt/grid"
)

// BlockRange returns the offset and count of the block of n items owned by
// rank in a size-way block distribution. The first n%size ranks own one
// extra item, so ownership is balanced and contiguous.
func BlockRange(n, size, rank int) (off, cnt int) {
	base := n / size
	rem := n % size
	if rank < rem {
		cnt = base + 1
		off = rank * cnt
	} else {
		cnt = base
		off = rem*(base+1) + (rank-rem)*base
	}

	return off, cnt
}

// Vec is a block-row distributed vector: rank r of the communicator owns
// the contiguous shard [off, off+len(data)) of a length-n global vector.
type Vec struct {
	comm *grid.Comm
	n    int
	off  int
	data []float64
}

// NewVec creates a zero-initialized distributed vector of global length n.
// Must be called by every rank of the communicator.
func NewVec(c *grid.Comm, n int) *Vec {
	off, cnt := BlockRange(n, c.Size(), c.Rank())

	return &Vec{comm: c, n: n, off: off, data: make([]float64, cnt)}
}

// NewVecFromGlobal creates a distributed vector holding this rank's shard
// of the replicated global slice.
func NewVecFromGlobal(c *grid.Comm, global []float64) *Vec {
	v := NewVec(c, len(global))
	copy(v.data, global[v.off:v.off+len(v.data)])

	return v
}

// WrapVec wraps a rank-local shard as a distributed vector without copying.
// The shard must have exactly this rank's block length for a length-n
// distribution; mutations through the wrapper alias the shard.
func WrapVec(c *grid.Comm, n int, shard []float64) (*Vec, error) {
	off, cnt := BlockRange(n, c.Size(), c.Rank())
	if len(shard) != cnt {
		return nil, ErrDimensionMismatch
	}

	return &Vec{comm: c, n: n, off: off, data: shard}, nil
}

// Comm returns the communicator the vector is distributed over.
func (v *Vec) Comm() *grid.Comm { return v.comm }

// Len returns the global length.
func (v *Vec) Len() int { return v.n }

// Offset returns the global index of the first locally owned entry.
func (v *Vec) Offset() int { return v.off }

// LocalData exposes the local shard without copying.
func (v *Vec) LocalData() []float64 { return v.data }

// Clone returns a deep copy on the same distribution.
func (v *Vec) Clone() *Vec {
	d := make([]float64, len(v.data))
	copy(d, v.data)

	return &Vec{comm: v.comm, n: v.n, off: v.off, data: d}
}

// CopyFrom overwrites the local shard with w's.
func (v *Vec) CopyFrom(w *Vec) error {
	if err := v.conforms(w); err != nil {
		return err
	}
	copy(v.data, w.data)

	return nil
}

// SetFromGlobal overwrites the local shard from a replicated global slice.
func (v *Vec) SetFromGlobal(global []float64) error {
	if len(global) != v.n {
		return ErrDimensionMismatch
	}
	copy(v.data, global[v.off:v.off+len(v.data)])

	return nil
}

// AllGather returns the full global vector, identical on every rank.
// Collective.
func (v *Vec) AllGather() []float64 {
	return v.comm.AllGather(v.data)
}

func (v *Vec) conforms(w *Vec) error {
	if v.n != w.n {
		return ErrDimensionMismatch
	}
	if v.comm != w.comm || v.off != w.off {
		return ErrDistributionMismatch
	}

	return nil
}

// Dot returns vᵀw. Collective.
func (v *Vec) Dot(w *Vec) (float64, error) {
	if err := v.conforms(w); err != nil {
		return 0, err
	}
	local := dense.Dot(v.data, w.data)

	return v.comm.AllReduceScalarSum(local), nil
}

// Nrm2 returns the global Euclidean norm. Collective.
func (v *Vec) Nrm2() float64 {
	local := 0.0
	for _, x := range v.data {
		local += x * x
	}

	return math.Sqrt(v.comm.AllReduceScalarSum(local))
}

// Sum returns the sum of all global entries. Collective.
func (v *Vec) Sum() float64 {
	local := 0.0
	for _, x := range v.data {
		local += x
	}

	return v.comm.AllReduceScalarSum(local)
}

// MinEntry returns the smallest global entry, +Inf for an empty vector.
// Collective.
func (v *Vec) MinEntry() float64 {
	return v.comm.AllReduceMin(dense.MinEntry(v.data))
}

// NumNonPositive returns the global count of entries <= 0. Collective.
func (v *Vec) NumNonPositive() int {
	local := float64(dense.NumNonPositive(v.data))

	return int(v.comm.AllReduceScalarSum(local))
}

// MaxStepInPositiveCone returns the largest alpha in [0, upper] with
// v + alpha·dv componentwise nonnegative across all ranks. Collective.
func (v *Vec) MaxStepInPositiveCone(dv *Vec, upper float64) (float64, error) {
	if err := v.conforms(dv); err != nil {
		return 0, err
	}
	local := dense.MaxStepInPositiveCone(v.data, dv.data, upper)

	return v.comm.AllReduceMin(local), nil
}

// Axpy computes v += alpha·x on the local shard. Purely local.
func (v *Vec) Axpy(alpha float64, x *Vec) error {
	if err := v.conforms(x); err != nil {
		return err
	}
	dense.Axpy(alpha, x.data, v.data)

	return nil
}

// Scale multiplies the local shard by alpha, satisfying dense.Scaler.
// Purely local: applied SPMD it scales the global vector.
func (v *Vec) Scale(alpha float64) { dense.Scal(alpha, v.data) }

// Shift adds s to every local entry. Purely local.
func (v *Vec) Shift(s float64) { dense.Shift(s, v.data) }

// Zero clears the local shard.
func (v *Vec) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}
