package hess

import (
	"fmt"
	"math/cmplx"
)

// Uplo selects which Hessenberg shape the matrix has.
type Uplo int

const (
	// Lower marks a lower Hessenberg matrix: H[i][j] == 0 for j > i+1.
	Lower Uplo = iota
	// Upper marks an upper Hessenberg matrix: H[i][j] == 0 for i > j+1.
	Upper
)

// Orientation selects which operator the solve applies.
type Orientation int

const (
	// Normal solves against H − μ·I itself.
	Normal Orientation = iota
	// Transpose would solve against (H − μ·I)ᵀ; not supported.
	Transpose
	// Adjoint would solve against (H − μ·I)ᴴ; not supported.
	Adjoint
)

// Matrix is a row-major matrix of complex128 values.
type Matrix struct {
	r, c int
	data []complex128
}

// NewMatrix creates an r×c zero matrix.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}

	return &Matrix{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// NewMatrixFromSlice creates an r×c matrix backed by a copy of data in
// row-major order.
func NewMatrixFromSlice(rows, cols int, data []complex128) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewMatrixFromSlice: have %d elements, want %d: %w",
			len(data), rows*cols, ErrDimensionMismatch)
	}
	d := make([]complex128, len(data))
	copy(d, data)

	return &Matrix{r: rows, c: cols, data: d}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.c }

// At retrieves the element at (row, col).
func (m *Matrix) At(row, col int) (complex128, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("Matrix(%d,%d) of %dx%d: %w", row, col, m.r, m.c, ErrBadShape)
	}

	return m.data[row*m.c+col], nil
}

// Set assigns v at (row, col).
func (m *Matrix) Set(row, col int, v complex128) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return fmt.Errorf("Matrix(%d,%d) of %dx%d: %w", row, col, m.r, m.c, ErrBadShape)
	}
	m.data[row*m.c+col] = v

	return nil
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	d := make([]complex128, len(m.data))
	copy(d, m.data)

	return &Matrix{r: m.r, c: m.c, data: d}
}

// Data exposes the raw row-major backing slice.
func (m *Matrix) Data() []complex128 { return m.data }

// at is the unchecked hot-loop accessor.
func (m *Matrix) at(row, col int) complex128 { return m.data[row*m.c+col] }

func (m *Matrix) set(row, col int, v complex128) { m.data[row*m.c+col] = v }

// Dotu returns the unconjugated inner product Σ x[i]·y[i].
// Panics on mismatched lengths.
func Dotu(x, y []complex128) complex128 {
	if len(x) != len(y) {
		panic("hess: Dotu length mismatch")
	}
	var s complex128
	for i, v := range x {
		s += v * y[i]
	}

	return s
}

// computeGivens builds the rotation zeroing g against f:
//
//	|  c        s | |f|   |r|
//	| -conj(s)  c | |g| = |0|
//
// with real c and c² + |s|² = 1, following the LAPACK convention.
func computeGivens(f, g complex128) (c float64, s complex128, r complex128) {
	if g == 0 {
		return 1, 0, f
	}
	if f == 0 {
		ag := cmplx.Abs(g)
		return 0, cmplx.Conj(g) / complex(ag, 0), complex(ag, 0)
	}
	af := cmplx.Abs(f)
	d := cmplx.Abs(complex(af, cmplx.Abs(g)))
	phase := f / complex(af, 0)
	c = af / d
	s = phase * cmplx.Conj(g) / complex(d, 0)
	r = phase * complex(d, 0)

	return c, s, r
}
