package dense

import "fmt"

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// New creates an r×c Dense matrix initialized to zeros.
// Complexity: O(r*c) time and memory.
func New(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewFromSlice creates an r×c Dense matrix backed by a copy of data, which
// must hold exactly r*c elements in row-major order.
func NewFromSlice(rows, cols int, data []float64) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewFromSlice: have %d elements, want %d: %w",
			len(data), rows*cols, ErrDimensionMismatch)
	}
	d := make([]float64, len(data))
	copy(d, data)

	return &Dense{r: rows, c: cols, data: d}, nil
}

// Rows returns the number of rows. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("Dense(%d,%d) of %dx%d: %w", row, col, m.r, m.c, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Update adds v to the element at (row, col).
func (m *Dense) Update(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] += v

	return nil
}

// Clone returns a deep copy of the matrix.
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	d := make([]float64, len(m.data))
	copy(d, m.data)

	return &Dense{r: m.r, c: m.c, data: d}
}

// Data exposes the raw row-major backing slice for hot kernels.
// Mutations through the returned slice are visible in the matrix.
func (m *Dense) Data() []float64 { return m.data }

// Row returns the backing slice of row i without copying.
// Panics on out-of-range i (programmer error; use At for checked access).
func (m *Dense) Row(i int) []float64 {
	return m.data[i*m.c : (i+1)*m.c]
}

// Zero resets every entry to 0 in place.
func (m *Dense) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Ones returns a length-n slice of ones; the ubiquitous cone vector e.
func Ones(n int) []float64 {
	e := make([]float64, n)
	for i := range e {
		e[i] = 1
	}

	return e
}
