package dense

import "math"

// LU holds a partially pivoted factorization P·A = L·U of a square matrix,
// with L unit lower triangular and U upper triangular packed into lu.
//
// The interior-point core factors its dense symmetric indefinite Newton
// systems through this type: partial pivoting keeps the factorization stable
// on the zero-diagonal KKT blocks where an unpivoted LDLᵀ would break down.
type LU struct {
	n   int
	lu  []float64 // packed L (strict lower, unit diagonal implied) and U
	piv []int     // piv[k] = row swapped into position k at step k
}

// Factor computes the pivoted LU factorization of a.
// The input matrix is not mutated.
//
// Errors: ErrNonSquare for rectangular input; ErrSingular when a pivot
// column is exactly zero (numerical breakdown).
// Complexity: O(n³).
func Factor(a *Dense) (*LU, error) {
	if a.r != a.c {
		return nil, ErrNonSquare
	}
	n := a.r
	f := &LU{n: n, lu: make([]float64, n*n), piv: make([]int, n)}
	copy(f.lu, a.data)

	for k := 0; k < n; k++ {
		// Partial pivot: largest magnitude in column k at or below the diagonal.
		p, best := k, math.Abs(f.lu[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(f.lu[i*n+k]); v > best {
				p, best = i, v
			}
		}
		f.piv[k] = p
		if best == 0 || math.IsNaN(best) {
			return nil, ErrSingular
		}
		if p != k {
			rowK := f.lu[k*n : k*n+n]
			rowP := f.lu[p*n : p*n+n]
			for j := range rowK {
				rowK[j], rowP[j] = rowP[j], rowK[j]
			}
		}
		pivot := f.lu[k*n+k]
		for i := k + 1; i < n; i++ {
			l := f.lu[i*n+k] / pivot
			f.lu[i*n+k] = l
			if l == 0 {
				continue
			}
			rowI := f.lu[i*n : i*n+n]
			rowK := f.lu[k*n : k*n+n]
			for j := k + 1; j < n; j++ {
				rowI[j] -= l * rowK[j]
			}
		}
	}

	return f, nil
}

// Solve overwrites b with the solution of A·x = b using the factorization.
// Errors: ErrDimensionMismatch when len(b) != n.
// Complexity: O(n²).
func (f *LU) Solve(b []float64) error {
	n := f.n
	if len(b) != n {
		return ErrDimensionMismatch
	}

	// Apply the recorded row interchanges.
	for k := 0; k < n; k++ {
		if p := f.piv[k]; p != k {
			b[k], b[p] = b[p], b[k]
		}
	}
	// Forward substitution with unit lower L.
	for i := 1; i < n; i++ {
		s := b[i]
		row := f.lu[i*n : i*n+i]
		for j, l := range row {
			s -= l * b[j]
		}
		b[i] = s
	}
	// Backward substitution with U.
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		row := f.lu[i*n : i*n+n]
		for j := i + 1; j < n; j++ {
			s -= row[j] * b[j]
		}
		b[i] = s / row[i]
	}

	return nil
}

// SolveMatrix solves A·X = B column by column, overwriting B.
func (f *LU) SolveMatrix(b *Dense) error {
	if b.r != f.n {
		return ErrDimensionMismatch
	}
	col := make([]float64, f.n)
	for j := 0; j < b.c; j++ {
		for i := 0; i < b.r; i++ {
			col[i] = b.data[i*b.c+j]
		}
		if err := f.Solve(col); err != nil {
			return err
		}
		for i := 0; i < b.r; i++ {
			b.data[i*b.c+j] = col[i]
		}
	}

	return nil
}
