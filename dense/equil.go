package dense

import "math"

// Equilibration sweep policy. Geometric equilibration runs a bounded number
// of alternating row/column sweeps and stops early once the dynamic range of
// the matrix stops improving meaningfully.
const (
	equilMaxSweeps = 6
	equilRelTol    = 0.9
)

// geomScale returns sqrt(minAbs*maxAbs) for the nonzero magnitude range of a
// row or column, or 1 when the range is empty. The product is formed through
// a square root of each factor to avoid overflow for extreme entries.
func geomScale(minAbs, maxAbs float64) float64 {
	if maxAbs == 0 {
		return 1
	}
	s := math.Sqrt(minAbs) * math.Sqrt(maxAbs)
	if s < SafeMin || math.IsInf(s, 0) || math.IsNaN(s) {
		return 1
	}

	return s
}

// dynamicRange returns the ratio of the largest to the smallest nonzero
// magnitude of a, or 1 for a zero matrix.
func dynamicRange(data []float64) float64 {
	minAbs, maxAbs := math.Inf(1), 0.0
	for _, v := range data {
		if v == 0 {
			continue
		}
		av := math.Abs(v)
		if av < minAbs {
			minAbs = av
		}
		if av > maxAbs {
			maxAbs = av
		}
	}
	if maxAbs == 0 {
		return 1
	}

	return maxAbs / minAbs
}

// GeomEquil computes a geometric equilibration of a in place,
// A := inv(diag(dRow))·A·inv(diag(dCol)), and returns the accumulated row
// and column scalings. The scalings balance the nonzero magnitudes of each
// row and column around one, improving the conditioning of the KKT systems
// formed from A without changing the underlying LP.
//
// The exact inverse transformation is A := diag(dRow)·A·diag(dCol); the
// interior-point driver relies on this round trip being exact in structure
// (every scaling applied once forward, once backward).
func GeomEquil(a *Dense) (dRow, dCol []float64) {
	m, n := a.r, a.c
	dRow = Ones(m)
	dCol = Ones(n)
	if m == 0 || n == 0 {
		return dRow, dCol
	}

	prevRange := dynamicRange(a.data)
	for sweep := 0; sweep < equilMaxSweeps; sweep++ {
		// Row pass: divide each row by the geometric mean of its magnitude range.
		for i := 0; i < m; i++ {
			row := a.Row(i)
			minAbs, maxAbs := math.Inf(1), 0.0
			for _, v := range row {
				if v == 0 {
					continue
				}
				av := math.Abs(v)
				if av < minAbs {
					minAbs = av
				}
				if av > maxAbs {
					maxAbs = av
				}
			}
			s := geomScale(minAbs, maxAbs)
			if s != 1 {
				Scal(1/s, row)
				dRow[i] *= s
			}
		}
		// Column pass, symmetric treatment.
		for j := 0; j < n; j++ {
			minAbs, maxAbs := math.Inf(1), 0.0
			for i := 0; i < m; i++ {
				v := a.data[i*n+j]
				if v == 0 {
					continue
				}
				av := math.Abs(v)
				if av < minAbs {
					minAbs = av
				}
				if av > maxAbs {
					maxAbs = av
				}
			}
			s := geomScale(minAbs, maxAbs)
			if s != 1 {
				for i := 0; i < m; i++ {
					a.data[i*n+j] /= s
				}
				dCol[j] *= s
			}
		}

		curRange := dynamicRange(a.data)
		if curRange >= equilRelTol*prevRange {
			break
		}
		prevRange = curRange
	}

	// Final column normalization: bring each column's peak magnitude to one.
	for j := 0; j < n; j++ {
		maxAbs := 0.0
		for i := 0; i < m; i++ {
			if av := math.Abs(a.data[i*n+j]); av > maxAbs {
				maxAbs = av
			}
		}
		if maxAbs > SafeMin && maxAbs != 1 {
			for i := 0; i < m; i++ {
				a.data[i*n+j] /= maxAbs
			}
			dCol[j] *= maxAbs
		}
	}

	return dRow, dCol
}
