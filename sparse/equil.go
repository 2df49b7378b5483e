package sparse

import (
	"math"

	"github.com/katalvlaran/lvlopt/dense"
)

const (
	equilMaxSweeps = 6
	equilRelTol    = 0.9
)

func geomScale(minAbs, maxAbs float64) float64 {
	if maxAbs == 0 {
		return 1
	}
	s := math.Sqrt(minAbs) * math.Sqrt(maxAbs)
	if s < dense.SafeMin || math.IsInf(s, 0) || math.IsNaN(s) {
		return 1
	}

	return s
}

func dynamicRange(val []float64) float64 {
	minAbs, maxAbs := math.Inf(1), 0.0
	for _, v := range val {
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
// A := inv(diag(dRow))·A·inv(diag(dCol)), returning the accumulated row and
// column scalings. Alternating row/column sweeps divide each line by the
// geometric mean of its nonzero magnitude range, then a final pass brings
// every column's peak magnitude to one.
func GeomEquil(a *CSR) (dRow, dCol []float64) {
	dRow = dense.Ones(a.m)
	dCol = dense.Ones(a.n)
	if a.m == 0 || a.n == 0 || len(a.val) == 0 {
		return dRow, dCol
	}

	colMin := make([]float64, a.n)
	colMax := make([]float64, a.n)
	prevRange := dynamicRange(a.val)
	for sweep := 0; sweep < equilMaxSweeps; sweep++ {
		for i := 0; i < a.m; i++ {
			minAbs, maxAbs := math.Inf(1), 0.0
			for p := a.rowPtr[i]; p < a.rowPtr[i+1]; p++ {
				if v := math.Abs(a.val[p]); v != 0 {
					if v < minAbs {
						minAbs = v
					}
					if v > maxAbs {
						maxAbs = v
					}
				}
			}
			s := geomScale(minAbs, maxAbs)
			if s != 1 {
				for p := a.rowPtr[i]; p < a.rowPtr[i+1]; p++ {
					a.val[p] /= s
				}
				dRow[i] *= s
			}
		}

		for j := 0; j < a.n; j++ {
			colMin[j] = math.Inf(1)
			colMax[j] = 0
		}
		for p, j := range a.colIdx {
			if v := math.Abs(a.val[p]); v != 0 {
				if v < colMin[j] {
					colMin[j] = v
				}
				if v > colMax[j] {
					colMax[j] = v
				}
			}
		}
		scales := make([]float64, a.n)
		changed := false
		for j := 0; j < a.n; j++ {
			scales[j] = geomScale(colMin[j], colMax[j])
			if scales[j] != 1 {
				dCol[j] *= scales[j]
				changed = true
			}
		}
		if changed {
			for p, j := range a.colIdx {
				a.val[p] /= scales[j]
			}
		}

		curRange := dynamicRange(a.val)
		if curRange >= equilRelTol*prevRange {
			break
		}
		prevRange = curRange
	}

	// Final column normalization to unit peak magnitude.
	for j := 0; j < a.n; j++ {
		colMax[j] = 0
	}
	for p, j := range a.colIdx {
		if v := math.Abs(a.val[p]); v > colMax[j] {
			colMax[j] = v
		}
	}
	for p, j := range a.colIdx {
		if colMax[j] > dense.SafeMin && colMax[j] != 1 {
			a.val[p] /= colMax[j]
		}
	}
	for j := 0; j < a.n; j++ {
		if colMax[j] > dense.SafeMin && colMax[j] != 1 {
			dCol[j] *= colMax[j]
		}
	}

	return dRow, dCol
}

// SymmetricGeomEquil equilibrates a symmetric matrix in place,
// J := inv(D)·J·inv(D), returning the accumulated symmetric scaling d.
// Each sweep scales row and column i by the square root of the row's
// geometric magnitude mean, preserving symmetry of both pattern and values.
func SymmetricGeomEquil(a *CSR) ([]float64, error) {
	if a.m != a.n {
		return nil, ErrNonSquare
	}
	d := dense.Ones(a.n)
	if a.n == 0 || len(a.val) == 0 {
		return d, nil
	}

	scales := make([]float64, a.n)
	prevRange := dynamicRange(a.val)
	for sweep := 0; sweep < equilMaxSweeps; sweep++ {
		for i := 0; i < a.n; i++ {
			minAbs, maxAbs := math.Inf(1), 0.0
			for p := a.rowPtr[i]; p < a.rowPtr[i+1]; p++ {
				if v := math.Abs(a.val[p]); v != 0 {
					if v < minAbs {
						minAbs = v
					}
					if v > maxAbs {
						maxAbs = v
					}
				}
			}
			s := math.Sqrt(geomScale(minAbs, maxAbs))
			if s < dense.SafeMin || s == 0 || math.IsInf(s, 0) || math.IsNaN(s) {
				s = 1
			}
			scales[i] = s
			d[i] *= s
		}
		for i := 0; i < a.n; i++ {
			for p := a.rowPtr[i]; p < a.rowPtr[i+1]; p++ {
				a.val[p] /= scales[i] * scales[a.colIdx[p]]
			}
		}

		curRange := dynamicRange(a.val)
		if curRange >= equilRelTol*prevRange {
			break
		}
		prevRange = curRange
	}

	return d, nil
}
