package ipf

import (
	"fmt"

	"github.com/katalvlaran/lvlopt/dense"
)

// denseNewton solves the selected KKT system with dense partial-pivoting LU
// and expands the eliminated blocks. All vectors are full length (m or n).
func denseNewton(a *dense.Dense, x, z, rb, rc, rmu, dx, dy, dz []float64, system System) error {
	switch system {
	case FullKKT:
		return denseFullNewton(a, x, z, rb, rc, rmu, dx, dy, dz)
	case AugmentedKKT:
		return denseAugmentedNewton(a, x, z, rb, rc, rmu, dx, dy, dz)
	case NormalKKT:
		return denseNormalNewton(a, x, z, rb, rc, rmu, dx, dy, dz)
	default:
		return fmt.Errorf("system %v: %w", system, ErrBadOptions)
	}
}

// denseFullNewton assembles and solves the (m+2n)×(m+2n) system
//
//	[ 0    Aᵀ  −I     ] [dx]   [ −rc     ]
//	[ A    0   0      ] [dy] = [ −rb     ]
//	[ −I   0   −Z⁻¹X  ] [dz]   [ Z⁻¹·rmu ]
//
// whose three block rows are dual feasibility, primal feasibility, and the
// scaled complementarity condition z∘dx + x∘dz = −rmu.
func denseFullNewton(a *dense.Dense, x, z, rb, rc, rmu, dx, dy, dz []float64) error {
	m, n := a.Rows(), a.Cols()
	dim := m + 2*n
	j, err := dense.New(dim, dim)
	if err != nil {
		return err
	}
	jd := j.Data()
	ad := a.Data()
	for i := 0; i < m; i++ {
		for k := 0; k < n; k++ {
			v := ad[i*n+k]
			jd[k*dim+(n+i)] = v // Aᵀ block
			jd[(n+i)*dim+k] = v // A block
		}
	}
	for k := 0; k < n; k++ {
		jd[k*dim+(n+m+k)] = -1                 // −I (dz coupling)
		jd[(n+m+k)*dim+k] = -1                 // −I (dx coupling)
		jd[(n+m+k)*dim+(n+m+k)] = -x[k] / z[k] // −Z⁻¹X
	}

	d := make([]float64, dim)
	for k := 0; k < n; k++ {
		d[k] = -rc[k]
		d[n+m+k] = rmu[k] / z[k]
	}
	for i := 0; i < m; i++ {
		d[n+i] = -rb[i]
	}

	f, err := dense.Factor(j)
	if err != nil {
		return err
	}
	if err := f.Solve(d); err != nil {
		return err
	}
	copy(dx, d[:n])
	copy(dy, d[n:n+m])
	copy(dz, d[n+m:])

	return nil
}

// denseAugmentedNewton solves the (n+m)×(n+m) reduction
//
//	[ X⁻¹Z  Aᵀ ] [dx]   [ −rc − X⁻¹·rmu ]
//	[ A     0  ] [dy] = [ −rb           ]
//
// and recovers dz = −(rmu + z∘dx)/x.
func denseAugmentedNewton(a *dense.Dense, x, z, rb, rc, rmu, dx, dy, dz []float64) error {
	m, n := a.Rows(), a.Cols()
	dim := n + m
	j, err := dense.New(dim, dim)
	if err != nil {
		return err
	}
	jd := j.Data()
	ad := a.Data()
	for k := 0; k < n; k++ {
		jd[k*dim+k] = z[k] / x[k]
	}
	for i := 0; i < m; i++ {
		for k := 0; k < n; k++ {
			v := ad[i*n+k]
			jd[k*dim+(n+i)] = v
			jd[(n+i)*dim+k] = v
		}
	}

	d := make([]float64, dim)
	for k := 0; k < n; k++ {
		d[k] = -rc[k] - rmu[k]/x[k]
	}
	for i := 0; i < m; i++ {
		d[n+i] = -rb[i]
	}

	f, err := dense.Factor(j)
	if err != nil {
		return err
	}
	if err := f.Solve(d); err != nil {
		return err
	}
	copy(dx, d[:n])
	copy(dy, d[n:])
	for k := 0; k < n; k++ {
		dz[k] = -(rmu[k] + z[k]*dx[k]) / x[k]
	}

	return nil
}

// denseNormalNewton solves the m×m normal equations
//
//	A·diag(x/z)·Aᵀ·dy = rb − A·(diag(x/z)·(rc + rmu/x))
//
// then recovers dz = rc + Aᵀ·dy and dx = −(rmu + x∘dz)/z.
func denseNormalNewton(a *dense.Dense, x, z, rb, rc, rmu, dx, dy, dz []float64) error {
	m, n := a.Rows(), a.Cols()
	// Gram matrix G = A·D·Aᵀ with D = diag(x/z).
	g, err := dense.New(m, m)
	if err != nil {
		return err
	}
	gd := g.Data()
	ad := a.Data()
	for i := 0; i < m; i++ {
		for j2 := i; j2 < m; j2++ {
			s := 0.0
			for k := 0; k < n; k++ {
				s += ad[i*n+k] * (x[k] / z[k]) * ad[j2*n+k]
			}
			gd[i*m+j2] = s
			gd[j2*m+i] = s
		}
	}

	// rhs = rb − A·(D∘(rc + rmu/x)).
	w := make([]float64, n)
	for k := 0; k < n; k++ {
		w[k] = (x[k] / z[k]) * (rc[k] + rmu[k]/x[k])
	}
	rhs := make([]float64, m)
	copy(rhs, rb)
	if err := dense.Gemv(false, -1, a, w, 1, rhs); err != nil {
		return err
	}

	f, err := dense.Factor(g)
	if err != nil {
		return err
	}
	if err := f.Solve(rhs); err != nil {
		return err
	}
	copy(dy, rhs)

	copy(dz, rc)
	if err := dense.Gemv(true, 1, a, dy, 1, dz); err != nil {
		return err
	}
	for k := 0; k < n; k++ {
		dx[k] = -(rmu[k] + x[k]*dz[k]) / z[k]
	}

	return nil
}
