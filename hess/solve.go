package hess

import (
	"math/cmplx"

	"gonum.org/v1/gonum/blas/cblas128"
)

// col views rows [lo, hi) of column j of a row-major matrix as a strided
// cblas128 vector. The view aliases the matrix storage. An empty range
// yields a zero-length vector; lo may then sit past the last row.
func (m *Matrix) col(lo, hi, j int) cblas128.Vector {
	if hi <= lo {
		return cblas128.Vector{Inc: m.c}
	}

	return cblas128.Vector{N: hi - lo, Inc: m.c, Data: m.data[lo*m.c+j:]}
}

// Solve overwrites each column xⱼ of x with the solution of
//
//	(H − shifts[j]·I)·xⱼ = alpha·xⱼ
//
// sharing one rotation sweep across all shifts.
//
// Contract: h is square m×m with the shape named by uplo, x is m×n, and
// len(shifts) == n. Only the Normal orientation is implemented.
//
// Errors: ErrUnsupportedOrientation for Transpose or Adjoint;
// ErrNonSquare / ErrDimensionMismatch for malformed operands. A singular
// shifted system surfaces as non-finite entries in x, not as an error.
// Complexity: O(m²·n).
func Solve(uplo Uplo, orient Orientation, alpha complex128, h *Matrix, shifts []complex128, x *Matrix) error {
	if orient != Normal {
		return ErrUnsupportedOrientation
	}
	if h.r != h.c {
		return ErrNonSquare
	}
	if x.r != h.r || len(shifts) != x.c {
		return ErrDimensionMismatch
	}

	if uplo == Lower {
		ln(alpha, h, shifts, x)
	} else {
		un(alpha, h, shifts, x)
	}

	return nil
}

// ln handles the lower Hessenberg case: a forward sweep of Givens rotations
// forms the LQ factorization of each shifted system while solving against
// L, then a reverse sweep applies the stored rotations (the Q solve).
func ln(alpha complex128, h *Matrix, shifts []complex128, x *Matrix) {
	m, n := x.r, x.c
	if len(x.data) > 0 {
		cblas128.Scal(alpha, cblas128.Vector{N: len(x.data), Inc: 1, Data: x.data})
	}
	if m == 0 {
		return
	}

	cs := make([]float64, m*n)
	ss := make([]complex128, m*n)

	// w holds, per shift, the still-active portion of the current column of
	// the shifted matrix; it starts as H's first column minus the shift.
	w, _ := NewMatrix(m, n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			w.set(i, j, h.at(i, 0))
		}
		w.set(0, j, w.at(0, j)-shifts[j])
	}

	for k := 0; k < m-1; k++ {
		etaKKp1 := h.at(k, k+1)
		etaK1K1 := h.at(k+1, k+1)
		hB := h.col(k+2, m, k+1)
		for j := 0; j < n; j++ {
			c, s, _ := computeGivens(w.at(k, j), etaKKp1)
			cs[k*n+j] = c
			ss[k*n+j] = s
			cc := complex(c, 0)

			// Diagonal entry of L for this column and shift.
			lambda := cc*w.at(k, j) + s*etaKKp1
			x.set(k, j, x.at(k, j)/lambda)

			mu := shifts[j]
			xc := x.at(k, j) * cc
			xs := x.at(k, j) * s
			// Row k+1 of the column of L is shift-dependent; handle it
			// separately from the tail.
			x.set(k+1, j, x.at(k+1, j)-xc*w.at(k+1, j)-xs*(etaK1K1-mu))
			if k+2 < m {
				xB := x.col(k+2, m, j)
				wB := w.col(k+2, m, j)
				cblas128.Axpy(-xc, wB, xB)
				cblas128.Axpy(-xs, hB, xB)

				// Roll w forward to the fully updated column k+1.
				cblas128.Scal(-cmplx.Conj(s), wB)
				cblas128.Axpy(cc, hB, wB)
			}
			w.set(k+1, j, -cmplx.Conj(s)*w.at(k+1, j)+cc*(etaK1K1-mu))
		}
	}
	for j := 0; j < n; j++ {
		x.set(m-1, j, x.at(m-1, j)/w.at(m-1, j))
	}

	// Reverse sweep: apply the stored rotations.
	t1 := make([]complex128, n)
	t2 := make([]complex128, n)
	for j := 0; j < n; j++ {
		t1[j] = x.at(m-1, j)
	}
	for k := m - 2; k >= 0; k-- {
		for j := 0; j < n; j++ {
			cc := complex(cs[k*n+j], 0)
			s := ss[k*n+j]
			t2[j] = x.at(k, j)
			x.set(k+1, j, cc*t1[j]+s*t2[j])
			t1[j] = cc*t2[j] - cmplx.Conj(s)*t1[j]
		}
	}
	for j := 0; j < n; j++ {
		x.set(0, j, t1[j])
	}
}

// un is the upper Hessenberg mirror of ln: a bottom-up sweep forms the RQ
// factorization while solving against R, then a top-down sweep applies the
// rotations.
func un(alpha complex128, h *Matrix, shifts []complex128, x *Matrix) {
	m, n := x.r, x.c
	if len(x.data) > 0 {
		cblas128.Scal(alpha, cblas128.Vector{N: len(x.data), Inc: 1, Data: x.data})
	}
	if m == 0 {
		return
	}

	cs := make([]float64, m*n)
	ss := make([]complex128, m*n)

	// w starts as H's last column minus the shift.
	w, _ := NewMatrix(m, n)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			w.set(i, j, h.at(i, m-1))
		}
		w.set(m-1, j, w.at(m-1, j)-shifts[j])
	}

	for k := m - 1; k > 0; k-- {
		etaKKm1 := h.at(k, k-1)
		etaK1K1 := h.at(k-1, k-1)
		hT := h.col(0, k-1, k-1)
		for j := 0; j < n; j++ {
			c, s, _ := computeGivens(w.at(k, j), etaKKm1)
			cs[k*n+j] = c
			ss[k*n+j] = s
			cc := complex(c, 0)

			rho := cc*w.at(k, j) + s*etaKKm1
			x.set(k, j, x.at(k, j)/rho)

			mu := shifts[j]
			xc := x.at(k, j) * cc
			xs := x.at(k, j) * s
			if k-1 > 0 {
				xT := x.col(0, k-1, j)
				wT := w.col(0, k-1, j)
				cblas128.Axpy(-xc, wT, xT)
				cblas128.Axpy(-xs, hT, xT)

				cblas128.Scal(-cmplx.Conj(s), wT)
				cblas128.Axpy(cc, hT, wT)
			}
			x.set(k-1, j, x.at(k-1, j)-xc*w.at(k-1, j)-xs*(etaK1K1-mu))
			w.set(k-1, j, -cmplx.Conj(s)*w.at(k-1, j)+cc*(etaK1K1-mu))
		}
	}
	for j := 0; j < n; j++ {
		x.set(0, j, x.at(0, j)/w.at(0, j))
	}

	t1 := make([]complex128, n)
	t2 := make([]complex128, n)
	for j := 0; j < n; j++ {
		t1[j] = x.at(0, j)
	}
	for k := 1; k < m; k++ {
		for j := 0; j < n; j++ {
			cc := complex(cs[k*n+j], 0)
			s := ss[k*n+j]
			t2[j] = x.at(k, j)
			x.set(k-1, j, cc*t1[j]+s*t2[j])
			t1[j] = cc*t2[j] - cmplx.Conj(s)*t1[j]
		}
	}
	for j := 0; j < n; j++ {
		x.set(m-1, j, t1[j])
	}
}
