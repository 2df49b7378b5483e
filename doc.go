// Package lvlopt is a dense and sparse linear-algebra toolkit built around
// an infeasible path-following interior-point solver for linear programs in
// direct conic form:
//
//	min cᵀx  subject to  A·x = b, x ≥ 0.
//
// 🚀 What is lvlopt?
//
//	A pure-Go numeric library that brings together:
//		• Dense kernels: BLAS-backed Gemv/Dot/Nrm2, pivoted LU, SafeScale
//		• Sparse kernels: CSR storage, nested dissection, up-looking LDLᵀ
//		• Geometric equilibration for both storage formats
//		• An SPMD communicator and block-row distributed vectors/matrices
//		• The IPF solver in four regimes (dense/sparse × sequential/distributed)
//		  with three interchangeable KKT formulations
//		• A multi-shift Hessenberg solve over complex shifts
//
// Everything is organized under six subpackages:
//
//	dense/  — row-major matrices, BLAS-like kernels, LU, SafeScale, GeomEquil
//	sparse/ — CSR matrices, builders, ordering, symbolic + numeric LDLᵀ
//	grid/   — SPMD communicator: barriers, reductions, broadcast, gather
//	dist/   — block-row distributed vectors and matrices over a grid.Comm
//	ipf/    — the interior-point solver: Solve, SolveSparse, SolveDist[Sparse]
//	hess/   — shifted Hessenberg solves with Givens rotations
//
// Quick example, the LP min x₁+x₂ s.t. x₁+2x₂ = 3, x ≥ 0:
//
//	a, _ := dense.NewFromSlice(1, 2, []float64{1, 2})
//	x, y, z := make([]float64, 2), make([]float64, 1), make([]float64, 2)
//	info, err := ipf.Solve(a, []float64{3}, []float64{1, 1}, x, y, z, ipf.DefaultOptions())
//
//	go get github.com/katalvlaran/lvlopt
package lvlopt
