// Package dense provides a row-major dense matrix type and the BLAS-style
// vector/matrix kernels the interior-point solver is built on.
//
// The dense package provides:
//
//   - Dense — a flat, row-major float64 matrix with bounds-checked accessors
//     and cheap raw access for hot kernels.
//   - Level-1/2 kernels (Gemv, Dot, Nrm2, Axpy, Scal) backed by
//     gonum.org/v1/gonum/blas/blas64.
//   - Diagonal scaling (DiagonalScale, DiagonalSolve) and cone utilities
//     (NumNonPositive, MaxStepInPositiveCone) used by interior-point
//     iterations.
//   - SafeScale — overflow/underflow-free application of a ratio scale
//     factor, including the Hermitian-tridiagonal variant.
//   - LU — a partially pivoted factorization used for the dense symmetric
//     indefinite Newton systems.
//
// All user-triggered error conditions are reported via package sentinel
// errors matched with errors.Is; panics are reserved for programmer errors.
package dense
