// Package sparse provides the compressed sparse row (CSR) matrix type and
// the direct-solver toolchain used by the sparse interior-point regimes.
//
// The package covers four concerns:
//
//   - CSR storage with a coalescing triplet Builder, matrix-vector products
//     for both orientations, transposition, and the weighted Gram product
//     A·diag(d)·Aᵀ needed by normal-equation solves.
//   - Geometric equilibration (GeomEquil, SymmetricGeomEquil) to compress
//     the dynamic range of a matrix before factorization.
//   - Fill-reducing ordering through recursive nested dissection built on
//     breadth-first bisection (NestedDissection).
//   - An up-looking LDLᵀ factorization split into a reusable symbolic phase
//     (Analyze) and a numeric phase (Factorize), so iterations that keep a
//     static sparsity pattern pay the symbolic cost once.
//
// Factorization breakdown (a zero or non-finite pivot) is reported as
// ErrBreakdown and is recoverable by the caller: the interior-point driver
// treats it as a signal to stop at the current iterate.
package sparse
