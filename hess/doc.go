// Package hess solves families of shifted Hessenberg linear systems
//
//	(H − μⱼ·I)·xⱼ = α·bⱼ,  j = 0..n-1
//
// for a single Hessenberg matrix H and one shift μⱼ per right-hand side,
// without ever forming a factorization of any shifted matrix explicitly.
//
// The algorithm follows Henry's shifted Hessenberg solve: each column is
// processed by a sweep of Givens rotations that simultaneously builds an
// LQ (lower Hessenberg) or RQ (upper Hessenberg) factorization of its
// shifted system and solves against the triangular factor, followed by a
// reverse sweep applying the stored rotations. Total cost is O(m²·n) for an
// m×m matrix and n shifts, versus O(m³·n) for independent factorizations.
//
// SolveDist runs the same elimination with the shifts and solution columns
// sharded across a grid.Comm; the operand is replicated once from rank 0 and
// the per-column sweeps then proceed with no further communication.
//
// Only the Normal orientation is implemented; Transpose and Adjoint solves
// return ErrUnsupportedOrientation.
package hess
