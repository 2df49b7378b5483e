// Package ipf implements an infeasible path-following interior-point solver
// for linear programs in direct conic form,
//
//	min cᵀx  s.t.  A·x = b,  x ≥ 0,
//
// with the dual pair (y, z) maintained alongside the primal iterate.
//
// One Newton iteration loop serves four execution regimes — sequential
// dense (Solve), sequential sparse (SolveSparse), distributed dense
// (SolveDist), and distributed sparse (SolveDistSparse) — behind a small
// linear-algebra capability interface, so all regimes share identical
// numerical semantics and differ only in storage and communication.
//
// Each iteration the Newton direction is obtained from one of three
// algebraically equivalent symmetric systems, selected once per solve:
//
//   - FullKKT: the (m+2n)×(m+2n) system in (dx, dy, dz).
//   - AugmentedKKT: the (n+m)×(n+m) reduction in (dx, dy); dz recovered.
//   - NormalKKT: the m×m normal equations in dy; dx, dz recovered.
//
// Sparse regimes factor a quasi-definite regularization of the system with
// a fill-reducing ordering computed once and reused while the sparsity
// pattern is static, and recover accuracy by iterative refinement against
// the unregularized matrix.
//
// The iterate stays strictly inside the positive cone; a step is chosen by
// a backtracking line search bounded by 0.99 of the largest cone-feasible
// step that additionally enforces centrality and shrinking feasibility
// residuals. Numerical breakdown or a zero step is accepted as a soft
// success when the current relative error already meets Options.MinTol,
// and escalated to ErrNumericalFailure otherwise.
package ipf
