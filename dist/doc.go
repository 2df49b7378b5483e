// Package dist provides block-row distributed vectors and matrices layered
// on a grid.Comm. Every rank owns a contiguous block of rows (or vector
// entries); global reductions and data movement go through the
// communicator's deterministic collectives, so distributed results are
// bitwise reproducible.
//
// The sparse matrix caches a gather plan on first multiply: the set of
// remote column entries its local pattern touches, compacted into a reusable
// buffer mapping. The plan stays valid while the sparsity pattern is static
// and must be invalidated explicitly when the pattern changes.
package dist
