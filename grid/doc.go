// Package grid runs single-program-multiple-data (SPMD) computations over a
// fixed set of goroutine ranks with blocking, deterministic collectives.
//
// Run spawns one goroutine per rank; each receives a Comm bound to that
// rank. The collectives (AllReduceSum, AllReduceMin/Max, Broadcast, Gather,
// AllGather, Barrier) block until every rank of the communicator has entered
// the same call, mirroring message-passing semantics without any transport.
//
// Reductions combine contributions in rank order, so results are bitwise
// reproducible across runs regardless of goroutine scheduling. The usual
// SPMD contract applies: every rank must invoke the same sequence of
// collectives, or the communicator deadlocks.
package grid
