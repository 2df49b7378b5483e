package grid

import (
	"errors"
	"fmt"
	"sync"
)

// Comm is one rank's handle on an SPMD communicator. It is not safe for use
// by more than one goroutine; each rank owns exactly one Comm.
type Comm struct {
	rank int
	sh   *shared
}

// shared is the rendezvous state common to all ranks of a communicator.
type shared struct {
	size  int
	mu    sync.Mutex
	cond  *sync.Cond
	count int
	gen   int
	slots [][]float64
}

func newShared(size int) *shared {
	sh := &shared{size: size, slots: make([][]float64, size)}
	sh.cond = sync.NewCond(&sh.mu)

	return sh
}

// Run executes fn concurrently on size ranks and waits for all of them.
// The returned error joins the per-rank failures, nil when every rank
// succeeded.
//
// Contract: fn must follow SPMD discipline — every rank calls the same
// sequence of collectives. A rank that returns early while others wait in a
// collective deadlocks the communicator.
func Run(size int, fn func(c *Comm) error) error {
	if size <= 0 {
		return ErrInvalidSize
	}
	sh := newShared(size)
	errs := make([]error, size)
	var wg sync.WaitGroup
	wg.Add(size)
	for r := 0; r < size; r++ {
		go func(rank int) {
			defer wg.Done()
			errs[rank] = fn(&Comm{rank: rank, sh: sh})
		}(r)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Rank returns this handle's rank in [0, Size()).
func (c *Comm) Rank() int { return c.rank }

// Size returns the number of ranks in the communicator.
func (c *Comm) Size() int { return c.sh.size }

// barrier blocks until every rank has entered it (generation-counted, so
// consecutive barriers never interfere).
func (sh *shared) barrier() {
	sh.mu.Lock()
	gen := sh.gen
	sh.count++
	if sh.count == sh.size {
		sh.count = 0
		sh.gen++
		sh.cond.Broadcast()
	} else {
		for gen == sh.gen {
			sh.cond.Wait()
		}
	}
	sh.mu.Unlock()
}

// Barrier blocks until every rank of the communicator reaches it.
func (c *Comm) Barrier() { c.sh.barrier() }

// exchange deposits local in this rank's slot and returns the slot table
// once every rank has deposited. Callers must finish reading the table and
// then call barrier() before the next collective may begin; the collective
// wrappers below handle this.
func (c *Comm) exchange(local []float64) [][]float64 {
	sh := c.sh
	sh.mu.Lock()
	sh.slots[c.rank] = local
	sh.mu.Unlock()
	sh.barrier()

	return sh.slots
}

// AllReduceSum replaces x on every rank with the elementwise sum of all
// ranks' x. Contributions are combined in rank order on every rank, so all
// ranks compute bitwise identical results.
//
// Errors: ErrDimensionMismatch when the ranks disagree on len(x); all ranks
// observe the same error.
func (c *Comm) AllReduceSum(x []float64) error {
	parts := c.exchange(x)
	var err error
	for r := 1; r < len(parts); r++ {
		if len(parts[r]) != len(parts[0]) {
			err = fmt.Errorf("AllReduceSum: rank %d has %d entries, rank 0 has %d: %w",
				r, len(parts[r]), len(parts[0]), ErrDimensionMismatch)
			break
		}
	}
	var sum []float64
	if err == nil {
		sum = make([]float64, len(x))
		for _, part := range parts {
			for i, v := range part {
				sum[i] += v
			}
		}
	}
	c.sh.barrier()
	if err != nil {
		return err
	}
	copy(x, sum)

	return nil
}

// AllReduceScalarSum returns the sum of v over all ranks.
func (c *Comm) AllReduceScalarSum(v float64) float64 {
	parts := c.exchange([]float64{v})
	s := 0.0
	for _, part := range parts {
		s += part[0]
	}
	c.sh.barrier()

	return s
}

// AllReduceMin returns the minimum of v over all ranks.
func (c *Comm) AllReduceMin(v float64) float64 {
	parts := c.exchange([]float64{v})
	m := parts[0][0]
	for _, part := range parts[1:] {
		if part[0] < m {
			m = part[0]
		}
	}
	c.sh.barrier()

	return m
}

// AllReduceMax returns the maximum of v over all ranks.
func (c *Comm) AllReduceMax(v float64) float64 {
	parts := c.exchange([]float64{v})
	m := parts[0][0]
	for _, part := range parts[1:] {
		if part[0] > m {
			m = part[0]
		}
	}
	c.sh.barrier()

	return m
}

// Broadcast replaces x on every rank with root's x. All ranks must pass
// buffers of equal length.
//
// Errors: ErrInvalidRoot; ErrDimensionMismatch when a rank's buffer length
// differs from root's.
func (c *Comm) Broadcast(x []float64, root int) error {
	if root < 0 || root >= c.sh.size {
		return ErrInvalidRoot
	}
	parts := c.exchange(x)
	var err error
	src := parts[root]
	if len(x) != len(src) {
		err = fmt.Errorf("Broadcast: rank %d has %d entries, root has %d: %w",
			c.rank, len(x), len(src), ErrDimensionMismatch)
	}
	var buf []float64
	if err == nil && c.rank != root {
		buf = make([]float64, len(src))
		copy(buf, src)
	}
	c.sh.barrier()
	if err != nil {
		return err
	}
	if c.rank != root {
		copy(x, buf)
	}

	return nil
}

// AllGather returns the concatenation of every rank's local buffer in rank
// order. Ranks may contribute buffers of different lengths.
func (c *Comm) AllGather(local []float64) []float64 {
	parts := c.exchange(local)
	total := 0
	for _, part := range parts {
		total += len(part)
	}
	out := make([]float64, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	c.sh.barrier()

	return out
}

// Gather returns the rank-order concatenation of every rank's local buffer
// on root and nil on all other ranks.
//
// Errors: ErrInvalidRoot.
func (c *Comm) Gather(local []float64, root int) ([]float64, error) {
	if root < 0 || root >= c.sh.size {
		return nil, ErrInvalidRoot
	}
	parts := c.exchange(local)
	var out []float64
	if c.rank == root {
		total := 0
		for _, part := range parts {
			total += len(part)
		}
		out = make([]float64, 0, total)
		for _, part := range parts {
			out = append(out, part...)
		}
	}
	c.sh.barrier()

	return out, nil
}
