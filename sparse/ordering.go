package sparse

// ndBaseSize is the subgraph size below which nested dissection stops
// recursing and emits vertices directly.
const ndBaseSize = 32

// NestedDissection computes a fill-reducing ordering of the symmetric
// pattern of a: vertices of the two halves of a breadth-first bisection are
// ordered recursively, followed by the separator, so factorization fill is
// confined to small dense blocks near the separators.
//
// Returns perm and its inverse: perm[k] is the original index of the vertex
// ordered k-th, and inv[perm[k]] == k.
//
// Errors: ErrNonSquare for a rectangular pattern.
// Complexity: O((n + nnz)·log n) for bounded-degree graphs.
func NestedDissection(a *CSR) (perm, inv []int, err error) {
	if a.m != a.n {
		return nil, nil, ErrNonSquare
	}
	n := a.n
	perm = make([]int, 0, n)
	inv = make([]int, n)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	// Shared scratch across recursion levels; member[v] marks the subset the
	// current call operates on, level[v] the BFS depth within it.
	member := make([]int, n)
	level := make([]int, n)
	for i := range member {
		member[i] = -1
		level[i] = -1
	}
	var stamp int

	var dissect func(vs []int)
	dissect = func(vs []int) {
		if len(vs) <= ndBaseSize {
			perm = append(perm, vs...)
			return
		}

		stamp++
		for _, v := range vs {
			member[v] = stamp
		}

		// Pseudo-peripheral seed: BFS from the subset's first vertex, then
		// re-root at the deepest vertex found and keep that second BFS.
		seed := bfsLevels(a, vs[0], stamp, member, level)
		resetLevels(vs, level)
		bfsLevels(a, seed, stamp, member, level)

		maxLevel := 0
		reached := 0
		for _, v := range vs {
			if level[v] >= 0 {
				reached++
				if level[v] > maxLevel {
					maxLevel = level[v]
				}
			}
		}

		// A disconnected subset cannot be bisected by levels: peel the
		// reached component off and recurse on the remainder.
		if reached < len(vs) {
			comp := make([]int, 0, reached)
			rest := make([]int, 0, len(vs)-reached)
			for _, v := range vs {
				if level[v] >= 0 {
					comp = append(comp, v)
				} else {
					rest = append(rest, v)
				}
			}
			resetLevels(vs, level)
			dissect(comp)
			dissect(rest)
			return
		}
		if maxLevel < 2 {
			// Too shallow to carve a separator out of; order directly.
			resetLevels(vs, level)
			perm = append(perm, vs...)
			return
		}

		mid := maxLevel / 2
		var left, right, sep []int
		for _, v := range vs {
			switch {
			case level[v] < mid:
				left = append(left, v)
			case level[v] > mid:
				right = append(right, v)
			default:
				sep = append(sep, v)
			}
		}
		resetLevels(vs, level)
		dissect(left)
		dissect(right)
		// Separator vertices come last so their fill stays in the trailing
		// block of the factor.
		perm = append(perm, sep...)
	}
	dissect(all)

	for k, v := range perm {
		inv[v] = k
	}

	return perm, inv, nil
}

// bfsLevels runs a breadth-first search from seed restricted to vertices
// with member[v] == stamp, filling level with BFS depths (-1 outside the
// reached set) and returning the last vertex dequeued (a deepest one).
func bfsLevels(a *CSR, seed, stamp int, member, level []int) int {
	queue := []int{seed}
	level[seed] = 0
	last := seed
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		last = v
		for p := a.rowPtr[v]; p < a.rowPtr[v+1]; p++ {
			u := a.colIdx[p]
			if u == v || member[u] != stamp || level[u] >= 0 {
				continue
			}
			level[u] = level[v] + 1
			queue = append(queue, u)
		}
	}

	return last
}

func resetLevels(vs []int, level []int) {
	for _, v := range vs {
		level[v] = -1
	}
}
