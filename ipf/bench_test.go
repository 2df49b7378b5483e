package ipf_test

import (
	"testing"

	"github.com/katalvlaran/lvlopt/ipf"
)

func BenchmarkSolve_Systems(b *testing.B) {
	a, rhs, cost := mediumLP(b)
	for _, sys := range []ipf.System{ipf.FullKKT, ipf.AugmentedKKT, ipf.NormalKKT} {
		b.Run(sys.String(), func(b *testing.B) {
			opts := ipf.DefaultOptions()
			opts.System = sys
			for i := 0; i < b.N; i++ {
				x, y, z := newIterate(2, 4)
				if _, err := ipf.Solve(a, rhs, cost, x, y, z, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSolveSparse_SymbolicReuse(b *testing.B) {
	a := mediumLPSparse(b)
	_, rhs, cost := mediumLP(b)
	opts := ipf.DefaultOptions()
	for i := 0; i < b.N; i++ {
		x, y, z := newIterate(2, 4)
		if _, err := ipf.SolveSparse(a, rhs, cost, x, y, z, opts); err != nil {
			b.Fatal(err)
		}
	}
}
