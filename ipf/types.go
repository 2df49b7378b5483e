package ipf

// System selects which of the three equivalent symmetric KKT formulations
// provides the Newton direction. The choice is fixed for a whole solve.
type System int

const (
	// FullKKT solves the (m+2n)×(m+2n) system in (dx, dy, dz) directly.
	FullKKT System = iota
	// AugmentedKKT eliminates dz, solving the (n+m)×(n+m) system in
	// (dx, dy); dz is recovered algebraically.
	AugmentedKKT
	// NormalKKT further eliminates dx, solving the m×m normal equations
	// A·diag(x/z)·Aᵀ·dy = r; dx and dz are recovered algebraically.
	NormalKKT
)

// String returns the constant name, for diagnostics.
func (s System) String() string {
	switch s {
	case FullKKT:
		return "FullKKT"
	case AugmentedKKT:
		return "AugmentedKKT"
	case NormalKKT:
		return "NormalKKT"
	default:
		return "UnknownKKT"
	}
}

// Default configuration values.
const (
	// DefaultCentering is the barrier-centering parameter sigma.
	DefaultCentering = 0.9
	// DefaultMaxIts bounds the number of Newton iterations.
	DefaultMaxIts = 1000
	// DefaultTargetTol is the relative error at which the solve is
	// declared converged.
	DefaultTargetTol = 1e-8
	// DefaultMinTol is the relative error that must be reached before a
	// numerical failure may be accepted as a soft success.
	DefaultMinTol = 1e-5

	// DefaultRegPrimal and DefaultRegDual are the quasi-definite diagonal
	// regularization magnitudes for the sparse KKT factorizations.
	DefaultRegPrimal = 1e-8
	DefaultRegDual   = 1e-8
	// DefaultRefineTol and DefaultMaxRefineIts govern the iterative
	// refinement recovering the unregularized solution.
	DefaultRefineTol    = 1e-12
	DefaultMaxRefineIts = 10

	// DefaultLineSearchGamma is the centrality fraction each candidate
	// step must keep: min(x∘z) >= gamma·mu.
	DefaultLineSearchGamma = 1e-3
	// DefaultLineSearchStepRatio is the backtracking shrink factor.
	DefaultLineSearchStepRatio = 0.5
	// DefaultLineSearchMaxIts bounds the backtracking steps before the
	// search gives up and reports a zero step.
	DefaultLineSearchMaxIts = 100
)

// RegOptions configures the quasi-definite regularization and iterative
// refinement used by the sparse KKT solves.
type RegOptions struct {
	// Primal is added to the first n diagonal entries of the regularized
	// system; Dual is subtracted from the remaining ones.
	Primal float64
	Dual   float64
	// RefineTol is the relative residual at which refinement stops;
	// MaxRefineIts bounds the refinement iterations.
	RefineTol    float64
	MaxRefineIts int
}

// LineSearchOptions configures the cone-constrained backtracking search.
type LineSearchOptions struct {
	// Gamma is the centrality fraction each accepted step must keep.
	Gamma float64
	// StepRatio multiplies the step on every backtrack; must lie in (0,1).
	StepRatio float64
	// MaxIts bounds the number of backtracks before reporting zero.
	MaxIts int
}

// Options configures a solve. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// Equilibrate applies geometric equilibration to the LP data before
	// the iteration and inverts it exactly afterwards.
	Equilibrate bool
	// PrimalInit and DualInit declare that the caller supplied x and
	// (y, z) respectively; sides not supplied are initialized by the
	// least-squares heuristic.
	PrimalInit bool
	DualInit   bool
	// Centering is the barrier-centering parameter in (0, 1).
	Centering float64
	// System selects the KKT formulation.
	System System
	// MaxIts bounds the Newton iterations.
	MaxIts int
	// TargetTol is the convergence tolerance; MinTol the weakest
	// acceptable tolerance on numerical failure.
	TargetTol float64
	MinTol    float64
	// CheckDirections computes and logs the residuals of every Newton
	// direction, a debugging aid.
	CheckDirections bool
	// Log receives per-iteration diagnostics when non-nil. In distributed
	// regimes only rank 0 logs.
	Log func(format string, args ...any)

	Reg        RegOptions
	LineSearch LineSearchOptions
}

// DefaultOptions returns the documented default configuration:
// AugmentedKKT, equilibration off, heuristic initialization of both sides.
func DefaultOptions() Options {
	return Options{
		Centering: DefaultCentering,
		System:    AugmentedKKT,
		MaxIts:    DefaultMaxIts,
		TargetTol: DefaultTargetTol,
		MinTol:    DefaultMinTol,
		Reg: RegOptions{
			Primal:       DefaultRegPrimal,
			Dual:         DefaultRegDual,
			RefineTol:    DefaultRefineTol,
			MaxRefineIts: DefaultMaxRefineIts,
		},
		LineSearch: LineSearchOptions{
			Gamma:     DefaultLineSearchGamma,
			StepRatio: DefaultLineSearchStepRatio,
			MaxIts:    DefaultLineSearchMaxIts,
		},
	}
}

func (o *Options) validate() error {
	if o.Centering <= 0 || o.Centering >= 1 {
		return ErrBadOptions
	}
	if o.System != FullKKT && o.System != AugmentedKKT && o.System != NormalKKT {
		return ErrBadOptions
	}
	if o.MaxIts <= 0 || o.TargetTol <= 0 || o.MinTol <= 0 {
		return ErrBadOptions
	}
	if o.LineSearch.StepRatio <= 0 || o.LineSearch.StepRatio >= 1 || o.LineSearch.MaxIts <= 0 {
		return ErrBadOptions
	}
	if o.Reg.MaxRefineIts < 0 || o.Reg.RefineTol < 0 {
		return ErrBadOptions
	}

	return nil
}

// Info summarizes a finished solve.
type Info struct {
	// Iterations is the number of Newton iterations performed.
	Iterations int
	// RelError is the final relative error (max of the objective gap and
	// the primal and dual residual measures).
	RelError float64
	// Mu is the final duality measure xᵀz/n.
	Mu float64
}
