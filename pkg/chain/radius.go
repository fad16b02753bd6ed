package chain

import (
	"fmt"
	"math"
)

// Solver defaults.
const (
	// DefaultTolerance is the bisection bracket width, in millimetres, at
	// which a radius is accepted.
	DefaultTolerance = 1e-9

	// DefaultMaxIterations bounds the bisection loop. Halving a 1000 mm
	// bracket down to DefaultTolerance takes about 40 steps.
	DefaultMaxIterations = 200

	// DefaultUpperBound is the smallest upper bracket the bisection starts from.
	DefaultUpperBound = 1000.0

	// DefaultClosureTolerance is the angular slack allowed when checking that
	// a layout returns to a full turn.
	DefaultClosureTolerance = 1e-6
)

// SolverOptions tunes the radius bisection and the closure check.
type SolverOptions struct {
	Tolerance        float64 `json:"tolerance,omitempty"`
	MaxIterations    int     `json:"max_iterations,omitempty"`
	UpperBound       float64 `json:"upper_bound,omitempty"`
	ClosureTolerance float64 `json:"closure_tolerance,omitempty"`
}

// DefaultSolverOptions returns the defaults used by the CLI and API.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:        DefaultTolerance,
		MaxIterations:    DefaultMaxIterations,
		UpperBound:       DefaultUpperBound,
		ClosureTolerance: DefaultClosureTolerance,
	}
}

// withDefaults fills zero fields.
func (o SolverOptions) withDefaults() SolverOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.UpperBound <= 0 {
		o.UpperBound = DefaultUpperBound
	}
	if o.ClosureTolerance <= 0 {
		o.ClosureTolerance = DefaultClosureTolerance
	}
	return o
}

// RadiusSolution is the outcome of a converged bisection.
type RadiusSolution struct {
	Radius     float64
	Iterations int
	// Residual is TotalAngle(Radius) − 2π.
	Residual float64
}

// SolveRadius finds the radius at which the ring, with every chord length
// fixed, spends exactly a full turn.
//
// The bracket starts at [MaxChord/2, max(UpperBound, TotalChordLength/4)].
// At the lower end every chord is just spannable; at the upper end each
// chordal angle is at most π·L/2R, so the total is at most 2π. If the
// budget at the lower end is already short of 2π the ring cannot close at
// any radius and ErrInfeasible is returned.
func SolveRadius(s Spec, opts SolverOptions) (RadiusSolution, error) {
	opts = opts.withDefaults()
	if s.VariableLength <= 0 {
		return RadiusSolution{}, fmt.Errorf("%w: variable length must be positive, got %g", ErrInvalidSpec, s.VariableLength)
	}

	low := s.MaxChord() / 2
	high := math.Max(opts.UpperBound, s.TotalChordLength()/4)
	if high < low {
		high = low
	}

	if budget(low, s) < FullTurn {
		return RadiusSolution{}, &InfeasibleError{Radius: low, Reason: "chain too short to close at any radius"}
	}
	if budget(high, s) > FullTurn {
		return RadiusSolution{}, &InfeasibleError{Radius: high, Reason: "chain does not close below the upper bound"}
	}

	for i := 1; i <= opts.MaxIterations; i++ {
		mid := (low + high) / 2
		if budget(mid, s) > FullTurn {
			low = mid
		} else {
			high = mid
		}
		if high-low < opts.Tolerance {
			r := (low + high) / 2
			total, err := TotalAngle(r, s)
			if err != nil {
				return RadiusSolution{}, err
			}
			return RadiusSolution{Radius: r, Iterations: i, Residual: total - FullTurn}, nil
		}
	}
	return RadiusSolution{}, &ConvergenceError{Iterations: opts.MaxIterations, Low: low, High: high}
}
