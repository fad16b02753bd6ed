package chain

import (
	"fmt"
	"math"
)

// Resolved is a spec whose radius and variable length are both known,
// together with its layout.
type Resolved struct {
	Spec       Spec   `json:"spec"`
	Layout     Layout `json:"layout"`
	Iterations int    `json:"iterations,omitempty"`
}

// Circumference is the length of the chain circle, 2πR.
func (r *Resolved) Circumference() float64 { return 2 * math.Pi * r.Spec.Radius }

// InnerDiameter is the bore enclosed by the chain.
func (r *Resolved) InnerDiameter() float64 { return InnerDiameter(r.Spec.Radius) }

// InnerCircumference is the circumference of the bore.
func (r *Resolved) InnerCircumference() float64 { return math.Pi * r.InnerDiameter() }

// Resolve derives the non-driving quantity of s with the matching solver,
// checks every chord against the resulting diameter, and builds the layout.
// The input spec is not modified.
func Resolve(s Spec, opts SolverOptions) (*Resolved, error) {
	opts = opts.withDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := &Resolved{}
	switch s.Driving {
	case DriveRadius:
		l, err := SolveVariableLength(s)
		if err != nil {
			return nil, err
		}
		s.VariableLength = l
	case DriveVariableLength:
		sol, err := SolveRadius(s, opts)
		if err != nil {
			return nil, err
		}
		s.Radius = sol.Radius
		out.Iterations = sol.Iterations
	default:
		return nil, fmt.Errorf("%w: unknown driving parameter %d", ErrInvalidSpec, int(s.Driving))
	}

	if err := checkChords(s); err != nil {
		return nil, err
	}

	layout, err := BuildLayout(s, opts.ClosureTolerance)
	if err != nil {
		return nil, err
	}
	out.Spec = s
	out.Layout = layout
	return out, nil
}

// checkChords enforces that no chord is longer than the diameter.
func checkChords(s Spec) error {
	if m := s.MaxChord(); m > 2*s.Radius {
		return &InfeasibleError{Length: m, Radius: s.Radius, Reason: "chord exceeds diameter"}
	}
	return nil
}
