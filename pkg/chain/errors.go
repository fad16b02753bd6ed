package chain

import (
	"errors"
	"fmt"
)

// Sentinel errors for solve outcomes.
var (
	// ErrInfeasible is returned when no valid geometry exists: a chord is
	// longer than the diameter, or the angle budget cannot close.
	ErrInfeasible = errors.New("infeasible geometry")

	// ErrNoConvergence is returned when bisection exhausts its iteration
	// budget before the bracket shrinks below the tolerance.
	ErrNoConvergence = errors.New("radius did not converge")

	// ErrNotClosed is returned when a layout does not return to a full turn.
	ErrNotClosed = errors.New("ring does not close")

	// ErrInvalidSpec is returned for non-positive or missing inputs.
	ErrInvalidSpec = errors.New("invalid chain spec")
)

// InfeasibleError describes why a geometry cannot exist.
type InfeasibleError struct {
	Length float64 // Offending chord length, zero for budget failures
	Radius float64
	Reason string
}

// Error implements the error interface.
func (e *InfeasibleError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("%s: chord %.4g exceeds diameter %.4g (%s)", ErrInfeasible, e.Length, 2*e.Radius, e.Reason)
	}
	return fmt.Sprintf("%s at radius %.4g: %s", ErrInfeasible, e.Radius, e.Reason)
}

// Unwrap returns ErrInfeasible.
func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// ConvergenceError carries the last bracket of a bisection that ran out of
// iterations. The bracket is unverified and must not be used as a result.
type ConvergenceError struct {
	Iterations int
	Low, High  float64
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d iterations: bracket [%.10g, %.10g]", ErrNoConvergence, e.Iterations, e.Low, e.High)
}

// Unwrap returns ErrNoConvergence.
func (e *ConvergenceError) Unwrap() error { return ErrNoConvergence }
