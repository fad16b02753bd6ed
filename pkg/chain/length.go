package chain

import (
	"fmt"
	"math"
)

// SolveVariableLength returns the variable chord that closes the ring at
// s.Radius. Everything else in the ring spends FixedAngle; the variable link
// takes the remainder, 2·R·sin(remainder/2). Above π that chord would
// subtend 2π − remainder on the near side, so the ring cannot close and the
// result is infeasible, matching SolveRadius.
func SolveVariableLength(s Spec) (float64, error) {
	if s.Radius <= 0 {
		return 0, fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidSpec, s.Radius)
	}
	fixed, err := FixedAngle(s.Radius, s)
	if err != nil {
		return 0, err
	}
	remainder := FullTurn - fixed
	if remainder <= 0 {
		return 0, &InfeasibleError{
			Radius: s.Radius,
			Reason: fmt.Sprintf("fixed links already spend %.4f rad of %.4f", fixed, FullTurn),
		}
	}
	if remainder > math.Pi {
		return 0, &InfeasibleError{
			Radius: s.Radius,
			Reason: fmt.Sprintf("variable link would span more than half the circle (%.4f rad)", remainder),
		}
	}
	return 2 * s.Radius * math.Sin(remainder/2), nil
}
