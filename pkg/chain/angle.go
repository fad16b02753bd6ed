package chain

import "math"

// FullTurn is the angle budget a closed ring must spend.
const FullTurn = 2 * math.Pi

// ChordAngle returns the central angle subtended by a chord of the given
// length on a circle of the given radius. A chord longer than the diameter
// cannot be spanned and yields an *InfeasibleError.
func ChordAngle(length, radius float64) (float64, error) {
	if radius <= 0 || length > 2*radius {
		return 0, &InfeasibleError{Length: length, Radius: radius, Reason: "chord cannot be spanned"}
	}
	return 2 * math.Asin(length/(2*radius)), nil
}

// TotalAngle returns the angle budget spent by the whole ring at radius:
// every link chord plus one interlink per link.
func TotalAngle(radius float64, s Spec) (float64, error) {
	fixed, err := FixedAngle(radius, s)
	if err != nil {
		return 0, err
	}
	v, err := ChordAngle(s.VariableLength, radius)
	if err != nil {
		return 0, err
	}
	return fixed + v, nil
}

// FixedAngle returns the angle budget spent by everything except the
// variable link.
func FixedAngle(radius float64, s Spec) (float64, error) {
	var total float64
	if n := s.StandardLinks(); n > 0 {
		std, err := ChordAngle(s.StandardLength, radius)
		if err != nil {
			return 0, err
		}
		total += float64(n) * std
	}
	red, err := ChordAngle(s.DistinguishedLength, radius)
	if err != nil {
		return 0, err
	}
	inter, err := ChordAngle(s.InterlinkLength, radius)
	if err != nil {
		return 0, err
	}
	return total + red + float64(s.TotalLinks)*inter, nil
}

// budget evaluates TotalAngle for bisection, where an unspannable chord
// counts as an overspent budget.
func budget(radius float64, s Spec) float64 {
	total, err := TotalAngle(radius, s)
	if err != nil {
		return math.Inf(1)
	}
	return total
}
