package chain

import (
	"fmt"
	"math"
)

// LinkType classifies a placement in the ring.
type LinkType int

const (
	LinkStandard LinkType = iota
	LinkVariable
	LinkDistinguished
)

// String returns the lowercase type name.
func (t LinkType) String() string {
	switch t {
	case LinkStandard:
		return "standard"
	case LinkVariable:
		return "variable"
	case LinkDistinguished:
		return "distinguished"
	default:
		return fmt.Sprintf("LinkType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t LinkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LinkType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "standard":
		*t = LinkStandard
	case "variable":
		*t = LinkVariable
	case "distinguished":
		*t = LinkDistinguished
	default:
		return fmt.Errorf("unknown link type %q", text)
	}
	return nil
}

// Point is a position in the plane of the ring, in millimetres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// onCircle returns the point at angle theta on a circle of radius r.
func onCircle(r, theta float64) Point {
	return Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Placement is one link laid on the circle. Angles are in radians and
// increase counter-clockwise from the positive x axis.
type Placement struct {
	Index      int      `json:"index"`
	Type       LinkType `json:"type"`
	Length     float64  `json:"length"`
	StartAngle float64  `json:"start_angle"`
	EndAngle   float64  `json:"end_angle"`
	Start      Point    `json:"start"`
	End        Point    `json:"end"`
}

// Span returns the central angle covered by the placement.
func (p Placement) Span() float64 { return p.EndAngle - p.StartAngle }

// Layout is the ordered set of placements for a resolved ring. Consumers
// treat it as read-only and request a new one after every change.
type Layout struct {
	Radius     float64     `json:"radius"`
	Placements []Placement `json:"placements"`
	// Closure is the cumulative angle after the last interlink gap.
	Closure float64 `json:"closure"`
}

// Count returns the number of placements of type t.
func (l Layout) Count(t LinkType) int {
	n := 0
	for _, p := range l.Placements {
		if p.Type == t {
			n++
		}
	}
	return n
}

// BuildLayout walks the ring from angle 0, placing each link and then
// skipping the interlink gap that follows it. The walk must end at 2π within
// tolerance; otherwise s was not resolved and ErrNotClosed is
// returned instead of a layout.
func BuildLayout(s Spec, tolerance float64) (Layout, error) {
	if tolerance <= 0 {
		tolerance = DefaultClosureTolerance
	}
	if s.TotalLinks < MinLinks {
		return Layout{}, fmt.Errorf("%w: total links %d below %d", ErrInvalidSpec, s.TotalLinks, MinLinks)
	}

	r := s.Radius
	gap, err := ChordAngle(s.InterlinkLength, r)
	if err != nil {
		return Layout{}, err
	}

	// Chordal angle per link type, computed once.
	spans := make(map[LinkType]float64, 3)
	for i := 0; i < s.TotalLinks; i++ {
		t := s.TypeAt(i)
		if _, ok := spans[t]; ok {
			continue
		}
		a, err := ChordAngle(s.LengthOf(t), r)
		if err != nil {
			return Layout{}, err
		}
		spans[t] = a
	}

	out := Layout{Radius: r, Placements: make([]Placement, 0, s.TotalLinks)}
	current := 0.0
	for i := 0; i < s.TotalLinks; i++ {
		t := s.TypeAt(i)
		end := current + spans[t]
		out.Placements = append(out.Placements, Placement{
			Index:      i,
			Type:       t,
			Length:     s.LengthOf(t),
			StartAngle: current,
			EndAngle:   end,
			Start:      onCircle(r, current),
			End:        onCircle(r, end),
		})
		current = end + gap
	}
	out.Closure = current

	if math.Abs(current-FullTurn) > tolerance {
		return Layout{}, fmt.Errorf("%w: cumulative angle %.9f, want %.9f", ErrNotClosed, current, FullTurn)
	}
	return out, nil
}
