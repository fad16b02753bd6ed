package chain

import (
	"fmt"
	"strings"
)

// Hardware dimensions of the modeled link and pin system, in millimetres.
const (
	// StandardChordLength is the pin-to-pin pitch of a standard link.
	StandardChordLength = 6.35

	// InterlinkChordLength is the pin-to-pin pitch of the spacer joining two links.
	InterlinkChordLength = 6.0

	// HardwareOffset is the pin radius separating the chain circle from the
	// inner bore: R = innerDiameter/2 + HardwareOffset.
	HardwareOffset = 3.0

	// MinLinks is the smallest ring: one variable and one distinguished link.
	MinLinks = 2
)

// DrivingParameter selects which quantity is held fixed for a solve.
type DrivingParameter int

const (
	// DriveRadius fixes the radius and derives the variable link length.
	DriveRadius DrivingParameter = iota

	// DriveVariableLength fixes the variable link length and derives the radius.
	DriveVariableLength
)

// String returns the lowercase name used in flags and JSON.
func (d DrivingParameter) String() string {
	switch d {
	case DriveRadius:
		return "radius"
	case DriveVariableLength:
		return "variable"
	default:
		return fmt.Sprintf("DrivingParameter(%d)", int(d))
	}
}

// ParseDrivingParameter converts "radius" or "variable" to a DrivingParameter.
func ParseDrivingParameter(s string) (DrivingParameter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radius":
		return DriveRadius, nil
	case "variable", "green":
		return DriveVariableLength, nil
	}
	return 0, fmt.Errorf("unknown driving parameter %q (must be radius or variable)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d DrivingParameter) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DrivingParameter) UnmarshalText(text []byte) error {
	v, err := ParseDrivingParameter(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Spec is one problem instance. It is built fresh for every parameter change;
// whichever of Radius and VariableLength is not selected by Driving is
// ignored on input and filled in by [Resolve].
type Spec struct {
	TotalLinks int `json:"total_links"`

	StandardLength      float64 `json:"standard_length"`
	InterlinkLength     float64 `json:"interlink_length"`
	DistinguishedLength float64 `json:"distinguished_length"`
	VariableLength      float64 `json:"variable_length"`
	Radius              float64 `json:"radius"`

	Driving DrivingParameter `json:"driving"`
}

// NewSpec returns a Spec with the hardware pitches filled in. totalLinks
// below MinLinks is raised to MinLinks.
func NewSpec(totalLinks int, distinguishedLength float64) Spec {
	if totalLinks < MinLinks {
		totalLinks = MinLinks
	}
	return Spec{
		TotalLinks:          totalLinks,
		StandardLength:      StandardChordLength,
		InterlinkLength:     InterlinkChordLength,
		DistinguishedLength: distinguishedLength,
	}
}

// StandardLinks is the number of links that are neither variable nor distinguished.
func (s Spec) StandardLinks() int {
	if s.TotalLinks < MinLinks {
		return 0
	}
	return s.TotalLinks - 2
}

// DistinguishedIndex is the ring index of the distinguished link. For odd
// rings the floor puts it one step closer to the variable link on one side.
func (s Spec) DistinguishedIndex() int {
	return s.TotalLinks / 2
}

// TypeAt returns the link type placed at ring index i.
func (s Spec) TypeAt(i int) LinkType {
	switch {
	case i == 0:
		return LinkVariable
	case i == s.DistinguishedIndex():
		return LinkDistinguished
	default:
		return LinkStandard
	}
}

// LengthOf returns the chord length of a link type.
func (s Spec) LengthOf(t LinkType) float64 {
	switch t {
	case LinkVariable:
		return s.VariableLength
	case LinkDistinguished:
		return s.DistinguishedLength
	default:
		return s.StandardLength
	}
}

// MaxChord returns the longest chord in the ring. Radii below MaxChord/2
// cannot span every link.
func (s Spec) MaxChord() float64 {
	m := s.InterlinkLength
	for _, l := range []float64{s.DistinguishedLength, s.VariableLength} {
		if l > m {
			m = l
		}
	}
	if s.StandardLinks() > 0 && s.StandardLength > m {
		m = s.StandardLength
	}
	return m
}

// TotalChordLength sums every chord in the ring, interlinks included.
func (s Spec) TotalChordLength() float64 {
	n := float64(s.TotalLinks)
	return float64(s.StandardLinks())*s.StandardLength +
		s.VariableLength + s.DistinguishedLength +
		n*s.InterlinkLength
}

// Validate checks the fixed inputs of s for the selected mode.
func (s Spec) Validate() error {
	if s.TotalLinks < MinLinks {
		return fmt.Errorf("%w: total links %d below %d", ErrInvalidSpec, s.TotalLinks, MinLinks)
	}
	if s.StandardLength <= 0 || s.InterlinkLength <= 0 {
		return fmt.Errorf("%w: hardware pitches must be positive", ErrInvalidSpec)
	}
	if s.DistinguishedLength <= 0 {
		return fmt.Errorf("%w: distinguished length must be positive, got %g", ErrInvalidSpec, s.DistinguishedLength)
	}
	switch s.Driving {
	case DriveRadius:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidSpec, s.Radius)
		}
	case DriveVariableLength:
		if s.VariableLength <= 0 {
			return fmt.Errorf("%w: variable length must be positive, got %g", ErrInvalidSpec, s.VariableLength)
		}
	default:
		return fmt.Errorf("%w: unknown driving parameter %d", ErrInvalidSpec, int(s.Driving))
	}
	return nil
}

// InnerDiameter converts a chain radius to the bore diameter it encloses.
func InnerDiameter(radius float64) float64 {
	return 2 * (radius - HardwareOffset)
}

// RadiusFromInnerDiameter converts a bore diameter to the chain radius.
func RadiusFromInnerDiameter(d float64) float64 {
	return d/2 + HardwareOffset
}
