// Package pipeline is the boundary between user input and the ring solver.
//
// It owns the parameter set every entry point shares (CLI flags, the TOML
// config file, the explore TUI and the HTTP API), turns it into a
// [chain.Spec], runs the solver and packages the readouts and layout as a
// [Result].
//
// # Parameter Changes
//
// [Options.Set] applies one text edit the way an interactive control does:
// the field that was edited becomes the driving parameter where that makes
// sense, malformed text leaves the last known-good value in place and
// returns a PARSE_ERROR, and a link count below two is raised to two.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Drive: pipeline.DriveVariable, VariableLength: 4.6}
//	result, err := runner.Execute(ctx, opts)
//	if errors.Is(err, errors.ErrCodeInfeasible) {
//	    // show "Error", draw nothing
//	}
//	fmt.Println(result.Radius)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chainring/pkg/chain"
	apperrors "github.com/matzehuels/chainring/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI and API
// =============================================================================

const (
	// DefaultLinks is the ring size shown on startup.
	DefaultLinks = 22

	// DefaultInnerDiameter is the bore shown on startup, in millimetres.
	DefaultInnerDiameter = 80.0

	// DefaultRadius is the chain radius matching DefaultInnerDiameter.
	DefaultRadius = DefaultInnerDiameter/2 + chain.HardwareOffset

	// DefaultVariableLength is the starting variable link length.
	DefaultVariableLength = chain.StandardChordLength

	// DefaultDistinguishedLength is the starting distinguished link length.
	DefaultDistinguishedLength = chain.StandardChordLength
)

// Driving parameter names accepted by Options.Drive.
const (
	DriveRadius   = "radius"
	DriveDiameter = "diameter"
	DriveVariable = "variable"
)

// DefaultDrive is the driving parameter used when none is given.
const DefaultDrive = DriveRadius

// ValidDrives is the set of supported driving parameters.
var ValidDrives = map[string]bool{
	DriveRadius:   true,
	DriveDiameter: true,
	DriveVariable: true,
}

// Field names accepted by Options.Set.
const (
	FieldLinks         = "links"
	FieldDrive         = "drive"
	FieldRadius        = "radius"
	FieldInnerDiameter = "inner_diameter"
	FieldVariable      = "variable_length"
	FieldDistinguished = "distinguished_length"
)

// fieldAliases maps short names used on the command line and in the TUI.
var fieldAliases = map[string]string{
	"n":             FieldLinks,
	"diameter":      FieldInnerDiameter,
	"variable":      FieldVariable,
	"green":         FieldVariable,
	"distinguished": FieldDistinguished,
	"red":           FieldDistinguished,
}

// =============================================================================
// Options - Boundary Parameters
// =============================================================================

// Options contains every user-tunable parameter of a recompute.
// This struct supports JSON (API) and TOML (config file) serialization.
type Options struct {
	Links               int     `json:"links,omitempty" toml:"links"`
	Drive               string  `json:"drive,omitempty" toml:"drive"`
	Radius              float64 `json:"radius,omitempty" toml:"radius"`
	InnerDiameter       float64 `json:"inner_diameter,omitempty" toml:"inner_diameter"`
	VariableLength      float64 `json:"variable_length,omitempty" toml:"variable_length"`
	DistinguishedLength float64 `json:"distinguished_length,omitempty" toml:"distinguished_length"`

	// Solver tuning
	Tolerance     float64 `json:"tolerance,omitempty" toml:"tolerance"`
	MaxIterations int     `json:"max_iterations,omitempty" toml:"max_iterations"`
	UpperBound    float64 `json:"upper_bound,omitempty" toml:"upper_bound"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns the startup parameter set.
func DefaultOptions() Options {
	o := Options{}
	o.SetDefaults()
	return o
}

// Result contains the readouts and layout of a successful recompute.
type Result struct {
	Links               int          `json:"links"`
	Drive               string       `json:"drive"`
	Radius              float64      `json:"radius"`
	InnerDiameter       float64      `json:"inner_diameter"`
	VariableLength      float64      `json:"variable_length"`
	DistinguishedLength float64      `json:"distinguished_length"`
	Circumference       float64      `json:"circumference"`
	InnerCircumference  float64      `json:"inner_circumference"`
	Layout              chain.Layout `json:"layout"`
	Stats               Stats        `json:"stats"`
}

// Stats contains solver statistics.
type Stats struct {
	Iterations int           `json:"iterations,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateDrive checks that a driving parameter name is valid.
func ValidateDrive(drive string) error {
	if !ValidDrives[drive] {
		return apperrors.New(apperrors.ErrCodeInvalidDrive,
			"invalid drive: %q (must be one of: radius, diameter, variable)", drive)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields and raises Links to the two-link minimum.
func (o *Options) SetDefaults() {
	if o.Links == 0 {
		o.Links = DefaultLinks
	}
	if o.Links < chain.MinLinks {
		o.Links = chain.MinLinks
	}
	if o.Drive == "" {
		o.Drive = DefaultDrive
	}
	o.Drive = strings.ToLower(o.Drive)
	if o.Radius == 0 {
		if o.InnerDiameter != 0 {
			o.Radius = chain.RadiusFromInnerDiameter(o.InnerDiameter)
		} else {
			o.Radius = DefaultRadius
		}
	}
	if o.InnerDiameter == 0 {
		o.InnerDiameter = chain.InnerDiameter(o.Radius)
	}
	if o.VariableLength == 0 {
		o.VariableLength = DefaultVariableLength
	}
	if o.DistinguishedLength == 0 {
		o.DistinguishedLength = DefaultDistinguishedLength
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateDrive(o.Drive); err != nil {
		return err
	}
	driving := map[string]struct {
		field string
		value float64
	}{
		DriveRadius:   {FieldRadius, o.Radius},
		DriveDiameter: {FieldInnerDiameter, o.InnerDiameter},
		DriveVariable: {FieldVariable, o.VariableLength},
	}
	d := driving[o.Drive]
	if err := apperrors.ValidatePositive(d.field, d.value); err != nil {
		return err
	}
	if err := apperrors.ValidatePositive(FieldDistinguished, o.DistinguishedLength); err != nil {
		return err
	}
	if o.Tolerance < 0 || o.UpperBound < 0 || o.MaxIterations < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "solver settings cannot be negative")
	}
	o.validated = true
	return nil
}

// DrivingParameter maps Drive to the solver's driving parameter. Both
// radius and diameter drive the radius.
func (o *Options) DrivingParameter() chain.DrivingParameter {
	if o.Drive == DriveVariable {
		return chain.DriveVariableLength
	}
	return chain.DriveRadius
}

// Spec builds a fresh chain.Spec for one recompute.
func (o *Options) Spec() (chain.Spec, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return chain.Spec{}, err
	}
	s := chain.NewSpec(o.Links, o.DistinguishedLength)
	s.Driving = o.DrivingParameter()
	switch o.Drive {
	case DriveRadius:
		s.Radius = o.Radius
	case DriveDiameter:
		s.Radius = chain.RadiusFromInnerDiameter(o.InnerDiameter)
	case DriveVariable:
		s.VariableLength = o.VariableLength
	}
	return s, nil
}

// SolverOptions returns the solver tuning, zero fields left for the solver defaults.
func (o *Options) SolverOptions() chain.SolverOptions {
	return chain.SolverOptions{
		Tolerance:     o.Tolerance,
		MaxIterations: o.MaxIterations,
		UpperBound:    o.UpperBound,
	}
}

// Set applies one text edit. The edited length becomes the driving
// parameter: radius and diameter drive the radius, variable_length drives
// the variable link. Links, drive and distinguished_length keep the current
// drive.
//
// On a malformed or non-positive value Options is left unchanged and a
// PARSE_ERROR or INVALID_INPUT error is returned.
func (o *Options) Set(field, text string) error {
	if err := o.set(field, text); err != nil {
		return err
	}
	o.validated = false
	return nil
}

func (o *Options) set(field, text string) error {
	o.SetDefaults()
	name := strings.ToLower(strings.TrimSpace(field))
	if alias, ok := fieldAliases[name]; ok {
		name = alias
	}

	if name == FieldLinks {
		n, err := apperrors.ParseInt(name, text)
		if err != nil {
			return err
		}
		if n < chain.MinLinks {
			n = chain.MinLinks
		}
		o.Links = n
		return nil
	}
	if name == FieldDrive {
		drive := strings.ToLower(strings.TrimSpace(text))
		if err := ValidateDrive(drive); err != nil {
			return err
		}
		o.Drive = drive
		return nil
	}

	v, err := apperrors.ParseFloat(name, text)
	if err != nil {
		return err
	}
	if err := apperrors.ValidatePositive(name, v); err != nil {
		return err
	}
	switch name {
	case FieldRadius:
		o.Radius = v
		o.InnerDiameter = chain.InnerDiameter(v)
		o.Drive = DriveRadius
	case FieldInnerDiameter:
		o.InnerDiameter = v
		o.Radius = chain.RadiusFromInnerDiameter(v)
		o.Drive = DriveDiameter
	case FieldVariable:
		o.VariableLength = v
		o.Drive = DriveVariable
	case FieldDistinguished:
		o.DistinguishedLength = v
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown field %q", field)
	}
	return nil
}

// Adopt records a successful result as the new known-good parameter set, so
// that a later switch of driving parameter starts from the derived values.
func (o *Options) Adopt(r *Result) {
	if r == nil {
		return
	}
	o.Radius = r.Radius
	o.InnerDiameter = r.InnerDiameter
	o.VariableLength = r.VariableLength
}

// String returns a short description for log lines.
func (o Options) String() string {
	switch o.Drive {
	case DriveVariable:
		return fmt.Sprintf("links=%d drive=%s variable=%.4g distinguished=%.4g", o.Links, o.Drive, o.VariableLength, o.DistinguishedLength)
	case DriveDiameter:
		return fmt.Sprintf("links=%d drive=%s inner_diameter=%.4g distinguished=%.4g", o.Links, o.Drive, o.InnerDiameter, o.DistinguishedLength)
	default:
		return fmt.Sprintf("links=%d drive=%s radius=%.4g distinguished=%.4g", o.Links, o.Drive, o.Radius, o.DistinguishedLength)
	}
}
