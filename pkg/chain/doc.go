// Package chain solves the closure geometry of a ring of rigid links.
//
// A ring is made of TotalLinks chord-like links whose endpoints sit on a
// circle, joined by fixed-length interlink spacers. Most links share the
// standard pitch; two are special: the variable ("green") link at ring index
// 0 and the distinguished ("red") link at index TotalLinks/2.
//
// # Solve Modes
//
// Exactly one of the radius and the variable link length drives a solve; the
// other is derived:
//
//   - [DriveRadius]: [SolveVariableLength] computes the one variable chord
//     that closes the ring at a fixed radius (closed form).
//   - [DriveVariableLength]: [SolveRadius] bisects the radius at which the
//     ring's total chordal angle equals a full turn.
//
// [Resolve] dispatches on [Spec.Driving], checks that every chord fits the
// resulting diameter, and enumerates the placements with [BuildLayout].
//
// # Angle Budget
//
// A chord of length L on a circle of radius R subtends 2·asin(L/2R). The ring
// closes when
//
//	(n−2)·θ(standard) + θ(variable) + θ(distinguished) + n·θ(interlink) = 2π
//
// The total is strictly decreasing in R over the feasible domain R ≥ max(L)/2,
// which is what licenses bisection.
//
// # Failures
//
// Geometry that cannot exist is reported with [ErrInfeasible] (typed as
// [*InfeasibleError]); a bisection that runs out of iterations reports
// [ErrNoConvergence] ([*ConvergenceError]); a layout that does not come back
// to 2π reports [ErrNotClosed]. No function clamps or substitutes a default.
//
// # Usage
//
//	spec := chain.NewSpec(22, chain.StandardChordLength)
//	spec.Driving = chain.DriveRadius
//	spec.Radius = 43
//
//	res, err := chain.Resolve(spec, chain.DefaultSolverOptions())
//	if errors.Is(err, chain.ErrInfeasible) {
//	    // show an error readout, draw nothing
//	}
//	fmt.Printf("%.2f\n", res.Spec.VariableLength) // 4.60
package chain
