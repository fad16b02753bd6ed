// Package pkg provides the core libraries for Chainring ring geometry.
//
// # Overview
//
// Chainring lays a closed ring of chain links on a circle. Every link and
// every interlink spacer is a chord of that circle; the ring closes when the
// central angles of all chords add up to one full turn. The pkg directory is
// organized into these areas:
//
//  1. [chain] - Domain logic (chord angles, the two solvers, layout)
//  2. [pipeline] - Boundary options, config file, runner and JSON export
//  3. [snapshot] - The immutable published state shared by the TUI and API
//  4. [errors] - Structured error codes used at every boundary
//  5. [observability] - Hook registry for resolve and HTTP events
//
// # Architecture
//
// The typical data flow through Chainring:
//
//	CLI flags / TOML config / TUI edit / HTTP request
//	         ↓
//	    [pipeline] package (parse, validate, pick the driving parameter)
//	         ↓
//	    [chain] package (solve radius or variable link, build layout)
//	         ↓
//	    [snapshot] package (publish a complete snapshot)
//	         ↓
//	    readouts, placement table, JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/chainring/pkg/chain"
//	)
//
//	s := chain.NewSpec(22, chain.StandardChordLength)
//	s.Driving = chain.DriveVariableLength
//	s.VariableLength = 4.6
//
//	res, err := chain.Resolve(s, chain.DefaultSolverOptions())
//	if errors.Is(err, chain.ErrInfeasible) {
//	    // no ring exists; show an error state and draw nothing
//	}
//	fmt.Println(res.Spec.Radius, len(res.Layout.Placements))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/chain/...    # Specific package
//	go test -run Example       # Examples only
//
// [chain]: https://pkg.go.dev/github.com/matzehuels/chainring/pkg/chain
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chainring/pkg/pipeline
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/chainring/pkg/snapshot
// [errors]: https://pkg.go.dev/github.com/matzehuels/chainring/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/chainring/pkg/observability
package pkg
