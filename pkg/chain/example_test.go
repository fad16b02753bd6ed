package chain_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/chainring/pkg/chain"
)

func ExampleResolve() {
	spec := chain.NewSpec(22, chain.StandardChordLength)
	spec.Driving = chain.DriveRadius
	spec.Radius = 43

	res, err := chain.Resolve(spec, chain.DefaultSolverOptions())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("variable link: %.2f mm\n", res.Spec.VariableLength)
	fmt.Printf("inner diameter: %.2f mm\n", res.InnerDiameter())
	fmt.Printf("placements: %d\n", len(res.Layout.Placements))
	// Output:
	// variable link: 4.60 mm
	// inner diameter: 80.00 mm
	// placements: 22
}

func ExampleSolveRadius() {
	spec := chain.NewSpec(22, chain.StandardChordLength)
	spec.Driving = chain.DriveVariableLength
	spec.VariableLength = 4.60

	sol, err := chain.SolveRadius(spec, chain.DefaultSolverOptions())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("radius: %.2f mm\n", sol.Radius)
	// Output:
	// radius: 43.00 mm
}

func ExampleChordAngle() {
	_, err := chain.ChordAngle(1000, 10)
	fmt.Println(errors.Is(err, chain.ErrInfeasible))
	// Output:
	// true
}
