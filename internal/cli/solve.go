package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/pipeline"
)

// solveCommand creates the solve command that prints readouts for one ring.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		asJSON  bool
		noTable bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Resolve a ring and print its readouts",
		Long: `Resolve a ring and print its readouts.

Setting --radius or --diameter derives the variable link; setting --variable
finds the radius. Pass --drive to choose explicitly when several are set.

Examples:
  chainring solve -n 22 --diameter 80
  chainring solve --variable 4.6
  chainring solve --variable 4.6 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, asJSON, noTable)
		},
	}

	paramFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&noTable, "no-table", false, "omit the placement table")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, asJSON, noTable bool) error {
	w := c.out(cmd)
	result, err := c.resolve(cmd.Context(), cmd)
	if err != nil {
		reportFailure(w, err)
		return err
	}

	if asJSON {
		return pipeline.WriteJSON(result, w)
	}

	fmt.Fprintln(w, StyleTitle.Render("Ring"))
	printReadouts(w, result)
	if !noTable {
		fmt.Fprintln(w)
		fmt.Fprintln(w, placementTable(result.Layout, 0))
	}
	return nil
}

// reportFailure prints the error readout for geometry outcomes. Usage
// errors are left to cobra.
func reportFailure(w io.Writer, err error) {
	if !isGeometryError(err) {
		return
	}
	if apperrors.Is(err, apperrors.ErrCodeConvergence) {
		printWarning(w, "Error: %s", apperrors.UserMessage(err))
		return
	}
	printError(w, "Error: %s", apperrors.UserMessage(err))
}

// out returns the writer for command output.
func (c *CLI) out(cmd *cobra.Command) io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return cmd.OutOrStdout()
}
