package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chainring/pkg/pipeline"
)

// defaultLayoutFile is written when --output is not given.
const defaultLayoutFile = "chainring.layout.json"

// layoutCommand creates the layout command that exports placements as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Resolve a ring and write its layout as JSON",
		Long: `Resolve a ring and write its layout as JSON.

The file holds the readouts and every placement (type, length, start and end
angle, endpoint coordinates) for an external renderer. Nothing is written when
the ring cannot be resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, output)
		},
	}

	paramFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", defaultLayoutFile, "output file")

	return cmd
}

// runLayout resolves the ring and writes the layout file.
func (c *CLI) runLayout(cmd *cobra.Command, output string) error {
	w := c.out(cmd)
	result, err := c.resolve(cmd.Context(), cmd)
	if err != nil {
		reportFailure(w, err)
		return err
	}

	if err := pipeline.ExportJSON(result, output); err != nil {
		return err
	}

	printSuccess(w, "Layout complete")
	printFile(w, output)
	printInfo(w, "%d links, radius %s, variable link %s", result.Links, mm(result.Radius), mm(result.VariableLength))
	printNextStep(w, "Explore", "chainring explore --drive "+result.Drive)
	return nil
}
