package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script for the root command.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

  $ source <(chainring completion bash)
  $ chainring completion zsh > "${fpath[1]}/_chainring"
  $ chainring completion fish > ~/.config/fish/completions/chainring.fish
  PS> chainring completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionScript(cmd.Root(), args[0], !noDesc, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit flag and command descriptions")
	return cmd
}

func completionScript(root *cobra.Command, shell string, desc bool, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	case "fish":
		return root.GenFishCompletion(w, desc)
	default:
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	}
}
