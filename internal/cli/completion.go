package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/puzzle"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for npuzzle.

  bash:       source <(npuzzle completion bash)
  zsh:        npuzzle completion zsh > "${fpath[1]}/_npuzzle"
  fish:       npuzzle completion fish | source
  powershell: npuzzle completion powershell | Out-String | Invoke-Expression

Completions list strategies and heuristics for the matching flags.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(stdout)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}

// registerNameCompletions adds value completions for strategy and heuristic
// flags on cmd.
func registerNameCompletions(cmd *cobra.Command, strategyFlag, heuristicFlag string) {
	if strategyFlag != "" {
		_ = cmd.RegisterFlagCompletionFunc(strategyFlag, cobra.FixedCompletions(strategyNames(), cobra.ShellCompDirectiveNoFileComp))
	}
	if heuristicFlag != "" {
		_ = cmd.RegisterFlagCompletionFunc(heuristicFlag, cobra.FixedCompletions(puzzle.HeuristicNames(), cobra.ShellCompDirectiveNoFileComp))
	}
}
