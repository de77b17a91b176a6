package cmd

import (
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for hitdiff and print it to stdout.

Bash:
  $ source <(hitdiff completion bash)

Zsh:
  $ hitdiff completion zsh > "${fpath[1]}/_hitdiff"

Fish:
  $ hitdiff completion fish > ~/.config/fish/completions/hitdiff.fish

PowerShell:
  PS> hitdiff completion powershell | Out-String | Invoke-Expression

Profile names are completed for run -p from the profiles file.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(w)
		case "zsh":
			return cmd.Root().GenZshCompletion(w)
		case "fish":
			return cmd.Root().GenFishCompletion(w, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeProfiles offers the profile names of the configured profiles file.
func completeProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := setup(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	reg, err := profile.LoadRegistry(settings.Profiles)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return reg.Names(), cobra.ShellCompDirectiveNoFileComp
}
