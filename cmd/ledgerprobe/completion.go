package ledgerprobe

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "completion bash|zsh|fish|powershell",
		Short:     "Generate shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(w, true)
			case "zsh":
				return rootCmd.GenZshCompletion(w)
			case "fish":
				return rootCmd.GenFishCompletion(w, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(w)
			}
		},
		Example: `  ledgerprobe completion bash > /etc/bash_completion.d/ledgerprobe
  ledgerprobe completion zsh > "${fpath[1]}/_ledgerprobe"
  ledgerprobe completion fish > ~/.config/fish/completions/ledgerprobe.fish`,
	}
	rootCmd.AddCommand(cmd)
}
