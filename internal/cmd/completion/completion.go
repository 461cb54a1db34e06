// Package completion provides shell completion support.
package completion

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/cmd/root"
)

// Register registers the completion command
func Register(parent *cobra.Command, opts *root.Options) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fwblob.

To load completions:

Bash:
  $ source <(fwblob completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ fwblob completion bash > /etc/bash_completion.d/fwblob
  # macOS:
  $ fwblob completion bash > $(brew --prefix)/etc/bash_completion.d/fwblob

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ fwblob completion zsh > "${fpath[1]}/_fwblob"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fwblob completion fish | source
  # To load completions for each session, execute once:
  $ fwblob completion fish > ~/.config/fish/completions/fwblob.fish

PowerShell:
  PS> fwblob completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> fwblob completion powershell > fwblob.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = os.Stdout
			if opts != nil && opts.Stdout != nil {
				out = opts.Stdout
			}

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	parent.AddCommand(cmd)
}
