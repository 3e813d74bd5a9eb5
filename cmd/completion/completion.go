// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for inquirykit.

Install instructions:
  Bash:       inq completion bash > /etc/bash_completion.d/inq
              echo 'source <(inq completion bash)' >> ~/.bashrc
  Zsh:        inq completion zsh > ~/.zsh/completions/_inq
  Fish:       inq completion fish > ~/.config/fish/completions/inq.fish
  PowerShell: inq completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				fmt.Fprintln(os.Stdout, "# inquirykit bash completion")
				fmt.Fprintln(os.Stdout, "# Install: inq completion bash > /etc/bash_completion.d/inq")
				fmt.Fprintln(os.Stdout, "# Or:      echo 'source <(inq completion bash)' >> ~/.bashrc")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				fmt.Fprintln(os.Stdout, "# inquirykit zsh completion")
				fmt.Fprintln(os.Stdout, "# Install: inq completion zsh > ~/.zsh/completions/_inq")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				fmt.Fprintln(os.Stdout, "# inquirykit fish completion")
				fmt.Fprintln(os.Stdout, "# Install: inq completion fish > ~/.config/fish/completions/inq.fish")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				fmt.Fprintln(os.Stdout, "# inquirykit PowerShell completion")
				fmt.Fprintln(os.Stdout, "# Install: inq completion powershell >> $PROFILE")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
