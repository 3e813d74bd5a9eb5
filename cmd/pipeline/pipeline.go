// Package pipeline provides CLI commands for running pipeline workflows.
package pipeline

import "github.com/spf13/cobra"

// NewCommand returns the pipeline subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run multi-step analysis workflows defined in YAML",
		Long:  "Execute automated pipelines that chain together import, analyze, alert, report, classify, and export steps over the working dataset.",
	}

	cmd.AddCommand(newRunCommand())

	return cmd
}
