// Package edit provides the "inq edit" command: an interactive session for
// inspecting and correcting rows of the working dataset.
package edit

import (
	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/session"
	"github.com/klytics/inquirykit/internal/shell"
)

// NewCommand returns the edit subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the working dataset interactively",
		Long: `Open an interactive session over the working dataset. Rows can be
listed, inspected, corrected field by field, deduplicated, and deleted;
"save" writes the result back. History persists across sessions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.DefaultStore()
			d, err := store.Load()
			if err != nil {
				return err
			}
			save := func(d *dataset.Dataset) error {
				sources, _ := store.Sources()
				return store.Save(d, sources)
			}
			sess, err := shell.NewSession(d, save)
			if err != nil {
				return err
			}
			return sess.Run(cmd.Context())
		},
	}
}
