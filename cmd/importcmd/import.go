// Package importcmd provides the "inq import" command for loading inquiry
// spreadsheets into the working dataset.
package importcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/ingest"
	"github.com/klytics/inquirykit/internal/output"
	"github.com/klytics/inquirykit/internal/progress"
	"github.com/klytics/inquirykit/internal/session"
	"github.com/klytics/inquirykit/internal/telemetry"
)

// NewCommand returns the import subcommand.
func NewCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx> [more.xlsx...]",
		Short: "Load inquiry spreadsheets into the working dataset",
		Long: `Read one or more Excel exports, map their columns onto the canonical
inquiry layout, clean dates and null markers, drop exact duplicates, and
save the result as the working dataset for the analysis commands.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			log := zap.L()
			store := session.DefaultStore()

			spinner := progress.NewSpinner(fmt.Sprintf("Importing %d file(s)", len(args)))
			spinner.Start()
			merged, rep, err := ingest.Files(args, log)
			if err != nil {
				spinner.Stop("Import failed")
				return err
			}

			sources := args
			if !replace {
				if existing, lerr := store.Load(); lerr == nil {
					if prev, serr := store.Sources(); serr == nil {
						sources = append(prev, args...)
					}
					existing.Merge(merged)
					merged = existing
				}
			}

			if err := store.Save(merged, sources); err != nil {
				spinner.Stop("Import failed")
				return err
			}
			spinner.Stop(fmt.Sprintf("Imported %d rows", merged.Len()))

			telemetry.DefaultStore().Record(telemetry.Event{
				Timestamp:  time.Now(),
				Command:    "import",
				DurationMs: time.Since(start).Milliseconds(),
				RowsIn:     rep.RowsRead,
				RowsOut:    merged.Len(),
			})

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("import", map[string]interface{}{
					"files":      rep.Files,
					"sheets":     rep.Sheets,
					"rows_read":  rep.RowsRead,
					"duplicates": rep.Duplicates,
					"total":      merged.Len(),
				})
			}

			fmt.Printf("Imported %d file(s), %d sheet(s): %d rows read, %d duplicates removed.\n",
				rep.Files, rep.Sheets, rep.RowsRead, rep.Duplicates)
			fmt.Printf("Working dataset now holds %d rows.\n", merged.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the working dataset instead of merging into it")
	return cmd
}
