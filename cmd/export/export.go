// Package export provides the "inq export" command for writing the working
// dataset back out as a styled workbook or CSV.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/formats/xlsx"
	"github.com/klytics/inquirykit/internal/session"
)

// NewCommand returns the export subcommand.
func NewCommand() *cobra.Command {
	var format string
	var byMonth bool
	var noLegend bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the working dataset to a spreadsheet or CSV",
		Long: `Export the cleaned working dataset. Excel output carries the styled
frozen header, an auto-filter, and the grading legend; --by-month splits
the rows into one sheet per inquiry month. CSV output is the flat
canonical table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.DefaultStore().Load()
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = "inquiries.xlsx"
				if format == "csv" {
					outPath = "inquiries.csv"
				}
			}
			if format == "" {
				if strings.EqualFold(filepath.Ext(outPath), ".csv") {
					format = "csv"
				} else {
					format = "xlsx"
				}
			}

			switch format {
			case "csv":
				if err := xlsx.WriteCSV(d, outPath); err != nil {
					return err
				}
			case "xlsx":
				opts := xlsx.ExportOptions{GroupByMonth: byMonth, Legend: !noLegend}
				if err := xlsx.WriteDataset(d, outPath, opts); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format %q (want xlsx or csv)", format)
			}

			fmt.Printf("Exported %d rows to %s\n", d.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: xlsx | csv (default inferred from the output path)")
	cmd.Flags().BoolVar(&byMonth, "by-month", false, "Split rows into one sheet per inquiry month (xlsx only)")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "Omit the grading legend columns (xlsx only)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (default inquiries.xlsx)")
	return cmd
}
