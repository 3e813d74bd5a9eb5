// Package analyze provides the "inq analyze" command for the statistics
// summary of the working dataset.
package analyze

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/analyze"
	"github.com/klytics/inquirykit/internal/output"
	"github.com/klytics/inquirykit/internal/session"
)

// NewCommand returns the analyze subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Show statistics for the working dataset",
		Long: `Compute the descriptive summary of the working dataset: time range,
continent/country/product/grade/handler distributions, and the daily
inquiry series. Tables whose source column was missing from the import
are omitted rather than shown empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.DefaultStore().Load()
			if err != nil {
				return err
			}
			summary, err := analyze.Analyze(d)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			w := output.NewWriter(output.FormatText)
			if jsonOut {
				return w.WriteJSON(summary)
			}

			fmt.Printf("Dataset: %d inquiries", summary.Total)
			if summary.FirstInquiry != "" {
				fmt.Printf(", %s to %s", summary.FirstInquiry, summary.LastInquiry)
			}
			fmt.Println()
			fmt.Println()

			printFreq(w, "Continents", summary.Continents, summary.Total)
			printFreq(w, "Top countries", summary.Countries, summary.Total)
			printFreq(w, "Top products", summary.Products, summary.Total)
			printFreq(w, "Follow-up grades", summary.Grades, summary.Total)
			printFreq(w, "Handlers", summary.Handlers, summary.Total)

			if len(summary.Daily) > 0 {
				fmt.Printf("Active days: %d (first %s, last %s)\n",
					len(summary.Daily),
					summary.Daily[0].Date,
					summary.Daily[len(summary.Daily)-1].Date)
			}
			return nil
		},
	}
}

func printFreq(w *output.Writer, title string, entries []analyze.FreqEntry, total int) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		pct := float64(e.Count) / float64(total) * 100
		rows[i] = []string{e.Value, strconv.Itoa(e.Count), fmt.Sprintf("%.1f%%", pct)}
	}
	if err := w.WriteTable([]string{"Value", "Count", "Share"}, rows); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Println()
}
