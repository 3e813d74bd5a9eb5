// Package stats provides the "inq stats" command over the local telemetry
// store.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/telemetry"
)

// NewCommand returns the stats subcommand.
func NewCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show local usage statistics",
		Long: `Summarize the local telemetry store: command counts, average
duration, and error rate. Everything stays on this machine; nothing is
uploaded anywhere.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := telemetry.DefaultStore()

			if clear {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Println("Telemetry data cleared")
				return nil
			}

			stats, err := store.Summary()
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}

			if stats.TotalCommands == 0 {
				fmt.Println("No usage data recorded yet.")
				return nil
			}

			fmt.Printf("Commands run:     %d\n", stats.TotalCommands)
			fmt.Printf("Average duration: %.0fms\n", stats.AvgDuration)
			fmt.Printf("Errors:           %d\n", stats.ErrorCount)
			fmt.Printf("Store size:       %d bytes\n\n", store.Size())

			type cmdCount struct {
				name  string
				count int
			}
			counts := make([]cmdCount, 0, len(stats.TopCommands))
			for name, c := range stats.TopCommands {
				counts = append(counts, cmdCount{name, c})
			}
			sort.Slice(counts, func(i, j int) bool {
				if counts[i].count != counts[j].count {
					return counts[i].count > counts[j].count
				}
				return counts[i].name < counts[j].name
			})

			fmt.Println("Top commands:")
			for _, c := range counts {
				fmt.Printf("  %-12s %d\n", c.name, c.count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all recorded telemetry")
	return cmd
}
