// Package classify provides the "inq classify" command for model-assisted
// grading of ungraded inquiries.
package classify

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/advisor"
	"github.com/klytics/inquirykit/internal/config"
	"github.com/klytics/inquirykit/internal/output"
	"github.com/klytics/inquirykit/internal/session"
)

// NewCommand returns the classify subcommand.
func NewCommand() *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Grade inquiries with the configured model",
		Long: `Send ungraded inquiries to the model one at a time and fill in the
follow-up grade, the inferred intent, and a follow-up suggestion.
Rows that already carry a grade are skipped unless --all is set.
A row the model cannot grade falls back to C / needs review.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.L()
			store := session.DefaultStore()
			d, err := store.Load()
			if err != nil {
				return err
			}

			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")
			provider, err := config.ResolveProvider(providerName, modelName)
			if err != nil {
				return fmt.Errorf("could not build a model provider: %w", err)
			}

			adv := advisor.New(provider, log)

			type graded struct {
				Row            int    `json:"row"`
				Customer       string `json:"customer"`
				Classification string `json:"classification"`
				Intent         string `json:"intent"`
				Suggestion     string `json:"suggestion"`
			}
			var results []graded

			done := 0
			for i := range d.Records {
				r := &d.Records[i]
				if !all && r.Grade != "" {
					continue
				}
				if limit > 0 && done >= limit {
					break
				}
				res := adv.Classify(cmd.Context(), *r)
				r.Grade = res.Classification
				results = append(results, graded{
					Row:            i + 1,
					Customer:       r.CustomerName,
					Classification: res.Classification,
					Intent:         res.Intent,
					Suggestion:     res.Suggestion,
				})
				done++
			}

			if done > 0 {
				sources, _ := store.Sources()
				if err := store.Save(d, sources); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.NewWriter(output.FormatText).WriteJSON(results)
			}

			if done == 0 {
				fmt.Println("Nothing to classify. Every row already carries a grade (use --all to regrade).")
				return nil
			}
			for _, g := range results {
				fmt.Printf("row %d  %-20s  grade %s  intent: %s\n", g.Row, clip(g.Customer, 20), g.Classification, g.Intent)
				if g.Suggestion != "" {
					fmt.Printf("        → %s\n", g.Suggestion)
				}
			}
			fmt.Printf("\nClassified %d row(s). Dataset saved.\n", done)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Classify at most this many rows (0 = no limit)")
	cmd.Flags().BoolVar(&all, "all", false, "Regrade every row, including rows that already have a grade")
	return cmd
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
