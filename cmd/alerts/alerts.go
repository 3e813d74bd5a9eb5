// Package alerts provides the "inq alerts" command for the rule-based
// detector warnings.
package alerts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/alert"
	"github.com/klytics/inquirykit/internal/config"
	"github.com/klytics/inquirykit/internal/output"
	"github.com/klytics/inquirykit/internal/session"
)

// NewCommand returns the alerts subcommand.
func NewCommand() *cobra.Command {
	var priorityFilter string
	var window string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate warning detectors over the working dataset",
		Long: `Run the six detector families — high-value customers, low-quality
inquiries, follow-up lapses, regional trends, product trends, and the
conversion funnel — and list the findings sorted by priority.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.DefaultStore().Load()
			if err != nil {
				return err
			}

			engine := alert.NewEngine(zap.L())
			if cfg, err := config.Load(); err == nil && cfg.Alerts.TimeSavingsFactor > 0 {
				engine.TimeSavingsFactor = cfg.Alerts.TimeSavingsFactor
			}

			if window != "" {
				days, err := parseWindow(window)
				if err != nil {
					return err
				}
				d = alert.Window(d, engine.Now(), days)
			}

			alerts, err := engine.Evaluate(d)
			if err != nil {
				return err
			}

			if priorityFilter != "" {
				filtered := alerts[:0]
				for _, a := range alerts {
					if string(a.Priority) == priorityFilter {
						filtered = append(filtered, a)
					}
				}
				alerts = filtered
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.NewWriter(output.FormatText).WriteJSON(alerts)
			}

			if len(alerts) == 0 {
				fmt.Println("No alerts. Nothing needs attention right now.")
				return nil
			}

			printAlerts(alerts)
			return nil
		},
	}

	cmd.Flags().StringVar(&priorityFilter, "priority", "", "Only show alerts with this priority: high | medium | low")
	cmd.Flags().StringVar(&window, "window", "", "Only evaluate inquiries from the last N days, e.g. 14d")
	return cmd
}

// parseWindow converts a window spec like "14d" (or a bare "14") to days.
func parseWindow(s string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "d")
	days, err := strconv.Atoi(trimmed)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("invalid --window %q — use a positive day count like 14d", s)
	}
	return days, nil
}

func printAlerts(alerts []alert.Alert) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	counts := map[alert.Priority]int{}
	for _, a := range alerts {
		counts[a.Priority]++
	}
	fmt.Printf("%d alert(s): %s high, %s medium, %s low\n\n",
		len(alerts),
		red(counts[alert.PriorityHigh]),
		yellow(counts[alert.PriorityMedium]),
		cyan(counts[alert.PriorityLow]))

	for _, a := range alerts {
		var tag string
		switch a.Priority {
		case alert.PriorityHigh:
			tag = red("[HIGH]  ")
		case alert.PriorityMedium:
			tag = yellow("[MEDIUM]")
		default:
			tag = cyan("[LOW]   ")
		}
		fmt.Printf("%s %s — %s\n", tag, a.Category, a.Message)
		if a.Suggestion != "" {
			fmt.Printf("         → %s\n", a.Suggestion)
		}
	}
}
