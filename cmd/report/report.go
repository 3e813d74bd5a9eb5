// Package report provides the "inq report" command for generating the full
// narrative analysis report.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/config"
	"github.com/klytics/inquirykit/internal/narrative"
	"github.com/klytics/inquirykit/internal/output"
	"github.com/klytics/inquirykit/internal/progress"
	"github.com/klytics/inquirykit/internal/session"
)

// NewCommand returns the report subcommand.
func NewCommand() *cobra.Command {
	var outPath string
	var noAI bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the narrative analysis report",
		Long: `Build the full business analysis report: a model-written narrative over
the computed statistics, followed by the deterministic data appendix.
When no provider is reachable the report degrades to a plain template;
the appendix is attached either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.L()
			d, err := session.DefaultStore().Load()
			if err != nil {
				return err
			}

			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			assembler := narrative.NewAssembler(nil, log)
			if !noAI {
				p, perr := config.ResolveProvider(providerName, modelName)
				if perr != nil {
					log.Warn("no model provider available, using the fallback template", zap.Error(perr))
				} else {
					assembler.Provider = p
				}
			}
			if cfg, cerr := config.Load(); cerr == nil {
				if cfg.Report.Attempts > 0 {
					assembler.Attempts = cfg.Report.Attempts
				}
				if cfg.Report.TimeoutSeconds > 0 {
					assembler.Timeout = time.Duration(cfg.Report.TimeoutSeconds) * time.Second
				}
			}

			spinner := progress.NewSpinner("Generating report (a model call can take 30-90s)")
			spinner.Start()
			rep, err := assembler.Generate(cmd.Context(), d)
			if err != nil {
				spinner.Stop("Report failed")
				return err
			}
			spinner.Stop(fmt.Sprintf("Report generated (engine: %s)", rep.Engine))

			text := rep.Render()
			if outPath == "" {
				if output.ShouldPage(text, 40) {
					return output.Page(text)
				}
				fmt.Print(text)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
				return fmt.Errorf("could not write %s: %w", outPath, err)
			}
			fmt.Printf("Report written to %s\n", outPath)
			if rep.Fallback {
				fmt.Println("Note: the model was unavailable; the report uses the fallback template.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the model call and use the fallback template")
	return cmd
}
