package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/ai"
	"github.com/klytics/inquirykit/internal/config"
	pipelinepkg "github.com/klytics/inquirykit/internal/pipeline"
	"github.com/klytics/inquirykit/internal/pipeline/actions"
	"github.com/klytics/inquirykit/internal/session"
)

func newRunCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Execute a pipeline workflow from a YAML file",
		Long: `Runs a multi-step pipeline defined in a YAML file.

Steps are executed sequentially with variable interpolation between steps.
Use --dry-run to execute deterministic steps and preview what model-backed
steps would do.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			p, err := pipelinepkg.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			executor := pipelinepkg.NewExecutor(verbose)
			executor.SetDryRun(dryRun)
			env := &actions.Env{
				Store: session.DefaultStore(),
				Log:   zap.L(),
				NewProvider: func() (ai.Provider, error) {
					return config.ResolveProvider(providerName, modelName)
				},
			}
			actions.RegisterAll(executor, env)

			results, execErr := executor.Run(cmd.Context(), p)

			if jsonFlag {
				// Build JSON-safe output (errors don't serialize well)
				type jsonResult struct {
					StepID string `json:"stepId"`
					Output string `json:"output,omitempty"`
					Error  string `json:"error,omitempty"`
				}
				out := make([]jsonResult, len(results))
				for i, r := range results {
					out[i] = jsonResult{StepID: r.StepID, Output: r.Output}
					if r.Error != nil {
						out[i].Error = r.Error.Error()
					}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(out)
			} else {
				for _, r := range results {
					if r.Error != nil {
						fmt.Fprintf(os.Stderr, "Step %s: FAILED — %s\n", r.StepID, r.Error)
					} else {
						fmt.Printf("Step %s: OK\n", r.StepID)
						if verbose && r.Output != "" {
							fmt.Printf("  Output: %s\n", truncate(r.Output, 200))
						}
					}
				}
			}

			return execErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview pipeline execution without calling model APIs")

	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
