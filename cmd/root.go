// Package cmd contains all CLI commands for the inq binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/cmd/alerts"
	"github.com/klytics/inquirykit/cmd/analyze"
	"github.com/klytics/inquirykit/cmd/classify"
	"github.com/klytics/inquirykit/cmd/completion"
	cmdconfig "github.com/klytics/inquirykit/cmd/config"
	"github.com/klytics/inquirykit/cmd/doctor"
	"github.com/klytics/inquirykit/cmd/edit"
	"github.com/klytics/inquirykit/cmd/export"
	"github.com/klytics/inquirykit/cmd/importcmd"
	"github.com/klytics/inquirykit/cmd/pipeline"
	"github.com/klytics/inquirykit/cmd/plugin"
	"github.com/klytics/inquirykit/cmd/report"
	"github.com/klytics/inquirykit/cmd/scan"
	"github.com/klytics/inquirykit/cmd/send"
	"github.com/klytics/inquirykit/cmd/stats"
	"github.com/klytics/inquirykit/cmd/update"
	"github.com/klytics/inquirykit/cmd/version"
	cmdwatch "github.com/klytics/inquirykit/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inq",
		Short: "Sales inquiry analysis for international trade teams",
		Long: `inquirykit — turn messy inquiry spreadsheets into decisions.

Import platform exports in any column layout, normalize them into one
clean dataset, then run statistics, rule-based alerts, AI grading, and
full narrative reports from your terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			initLogger(verbose)
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "AI model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", defaultProvider(), "AI provider: qwen | anthropic | ollama")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(importcmd.NewCommand())
	rootCmd.AddCommand(analyze.NewCommand())
	rootCmd.AddCommand(alerts.NewCommand())
	rootCmd.AddCommand(report.NewCommand())
	rootCmd.AddCommand(classify.NewCommand())
	rootCmd.AddCommand(export.NewCommand())
	rootCmd.AddCommand(edit.NewCommand())
	rootCmd.AddCommand(scan.NewCommand())
	rootCmd.AddCommand(send.NewCommand())
	rootCmd.AddCommand(stats.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(pipeline.NewCommand())
	rootCmd.AddCommand(plugin.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(update.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// initLogger installs the global zap logger. Debug output goes to stderr only
// with --verbose; otherwise warnings and up.
func initLogger(verbose bool) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return
	}
	zap.ReplaceGlobals(logger)
}

func defaultModel() string {
	if m := os.Getenv("INQ_MODEL"); m != "" {
		return m
	}
	return "qwen-max"
}

func defaultProvider() string {
	if p := os.Getenv("INQ_PROVIDER"); p != "" {
		return p
	}
	return "qwen"
}
