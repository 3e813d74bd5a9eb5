// Package watch provides the "inq watch" CLI commands for monitoring
// directories for new inquiry spreadsheets.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/config"
	"github.com/klytics/inquirykit/internal/ingest"
	"github.com/klytics/inquirykit/internal/session"
	w "github.com/klytics/inquirykit/internal/watch"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor directories for inquiry spreadsheets and auto-import",
		Long: `Watch directories for new or modified spreadsheet exports and merge
them into the working dataset as they arrive.

Example:
  inq watch start ./exports --recursive
  inq watch status
  inq watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		recursive bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "start <directory> [directory...]",
		Short: "Start watching directories for spreadsheet drops",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.L()
			cfg := w.Config{
				Directories: args,
				Recursive:   recursive,
				Debounce:    debounce,
			}

			watcher, err := w.New(cfg, log)
			if err != nil {
				return err
			}

			store := session.DefaultStore()
			watcher.Handler = func(path string) error {
				d, rep, err := ingest.File(path, log)
				if err != nil {
					return err
				}
				sources := []string{path}
				if existing, err := store.Load(); err == nil {
					if prev, err := store.Sources(); err == nil {
						sources = append(prev, path)
					}
					existing.Merge(d)
					d = existing
				}
				if err := store.Save(d, sources); err != nil {
					return err
				}
				fmt.Printf("%s → %d rows read, dataset now %d rows\n", path, rep.RowsRead, d.Len())
				return nil
			}

			configDir := config.Dir()
			if err := w.WritePIDFile(configDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
			}
			defer w.RemovePIDFile(configDir)

			// Save config for status command
			w.SaveConfig(configDir, cfg)

			fmt.Printf("Watching %d directory(ies) for spreadsheet changes\n", len(args))
			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle signals
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nStopping watcher...")
				cancel()
			}()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()
			pid, err := w.ReadPIDFile(configDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(configDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}

			w.RemovePIDFile(configDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"stopped": true,
					"pid":     pid,
				})
			}

			fmt.Printf("Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current watcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()

			pid, err := w.ReadPIDFile(configDir)
			running := err == nil

			// Check if process is actually running
			if running {
				process, err := os.FindProcess(pid)
				if err != nil {
					running = false
				} else {
					// Try sending signal 0 to check if process exists
					err = process.Signal(syscall.Signal(0))
					if err != nil {
						running = false
						w.RemovePIDFile(configDir)
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")

			if !running {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]any{"running": false})
				}
				fmt.Println("Watcher is not running")
				return nil
			}

			cfg, _ := w.LoadConfig(configDir)

			status := map[string]any{
				"running": true,
				"pid":     pid,
			}
			if cfg != nil {
				status["directories"] = cfg.Directories
				status["recursive"] = cfg.Recursive
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(status)
			}

			fmt.Printf("Watcher is running (PID %d)\n", pid)
			if cfg != nil {
				fmt.Printf("  Directories: %s\n", strings.Join(cfg.Directories, ", "))
				fmt.Printf("  Recursive:   %v\n", cfg.Recursive)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current watcher configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()
			cfg, err := w.LoadConfig(configDir)
			if err != nil {
				return fmt.Errorf("no watcher configuration found (run 'inq watch start' first)")
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(cfg)
			}

			fmt.Printf("Directories: %s\n", strings.Join(cfg.Directories, ", "))
			fmt.Printf("Recursive:   %v\n", cfg.Recursive)
			fmt.Printf("Debounce:    %dms\n", cfg.Debounce)
			return nil
		},
	}
}
