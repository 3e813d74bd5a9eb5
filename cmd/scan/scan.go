// Package scan provides the "inq scan" command for finding spreadsheet
// exports on disk before importing them.
package scan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/fs"
)

// NewCommand returns the scan subcommand.
func NewCommand() *cobra.Command {
	var (
		recursive  bool
		extensions []string
		dupes      bool
	)

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Find spreadsheet files in a directory",
		Long: `Walk a directory and list the spreadsheet files it contains. With
--dupes, hash each file and flag byte-identical copies — the same weekly
export saved twice imports as pure duplicate rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fs.ScanOptions{
				Recursive:  recursive,
				Extensions: extensions,
				WithHash:   dupes,
			}
			result, err := fs.Scan(args[0], opts)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				out := map[string]any{"scan": result}
				if dupes {
					out["duplicates"] = fs.FindDuplicates(result.Files)
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			if len(result.Files) == 0 {
				fmt.Printf("No spreadsheet files found under %s\n", result.RootDir)
				return nil
			}

			fmt.Printf("%d spreadsheet file(s) under %s (%s total):\n\n",
				len(result.Files), result.RootDir, fs.FormatSize(result.TotalSize))
			for _, f := range result.Files {
				fmt.Printf("  %-10s %8s  %s\n", f.Format, fs.FormatSize(f.Size), f.Path)
			}

			if dupes {
				fmt.Println()
				fmt.Print(fs.FormatDedupeReport(fs.FindDuplicates(result.Files)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Scan subdirectories too")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only these extensions (default: all spreadsheet types)")
	cmd.Flags().BoolVar(&dupes, "dupes", false, "Hash files and report byte-identical duplicates")
	return cmd
}
