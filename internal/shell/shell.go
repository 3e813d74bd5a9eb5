// Package shell provides the interactive dataset editor REPL.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// SaveFunc persists the edited dataset. Set by the cmd/edit package so the
// shell stays ignorant of where the dataset lives on disk.
type SaveFunc func(d *dataset.Dataset) error

// Session manages an interactive editing session over a loaded dataset.
type Session struct {
	Data           *dataset.Dataset
	Save           SaveFunc
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	dirty bool
}

// Row indices shown to the user are 1-based; everything internal is 0-based.

// NewSession creates a new interactive session over the given dataset.
func NewSession(d *dataset.Dataset, save SaveFunc) (*Session, error) {
	if d == nil {
		return nil, dataset.ErrNoDataset
	}
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".inq", "shell_history")

	// Ensure parent dir exists
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Data:        d,
		Save:        save,
		HistoryFile: histFile,
		StartTime:   time.Now(),
	}, nil
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "inq> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("inquirykit — dataset editor (%d rows)\n", s.Data.Len())
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		if line == "exit" || line == "quit" {
			if s.dirty {
				fmt.Println("Unsaved changes discarded. Use 'save' before exiting to keep them.")
			}
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(elapsed))
			return nil
		}

		output, err := s.Eval(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		} else if output != "" {
			fmt.Print(output)
			if !strings.HasSuffix(output, "\n") {
				fmt.Println()
			}
		}
	}

	return nil
}

// Eval runs a single editor command and returns its output.
func (s *Session) Eval(_ context.Context, command string) (string, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return "", nil
	}

	switch args[0] {
	case "help":
		return helpText, nil
	case "history":
		var b strings.Builder
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(&b, "  %d  %s\n", i+1, cmd)
		}
		return b.String(), nil
	case "fields":
		var b strings.Builder
		for _, f := range schema.Fields {
			fmt.Fprintf(&b, "  %-22s %s\n", f, schema.Labels[f])
		}
		return b.String(), nil
	case "list":
		return s.list(args[1:])
	case "show":
		return s.show(args[1:])
	case "set":
		return s.set(args[1:])
	case "del":
		return s.del(args[1:])
	case "dedupe":
		removed := s.Data.Dedupe()
		if removed > 0 {
			s.dirty = true
		}
		return fmt.Sprintf("Removed %d duplicate row(s), %d remain.", removed, s.Data.Len()), nil
	case "save":
		if s.Save == nil {
			return "", fmt.Errorf("no save destination configured")
		}
		if err := s.Save(s.Data); err != nil {
			return "", err
		}
		s.dirty = false
		return fmt.Sprintf("Saved %d rows.", s.Data.Len()), nil
	default:
		return "", fmt.Errorf("unknown command %q — type 'help'", args[0])
	}
}

func (s *Session) list(args []string) (string, error) {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("usage: list [count]")
		}
		limit = n
	}
	if limit > s.Data.Len() {
		limit = s.Data.Len()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-5s %-11s %-25s %-6s %-15s %s\n",
		"#", "Date", "Customer", "Grade", "Country", "Product")
	for i := 0; i < limit; i++ {
		r := s.Data.Records[i]
		fmt.Fprintf(&b, "  %-5d %-11s %-25s %-6s %-15s %s\n",
			i+1, clip(r.InquiryTime, 11), clip(r.CustomerName, 25),
			clip(r.Grade, 6), clip(r.Country, 15), clip(r.Product, 30))
	}
	if limit < s.Data.Len() {
		fmt.Fprintf(&b, "  ... %d more rows\n", s.Data.Len()-limit)
	}
	return b.String(), nil
}

func (s *Session) show(args []string) (string, error) {
	idx, err := s.rowIndex(args, "show <row>")
	if err != nil {
		return "", err
	}
	r := s.Data.Records[idx]
	var b strings.Builder
	fmt.Fprintf(&b, "Row %d:\n", idx+1)
	for _, f := range schema.Fields {
		fmt.Fprintf(&b, "  %-22s %s\n", f, r.Get(f))
	}
	if r.SourceSheet != "" {
		fmt.Fprintf(&b, "  %-22s %s\n", "source sheet", r.SourceSheet)
	}
	return b.String(), nil
}

func (s *Session) set(args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("usage: set <row> <field> <value>")
	}
	idx, err := s.rowIndex(args[:1], "set <row> <field> <value>")
	if err != nil {
		return "", err
	}
	field := args[1]
	if !validField(field) {
		return "", fmt.Errorf("unknown field %q — run 'fields' to list them", field)
	}
	value := strings.Join(args[2:], " ")
	s.Data.Records[idx].Set(field, value)
	s.dirty = true
	return fmt.Sprintf("Row %d: %s = %q", idx+1, field, value), nil
}

func (s *Session) del(args []string) (string, error) {
	idx, err := s.rowIndex(args, "del <row>")
	if err != nil {
		return "", err
	}
	s.Data.Records = append(s.Data.Records[:idx], s.Data.Records[idx+1:]...)
	s.dirty = true
	return fmt.Sprintf("Deleted row %d, %d remain.", idx+1, s.Data.Len()), nil
}

func (s *Session) rowIndex(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > s.Data.Len() {
		return 0, fmt.Errorf("row must be between 1 and %d", s.Data.Len())
	}
	return n - 1, nil
}

func validField(field string) bool {
	for _, f := range schema.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

const helpText = `Editor commands:
  list [n]               — show the first n rows (default 10)
  show <row>             — show every field of one row
  set <row> <field> <v>  — change a field value
  del <row>              — delete a row
  dedupe                 — drop exact duplicate rows
  fields                 — list field names
  save                   — persist changes
  history                — show command history
  exit                   — quit (unsaved changes are discarded)
`

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var fieldItems []readline.PrefixCompleterInterface
	fields := append([]string{}, schema.Fields...)
	sort.Strings(fields)
	for _, f := range fields {
		fieldItems = append(fieldItems, readline.PcItem(f))
	}

	return []readline.PrefixCompleterInterface{
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("set"),
		readline.PcItem("del"),
		readline.PcItem("dedupe"),
		readline.PcItem("fields", fieldItems...),
		readline.PcItem("save"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
