package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func bufferedWriter(format Format) (*Writer, *bytes.Buffer) {
	var buf bytes.Buffer
	w := NewWriter(format)
	w.dest = &buf
	return w, &buf
}

func TestWriteTable(t *testing.T) {
	w, buf := bufferedWriter(FormatText)

	err := w.WriteTable(
		[]string{"Country", "Count"},
		[][]string{
			{"Germany", "12"},
			{"Brazil", "3"},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Country  Count" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "-------  -----" {
		t.Errorf("underline = %q", lines[1])
	}
	// Cells pad to the widest value in the column.
	if !strings.HasPrefix(lines[3], "Brazil ") {
		t.Errorf("row = %q", lines[3])
	}
}

func TestWriteTableWideCell(t *testing.T) {
	w, buf := bufferedWriter(FormatText)

	if err := w.WriteTable([]string{"P"}, [][]string{{"solar panel"}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[1] != strings.Repeat("-", len("solar panel")) {
		t.Errorf("underline should match the widest cell: %q", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	w, buf := bufferedWriter(FormatJSON)

	if err := w.WriteJSON(map[string]int{"total": 3}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["total"] != 3 {
		t.Errorf("decoded = %v", decoded)
	}
	if !strings.Contains(buf.String(), "  ") {
		t.Error("JSON should be indented")
	}
}

func TestWriteTextAndLn(t *testing.T) {
	w, buf := bufferedWriter(FormatText)

	if err := w.WriteText("no newline"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLn(" and one"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no newline and one\n" {
		t.Errorf("out = %q", buf.String())
	}
}
