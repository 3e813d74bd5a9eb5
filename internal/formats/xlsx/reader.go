// Package xlsx reads and writes the Excel workbooks the inquiry data lives
// in: arbitrary export sheets on the way in, the canonical dataset layout on
// the way out.
package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/inquirykit/internal/schema"
)

// Sheet represents a single worksheet's raw cell data.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook represents a parsed Excel file with all its sheets.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadFile reads an .xlsx file and returns its structured data.
func ReadFile(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}

		sheet := Sheet{
			Name: name,
			Rows: rows,
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}

// Tables converts every non-empty sheet into a header/rows table ready for
// column normalization. The first row with any content is the header row;
// sheets without one are skipped.
func (wb *Workbook) Tables() []schema.Table {
	var tables []schema.Table
	for _, s := range wb.Sheets {
		if t, ok := s.Table(); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Table splits a sheet into its header row and data rows. Returns false when
// the sheet has no header row at all.
func (s *Sheet) Table() (schema.Table, bool) {
	headerIdx := -1
	for i, row := range s.Rows {
		if rowHasData(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return schema.Table{}, false
	}

	t := schema.Table{
		Name:    s.Name,
		Headers: s.Rows[headerIdx],
	}
	for _, row := range s.Rows[headerIdx+1:] {
		if rowHasData(row) {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, true
}

func rowHasData(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

// RowCount returns the total number of data rows (excluding empty rows).
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		if rowHasData(row) {
			count++
		}
	}
	return count
}
