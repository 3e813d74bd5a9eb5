package xlsx

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// ExportOptions control dataset export layout.
type ExportOptions struct {
	// GroupByMonth writes one sheet per inquiry month instead of a single
	// sheet. Rows without a parsable inquiry date land on an "Undated" sheet.
	GroupByMonth bool
	// Legend appends the grade rubric beside the data columns.
	Legend bool
}

const defaultSheetName = "Inquiries"

// WriteDataset writes the dataset in the canonical column layout: styled
// frozen header row, auto-filter, and every cell written as text so product
// IDs and grades survive Excel's type guessing.
func WriteDataset(d *dataset.Dataset, path string, opts ExportOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("could not create header style: %w", err)
	}

	sheets := groupRecords(d, opts.GroupByMonth)
	for i, group := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), group.name); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(group.name); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", group.name, err)
			}
		}
		if err := writeSheet(f, group.name, group.records, headerStyle, opts.Legend); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

type sheetGroup struct {
	name    string
	records []dataset.Record
}

// groupRecords splits the dataset into sheets. Month grouping keys on the
// YYYY/MM prefix of the canonical inquiry date and keeps first-seen order.
func groupRecords(d *dataset.Dataset, byMonth bool) []sheetGroup {
	if !byMonth {
		return []sheetGroup{{name: defaultSheetName, records: d.Records}}
	}

	index := make(map[string]int)
	var groups []sheetGroup
	for _, r := range d.Records {
		name := "Undated"
		if t, ok := dataset.ParseDate(r.InquiryTime); ok {
			name = t.Format("2006-01")
		}
		j, ok := index[name]
		if !ok {
			j = len(groups)
			index[name] = j
			groups = append(groups, sheetGroup{name: name})
		}
		groups[j].records = append(groups[j].records, r)
	}
	if len(groups) == 0 {
		groups = []sheetGroup{{name: defaultSheetName}}
	}
	return groups
}

func writeSheet(f *excelize.File, sheet string, records []dataset.Record, headerStyle int, legend bool) error {
	for col, field := range schema.Fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, schema.Labels[field]); err != nil {
			return fmt.Errorf("could not set header cell %s: %w", cell, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(schema.Fields))
	if err != nil {
		return fmt.Errorf("invalid column count: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("could not style header row: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("could not set column widths: %w", err)
	}

	for i, r := range records {
		for col, value := range r.Values() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			// Text cells keep long numeric product IDs intact.
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("could not freeze header row: %w", err)
	}
	filterRange := fmt.Sprintf("A1:%s%d", lastCol, len(records)+1)
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return fmt.Errorf("could not set auto-filter: %w", err)
	}

	if legend {
		if err := writeLegend(f, sheet); err != nil {
			return err
		}
	}
	return nil
}

// writeLegend appends the grade rubric two columns right of the data.
func writeLegend(f *excelize.File, sheet string) error {
	startCol := len(schema.Fields) + 2
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create legend style: %w", err)
	}

	titleCell, _ := excelize.CoordinatesToCellName(startCol, 1)
	if err := f.SetCellStr(sheet, titleCell, "Follow-up grade legend"); err != nil {
		return fmt.Errorf("could not write legend title: %w", err)
	}
	if err := f.SetCellStyle(sheet, titleCell, titleCell, bold); err != nil {
		return fmt.Errorf("could not style legend title: %w", err)
	}

	for i, grade := range schema.GradeOrder {
		gradeCell, _ := excelize.CoordinatesToCellName(startCol, i+2)
		descCell, _ := excelize.CoordinatesToCellName(startCol+1, i+2)
		if err := f.SetCellStr(sheet, gradeCell, grade); err != nil {
			return fmt.Errorf("could not write legend grade: %w", err)
		}
		if err := f.SetCellStyle(sheet, gradeCell, gradeCell, bold); err != nil {
			return fmt.Errorf("could not style legend grade: %w", err)
		}
		if err := f.SetCellStr(sheet, descCell, schema.GradeRules[grade]); err != nil {
			return fmt.Errorf("could not write legend text: %w", err)
		}
	}

	gradeName, _ := excelize.ColumnNumberToName(startCol)
	descName, _ := excelize.ColumnNumberToName(startCol + 1)
	if err := f.SetColWidth(sheet, gradeName, gradeName, 25); err != nil {
		return fmt.Errorf("could not size legend column: %w", err)
	}
	if err := f.SetColWidth(sheet, descName, descName, 50); err != nil {
		return fmt.Errorf("could not size legend column: %w", err)
	}
	return nil
}

// WriteCSV writes the dataset as UTF-8 CSV in the canonical column layout.
func WriteCSV(d *dataset.Dataset, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		header[i] = schema.Labels[field]
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("could not write CSV header: %w", err)
	}
	for _, r := range d.Records {
		if err := w.Write(r.Values()); err != nil {
			return fmt.Errorf("could not write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("could not flush CSV: %w", err)
	}
	return nil
}

// WriteWorkbook writes raw sheets, used by the fixture generator.
func WriteWorkbook(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", name, err)
			}
		}
		for rowIdx, row := range sheet.Rows {
			if len(row) == 0 {
				continue
			}
			start, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			cells := make([]interface{}, len(row))
			for j, c := range row {
				cells[j] = c
			}
			if err := f.SetSheetRow(name, start, &cells); err != nil {
				return fmt.Errorf("could not write row %d: %w", rowIdx+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}
