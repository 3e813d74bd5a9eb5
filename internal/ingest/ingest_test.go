package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/formats/xlsx"
	"github.com/klytics/inquirykit/internal/schema"
)

var testHeaders = []string{"询盘时间", "客户名称", "跟进等级", "国家", "询盘产品"}

func writeWorkbook(t *testing.T, name string, sheets []xlsx.Sheet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := xlsx.WriteWorkbook(&xlsx.Workbook{Sheets: sheets}, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSingleSheet(t *testing.T) {
	path := writeWorkbook(t, "jan.xlsx", []xlsx.Sheet{{
		Name: "2025-01",
		Rows: [][]string{
			testHeaders,
			{"2025-01-10", "Acme GmbH", "A", "Germany", "solar panel"},
			{"2025-01-11", "Bolt Trading", "B", "Brazil", "inverter"},
		},
	}})

	d, rep, err := File(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Files != 1 || rep.Sheets != 1 {
		t.Errorf("report = %+v", rep)
	}
	if rep.RowsRead != 2 || rep.RowsKept != 2 || rep.Duplicates != 0 {
		t.Errorf("row counts = %+v", rep)
	}
	if d.Records[0].CustomerName != "Acme GmbH" || d.Records[0].InquiryTime != "2025/01/10" {
		t.Errorf("record = %+v", d.Records[0])
	}
	if d.Records[0].SourceSheet != "2025-01" {
		t.Errorf("provenance = %q", d.Records[0].SourceSheet)
	}
	if !d.Has(schema.FieldCountry) {
		t.Error("country column should be marked present")
	}
	if d.Has(schema.FieldHandler) {
		t.Error("handler had no source column")
	}
}

func TestFileMergesSheets(t *testing.T) {
	path := writeWorkbook(t, "year.xlsx", []xlsx.Sheet{
		{
			Name: "2025-01",
			Rows: [][]string{
				testHeaders,
				{"2025-01-10", "Acme", "A", "Germany", "solar panel"},
			},
		},
		{
			Name: "2025-02",
			Rows: [][]string{
				testHeaders,
				{"2025-02-03", "Bolt", "B", "Brazil", "inverter"},
				// Same row as January apart from provenance: collapses on merge.
				{"2025-01-10", "Acme", "A", "Germany", "solar panel"},
			},
		},
	})

	d, rep, err := File(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if rep.Sheets != 2 {
		t.Errorf("Sheets = %d", rep.Sheets)
	}
	if rep.RowsRead != 3 || rep.RowsKept != 2 || rep.Duplicates != 1 {
		t.Errorf("report = %+v", rep)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d", d.Len())
	}
}

func TestFileEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, "empty.xlsx", []xlsx.Sheet{{Name: "Sheet1"}})

	_, _, err := File(path, nil)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("err = %v", err)
	}
}

func TestFileNotFound(t *testing.T) {
	if _, _, err := File(filepath.Join(t.TempDir(), "missing.xlsx"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFilesMergesWorkbooks(t *testing.T) {
	jan := writeWorkbook(t, "jan.xlsx", []xlsx.Sheet{{
		Name: "2025-01",
		Rows: [][]string{
			testHeaders,
			{"2025-01-10", "Acme", "A", "Germany", "solar panel"},
		},
	}})
	feb := writeWorkbook(t, "feb.xlsx", []xlsx.Sheet{{
		Name: "2025-02",
		Rows: [][]string{
			testHeaders,
			{"2025-02-03", "Bolt", "B", "Brazil", "inverter"},
		},
	}})

	d, rep, err := Files([]string{jan, feb}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Files != 2 || rep.Sheets != 2 {
		t.Errorf("report = %+v", rep)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d", d.Len())
	}
}

func TestFilesEmptyInput(t *testing.T) {
	if _, _, err := Files(nil, nil); err == nil {
		t.Error("expected an error for no input files")
	}
}

func TestFilesStopsOnFirstError(t *testing.T) {
	jan := writeWorkbook(t, "jan.xlsx", []xlsx.Sheet{{
		Name: "2025-01",
		Rows: [][]string{
			testHeaders,
			{"2025-01-10", "Acme", "A", "Germany", "solar panel"},
		},
	}})

	_, _, err := Files([]string{jan, filepath.Join(t.TempDir(), "missing.xlsx")}, nil)
	if err == nil {
		t.Error("a missing second file should fail the whole pass")
	}
}
