package xlsx

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/inquirykit/internal/dataset"
)

func TestWriteAndRead(t *testing.T) {
	original := &Workbook{
		Sheets: []Sheet{
			{
				Name: "Jan Export",
				Rows: [][]string{
					{"询盘时间", "客户名称", "国家"},
					{"2025/01/10", "Acme GmbH", "Germany"},
					{"2025/01/12", "Bolt Trading", "Brazil"},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := WriteWorkbook(original, path); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	wb, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(wb.Sheets))
	}

	sheet := wb.Sheets[0]
	if sheet.Name != "Jan Export" {
		t.Errorf("sheet name = %q", sheet.Name)
	}
	if len(sheet.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[1][1] != "Acme GmbH" {
		t.Errorf("cell B2 = %q", sheet.Rows[1][1])
	}
}

func TestGetSheet(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "One"},
			{Name: "Two"},
		},
	}

	s, err := wb.GetSheet("Two")
	if err != nil {
		t.Fatalf("GetSheet failed: %v", err)
	}
	if s.Name != "Two" {
		t.Errorf("expected 'Two', got %q", s.Name)
	}

	if _, err := wb.GetSheet("Missing"); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestRowCount(t *testing.T) {
	sheet := Sheet{
		Rows: [][]string{
			{"A", "B"},
			{"C", "D"},
			{"", ""},
		},
	}

	if rc := sheet.RowCount(); rc != 2 {
		t.Errorf("expected 2 non-empty rows, got %d", rc)
	}
}

func TestSheetTable(t *testing.T) {
	sheet := Sheet{
		Name: "Export",
		Rows: [][]string{
			{"", ""},
			{"Inquiry Time", "Customer"},
			{"2025/01/10", "Acme"},
			{"", ""},
			{"2025/01/12", "Bolt"},
		},
	}

	table, ok := sheet.Table()
	if !ok {
		t.Fatal("expected a table")
	}
	if table.Headers[0] != "Inquiry Time" {
		t.Errorf("header row not detected, got %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Rows[1][1] != "Bolt" {
		t.Errorf("blank rows should be dropped, got %v", table.Rows)
	}
}

func TestSheetTableEmpty(t *testing.T) {
	sheet := Sheet{Rows: [][]string{{"", ""}, {}}}
	if _, ok := sheet.Table(); ok {
		t.Error("empty sheet should not produce a table")
	}
}

func TestTablesSkipsEmptySheets(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "Empty", Rows: [][]string{{""}}},
			{Name: "Data", Rows: [][]string{{"Customer"}, {"Acme"}}},
		},
	}

	tables := wb.Tables()
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].Name != "Data" {
		t.Errorf("table name = %q", tables[0].Name)
	}
}

func TestWriteDatasetRoundTrip(t *testing.T) {
	d := dataset.New()
	d.Records = []dataset.Record{
		{InquiryTime: "2025/01/10", CustomerName: "Acme GmbH", Country: "Germany", Grade: "A", ProductID: "1234567890123456"},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteDataset(d, path, ExportOptions{Legend: true}); err != nil {
		t.Fatalf("WriteDataset failed: %v", err)
	}

	wb, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sheet, err := wb.GetSheet("Inquiries")
	if err != nil {
		t.Fatal(err)
	}

	if sheet.Rows[0][0] != "Inquiry Time" {
		t.Errorf("header = %q", sheet.Rows[0][0])
	}
	row := sheet.Rows[1]
	if row[3] != "Acme GmbH" {
		t.Errorf("customer cell = %q", row[3])
	}
	// Long numeric IDs must survive as text
	if row[8] != "1234567890123456" {
		t.Errorf("product ID cell = %q", row[8])
	}
}

func TestWriteDatasetByMonth(t *testing.T) {
	d := dataset.New()
	d.Records = []dataset.Record{
		{InquiryTime: "2025/01/10", CustomerName: "Acme"},
		{InquiryTime: "2025/02/03", CustomerName: "Bolt"},
		{InquiryTime: "not a date", CustomerName: "Cairo"},
	}

	path := filepath.Join(t.TempDir(), "monthly.xlsx")
	if err := WriteDataset(d, path, ExportOptions{GroupByMonth: true}); err != nil {
		t.Fatal(err)
	}

	wb, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"2025-01", "2025-02", "Undated"} {
		if _, err := wb.GetSheet(name); err != nil {
			t.Errorf("missing sheet %q", name)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	d := dataset.New()
	d.Records = []dataset.Record{
		{InquiryTime: "2025/01/10", CustomerName: "Acme, Inc.", Country: "Germany"},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Inquiry Time" {
		t.Errorf("header = %q", rows[0][0])
	}
	if rows[1][3] != "Acme, Inc." {
		t.Errorf("comma in name should survive quoting, got %q", rows[1][3])
	}
}

func TestReadFileNotFound(t *testing.T) {
	if _, err := ReadFile("/nonexistent/file.xlsx"); err == nil {
		t.Error("expected error for missing file")
	}
}
