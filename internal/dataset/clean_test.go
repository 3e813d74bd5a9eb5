package dataset

import (
	"testing"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/schema"
)

func TestCleanCanonicalizesDates(t *testing.T) {
	d := New()
	d.Records = []Record{
		{InquiryTime: "2025-01-10", CustomerName: "Acme"},
		{InquiryTime: "2025.01.12", CustomerName: "Bolt", LastFollowUp: "2025-02-01 09:00:00"},
		{InquiryTime: "garbage", CustomerName: "Cairo"},
	}

	Clean(d, zap.NewNop())

	if d.Records[0].InquiryTime != "2025/01/10" {
		t.Errorf("row 0 date = %q", d.Records[0].InquiryTime)
	}
	if d.Records[1].LastFollowUp != "2025/02/01" {
		t.Errorf("row 1 follow-up = %q", d.Records[1].LastFollowUp)
	}
	if d.Records[2].InquiryTime != "" {
		t.Errorf("unparsable date should become empty, got %q", d.Records[2].InquiryTime)
	}
}

func TestCleanConvertsSerialColumn(t *testing.T) {
	d := New()
	d.Records = []Record{
		{InquiryTime: "45658", CustomerName: "Acme"},
		{InquiryTime: "45659", CustomerName: "Bolt"},
		{InquiryTime: "", CustomerName: "Cairo"},
	}

	Clean(d, nil)

	if d.Records[0].InquiryTime != "2025/01/01" {
		t.Errorf("serial conversion = %q", d.Records[0].InquiryTime)
	}
	if d.Records[1].InquiryTime != "2025/01/02" {
		t.Errorf("serial conversion = %q", d.Records[1].InquiryTime)
	}
	if d.Records[2].InquiryTime != "" {
		t.Errorf("empty cell should stay empty, got %q", d.Records[2].InquiryTime)
	}
}

func TestCleanNullMarkers(t *testing.T) {
	d := New()
	d.Records = []Record{
		{CustomerName: "NaN", Country: "None", Remark: "null", Handler: "  spaced  "},
	}

	Clean(d, nil)

	r := d.Records[0]
	if r.CustomerName != "" || r.Country != "" || r.Remark != "" {
		t.Errorf("null markers should become empty: %+v", r)
	}
	if r.Handler != "spaced" {
		t.Errorf("values should be trimmed, got %q", r.Handler)
	}
}

func TestCleanIdempotent(t *testing.T) {
	d := New()
	d.Records = []Record{
		{InquiryTime: "2025-01-10", CustomerName: "Acme"},
		{InquiryTime: "2025-01-10", CustomerName: "Acme"},
	}

	first := Clean(d, nil)
	if first.Removed != 1 {
		t.Fatalf("first pass removed = %d, want 1", first.Removed)
	}
	snapshot := d.Records[0]

	second := Clean(d, nil)
	if second.Removed != 0 {
		t.Errorf("second pass removed = %d, want 0", second.Removed)
	}
	if d.Records[0] != snapshot {
		t.Errorf("second pass changed a record: %+v vs %+v", d.Records[0], snapshot)
	}
}

func TestCleanSkipsAbsentDateColumns(t *testing.T) {
	d := &Dataset{
		Records: []Record{{InquiryTime: "45658", CustomerName: "Acme"}},
		Present: map[string]bool{schema.FieldCustomerName: true},
	}

	Clean(d, nil)

	// inquiry_time not present: the serial stays untouched.
	if d.Records[0].InquiryTime != "45658" {
		t.Errorf("absent column should be skipped, got %q", d.Records[0].InquiryTime)
	}
}

func TestFromTable(t *testing.T) {
	res := schema.Normalize(&schema.Table{
		Name:    "2025-01",
		Headers: []string{"询盘时间", "客户名称"},
		Rows: [][]string{
			{" 2025-01-10 ", " Acme "},
			{"2025-01-10", "Acme"},
		},
	})

	d := FromTable(res, zap.NewNop())

	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after dedupe", d.Len())
	}
	r := d.Records[0]
	if r.InquiryTime != "2025/01/10" || r.CustomerName != "Acme" {
		t.Errorf("record = %+v", r)
	}
	if r.SourceSheet != "2025-01" {
		t.Errorf("provenance = %q", r.SourceSheet)
	}
	if d.Has(schema.FieldCountry) {
		t.Error("country had no source column")
	}
}
