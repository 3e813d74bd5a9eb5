//go:build ignore

// This program generates the inquiries.xlsx fixture used by the benchmarks.
// Run with: go run testdata/generate_fixtures.go
package main

import (
	"fmt"
	"os"

	"github.com/klytics/inquirykit/internal/formats/xlsx"
)

func main() {
	if err := generateInquiries(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating inquiries.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

// generateInquiries writes a workbook shaped like a real platform export:
// Chinese headers, mixed grades, one sheet per month, a few blank and
// duplicate rows for the cleaner to chew on.
func generateInquiries() error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "2025-01",
				Rows: [][]string{
					{"询盘时间", "咨询方式", "跟进等级", "客户名称", "国家", "询盘产品", "产品ID", "跟进人", "备注"},
					{"2025/01/06", "站内信", "A", "Acme GmbH", "Germany", "solar panel 450W", "7001234567890123", "li", "asked for CIF Hamburg quote, 2 containers"},
					{"2025/01/08", "RFQ", "B", "Bolt Trading", "Brazil", "hybrid inverter", "7001234567890124", "li", "price only"},
					{"2025/01/09", "站内信", "C", "", "India", "solar panel", "", "wang", "personal buyer"},
					{"", "", "", "", "", "", "", "", ""},
					{"2025/01/15", "站内信", "X", "Sahara Solar", "Egypt", "mounting rail", "7001234567890125", "wang", "sample order placed"},
					{"2025/01/15", "站内信", "X", "Sahara Solar", "Egypt", "mounting rail", "7001234567890125", "wang", "sample order placed"},
				},
			},
			{
				Name: "2025-02",
				Rows: [][]string{
					{"询盘时间", "咨询方式", "跟进等级", "客户名称", "国家", "询盘产品", "产品ID", "跟进人", "备注"},
					{"2025/02/02", "RFQ", "A", "Vistula Energy", "Poland", "charge controller", "7001234567890126", "li", "MOQ and lead time, has import license"},
					{"2025/02/04", "站内信", "B", "Kenya Green Power", "Kenya", "battery 200Ah", "7001234567890127", "zhao", "unread"},
					{"2025/02/10", "站内信", "", "Andes Import SA", "Mexico", "solar panel 450W", "7001234567890123", "zhao", "needs grading"},
				},
			},
		},
	}

	return xlsx.WriteWorkbook(wb, "testdata/inquiries.xlsx")
}
