// Package schema defines the canonical 12-column inquiry layout and maps
// arbitrary spreadsheet headers onto it using keyword heuristics.
package schema

import "strings"

// Canonical field names, in the fixed output order expected by exporters.
const (
	FieldInquiryTime   = "inquiry_time"
	FieldContactMethod = "contact_method"
	FieldGrade         = "follow_up_grade"
	FieldCustomerName  = "customer_name"
	FieldCustomerTier  = "customer_tier"
	FieldContinent     = "continent"
	FieldCountry       = "country"
	FieldProduct       = "product_inquired"
	FieldProductID     = "product_id"
	FieldHandler       = "handler"
	FieldRemark        = "remark"
	FieldLastFollowUp  = "last_follow_up_time"
)

// SourceSheetColumn is a transient provenance column recording which sheet a
// row came from. It survives normalization but must never reach exports.
const SourceSheetColumn = "_source_sheet"

// Fields lists the canonical columns in schema order.
var Fields = []string{
	FieldInquiryTime,
	FieldContactMethod,
	FieldGrade,
	FieldCustomerName,
	FieldCustomerTier,
	FieldContinent,
	FieldCountry,
	FieldProduct,
	FieldProductID,
	FieldHandler,
	FieldRemark,
	FieldLastFollowUp,
}

// Labels maps canonical fields to the human-readable header used in exports.
var Labels = map[string]string{
	FieldInquiryTime:   "Inquiry Time",
	FieldContactMethod: "Contact Method",
	FieldGrade:         "Follow-up Grade",
	FieldCustomerName:  "Customer Name",
	FieldCustomerTier:  "Customer Tier",
	FieldContinent:     "Continent",
	FieldCountry:       "Country",
	FieldProduct:       "Product Inquired",
	FieldProductID:     "Product ID",
	FieldHandler:       "Handler",
	FieldRemark:        "Remark",
	FieldLastFollowUp:  "Last Follow-up Time",
}

// GradeOrder lists the follow-up grades in rubric order.
var GradeOrder = []string{"A", "B", "C", "X"}

// GradeRules is the default grading rubric, shared by the classification
// prompt and the export legend.
var GradeRules = map[string]string{
	"A": "Precise inquiry: the buyer states a concrete product need with supporting detail (quantities, shipping or payment terms, company information).",
	"B": "General inquiry: broad or scattergun interest, a bare price request, or an unread message that still needs follow-up.",
	"C": "Personal buyer, mismatched inquiry, or spam.",
	"X": "Sample order placed or bulk customer under continuous follow-up.",
}

// KeywordGroup binds a canonical field to the header substrings that claim it.
type KeywordGroup struct {
	Field    string
	Keywords []string
}

// KeywordGroups is the ordered matching table. For each raw header the groups
// are tested top to bottom; the first group with a matching keyword claims
// the column, and each canonical field can be claimed at most once. Exposed
// as data so tests can extend keyword sets without touching matching logic.
var KeywordGroups = []KeywordGroup{
	{FieldInquiryTime, []string{"询盘", "时间", "inquiry", "time"}},
	{FieldContactMethod, []string{"咨询", "方式", "contact", "method"}},
	{FieldGrade, []string{"跟进", "等级", "level", "grade"}},
	{FieldCustomerName, []string{"客户", "名称", "customer", "name"}},
	{FieldCustomerTier, []string{"层级", "tier", "category"}},
	{FieldContinent, []string{"大洲", "continent"}},
	{FieldCountry, []string{"国家", "country", "nation"}},
	{FieldProduct, []string{"产品", "product", "询价"}},
	{FieldProductID, []string{"id", "产品id"}},
	{FieldHandler, []string{"跟进人", "follower", "handler"}},
	{FieldRemark, []string{"备注", "remark", "note"}},
	{FieldLastFollowUp, []string{"最后", "last", "follow"}},
}

// Table is a raw tabular structure: one header row plus data rows.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Result is a normalized table: exactly the canonical columns (in schema
// order), plus a record of which canonical fields actually had a source
// column. Fields with no source column are synthesized as empty.
type Result struct {
	Table   Table
	Matched map[string]bool
}

// MatchField returns the canonical field a raw header maps to, skipping
// fields already claimed, or "" if no keyword group matches.
func MatchField(header string, claimed map[string]bool) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return ""
	}
	for _, g := range KeywordGroups {
		if claimed[g.Field] {
			continue
		}
		for _, kw := range g.Keywords {
			if strings.Contains(h, kw) {
				return g.Field
			}
		}
	}
	return ""
}

// Normalize maps a raw table onto the canonical schema. Source columns that
// match no keyword group are dropped; the provenance column, if present, is
// carried through as a trailing column.
func Normalize(t *Table) *Result {
	claimed := make(map[string]bool)
	// source column index per canonical field, -1 when absent
	colFor := make(map[string]int, len(Fields))
	for _, f := range Fields {
		colFor[f] = -1
	}
	sourceSheetCol := -1

	for i, h := range t.Headers {
		if strings.TrimSpace(h) == SourceSheetColumn {
			sourceSheetCol = i
			continue
		}
		if f := MatchField(h, claimed); f != "" {
			claimed[f] = true
			colFor[f] = i
		}
	}

	out := Table{Name: t.Name, Headers: append([]string{}, Fields...)}
	if sourceSheetCol >= 0 || t.Name != "" {
		out.Headers = append(out.Headers, SourceSheetColumn)
	}

	for _, row := range t.Rows {
		nr := make([]string, 0, len(out.Headers))
		for _, f := range Fields {
			idx := colFor[f]
			if idx >= 0 && idx < len(row) {
				nr = append(nr, row[idx])
			} else {
				nr = append(nr, "")
			}
		}
		if len(out.Headers) > len(Fields) {
			switch {
			case sourceSheetCol >= 0 && sourceSheetCol < len(row):
				nr = append(nr, row[sourceSheetCol])
			default:
				nr = append(nr, t.Name)
			}
		}
		out.Rows = append(out.Rows, nr)
	}

	return &Result{Table: out, Matched: claimed}
}
