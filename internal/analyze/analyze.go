// Package analyze computes descriptive statistics over a cleaned dataset.
package analyze

import (
	"sort"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// topN caps the country and product frequency tables.
const topN = 10

// FreqEntry is one value/count pair in a frequency table.
type FreqEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DailyCount is the number of inquiries on one calendar date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is a read-only statistics snapshot. Each table is present only if
// its source column existed in the import.
type Summary struct {
	Total        int          `json:"total"`
	FirstInquiry string       `json:"first_inquiry,omitempty"`
	LastInquiry  string       `json:"last_inquiry,omitempty"`
	Continents   []FreqEntry  `json:"continents,omitempty"`
	Countries    []FreqEntry  `json:"countries,omitempty"`
	Products     []FreqEntry  `json:"products,omitempty"`
	Grades       []FreqEntry  `json:"grades,omitempty"`
	Handlers     []FreqEntry  `json:"handlers,omitempty"`
	Daily        []DailyCount `json:"daily,omitempty"`
}

// Analyze derives a summary from the dataset. Returns ErrNoDataset when the
// dataset is nil or empty; a missing optional column only omits its table.
func Analyze(d *dataset.Dataset) (*Summary, error) {
	if d == nil || d.Len() == 0 {
		return nil, dataset.ErrNoDataset
	}

	s := &Summary{Total: d.Len()}

	if d.Has(schema.FieldInquiryTime) {
		for _, r := range d.Records {
			if r.InquiryTime == "" {
				continue
			}
			// Canonical dates are zero-padded, so string order is date order.
			if s.FirstInquiry == "" || r.InquiryTime < s.FirstInquiry {
				s.FirstInquiry = r.InquiryTime
			}
			if r.InquiryTime > s.LastInquiry {
				s.LastInquiry = r.InquiryTime
			}
		}
		s.Daily = dailySeries(d)
	}

	if d.Has(schema.FieldContinent) {
		s.Continents = Frequencies(d, schema.FieldContinent, 0)
	}
	if d.Has(schema.FieldCountry) {
		s.Countries = Frequencies(d, schema.FieldCountry, topN)
	}
	if d.Has(schema.FieldProduct) {
		s.Products = Frequencies(d, schema.FieldProduct, topN)
	}
	if d.Has(schema.FieldGrade) {
		s.Grades = Frequencies(d, schema.FieldGrade, 0)
	}
	if d.Has(schema.FieldHandler) {
		s.Handlers = Frequencies(d, schema.FieldHandler, 0)
	}

	return s, nil
}

// Frequencies ranks the non-empty values of one column by count, descending.
// Ties keep first-encountered order (stable sort), so top-N output is
// deterministic across runs. limit 0 means unbounded.
func Frequencies(d *dataset.Dataset, field string, limit int) []FreqEntry {
	counts := make(map[string]int)
	var order []string
	for i := range d.Records {
		v := d.Records[i].Get(field)
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	entries := make([]FreqEntry, 0, len(order))
	for _, v := range order {
		entries = append(entries, FreqEntry{Value: v, Count: counts[v]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// dailySeries counts records per inquiry date, excluding rows whose inquiry
// time is empty, sorted chronologically.
func dailySeries(d *dataset.Dataset) []DailyCount {
	counts := make(map[string]int)
	for _, r := range d.Records {
		if r.InquiryTime == "" {
			continue
		}
		counts[r.InquiryTime]++
	}
	if len(counts) == 0 {
		return nil
	}

	dates := make([]string, 0, len(counts))
	for day := range counts {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	series := make([]DailyCount, len(dates))
	for i, day := range dates {
		series[i] = DailyCount{Date: day, Count: counts[day]}
	}
	return series
}
