package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/klytics/inquirykit/internal/analyze"
	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// customerTiers fixes the presentation order of the platform tier field,
// highest first.
var customerTiers = []string{"L4", "L3", "L2", "L1", "L0"}

// BuildSummary renders the deterministic data appendix: every number the
// model is asked to reason about, computed locally. The same text is attached
// to the report whether or not the model call succeeds.
func BuildSummary(d *dataset.Dataset) string {
	if d == nil || d.Len() == 0 {
		return "no data"
	}

	total := d.Len()
	stats, err := analyze.Analyze(d)
	if err != nil {
		return "no data"
	}

	span := daySpan(stats.FirstInquiry, stats.LastInquiry)

	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n\n", stats.FirstInquiry, stats.LastInquiry, span)

	b.WriteString("Core metrics:\n")
	fmt.Fprintf(&b, "- Total inquiries: %d\n", total)
	if daily := dailyAverage(stats.Daily); daily > 0 {
		fmt.Fprintf(&b, "- Daily average: %.1f\n", daily)
	}
	fmt.Fprintf(&b, "- Unique customers: %d\n", distinct(d, schema.FieldCustomerName))
	fmt.Fprintf(&b, "- Countries covered: %d\n", distinct(d, schema.FieldCountry))
	writeGradeLines(&b, d, total)

	if len(stats.Countries) > 0 {
		b.WriteString("\nTop 10 countries:\n")
		writeRankedLines(&b, stats.Countries, total)
	}
	if len(stats.Products) > 0 {
		b.WriteString("\nTop 10 products:\n")
		writeRankedLines(&b, stats.Products, total)
	}

	if d.Has(schema.FieldCustomerTier) {
		b.WriteString("\nCustomer tier distribution (L4 highest, L0 lowest):\n")
		tierCounts := countValues(d, schema.FieldCustomerTier)
		for _, tier := range customerTiers {
			n := tierCounts[tier]
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", tier, n, pct(n, total))
		}
	}

	if d.Has(schema.FieldContactMethod) {
		b.WriteString("\nContact method distribution:\n")
		for _, e := range analyze.Frequencies(d, schema.FieldContactMethod, 0) {
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", e.Value, e.Count, pct(e.Count, total))
		}
	}

	if d.Has(schema.FieldHandler) {
		b.WriteString("\nHandler performance:\n")
		writeHandlerLines(&b, d)
	}

	if len(stats.Daily) > 0 {
		b.WriteString("\nTime trend:\n")
		fmt.Fprintf(&b, "- Daily average: %.1f\n", dailyAverage(stats.Daily))
		peak, trough := extremes(stats.Daily)
		fmt.Fprintf(&b, "- Peak: %s (%d)\n", peak.Date, peak.Count)
		fmt.Fprintf(&b, "- Trough: %s (%d)\n", trough.Date, trough.Count)
		if span >= 14 {
			if line := weeklyGrowthLine(d); line != "" {
				b.WriteString(line)
			}
		}
	}

	return b.String()
}

// daySpan is the inclusive day count between two canonical dates; 1 when
// either endpoint is missing or unparsable.
func daySpan(first, last string) int {
	f, ok1 := dataset.ParseDate(first)
	l, ok2 := dataset.ParseDate(last)
	if !ok1 || !ok2 {
		return 1
	}
	return int(l.Sub(f).Hours()/24) + 1
}

func dailyAverage(daily []analyze.DailyCount) float64 {
	if len(daily) == 0 {
		return 0
	}
	total := 0
	for _, d := range daily {
		total += d.Count
	}
	return float64(total) / float64(len(daily))
}

func extremes(daily []analyze.DailyCount) (peak, trough analyze.DailyCount) {
	peak, trough = daily[0], daily[0]
	for _, d := range daily[1:] {
		if d.Count > peak.Count {
			peak = d
		}
		if d.Count < trough.Count {
			trough = d
		}
	}
	return peak, trough
}

func distinct(d *dataset.Dataset, field string) int {
	return len(countValues(d, field))
}

func countValues(d *dataset.Dataset, field string) map[string]int {
	counts := make(map[string]int)
	for i := range d.Records {
		if v := d.Records[i].Get(field); v != "" {
			counts[v]++
		}
	}
	return counts
}

var gradeDescriptions = []struct {
	grade string
	desc  string
}{
	{"A", "precise, high value"},
	{"B", "potential"},
	{"C", "needs nurturing"},
	{"X", "sample or bulk order"},
}

func writeGradeLines(b *strings.Builder, d *dataset.Dataset, total int) {
	if !d.Has(schema.FieldGrade) {
		return
	}
	counts := countValues(d, schema.FieldGrade)
	for _, g := range gradeDescriptions {
		n := counts[g.grade]
		fmt.Fprintf(b, "- Grade %s: %d (%.1f%%) - %s\n", g.grade, n, pct(n, total), g.desc)
	}
}

func writeRankedLines(b *strings.Builder, entries []analyze.FreqEntry, total int) {
	for i, e := range entries {
		fmt.Fprintf(b, "  %d. %s: %d (%.1f%%)\n", i+1, e.Value, e.Count, pct(e.Count, total))
	}
}

// writeHandlerLines reports per-handler volume with A-grade share, sorted by
// volume descending, stable on ties.
func writeHandlerLines(b *strings.Builder, d *dataset.Dataset) {
	type perf struct {
		handler string
		total   int
		aCount  int
	}
	index := make(map[string]int)
	var rows []perf
	for i := range d.Records {
		h := d.Records[i].Handler
		if h == "" {
			continue
		}
		j, ok := index[h]
		if !ok {
			j = len(rows)
			index[h] = j
			rows = append(rows, perf{handler: h})
		}
		rows[j].total++
		if d.Records[i].Grade == "A" {
			rows[j].aCount++
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].total > rows[j].total
	})
	for _, r := range rows {
		fmt.Fprintf(b, "  %s: %d inquiries, %d grade A (%.1f%%)\n",
			r.handler, r.total, r.aCount, pct(r.aCount, r.total))
	}
}

// weeklyGrowthLine compares the average of the two most recent ISO weeks
// against the two earliest. Empty when fewer than two weeks have data.
func weeklyGrowthLine(d *dataset.Dataset) string {
	counts := make(map[int]int)
	for i := range d.Records {
		t, ok := dataset.ParseDate(d.Records[i].InquiryTime)
		if !ok {
			continue
		}
		year, week := t.ISOWeek()
		counts[year*100+week]++
	}
	if len(counts) < 2 {
		return ""
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	recent := weekAverage(counts, keys[len(keys)-2:])
	early := recent
	if len(keys) > 2 {
		early = weekAverage(counts, keys[:2])
	}
	growth := 0.0
	if early > 0 {
		growth = (recent - early) / early * 100
	}
	return fmt.Sprintf("- Weekly growth: %+.1f%% (recent weekly avg %.1f vs early weekly avg %.1f)\n",
		growth, recent, early)
}

func weekAverage(counts map[int]int, keys []int) float64 {
	total := 0
	for _, k := range keys {
		total += counts[k]
	}
	return float64(total) / float64(len(keys))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
