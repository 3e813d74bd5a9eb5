package dataset

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/schema"
)

// dateFields are the columns subject to date canonicalization.
var dateFields = []string{schema.FieldInquiryTime, schema.FieldLastFollowUp}

// CleanResult summarizes a cleaning pass.
type CleanResult struct {
	Before  int `json:"before"`
	After   int `json:"after"`
	Removed int `json:"removed"`
}

// FromTable builds a dataset from a normalized table and runs the cleaning
// pass over it.
func FromTable(res *schema.Result, log *zap.Logger) *Dataset {
	d := &Dataset{Present: res.Matched}

	sheetCol := -1
	for i, h := range res.Table.Headers {
		if h == schema.SourceSheetColumn {
			sheetCol = i
		}
	}

	for _, row := range res.Table.Rows {
		var r Record
		for i, f := range schema.Fields {
			if i < len(row) {
				r.Set(f, strings.TrimSpace(row[i]))
			}
		}
		if sheetCol >= 0 && sheetCol < len(row) {
			r.SourceSheet = row[sheetCol]
		}
		d.Records = append(d.Records, r)
	}

	Clean(d, log)
	return d
}

// Clean canonicalizes date columns, enforces the empty-string policy for
// missing values, and removes exact duplicates. Idempotent: cleaning an
// already-clean dataset changes nothing. Per-column date failures degrade to
// best-effort parsing; they never abort the pass.
func Clean(d *Dataset, log *zap.Logger) CleanResult {
	if log == nil {
		log = zap.NewNop()
	}
	before := d.Len()
	log.Info("cleaning dataset", zap.Int("rows", before))

	for _, field := range dateFields {
		if !d.Has(field) {
			continue
		}
		cleanDateColumn(d, field, log)
	}

	// Missing values are already empty strings by construction; normalize
	// the common textual null markers that spreadsheets leak through.
	for i := range d.Records {
		for _, f := range schema.Fields {
			v := d.Records[i].Get(f)
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "nan", "none", "null", "<nil>":
				d.Records[i].Set(f, "")
			default:
				d.Records[i].Set(f, strings.TrimSpace(v))
			}
		}
	}

	removed := d.Dedupe()
	after := d.Len()
	log.Info("cleaned dataset",
		zap.Int("before", before),
		zap.Int("after", after),
		zap.Int("duplicates_removed", removed))

	return CleanResult{Before: before, After: after, Removed: removed}
}

// cleanDateColumn canonicalizes one date column. If the column's non-empty
// values are all numeric with a minimum above the serial threshold, they are
// interpreted as spreadsheet date serials; otherwise each value goes through
// generic text parsing. Either way, every cell ends up canonical or empty.
func cleanDateColumn(d *Dataset, field string, log *zap.Logger) {
	values := make([]string, len(d.Records))
	for i := range d.Records {
		values[i] = d.Records[i].Get(field)
	}

	if isSerialColumn(values) {
		converted := 0
		for i, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || n <= 0 {
				d.Records[i].Set(field, "")
				continue
			}
			d.Records[i].Set(field, Canonical(FromSerial(n)))
			converted++
		}
		log.Debug("converted date serials",
			zap.String("column", field), zap.Int("converted", converted))
		return
	}

	unparsable := 0
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			d.Records[i].Set(field, "")
			continue
		}
		canonical := CanonicalDate(v)
		if canonical == "" {
			unparsable++
		}
		d.Records[i].Set(field, canonical)
	}
	if unparsable > 0 {
		log.Warn("unparsable dates set to empty",
			zap.String("column", field), zap.Int("count", unparsable))
	}
}
