package dataset

import (
	"errors"

	"github.com/klytics/inquirykit/internal/schema"
)

// ErrNoDataset is returned by analysis operations when no dataset has been
// loaded yet. Recoverable by importing data first.
var ErrNoDataset = errors.New("no dataset loaded — run 'inq import' first")

// Dataset is an ordered collection of records plus a note of which canonical
// columns actually existed in the source. Insertion order carries no meaning
// beyond deterministic dedupe (last occurrence wins across merges).
type Dataset struct {
	Records []Record        `json:"records"`
	Present map[string]bool `json:"present"`
}

// New returns an empty dataset with every canonical column marked present.
// Used when building datasets programmatically rather than from a spreadsheet.
func New() *Dataset {
	p := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		p[f] = true
	}
	return &Dataset{Present: p}
}

// Has reports whether the given canonical column had a source column.
// Detectors and aggregates use this to skip work instead of failing.
func (d *Dataset) Has(field string) bool {
	if d.Present == nil {
		return true
	}
	return d.Present[field]
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Merge appends another dataset's records and removes exact duplicates,
// keeping the last occurrence. Columns present in either side count as
// present afterwards.
func (d *Dataset) Merge(other *Dataset) {
	d.Records = append(d.Records, other.Records...)
	if d.Present == nil {
		d.Present = make(map[string]bool)
	}
	for f, ok := range other.Present {
		if ok {
			d.Present[f] = true
		}
	}
	d.Dedupe()
}

// Dedupe removes exact full-row duplicates, keeping the last occurrence of
// each row. Returns the number of rows removed.
func (d *Dataset) Dedupe() int {
	last := make(map[string]int, len(d.Records))
	for i := range d.Records {
		last[d.Records[i].key()] = i
	}
	if len(last) == len(d.Records) {
		return 0
	}
	kept := make([]Record, 0, len(last))
	for i := range d.Records {
		if last[d.Records[i].key()] == i {
			kept = append(kept, d.Records[i])
		}
	}
	removed := len(d.Records) - len(kept)
	d.Records = kept
	return removed
}

// Snapshot returns a deep copy safe to hand to concurrent readers while the
// original keeps being edited.
func (d *Dataset) Snapshot() *Dataset {
	cp := &Dataset{
		Records: make([]Record, len(d.Records)),
		Present: make(map[string]bool, len(d.Present)),
	}
	copy(cp.Records, d.Records)
	for f, ok := range d.Present {
		cp.Present[f] = ok
	}
	return cp
}
