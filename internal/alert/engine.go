package alert

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// Engine evaluates the detector set. Zero-value thresholds are replaced by
// defaults in NewEngine; TimeSavingsFactor is the heuristic share of C-grade
// communication time assumed recoverable by filtering (tunable, not a law).
type Engine struct {
	Now               func() time.Time
	TimeSavingsFactor float64
	Log               *zap.Logger
}

// NewEngine returns an engine with the default clock and thresholds.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		Now:               time.Now,
		TimeSavingsFactor: 0.6,
		Log:               log,
	}
}

// Evaluate runs all six detectors over the dataset and returns the combined
// alert list sorted by priority, stable within each tier. Returns
// ErrNoDataset only when the dataset itself is unset; a missing column
// silently disables just the detectors that need it.
func (e *Engine) Evaluate(d *dataset.Dataset) ([]Alert, error) {
	if d == nil {
		return nil, dataset.ErrNoDataset
	}

	now := e.Now()
	var alerts []Alert
	alerts = append(alerts, e.checkHighValue(d)...)
	alerts = append(alerts, e.checkLowQuality(d)...)
	alerts = append(alerts, e.checkUnfollowed(d, now)...)
	alerts = append(alerts, e.checkRegionalTrends(d, now)...)
	alerts = append(alerts, e.checkProductTrends(d, now)...)
	alerts = append(alerts, e.checkConversionFunnel(d, now)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return rank(alerts[i].Priority) < rank(alerts[j].Priority)
	})

	e.Log.Debug("alert evaluation complete",
		zap.Int("records", d.Len()), zap.Int("alerts", len(alerts)))
	return alerts, nil
}

func rank(p Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// matchKeyword returns the first keyword found in the remark, or "".
func matchKeyword(remark string, keywords []string) string {
	r := strings.ToLower(remark)
	if r == "" {
		return ""
	}
	for _, kw := range keywords {
		if strings.Contains(r, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}

func matchAny(remark string, signals []string) bool {
	return matchKeyword(remark, signals) != ""
}

// withinDays filters records whose field parses to a date on or after
// now-days. Records with empty or unparsable dates are skipped, not failed.
func withinDays(d *dataset.Dataset, field string, now time.Time, days int) []dataset.Record {
	cutoff := now.AddDate(0, 0, -days)
	var out []dataset.Record
	for _, r := range d.Records {
		t, ok := dataset.ParseDate(r.Get(field))
		if !ok {
			continue
		}
		if !t.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Window returns a copy of d restricted to records whose inquiry time falls
// within the last days days of now. Records with empty or unparsable inquiry
// dates are excluded; column presence carries over so detectors skip the same
// absent columns either way.
func Window(d *dataset.Dataset, now time.Time, days int) *dataset.Dataset {
	if d == nil {
		return nil
	}
	out := &dataset.Dataset{
		Records: withinDays(d, schema.FieldInquiryTime, now, days),
		Present: d.Present,
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
