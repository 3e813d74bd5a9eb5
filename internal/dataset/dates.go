package dataset

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date-only rendering. Zero-padded, so
// lexicographic order on canonical strings equals chronological order.
const DateLayout = "2006/01/02"

// serialEpoch is the spreadsheet day-zero anchor. Excel serial 1 is
// 1899-12-31; the 1899-12-30 anchor absorbs the historical 1900 leap-year
// bug so conversions land on the calendar dates users see in Excel.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// serialThreshold separates plausible date serials from small numbers that
// are more likely IDs or counts. 25569 is 1970-01-01.
const serialThreshold = 25568

// dateLayouts are the text formats tried, most specific first.
var dateLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01-02",
	"2006.01.02",
	"01/02/2006",
	"2006/1/2",
	"2006-1-2",
	time.RFC3339,
}

// ParseDate parses a date-like cell value. Returns the parsed time and true,
// or the zero time and false when the value is empty or unparsable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromSerial converts a spreadsheet date serial to a calendar date.
func FromSerial(serial float64) time.Time {
	return serialEpoch.AddDate(0, 0, int(serial))
}

// Canonical reduces a time to date-only precision in canonical form.
func Canonical(t time.Time) string {
	return t.Format(DateLayout)
}

// CanonicalDate parses any supported date text and re-renders it
// canonically. Unparsable input yields the empty string, never an error
// sentinel that could read as a valid value downstream.
func CanonicalDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return Canonical(t)
}

// isSerialColumn reports whether a column of raw values looks like
// spreadsheet date serials: every non-empty value numeric, and the minimum
// above the serial threshold.
func isSerialColumn(values []string) bool {
	sawNumber := false
	min := 0.0
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		if !sawNumber || n < min {
			min = n
		}
		sawNumber = true
	}
	return sawNumber && min > serialThreshold
}
