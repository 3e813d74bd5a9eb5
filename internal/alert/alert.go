// Package alert evaluates rule-based detectors over the working dataset and
// produces a prioritized list of actionable warnings. The engine keeps no
// state between invocations: identical input and clock yield identical
// output.
package alert

// Priority orders alerts for presentation.
type Priority string

// Priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityRank drives the stable output sort; unknown priorities sink.
var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// The six fixed category labels, one per detector.
const (
	CategoryHighValue  = "High-Value Customer"
	CategoryLowQuality = "Low-Quality Inquiry"
	CategoryFollowUp   = "Follow-Up Lapse"
	CategoryRegional   = "Regional Trend"
	CategoryProduct    = "Product Trend"
	CategoryFunnel     = "Conversion Funnel"
)

// Alert is one detector finding. Message and Suggestion are plain
// human-readable text; the remaining fields carry detector-specific data for
// presentation layers that want structure.
type Alert struct {
	Type       string   `json:"type"`
	Priority   Priority `json:"priority"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`

	CustomerName string  `json:"customer_name,omitempty"`
	Country      string  `json:"country,omitempty"`
	Continent    string  `json:"continent,omitempty"`
	Product      string  `json:"product,omitempty"`
	Keyword      string  `json:"keyword,omitempty"`
	Count        int     `json:"count,omitempty"`
	CountryCount int     `json:"country_count,omitempty"`
	DaysOverdue  int     `json:"days_overdue,omitempty"`
	Percentage   float64 `json:"percentage,omitempty"`
	GrowthRate   float64 `json:"growth_rate,omitempty"`
}
