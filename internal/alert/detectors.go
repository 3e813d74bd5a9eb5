package alert

import (
	"fmt"
	"time"

	"github.com/klytics/inquirykit/internal/analyze"
	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/schema"
)

// Detector thresholds.
const (
	maxUpgradeAlerts    = 5  // X-grade sample-stage alerts per pass
	unfollowedAfterDays = 5  // days before a lapse alert fires
	unfollowedHighDays  = 7  // days before a lapse alert escalates
	regionalWindowDays  = 14 // lookback for regional trends
	regionalMinCount    = 3  // inquiries per country to flag a hotspot
	emergingGrowthPct   = 50 // week-over-week growth to flag a market
	productWindowDays   = 7  // lookback for product trends
	hotProductMinCount  = 3  // mentions per product to flag it hot
	lowMOQMinCount      = 5  // low-MOQ remarks to flag demand
	funnelWindowDays    = 14 // lookback for funnel checks
	lowConversionPct    = 5  // X-grade share below this is a bottleneck
	highCLevelPct       = 50 // C-grade share above this is a quality problem
)

// checkHighValue flags records whose remark carries a high-intent keyword
// (one alert per record, first keyword wins) and up to maxUpgradeAlerts
// X-grade records that just entered the sample stage.
func (e *Engine) checkHighValue(d *dataset.Dataset) []Alert {
	var alerts []Alert

	if d.Has(schema.FieldRemark) {
		for _, r := range d.Records {
			kw := matchKeyword(r.Remark, highValueKeywords)
			if kw == "" {
				continue
			}
			alerts = append(alerts, Alert{
				Type:     "high_value_opportunity",
				Priority: PriorityHigh,
				Category: CategoryHighValue,
				Message: fmt.Sprintf("High-potential customer %s (%s) — remark mentions %q",
					orUnknown(r.CustomerName), orUnknown(r.Country), kw),
				Suggestion:   "Contact immediately by phone or TM, send the OEM quote template and success cases",
				CustomerName: r.CustomerName,
				Country:      r.Country,
				Keyword:      kw,
			})
		}
	}

	if d.Has(schema.FieldGrade) {
		upgraded := 0
		for _, r := range d.Records {
			if r.Grade != "X" {
				continue
			}
			alerts = append(alerts, Alert{
				Type:     "level_upgraded",
				Priority: PriorityHigh,
				Category: CategoryHighValue,
				Message: fmt.Sprintf("%s (%s) has entered the sample stage",
					orUnknown(r.CustomerName), orUnknown(r.Country)),
				Suggestion:   "Create a task: ship sample, record invoice and tracking number, schedule a 7-day follow-up",
				CustomerName: r.CustomerName,
				Country:      r.Country,
			})
			upgraded++
			if upgraded >= maxUpgradeAlerts {
				break
			}
		}
	}

	return alerts
}

// checkLowQuality flags records with spam/fraud keywords (one per record)
// and, when any exist, a summary alert quantifying the C-grade share and the
// estimated screening time savings.
func (e *Engine) checkLowQuality(d *dataset.Dataset) []Alert {
	if !d.Has(schema.FieldRemark) {
		return nil
	}

	var alerts []Alert
	matched := 0
	for _, r := range d.Records {
		kw := matchKeyword(r.Remark, lowQualityKeywords)
		if kw == "" {
			continue
		}
		matched++
		alerts = append(alerts, Alert{
			Type:     "low_quality_warning",
			Priority: PriorityLow,
			Category: CategoryLowQuality,
			Message: fmt.Sprintf("Low-quality inquiry from %s (%s) — marked %q",
				orUnknown(r.CustomerName), orUnknown(r.Country), kw),
			Suggestion:   "Grade as C and move to the watch pool; do not invest deep-communication time",
			CustomerName: r.CustomerName,
			Country:      r.Country,
			Keyword:      kw,
		})
	}

	if matched > 0 {
		cCount := 0
		if d.Has(schema.FieldGrade) {
			for _, r := range d.Records {
				if r.Grade == "C" {
					cCount++
				}
			}
		}
		cPct := 0.0
		if d.Len() > 0 {
			cPct = float64(cCount) / float64(d.Len()) * 100
		}
		alerts = append(alerts, Alert{
			Type:     "low_quality_summary",
			Priority: PriorityMedium,
			Category: CategoryLowQuality,
			Message: fmt.Sprintf("C-grade inquiries are %.1f%% of the pipeline; filtering could save about %.0f%% of invalid communication time",
				cPct, cPct*e.TimeSavingsFactor),
			Suggestion: fmt.Sprintf("%d low-quality inquiries found — tighten the screening rules", matched),
			Count:      matched,
			Percentage: cPct,
		})
	}

	return alerts
}

// checkUnfollowed flags non-X/A records whose last follow-up is more than
// unfollowedAfterDays ago, and records whose remark shows unread messages
// from a customer who had asked for samples or shown interest.
func (e *Engine) checkUnfollowed(d *dataset.Dataset, now time.Time) []Alert {
	var alerts []Alert

	if d.Has(schema.FieldLastFollowUp) {
		for _, r := range d.Records {
			if r.Grade == "X" || r.Grade == "A" {
				continue
			}
			last, ok := dataset.ParseDate(r.LastFollowUp)
			if !ok {
				continue
			}
			days := int(now.Sub(last).Hours() / 24)
			if days <= unfollowedAfterDays {
				continue
			}
			priority := PriorityMedium
			if days > unfollowedHighDays {
				priority = PriorityHigh
			}
			alerts = append(alerts, Alert{
				Type:     "long_term_unfollow",
				Priority: priority,
				Category: CategoryFollowUp,
				Message: fmt.Sprintf("%s (%s) has had no reply for %d days",
					orUnknown(r.CustomerName), orUnknown(r.Country), days),
				Suggestion:   "Re-engage with a fresh subject line or TM message, e.g. offer to adjust the MOQ plan",
				CustomerName: r.CustomerName,
				Country:      r.Country,
				DaysOverdue:  days,
			})
		}
	}

	if d.Has(schema.FieldRemark) {
		for _, r := range d.Records {
			if !matchAny(r.Remark, unreadSignals) {
				continue
			}
			if !matchAny(r.Remark, sampleSignals) && !matchAny(r.Remark, interestSignals) {
				continue
			}
			alerts = append(alerts, Alert{
				Type:     "unread_message",
				Priority: PriorityMedium,
				Category: CategoryFollowUp,
				Message: fmt.Sprintf("%s (%s) asked about samples but left messages unread",
					orUnknown(r.CustomerName), orUnknown(r.Country)),
				Suggestion:   "Reactivate with a free-sample-fee threshold as the hook",
				CustomerName: r.CustomerName,
				Country:      r.Country,
			})
		}
	}

	return alerts
}

// checkRegionalTrends flags countries with regionalMinCount+ inquiries in the
// lookback window (naming their hottest product) and continents whose
// week-over-week inquiry count grew by more than emergingGrowthPct.
func (e *Engine) checkRegionalTrends(d *dataset.Dataset, now time.Time) []Alert {
	if !d.Has(schema.FieldCountry) || !d.Has(schema.FieldInquiryTime) {
		return nil
	}

	recent := withinDays(d, schema.FieldInquiryTime, now, regionalWindowDays)
	window := &dataset.Dataset{Records: recent, Present: d.Present}

	var alerts []Alert
	for _, entry := range analyze.Frequencies(window, schema.FieldCountry, 0) {
		if entry.Count < regionalMinCount {
			continue
		}
		topProduct := "unknown"
		if d.Has(schema.FieldProduct) {
			sub := &dataset.Dataset{Present: d.Present}
			for _, r := range recent {
				if r.Country == entry.Value {
					sub.Records = append(sub.Records, r)
				}
			}
			if products := analyze.Frequencies(sub, schema.FieldProduct, 0); len(products) > 0 {
				topProduct = products[0].Value
			}
		}
		alerts = append(alerts, Alert{
			Type:     "regional_hotspot",
			Priority: PriorityHigh,
			Category: CategoryRegional,
			Message: fmt.Sprintf("%s produced %d inquiries in the last two weeks, concentrated on %s",
				entry.Value, entry.Count, topProduct),
			Suggestion: fmt.Sprintf("Prepare localized copy for %s; check stock and logistics options", entry.Value),
			Country:    entry.Value,
			Count:      entry.Count,
			Product:    topProduct,
		})
	}

	if d.Has(schema.FieldContinent) {
		weekCutoff := now.AddDate(0, 0, -7)
		thisWeek := make(map[string]int)
		lastWeek := make(map[string]int)
		var order []string
		for _, r := range recent {
			t, ok := dataset.ParseDate(r.InquiryTime)
			if !ok || r.Continent == "" {
				continue
			}
			if _, seen := thisWeek[r.Continent]; !seen {
				if _, seen := lastWeek[r.Continent]; !seen {
					order = append(order, r.Continent)
				}
			}
			if !t.Before(weekCutoff) {
				thisWeek[r.Continent]++
			} else {
				lastWeek[r.Continent]++
			}
		}
		for _, continent := range order {
			last := lastWeek[continent]
			if last == 0 {
				continue
			}
			growth := float64(thisWeek[continent]-last) / float64(last) * 100
			if growth <= emergingGrowthPct {
				continue
			}
			alerts = append(alerts, Alert{
				Type:     "emerging_market",
				Priority: PriorityHigh,
				Category: CategoryRegional,
				Message: fmt.Sprintf("Inquiries from %s are up %.0f%% this week",
					continent, growth),
				Suggestion: fmt.Sprintf("Review the %s logistics plan and refresh the freight calculator", continent),
				Continent:  continent,
				GrowthRate: growth,
			})
		}
	}

	return alerts
}

// checkProductTrends flags products mentioned hotProductMinCount+ times in
// the last week (with the distinct-country spread) and a surge of low-MOQ
// demand in remarks.
func (e *Engine) checkProductTrends(d *dataset.Dataset, now time.Time) []Alert {
	if !d.Has(schema.FieldProduct) || !d.Has(schema.FieldInquiryTime) {
		return nil
	}

	recent := withinDays(d, schema.FieldInquiryTime, now, productWindowDays)
	window := &dataset.Dataset{Records: recent, Present: d.Present}

	var alerts []Alert
	for _, entry := range analyze.Frequencies(window, schema.FieldProduct, 0) {
		if entry.Count < hotProductMinCount {
			continue
		}
		countries := make(map[string]bool)
		for _, r := range recent {
			if r.Product == entry.Value && r.Country != "" {
				countries[r.Country] = true
			}
		}
		alerts = append(alerts, Alert{
			Type:     "hot_product",
			Priority: PriorityHigh,
			Category: CategoryProduct,
			Message: fmt.Sprintf("%s was asked about %d times by customers from %d countries this week",
				entry.Value, entry.Count, len(countries)),
			Suggestion:   "Make sure sampling material is complete and the MOQ flexible; feature this product on a landing page",
			Product:      entry.Value,
			Count:        entry.Count,
			CountryCount: len(countries),
		})
	}

	if d.Has(schema.FieldRemark) {
		lowMOQ := 0
		for _, r := range recent {
			if matchAny(r.Remark, lowMOQSignals) {
				lowMOQ++
			}
		}
		if lowMOQ >= lowMOQMinCount {
			alerts = append(alerts, Alert{
				Type:     "low_moq_demand",
				Priority: PriorityMedium,
				Category: CategoryProduct,
				Message: fmt.Sprintf("%d customers explicitly asked for a low MOQ this week", lowMOQ),
				Suggestion: "Launch a mini-MOQ package (e.g. 50 units) as a differentiator",
				Count:      lowMOQ,
			})
		}
	}

	return alerts
}

// checkConversionFunnel runs three independent grade-distribution checks
// over the lookback window: no A-grade at all, X-grade share below
// lowConversionPct, and C-grade share above highCLevelPct.
func (e *Engine) checkConversionFunnel(d *dataset.Dataset, now time.Time) []Alert {
	if !d.Has(schema.FieldGrade) || !d.Has(schema.FieldInquiryTime) {
		return nil
	}

	recent := withinDays(d, schema.FieldInquiryTime, now, funnelWindowDays)
	if len(recent) == 0 {
		return nil
	}

	grades := make(map[string]int)
	for _, r := range recent {
		grades[r.Grade]++
	}
	total := float64(len(recent))

	var alerts []Alert
	if grades["A"] == 0 {
		alerts = append(alerts, Alert{
			Type:       "no_a_level",
			Priority:   PriorityHigh,
			Category:   CategoryFunnel,
			Message:    "No A-grade precise inquiries in the last 14 days — source quality may be slipping",
			Suggestion: `Review RFQ titles and product descriptions; add keywords like "Wholesale" and "Bulk Order"`,
		})
	}

	xPct := float64(grades["X"]) / total * 100
	if xPct < lowConversionPct {
		alerts = append(alerts, Alert{
			Type:     "low_conversion",
			Priority: PriorityHigh,
			Category: CategoryFunnel,
			Message: fmt.Sprintf("Only %.1f%% of customers reached the sample stage — conversion is low", xPct),
			Suggestion: "Add customer testimonial videos, third-party test reports, and factory footage to build trust",
			Percentage: xPct,
		})
	}

	cPct := float64(grades["C"]) / total * 100
	if cPct > highCLevelPct {
		alerts = append(alerts, Alert{
			Type:     "high_c_level",
			Priority: PriorityMedium,
			Category: CategoryFunnel,
			Message: fmt.Sprintf("C-grade inquiries are %.0f%% of the window — source screening needs work", cPct),
			Suggestion: "Tune the RFQ auto-reply rules and raise the first-pass screening bar",
			Percentage: cPct,
		})
	}

	return alerts
}

