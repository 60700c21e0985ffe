// Package domain defines the core value types for the query pipeline.
//
// Types here are independent of infrastructure concerns: they describe what a
// user asked for, the SQL plan derived from it, and the results flowing back.
package domain

import "time"

// IntentType enumerates the closed set of query intents the extractor produces.
type IntentType string

const (
	IntentSpendingByCategory IntentType = "spending_by_category"
	IntentSpendingOverTime   IntentType = "spending_over_time"
	IntentTopItems           IntentType = "top_items"
	IntentComparison         IntentType = "comparison"
	IntentBreakdown          IntentType = "breakdown"
	IntentUnknown            IntentType = "unknown"
)

// TimeGranularity enumerates bucket sizes for time-series aggregation.
type TimeGranularity string

const (
	GranularityDay     TimeGranularity = "day"
	GranularityWeek    TimeGranularity = "week"
	GranularityMonth   TimeGranularity = "month"
	GranularityQuarter TimeGranularity = "quarter"
	GranularityYear    TimeGranularity = "year"
)

// TimeRange is an inclusive date interval. Either bound may be absent.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether both ends of the range are present.
func (r TimeRange) Bounded() bool {
	return r.Start != nil && r.End != nil
}

// Duration returns End-Start, or zero when either bound is absent.
func (r TimeRange) Duration() time.Duration {
	if !r.Bounded() {
		return 0
	}
	return r.End.Sub(*r.Start)
}

// Days returns the inclusive day count of the range (a single-day range
// counts as 1). Zero when either bound is absent.
func (r TimeRange) Days() int {
	if !r.Bounded() {
		return 0
	}
	return int(r.End.Sub(*r.Start).Hours()/24) + 1
}

// Prior returns the window of the same day count immediately preceding this
// one, ending exactly at Start (no gap). Returns a zero range if unbounded.
func (r TimeRange) Prior() TimeRange {
	if !r.Bounded() {
		return TimeRange{}
	}
	start := r.Start.AddDate(0, 0, -r.Days())
	end := *r.Start
	return TimeRange{Start: &start, End: &end}
}

// ParsedIntent is the immutable structured form of a natural-language query.
// It is produced once per query by the intent extractor and never mutated.
type ParsedIntent struct {
	Type        IntentType
	TimeRange   TimeRange
	Granularity TimeGranularity // empty when the query names no bucket size
	Dimensions  []string
	Metrics     []string
	Filters     map[string][]string
	Limit       int // 0 means no limit requested

	// Comparison is present iff Type == IntentComparison. Its range has the
	// same length as TimeRange and ends exactly at TimeRange.Start.
	Comparison *ComparisonSpec
}

// ComparisonSpec carries the second period of a comparison intent.
type ComparisonSpec struct {
	Period TimeRange
}

// IsComparison reports whether the intent requests a period-over-period
// comparison.
func (p ParsedIntent) IsComparison() bool {
	return p.Type == IntentComparison && p.Comparison != nil
}
