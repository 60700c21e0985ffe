// Package intent extracts structured query intent from natural-language text.
//
// Extraction is pure keyword and pattern matching over the lowered query: it
// never fails, falling back to a spending-over-time intent across the trailing
// 30 days when nothing is recognized.
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// Parser turns query text into a ParsedIntent. The zero value is not usable;
// construct with New.
type Parser struct {
	clock ports.Clock
}

// New creates a Parser. A nil clock defaults to time.Now; tests inject a fixed
// clock for deterministic time ranges.
func New(clock ports.Clock) *Parser {
	if clock == nil {
		clock = time.Now
	}
	return &Parser{clock: clock}
}

var (
	topNPattern      = regexp.MustCompile(`top\s+(\d+)`)
	lastNPattern     = regexp.MustCompile(`last\s+(\d+)\s+(day|week|month|year)s?`)
	monthYearPattern = regexp.MustCompile(`\b(20\d{2})\b`)
	minAmountPattern = regexp.MustCompile(`(?:over|above|more than)\s+\$?(\d+(?:\.\d+)?)`)
	maxAmountPattern = regexp.MustCompile(`(?:under|below|less than)\s+\$?(\d+(?:\.\d+)?)`)
	categoryPattern  = regexp.MustCompile(`(?:spend|spent|spending|expenses?)\s+(?:on|for)\s+([a-z][a-z &-]*?)(?:\s+(?:last|this|in|during|over|compared|vs|versus|between|from)\b|[?.,!]|$)`)
)

// monthNames is ordered January through December so a query naming two
// months always resolves to the same one.
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"may", time.May}, {"june", time.June},
	{"july", time.July}, {"august", time.August}, {"september", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
}

// Parse extracts a ParsedIntent from free text. First matching intent rule
// wins; time range, granularity, dimensions and filters are independent
// passes over the same text.
func (p *Parser) Parse(text string) domain.ParsedIntent {
	query := strings.ToLower(strings.TrimSpace(text))

	parsed := domain.ParsedIntent{
		Type:    domain.IntentSpendingOverTime,
		Metrics: []string{domain.ColumnAmount},
		Filters: map[string][]string{},
	}

	switch {
	case containsAny(query, "by category", "per category", "categories"):
		parsed.Type = domain.IntentSpendingByCategory
		parsed.Dimensions = append(parsed.Dimensions, domain.ColumnCategory)
	case containsAny(query, "top ", "highest ", "most expensive"):
		parsed.Type = domain.IntentTopItems
		parsed.Limit = domain.DefaultTopN
		if m := topNPattern.FindStringSubmatch(query); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				parsed.Limit = n
			}
		}
	case containsAny(query, "compare", " vs ", "versus"):
		parsed.Type = domain.IntentComparison
	}

	parsed.TimeRange = p.extractTimeRange(query)
	parsed.Granularity = extractGranularity(query)
	parsed.Dimensions = extractDimensions(query, parsed.Dimensions)
	extractFilters(query, parsed.Filters)

	if parsed.Type == domain.IntentComparison && parsed.TimeRange.Bounded() {
		parsed.Comparison = &domain.ComparisonSpec{Period: parsed.TimeRange.Prior()}
	}

	return parsed
}

func (p *Parser) extractTimeRange(query string) domain.TimeRange {
	today := midnight(p.clock())

	switch {
	case strings.Contains(query, "last month"):
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := firstOfThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, today.Location())
		return rangeOf(start, end)
	case strings.Contains(query, "this month"):
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return rangeOf(start, today)
	case strings.Contains(query, "last 30 days"), strings.Contains(query, "past month"):
		return rangeOf(today.AddDate(0, 0, -30), today)
	case strings.Contains(query, "last 7 days"), strings.Contains(query, "past week"), strings.Contains(query, "last week"):
		return rangeOf(today.AddDate(0, 0, -7), today)
	case strings.Contains(query, "yesterday"):
		y := today.AddDate(0, 0, -1)
		return rangeOf(y, y)
	case strings.Contains(query, "today"):
		return rangeOf(today, today)
	case strings.Contains(query, "this year"):
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return rangeOf(start, today)
	case strings.Contains(query, "last year"):
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, today.Location())
		end := time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, today.Location())
		return rangeOf(start, end)
	}

	if m := lastNPattern.FindStringSubmatch(query); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			var start time.Time
			switch m[2] {
			case "day":
				start = today.AddDate(0, 0, -n)
			case "week":
				start = today.AddDate(0, 0, -7*n)
			case "month":
				start = today.AddDate(0, -n, 0)
			case "year":
				start = today.AddDate(-n, 0, 0)
			}
			return rangeOf(start, today)
		}
	}

	if r, ok := monthNameRange(query, today); ok {
		return r
	}

	// Silent fallback: trailing 30 days. The rendered caveats block always
	// states the effective range, so the fallback stays visible to the user.
	return rangeOf(today.AddDate(0, 0, -domain.DefaultLookbackDays), today)
}

// monthNameRange handles phrases like "july 2025" or "in march", clipping the
// current month at today.
func monthNameRange(query string, today time.Time) (domain.TimeRange, bool) {
	for _, entry := range monthNames {
		if !strings.Contains(query, entry.name) {
			continue
		}
		year := today.Year()
		if m := monthYearPattern.FindStringSubmatch(query); m != nil {
			year, _ = strconv.Atoi(m[1])
		}
		start := time.Date(year, entry.month, 1, 0, 0, 0, 0, today.Location())
		var end time.Time
		if year == today.Year() && entry.month == today.Month() {
			end = today
		} else {
			end = start.AddDate(0, 1, -1)
		}
		return rangeOf(start, end), true
	}
	return domain.TimeRange{}, false
}

func extractGranularity(query string) domain.TimeGranularity {
	switch {
	case containsAny(query, "daily", "day by day", "each day"):
		return domain.GranularityDay
	case containsAny(query, "weekly", "week by week", "each week"):
		return domain.GranularityWeek
	case containsAny(query, "monthly", "month by month", "each month"):
		return domain.GranularityMonth
	case containsAny(query, "quarterly", "quarter by quarter"):
		return domain.GranularityQuarter
	case containsAny(query, "yearly", "annually", "year by year"):
		return domain.GranularityYear
	}
	return ""
}

func extractDimensions(query string, dims []string) []string {
	if !strings.Contains(query, "by ") && len(dims) == 0 {
		return dims
	}
	if containsAny(query, "category", "categories", "type") && !containsDim(dims, domain.ColumnCategory) {
		dims = append(dims, domain.ColumnCategory)
	}
	if containsAny(query, "merchant", "store", "shop") && !containsDim(dims, domain.ColumnMerchant) {
		dims = append(dims, domain.ColumnMerchant)
	}
	return dims
}

func extractFilters(query string, filters map[string][]string) {
	if m := categoryPattern.FindStringSubmatch(query); m != nil {
		category := strings.TrimSpace(m[1])
		if category != "" && !isTimeWord(category) {
			filters["category"] = append(filters["category"], category)
		}
	}
	if m := minAmountPattern.FindStringSubmatch(query); m != nil {
		filters["min_amount"] = []string{m[1]}
	}
	if m := maxAmountPattern.FindStringSubmatch(query); m != nil {
		filters["max_amount"] = []string{m[1]}
	}
}

// isTimeWord filters out time phrases the category pattern can over-capture,
// e.g. "spending on friday".
func isTimeWord(s string) bool {
	switch s {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"weekends", "weekdays", "average", "everything":
		return true
	}
	for _, entry := range monthNames {
		if s == entry.name {
			return true
		}
	}
	return false
}

func containsAny(query string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

func containsDim(dims []string, dim string) bool {
	for _, d := range dims {
		if d == dim {
			return true
		}
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func rangeOf(start, end time.Time) domain.TimeRange {
	return domain.TimeRange{Start: &start, End: &end}
}
