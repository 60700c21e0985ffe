// Package chart decides whether query results warrant a visualization and,
// if so, which one. Selection can abstain; a nil spec means text-only output.
package chart

import (
	"strings"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

// timeLikeColumns are preferred for the x-axis when present.
var timeLikeColumns = map[string]struct{}{
	"date": {}, "time_period": {}, "month": {}, "year": {},
	"week": {}, "day": {}, "quarter": {}, "period": {},
}

// Selector applies the chart decision table.
type Selector struct {
	width  int
	height int
}

// NewSelector builds a selector with the configured canvas size.
func NewSelector(width, height int) *Selector {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 500
	}
	return &Selector{width: width, height: height}
}

// Select returns a spec for the result, or nil to abstain. Empty results,
// single-row category breakdowns, and result shapes with no usable axis pair
// all abstain.
func (s *Selector) Select(result domain.QueryResult, intent domain.ParsedIntent) *domain.ChartSpec {
	if result.Err != nil || result.RowCount == 0 {
		return nil
	}

	var chartType domain.ChartType
	switch intent.Type {
	case domain.IntentSpendingOverTime:
		chartType = domain.ChartLine
	case domain.IntentComparison:
		// The comparison row is entirely numeric, so axis inference does not
		// apply; the renderer pivots current/previous values into two bars.
		if !columnAnyNumeric(result, "current_value") {
			return nil
		}
		return &domain.ChartSpec{
			Type:   domain.ChartBar,
			XAxis:  "period",
			YAxis:  "value",
			Title:  titleFor(intent),
			XTitle: "Period",
			YTitle: "Amount",
			Width:  s.width,
			Height: s.height,
		}
	case domain.IntentSpendingByCategory, domain.IntentBreakdown:
		if result.RowCount <= 1 || result.RowCount > domain.MaxChartCategories {
			return nil
		}
		if result.RowCount <= domain.MaxPieCategories {
			chartType = domain.ChartPie
		} else {
			chartType = domain.ChartBar
		}
	default:
		return nil
	}

	x, y, ok := chooseAxes(result)
	if !ok {
		return nil
	}

	return &domain.ChartSpec{
		Type:   chartType,
		XAxis:  x,
		YAxis:  y,
		Title:  titleFor(intent),
		XTitle: axisTitle(x),
		YTitle: "Amount",
		Width:  s.width,
		Height: s.height,
	}
}

// chooseAxes picks the x column (time-like name first, else first non-numeric
// column) and the y column (first fully numeric column excluding x, falling
// back to the first column with any numeric value). Returns ok=false when no
// valid pair exists.
func chooseAxes(result domain.QueryResult) (x, y string, ok bool) {
	for _, col := range result.Columns {
		if _, timeLike := timeLikeColumns[strings.ToLower(col)]; timeLike {
			x = col
			break
		}
	}
	if x == "" {
		for _, col := range result.Columns {
			if !columnAllNumeric(result, col) {
				x = col
				break
			}
		}
	}
	if x == "" {
		return "", "", false
	}

	for _, col := range result.Columns {
		if col == x {
			continue
		}
		if columnAllNumeric(result, col) {
			return x, col, true
		}
	}
	for _, col := range result.Columns {
		if col == x {
			continue
		}
		if columnAnyNumeric(result, col) {
			return x, col, true
		}
	}
	return "", "", false
}

func columnAllNumeric(result domain.QueryResult, col string) bool {
	seen := false
	for _, row := range result.Rows {
		v, present := row[col]
		if !present || v == nil {
			continue
		}
		if _, numeric := asFloat(v); !numeric {
			return false
		}
		seen = true
	}
	return seen
}

func columnAnyNumeric(result domain.QueryResult, col string) bool {
	for _, row := range result.Rows {
		if _, numeric := asFloat(row[col]); numeric {
			return true
		}
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func titleFor(intent domain.ParsedIntent) string {
	switch intent.Type {
	case domain.IntentSpendingByCategory, domain.IntentBreakdown:
		return "Spending by Category"
	case domain.IntentComparison:
		return "Spending Comparison"
	case domain.IntentTopItems:
		return "Top Spending Items"
	default:
		return "Spending Over Time"
	}
}

func axisTitle(col string) string {
	if _, timeLike := timeLikeColumns[strings.ToLower(col)]; timeLike {
		return "Period"
	}
	words := strings.Fields(strings.ReplaceAll(col, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
