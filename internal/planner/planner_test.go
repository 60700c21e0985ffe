package planner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

func dateRange(start, end string) domain.TimeRange {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return domain.TimeRange{Start: &s, End: &e}
}

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	p, err := NewPlanner("expenses")
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	return p
}

func TestCompileSpendingByCategory(t *testing.T) {
	p := newTestPlanner(t)
	intent := domain.ParsedIntent{
		Type:       domain.IntentSpendingByCategory,
		TimeRange:  dateRange("2025-09-01", "2025-09-30"),
		Dimensions: []string{"category"},
		Filters:    map[string][]string{},
	}

	plan, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	wantSQL := "SELECT category, SUM(amount) AS total FROM expenses" +
		" WHERE date >= :time_start AND date <= :time_end" +
		" GROUP BY category ORDER BY total DESC"
	if plan.Query != wantSQL {
		t.Fatalf("Query = %q, want %q", plan.Query, wantSQL)
	}
	wantParams := map[string]any{"time_start": "2025-09-01", "time_end": "2025-09-30"}
	if diff := cmp.Diff(wantParams, plan.Params); diff != "" {
		t.Fatalf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileTopItemsLimitIsLiteral(t *testing.T) {
	p := newTestPlanner(t)
	intent := domain.ParsedIntent{
		Type:       domain.IntentTopItems,
		TimeRange:  dateRange("2025-09-01", "2025-09-30"),
		Dimensions: []string{"merchant"},
		Filters:    map[string][]string{},
		Limit:      3,
	}

	plan, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.HasSuffix(plan.Query, "ORDER BY total DESC LIMIT 3") {
		t.Fatalf("Query = %q, want trailing literal LIMIT 3", plan.Query)
	}
	if _, bound := plan.Params["limit"]; bound {
		t.Fatal("limit must be a validated literal, not a bind parameter")
	}
}

func TestCompileOverTimeGranularities(t *testing.T) {
	p := newTestPlanner(t)
	cases := []struct {
		granularity domain.TimeGranularity
		wantExpr    string
	}{
		{domain.GranularityDay, "SELECT date AS time_period"},
		{domain.GranularityWeek, "SELECT date(date, 'weekday 6', '-6 days') AS time_period"},
		{domain.GranularityMonth, "SELECT strftime('%Y-%m', date) AS time_period"},
		{domain.GranularityQuarter, "SELECT strftime('%Y', date) || '-Q' || ((strftime('%m', date) + 2) / 3) AS time_period"},
		{domain.GranularityYear, "SELECT strftime('%Y', date) AS time_period"},
		{"", "SELECT strftime('%Y-%m', date) AS time_period"}, // default month
	}
	for _, tc := range cases {
		intent := domain.ParsedIntent{
			Type:        domain.IntentSpendingOverTime,
			TimeRange:   dateRange("2025-01-01", "2025-06-30"),
			Granularity: tc.granularity,
			Filters:     map[string][]string{},
		}
		plan, err := p.Compile(intent)
		if err != nil {
			t.Fatalf("Compile(%s) error = %v", tc.granularity, err)
		}
		if !strings.HasPrefix(plan.Query, tc.wantExpr) {
			t.Errorf("granularity %q: Query = %q, want prefix %q", tc.granularity, plan.Query, tc.wantExpr)
		}
		if !strings.HasSuffix(plan.Query, "GROUP BY time_period ORDER BY time_period") {
			t.Errorf("granularity %q: Query = %q, want time_period grouping", tc.granularity, plan.Query)
		}
	}
}

func TestCompileComparisonPrefixesPreviousParams(t *testing.T) {
	p := newTestPlanner(t)
	prior := dateRange("2025-08-02", "2025-09-01")
	intent := domain.ParsedIntent{
		Type:       domain.IntentComparison,
		TimeRange:  dateRange("2025-09-01", "2025-09-30"),
		Filters:    map[string][]string{"category": {"groceries"}},
		Comparison: &domain.ComparisonSpec{Period: prior},
	}

	plan, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	wantParams := map[string]any{
		"time_start":      "2025-09-01",
		"time_end":        "2025-09-30",
		"category_0":      "groceries",
		"prev_time_start": "2025-08-02",
		"prev_time_end":   "2025-09-01",
		"prev_category_0": "groceries",
	}
	if diff := cmp.Diff(wantParams, plan.Params); diff != "" {
		t.Fatalf("Params mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{
		"WITH current_period AS (",
		"NULLIF(previous_period.previous_value, 0)",
		"AS pct_change",
		"LEFT JOIN previous_period ON 1=1",
	} {
		if !strings.Contains(plan.Query, want) {
			t.Errorf("Query missing %q:\n%s", want, plan.Query)
		}
	}
}

func TestCompileComparisonWithoutBoundsFails(t *testing.T) {
	p := newTestPlanner(t)
	intent := domain.ParsedIntent{
		Type:    domain.IntentComparison,
		Filters: map[string][]string{},
	}

	_, err := p.Compile(intent)

	var planErr *domain.PlanningError
	if !errors.As(err, &planErr) {
		t.Fatalf("Compile() error = %v, want PlanningError", err)
	}
	if !strings.Contains(planErr.Reason, "invalid time range for comparison") {
		t.Fatalf("Reason = %q, want invalid time range message", planErr.Reason)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	p := newTestPlanner(t)
	intent := domain.ParsedIntent{
		Type:      domain.IntentSpendingByCategory,
		TimeRange: dateRange("2025-09-01", "2025-09-30"),
		Filters:   map[string][]string{"category": {"transport", "groceries"}},
		Limit:     5,
	}

	first, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() second error = %v", err)
	}

	if first.Query != second.Query {
		t.Fatalf("SQL not byte-identical:\n%s\n%s", first.Query, second.Query)
	}
	if diff := cmp.Diff(first.Params, second.Params); diff != "" {
		t.Fatalf("Params not identical (-first +second):\n%s", diff)
	}
}

func TestCompileNeverInterpolatesFilterValues(t *testing.T) {
	p := newTestPlanner(t)
	hostile := `"; DROP TABLE expenses; --`
	intent := domain.ParsedIntent{
		Type:      domain.IntentSpendingByCategory,
		TimeRange: dateRange("2025-09-01", "2025-09-30"),
		Filters:   map[string][]string{"category": {hostile}},
	}

	plan, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if strings.Contains(plan.Query, "DROP") || strings.Contains(plan.Query, hostile) {
		t.Fatalf("filter value leaked into SQL text: %s", plan.Query)
	}
	if got := plan.Params["category_0"]; got != hostile {
		t.Fatalf("Params[category_0] = %v, want the raw filter value", got)
	}
	if !strings.Contains(plan.Query, "category IN (:category_0)") {
		t.Fatalf("Query = %q, want named IN-list placeholder", plan.Query)
	}
}

func TestCompileAmountFilters(t *testing.T) {
	p := newTestPlanner(t)
	intent := domain.ParsedIntent{
		Type:      domain.IntentSpendingOverTime,
		TimeRange: dateRange("2025-09-01", "2025-09-30"),
		Filters: map[string][]string{
			"min_amount": {"100"},
			"max_amount": {"500.50"},
		},
	}

	plan, err := p.Compile(intent)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.Contains(plan.Query, "amount >= :min_amount") ||
		!strings.Contains(plan.Query, "amount <= :max_amount") {
		t.Fatalf("Query = %q, want amount bound conditions", plan.Query)
	}
	if plan.Params["min_amount"] != 100.0 || plan.Params["max_amount"] != 500.5 {
		t.Fatalf("Params = %v, want numeric amount bounds", plan.Params)
	}
}

func TestNewPlannerRejectsBadTable(t *testing.T) {
	for _, table := range []string{"expenses; drop", "1bad", "sel ect", "drop"} {
		if _, err := NewPlanner(table); err == nil {
			t.Errorf("NewPlanner(%q) accepted an invalid identifier", table)
		}
	}
}
