package chart

import (
	"testing"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

func categoryRows(n int) domain.QueryResult {
	rows := make([]map[string]any, 0, n)
	names := []string{"groceries", "dining out", "transport", "utilities", "rent",
		"entertainment", "health", "travel", "shopping", "subscriptions",
		"gifts", "pets", "education", "insurance", "fees"}
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]any{"category": names[i%len(names)], "total": float64(100 + i)})
	}
	return domain.QueryResult{Rows: rows, Columns: []string{"category", "total"}, RowCount: n}
}

func TestSelectAbstainsOnEmptyResult(t *testing.T) {
	s := NewSelector(800, 500)
	intent := domain.ParsedIntent{Type: domain.IntentSpendingOverTime}

	if spec := s.Select(domain.QueryResult{}, intent); spec != nil {
		t.Fatalf("Select() = %+v, want nil for empty result", spec)
	}
}

func TestSelectLineForTimeSeries(t *testing.T) {
	s := NewSelector(800, 500)
	result := domain.QueryResult{
		Rows: []map[string]any{
			{"time_period": "2025-08", "total": 1200.0},
			{"time_period": "2025-09", "total": 900.0},
		},
		Columns:  []string{"time_period", "total"},
		RowCount: 2,
	}
	intent := domain.ParsedIntent{Type: domain.IntentSpendingOverTime}

	spec := s.Select(result, intent)
	if spec == nil {
		t.Fatal("Select() = nil, want a line chart")
	}
	if spec.Type != domain.ChartLine || spec.XAxis != "time_period" || spec.YAxis != "total" {
		t.Fatalf("spec = %+v, want line over time_period/total", spec)
	}
}

func TestSelectBarForComparison(t *testing.T) {
	s := NewSelector(800, 500)
	result := domain.QueryResult{
		Rows:     []map[string]any{{"current_value": 500.0, "previous_value": 400.0, "difference": 100.0, "pct_change": 25.0}},
		Columns:  []string{"current_value", "previous_value", "difference", "pct_change"},
		RowCount: 1,
	}
	intent := domain.ParsedIntent{Type: domain.IntentComparison}

	spec := s.Select(result, intent)
	if spec == nil || spec.Type != domain.ChartBar {
		t.Fatalf("spec = %+v, want a bar chart", spec)
	}
}

func TestSelectCategoryBreakdownSizing(t *testing.T) {
	s := NewSelector(800, 500)
	intent := domain.ParsedIntent{Type: domain.IntentSpendingByCategory}

	cases := []struct {
		rows     int
		wantType domain.ChartType
		wantNil  bool
	}{
		{rows: 1, wantNil: true},
		{rows: 5, wantType: domain.ChartPie},
		{rows: 10, wantType: domain.ChartPie},
		{rows: 11, wantType: domain.ChartBar},
		{rows: 20, wantType: domain.ChartBar},
		{rows: 21, wantNil: true},
	}
	for _, tc := range cases {
		spec := s.Select(categoryRows(tc.rows), intent)
		if tc.wantNil {
			if spec != nil {
				t.Errorf("%d rows: got %+v, want abstain", tc.rows, spec)
			}
			continue
		}
		if spec == nil || spec.Type != tc.wantType {
			t.Errorf("%d rows: got %+v, want type %s", tc.rows, spec, tc.wantType)
		}
	}
}

func TestSelectAbstainsForTopItems(t *testing.T) {
	s := NewSelector(800, 500)
	result := domain.QueryResult{
		Rows:     []map[string]any{{"merchant": "corner store", "total": 50.0}},
		Columns:  []string{"merchant", "total"},
		RowCount: 1,
	}
	intent := domain.ParsedIntent{Type: domain.IntentTopItems}

	if spec := s.Select(result, intent); spec != nil {
		t.Fatalf("Select() = %+v, want abstain for top items", spec)
	}
}

func TestSelectAbstainsWithoutNumericColumn(t *testing.T) {
	s := NewSelector(800, 500)
	result := domain.QueryResult{
		Rows: []map[string]any{
			{"time_period": "2025-08", "note": "a"},
			{"time_period": "2025-09", "note": "b"},
		},
		Columns:  []string{"time_period", "note"},
		RowCount: 2,
	}
	intent := domain.ParsedIntent{Type: domain.IntentSpendingOverTime}

	if spec := s.Select(result, intent); spec != nil {
		t.Fatalf("Select() = %+v, want abstain with no numeric column", spec)
	}
}

func TestSelectFallsBackToFirstNonNumericX(t *testing.T) {
	s := NewSelector(800, 500)
	result := domain.QueryResult{
		Rows: []map[string]any{
			{"bucket": "w1", "total": 10.0},
			{"bucket": "w2", "total": 20.0},
		},
		Columns:  []string{"bucket", "total"},
		RowCount: 2,
	}
	intent := domain.ParsedIntent{Type: domain.IntentSpendingOverTime}

	spec := s.Select(result, intent)
	if spec == nil || spec.XAxis != "bucket" || spec.YAxis != "total" {
		t.Fatalf("spec = %+v, want bucket/total axes", spec)
	}
}
