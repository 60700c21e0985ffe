// Package planner compiles parsed intents into parameterized SQL plans.
//
// Compilation is template dispatch on intent type over a small clause AST.
// Every literal travels through a named parameter; identifiers come only from
// the fixed schema allow-list. Compiling the same intent twice yields
// byte-identical SQL and parameters.
package planner

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

const dateLayout = "2006-01-02"

// Planner compiles intents against one fact table.
type Planner struct {
	table string
}

// NewPlanner validates the table identifier once up front.
func NewPlanner(table string) (*Planner, error) {
	if table == "" {
		table = domain.DefaultTable
	}
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("table name: %w", err)
	}
	return &Planner{table: table}, nil
}

// Compile produces a SQLPlan for the intent.
func (p *Planner) Compile(intent domain.ParsedIntent) (domain.SQLPlan, error) {
	switch intent.Type {
	case domain.IntentSpendingByCategory, domain.IntentBreakdown:
		return p.compileByCategory(intent)
	case domain.IntentTopItems:
		return p.compileTopItems(intent)
	case domain.IntentComparison:
		return p.compileComparison(intent)
	default:
		return p.compileOverTime(intent)
	}
}

func (p *Planner) compileOverTime(intent domain.ParsedIntent) (domain.SQLPlan, error) {
	where, params := p.whereClause(intent, "")
	q := &query{
		selects: []selectExpr{
			{expr: timeBucketExpr(intent.Granularity), alias: "time_period"},
			{expr: "SUM(" + domain.ColumnAmount + ")", alias: "total"},
		},
		table:   p.table,
		where:   where,
		groupBy: []string{"time_period"},
		orderBy: []orderTerm{{expr: "time_period"}},
	}
	return domain.SQLPlan{Query: q.render(), Params: params}, nil
}

func (p *Planner) compileByCategory(intent domain.ParsedIntent) (domain.SQLPlan, error) {
	where, params := p.whereClause(intent, "")
	q := &query{
		selects: []selectExpr{
			{expr: domain.ColumnCategory},
			{expr: "SUM(" + domain.ColumnAmount + ")", alias: "total"},
		},
		table:   p.table,
		where:   where,
		groupBy: []string{domain.ColumnCategory},
		orderBy: []orderTerm{{expr: "total", desc: true}},
		limit:   intent.Limit,
	}
	return domain.SQLPlan{Query: q.render(), Params: params}, nil
}

func (p *Planner) compileTopItems(intent domain.ParsedIntent) (domain.SQLPlan, error) {
	dimension := domain.ColumnMerchant
	if len(intent.Dimensions) > 0 {
		dimension = intent.Dimensions[0]
	}
	col, err := schemaColumn(dimension)
	if err != nil {
		return domain.SQLPlan{}, &domain.PlanningError{Reason: err.Error()}
	}
	limit := intent.Limit
	if limit <= 0 {
		limit = domain.DefaultTopN
	}

	where, params := p.whereClause(intent, "")
	q := &query{
		selects: []selectExpr{
			{expr: col},
			{expr: "SUM(" + domain.ColumnAmount + ")", alias: "total"},
		},
		table:   p.table,
		where:   where,
		groupBy: []string{col},
		orderBy: []orderTerm{{expr: "total", desc: true}},
		limit:   limit,
	}
	return domain.SQLPlan{Query: q.render(), Params: params}, nil
}

// compileComparison emits two CTE sub-aggregates joined on a constant. The
// previous period reuses the current period's filters with a prev_ parameter
// prefix; pct_change divides through NULLIF so a zero previous value yields
// SQL NULL rather than an error.
func (p *Planner) compileComparison(intent domain.ParsedIntent) (domain.SQLPlan, error) {
	if !intent.TimeRange.Bounded() || intent.Comparison == nil || !intent.Comparison.Period.Bounded() {
		return domain.SQLPlan{}, &domain.PlanningError{Reason: "invalid time range for comparison"}
	}

	currentWhere, params := p.whereClause(intent, "")

	prevIntent := intent
	prevIntent.TimeRange = intent.Comparison.Period
	prevWhere, prevParams := p.whereClause(prevIntent, "prev_")
	for k, v := range prevParams {
		params[k] = v
	}

	sum := "SUM(" + domain.ColumnAmount + ")"
	sql := "WITH current_period AS (" +
		"SELECT " + sum + " AS current_value FROM " + p.table + " WHERE " + conditions(currentWhere) +
		"), previous_period AS (" +
		"SELECT " + sum + " AS previous_value FROM " + p.table + " WHERE " + conditions(prevWhere) +
		") SELECT current_period.current_value, previous_period.previous_value, " +
		"(current_period.current_value - previous_period.previous_value) AS difference, " +
		"(current_period.current_value * 100.0 / NULLIF(previous_period.previous_value, 0) - 100.0) AS pct_change " +
		"FROM current_period LEFT JOIN previous_period ON 1=1"

	return domain.SQLPlan{Query: sql, Params: params}, nil
}

// whereClause builds the filter conjunction: time bounds, category IN-list,
// amount bounds. Each value binds through a named placeholder; prefix
// disambiguates the comparison query's second parameter set.
func (p *Planner) whereClause(intent domain.ParsedIntent, prefix string) ([]string, map[string]any) {
	var where []string
	params := map[string]any{}

	if intent.TimeRange.Start != nil {
		name := prefix + "time_start"
		where = append(where, domain.ColumnDate+" >= :"+name)
		params[name] = intent.TimeRange.Start.Format(dateLayout)
	}
	if intent.TimeRange.End != nil {
		name := prefix + "time_end"
		where = append(where, domain.ColumnDate+" <= :"+name)
		params[name] = intent.TimeRange.End.Format(dateLayout)
	}

	if categories := intent.Filters["category"]; len(categories) > 0 {
		placeholders := make([]string, len(categories))
		sorted := append([]string(nil), categories...)
		sort.Strings(sorted)
		for i, cat := range sorted {
			name := prefix + "category_" + strconv.Itoa(i)
			placeholders[i] = ":" + name
			params[name] = cat
		}
		where = append(where, domain.ColumnCategory+" IN ("+joinComma(placeholders)+")")
	}

	if v, ok := firstFloat(intent.Filters["min_amount"]); ok {
		name := prefix + "min_amount"
		where = append(where, domain.ColumnAmount+" >= :"+name)
		params[name] = v
	}
	if v, ok := firstFloat(intent.Filters["max_amount"]); ok {
		name := prefix + "max_amount"
		where = append(where, domain.ColumnAmount+" <= :"+name)
		params[name] = v
	}

	return where, params
}

// timeBucketExpr returns the grouping expression for a granularity. Month is
// the default. The week bucket is the most recent Sunday on or before the
// row's date.
func timeBucketExpr(g domain.TimeGranularity) string {
	switch g {
	case domain.GranularityDay:
		return domain.ColumnDate
	case domain.GranularityWeek:
		return "date(" + domain.ColumnDate + ", 'weekday 6', '-6 days')"
	case domain.GranularityQuarter:
		return "strftime('%Y', " + domain.ColumnDate + ") || '-Q' || ((strftime('%m', " + domain.ColumnDate + ") + 2) / 3)"
	case domain.GranularityYear:
		return "strftime('%Y', " + domain.ColumnDate + ")"
	default:
		return "strftime('%Y-%m', " + domain.ColumnDate + ")"
	}
}

func firstFloat(values []string) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
