// Package answer renders query results into the final markdown narrative.
// Each intent type has its own shape; error and empty-result states get
// dedicated renderings instead of raw diagnostics.
package answer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

const dateLayout = "2006-01-02"

// Synthesizer formats results for one configured display currency.
type Synthesizer struct {
	currency string
}

// NewSynthesizer builds a synthesizer; an empty currency falls back to the
// default.
func NewSynthesizer(currency string) *Synthesizer {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Synthesizer{currency: currency}
}

// Synthesize renders the result for the intent. A chartPath, when non-empty,
// is embedded as a relative image link. Execution errors inside the result
// route to the error rendering.
func (s *Synthesizer) Synthesize(result domain.QueryResult, intent domain.ParsedIntent, chartPath string) string {
	if result.Err != nil {
		return s.RenderError(result.Err)
	}
	if result.RowCount == 0 {
		return s.renderEmpty(intent)
	}

	var body string
	switch intent.Type {
	case domain.IntentSpendingByCategory, domain.IntentBreakdown:
		body = s.renderCategoryBreakdown(result)
	case domain.IntentTopItems:
		body = s.renderTopItems(result)
	case domain.IntentComparison:
		body = s.renderComparison(result)
	default:
		body = s.renderTimeSeries(result)
	}

	var b strings.Builder
	b.WriteString(body)
	if chartPath != "" {
		b.WriteString("\n![Chart](")
		b.WriteString(chartPath)
		b.WriteString(")\n")
	}
	b.WriteString(s.caveats(intent))
	return b.String()
}

// RenderError maps a failure to its user-facing markdown. Wording is distinct
// per error class so the reader can tell a bad query from missing data.
func (s *Synthesizer) RenderError(err error) string {
	switch domain.ClassifyError(err) {
	case domain.ErrorSyntax:
		return "## Invalid Query Syntax\n\n" +
			"The question could not be turned into a valid database query. " +
			"Try rephrasing it, for example \"how much did I spend on groceries last month\".\n"
	case domain.ErrorMissingTable:
		return "## Data Unavailable\n\n" +
			"The expense data this question needs is not present in the database. " +
			"Run the import step first, then ask again.\n"
	case domain.ErrorAmbiguous:
		return "## Ambiguous Request\n\n" +
			"The question matches more than one interpretation. " +
			"Please name the category or time range explicitly.\n"
	case domain.ErrorSafety:
		return "## Query Not Permitted\n\n" +
			"The generated query was rejected by the read-only safety policy. " +
			"Only read queries against expense data are allowed.\n"
	case domain.ErrorPlanning:
		return "## Could Not Plan Query\n\n" +
			fmt.Sprintf("%s\n\nA comparison needs a concrete time range, for example \"compare spending last month vs the month before\".\n", err.Error())
	default:
		return "## Something Went Wrong\n\n" +
			"The query could not be completed: " + err.Error() + "\n\n" +
			"Run with --debug for the full diagnostic.\n"
	}
}

func (s *Synthesizer) renderEmpty(intent domain.ParsedIntent) string {
	var b strings.Builder
	b.WriteString("## No Matching Transactions\n\n")
	b.WriteString("Nothing in the expense data matches this question. Suggestions:\n\n")
	b.WriteString("- Broaden the time range (for example \"this year\" instead of \"last week\").\n")
	if len(intent.Filters["category"]) > 0 {
		b.WriteString("- Drop the category filter, or check the category name with `finq synonyms`.\n")
	}
	b.WriteString("- Include transfers and refunds if they were filtered out during import.\n")
	b.WriteString(s.caveats(intent))
	return b.String()
}

// renderCategoryBreakdown produces a ranked list with each category's share
// of the total.
func (s *Synthesizer) renderCategoryBreakdown(result domain.QueryResult) string {
	label := labelColumn(result)
	metric := metricColumn(result, label)

	total := 0.0
	for _, row := range result.Rows {
		if v, ok := numeric(row[metric]); ok {
			total += v
		}
	}

	var b strings.Builder
	b.WriteString("## Spending by Category\n\n")
	b.WriteString(fmt.Sprintf("Total: %s across %d categories.\n\n", s.money(total), result.RowCount))
	for i, row := range result.Rows {
		v, _ := numeric(row[metric])
		pct := 0.0
		if total != 0 {
			pct = v * 100 / total
		}
		b.WriteString(fmt.Sprintf("%d. **%v**: %s (%.1f%%)\n", i+1, row[label], s.money(v), pct))
	}
	return b.String()
}

// renderTimeSeries reports the total, per-period average, and the trend from
// first to last period.
func (s *Synthesizer) renderTimeSeries(result domain.QueryResult) string {
	label := labelColumn(result)
	metric := metricColumn(result, label)

	total := 0.0
	for _, row := range result.Rows {
		if v, ok := numeric(row[metric]); ok {
			total += v
		}
	}
	periods := result.RowCount
	average := total / float64(periods)

	var b strings.Builder
	b.WriteString("## Spending Over Time\n\n")
	b.WriteString(fmt.Sprintf("- Total: %s over %d periods\n", s.money(total), periods))
	b.WriteString(fmt.Sprintf("- Average per period: %s\n", s.money(average)))

	first, firstOK := numeric(result.Rows[0][metric])
	last, lastOK := numeric(result.Rows[periods-1][metric])
	if periods > 1 && firstOK && lastOK {
		b.WriteString(fmt.Sprintf("- Trend: %s (%v: %s, %v: %s)\n",
			trendWord(first, last),
			result.Rows[0][label], s.money(first),
			result.Rows[periods-1][label], s.money(last)))
	}
	return b.String()
}

// renderTopItems ranks rows by the metric using the first non-numeric column
// as the label.
func (s *Synthesizer) renderTopItems(result domain.QueryResult) string {
	label := labelColumn(result)
	metric := metricColumn(result, label)

	var b strings.Builder
	b.WriteString("## Top Spending Items\n\n")
	for i, row := range result.Rows {
		v, _ := numeric(row[metric])
		b.WriteString(fmt.Sprintf("%d. **%v**: %s\n", i+1, row[label], s.money(v)))
	}
	return b.String()
}

// renderComparison reports current vs previous period. A NULL or zero
// previous value renders as missing data rather than a division artifact.
func (s *Synthesizer) renderComparison(result domain.QueryResult) string {
	row := result.Rows[0]
	current, _ := numeric(row["current_value"])
	previous, previousOK := numeric(row["previous_value"])

	var b strings.Builder
	b.WriteString("## Spending Comparison\n\n")
	b.WriteString(fmt.Sprintf("- Current period: %s\n", s.money(current)))

	if !previousOK || previous == 0 {
		b.WriteString("- Previous period: no data\n\n")
		b.WriteString("No previous data available for comparison.\n")
		return b.String()
	}

	difference := current - previous
	pct := difference * 100 / previous
	if v, ok := numeric(row["difference"]); ok {
		difference = v
	}
	if v, ok := numeric(row["pct_change"]); ok {
		pct = v
	}

	b.WriteString(fmt.Sprintf("- Previous period: %s\n", s.money(previous)))
	b.WriteString(fmt.Sprintf("- Difference: %s\n", s.signedMoney(difference)))
	b.WriteString(fmt.Sprintf("- Change: %+.1f%%\n", pct))
	return b.String()
}

// caveats is appended to every successful answer: assumed currency plus the
// effective date window the numbers cover.
func (s *Synthesizer) caveats(intent domain.ParsedIntent) string {
	window := "all available dates"
	if intent.TimeRange.Bounded() {
		window = intent.TimeRange.Start.Format(dateLayout) + " to " + intent.TimeRange.End.Format(dateLayout)
	} else if intent.TimeRange.Start != nil {
		window = "from " + intent.TimeRange.Start.Format(dateLayout)
	} else if intent.TimeRange.End != nil {
		window = "up to " + intent.TimeRange.End.Format(dateLayout)
	}
	return fmt.Sprintf("\n> Amounts in %s. Data covers %s.\n", s.currency, window)
}

func (s *Synthesizer) money(v float64) string {
	return fmt.Sprintf("%.2f %s", v, s.currency)
}

func (s *Synthesizer) signedMoney(v float64) string {
	return fmt.Sprintf("%+.2f %s", v, s.currency)
}

func trendWord(first, last float64) string {
	switch {
	case last > first:
		return "increasing"
	case last < first:
		return "decreasing"
	default:
		return "flat"
	}
}

// labelColumn picks the first column that is not numeric in every row,
// falling back to the first column.
func labelColumn(result domain.QueryResult) string {
	for _, col := range result.Columns {
		numericEverywhere := true
		for _, row := range result.Rows {
			v, present := row[col]
			if !present || v == nil {
				continue
			}
			if _, ok := numeric(v); !ok {
				numericEverywhere = false
				break
			}
		}
		if !numericEverywhere {
			return col
		}
	}
	if len(result.Columns) > 0 {
		return result.Columns[0]
	}
	return ""
}

// metricColumn picks the first numeric column other than the label, falling
// back to any remaining column in stable order.
func metricColumn(result domain.QueryResult, label string) string {
	for _, col := range result.Columns {
		if col == label {
			continue
		}
		for _, row := range result.Rows {
			if _, ok := numeric(row[col]); ok {
				return col
			}
		}
	}
	remaining := append([]string(nil), result.Columns...)
	sort.Strings(remaining)
	for _, col := range remaining {
		if col != label {
			return col
		}
	}
	return label
}

func numeric(v any) (float64, bool) {
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
