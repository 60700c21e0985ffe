package domain

import "time"

// Schema constants. Column names are a fixed, trusted constant owned by the
// ETL scripts, never user input. Only identifiers from this set may ever be
// interpolated into query text.
const (
	DefaultTable = "expenses"

	ColumnDate        = "date"
	ColumnCategory    = "category"
	ColumnMerchant    = "merchant"
	ColumnTags        = "tags"
	ColumnAmount      = "amount"
	ColumnDescription = "description"
)

// SchemaColumns lists every column of the fact table.
var SchemaColumns = []string{
	ColumnDate, ColumnCategory, ColumnMerchant,
	ColumnTags, ColumnAmount, ColumnDescription,
}

// Defaults applied when the query or config leaves a value unspecified.
const (
	// DefaultLookbackDays is the silent time-range fallback for queries with
	// no recognizable time phrase.
	DefaultLookbackDays = 30
	// DefaultTopN caps top-items queries that name no count.
	DefaultTopN = 10
	// DefaultCategoryLimit caps category breakdowns.
	DefaultCategoryLimit = 20
	// DefaultSimilarityThreshold is the minimum cosine similarity accepted by
	// the semantic resolution phase.
	DefaultSimilarityThreshold = 0.6
	// DefaultQueryTimeout bounds a single SQL execution.
	DefaultQueryTimeout = 30 * time.Second
	// MaxChartCategories is the most categories worth charting at all;
	// at most MaxPieCategories of them render as a pie.
	MaxChartCategories = 20
	MaxPieCategories   = 10
	// AuditSampleRows limits how many result rows an audit record retains.
	AuditSampleRows = 10
)

// DefaultCurrency is assumed when the config names none.
const DefaultCurrency = "USD"
