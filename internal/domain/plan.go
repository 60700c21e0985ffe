package domain

// ResolvedCategory is the outcome of mapping a free-text category mention to a
// canonical category. Canonical is empty iff no exact or synonym match was
// found and semantic similarity stayed below the resolver threshold, in which
// case Score is 0.
type ResolvedCategory struct {
	Original  string
	Canonical string
	Score     float64
}

// Matched reports whether the mention resolved to a canonical category.
func (r ResolvedCategory) Matched() bool {
	return r.Canonical != ""
}

// SQLPlan is a parameterized query: text containing only named placeholders,
// plus the values bound to them. No user-supplied string is ever concatenated
// into Query.
type SQLPlan struct {
	Query  string
	Params map[string]any
}

// QueryResult holds the rows from one execution attempt. It is constructed
// once and never mutated afterwards. Execution failures are captured in Err
// rather than raised across the executor boundary.
type QueryResult struct {
	Rows     []map[string]any
	Columns  []string
	RowCount int
	Err      error
}

// Empty reports whether the execution succeeded but matched nothing.
func (r QueryResult) Empty() bool {
	return r.Err == nil && r.RowCount == 0
}

// ColumnInfo describes one column of an introspected table.
type ColumnInfo struct {
	CID          int
	Name         string
	Type         string
	NotNull      bool
	DefaultValue any
	PrimaryKey   bool
}
