package domain

import "time"

// AuditRecord is the structured log entry persisted per query. The audit
// trail is append-only; a failure to persist never fails the user query.
type AuditRecord struct {
	Timestamp       time.Time        `json:"timestamp"`
	QueryID         string           `json:"query_id"`
	Query           string           `json:"query"`
	IntentType      string           `json:"intent_type"`
	SQL             string           `json:"sql"`
	Params          map[string]any   `json:"params"`
	ExecutionTimeMS int64            `json:"execution_time_ms"`
	ResultCount     int              `json:"result_count"`
	ResultSample    []map[string]any `json:"result_sample,omitempty"`
	Error           string           `json:"error,omitempty"`
	ChartPath       string           `json:"chart_path,omitempty"`
}
