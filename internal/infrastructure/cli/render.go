package cli

import (
	"fmt"
	"io"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

// renderAnswer prints the synthesized markdown. In debug mode the raw
// diagnostic and generated SQL are appended.
func renderAnswer(w io.Writer, state domain.PipelineState, debug bool) {
	if state.Answer != nil {
		fmt.Fprintln(w, state.Answer.Markdown)
	}
	if !debug {
		return
	}
	fmt.Fprintf(w, "--- debug ---\nquery_id: %s\n", state.QueryID)
	if state.Plan != nil {
		fmt.Fprintf(w, "sql: %s\nparams: %v\n", state.Plan.Query, state.Plan.Params)
	}
	if state.Err != nil {
		fmt.Fprintf(w, "failed_step: %s\nerror: %v\n", state.FailedStep, state.Err)
	}
}

func renderSchema(w io.Writer, table string, columns []domain.ColumnInfo) {
	fmt.Fprintf(w, "%s:\n", table)
	for _, col := range columns {
		line := fmt.Sprintf("  %-12s %s", col.Name, col.Type)
		if col.NotNull {
			line += " NOT NULL"
		}
		if col.PrimaryKey {
			line += " PRIMARY KEY"
		}
		fmt.Fprintln(w, line)
	}
}

func renderAuditRecords(w io.Writer, records []domain.AuditRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No audit records.")
		return
	}
	for _, record := range records {
		status := "ok"
		if record.Error != "" {
			status = "error: " + record.Error
		}
		fmt.Fprintf(w, "%s  %-20s  %4d rows  %5dms  %s  %s\n",
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.IntentType,
			record.ResultCount,
			record.ExecutionTimeMS,
			status,
			record.Query)
	}
}

func renderDoctorReport(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		marker := "[ok]  "
		switch check.Status {
		case domain.HealthWarn:
			marker = "[warn]"
		case domain.HealthError:
			marker = "[fail]"
		}
		fmt.Fprintf(w, "%s %-14s %s\n", marker, check.Name, check.Details)
	}
	if report.Healthy() {
		fmt.Fprintln(w, "All checks passed.")
	}
}
