// Package ports defines the interfaces between the pipeline core and its
// external collaborators (storage, embeddings, audit trail, chart rendering).
// Adapters live in the infrastructure layer; the application depends only on
// these abstractions so tests can substitute fakes per invocation.
package ports

import (
	"context"
	"time"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Store is the read-only storage connector. Execute binds every parameter by
// name; implementations must draw a dedicated connection per call so
// concurrent invocations never share a mutable handle.
type Store interface {
	Execute(ctx context.Context, query string, params map[string]any) (rows []map[string]any, columns []string, err error)
	ListTables(ctx context.Context) ([]string, error)
	TableInfo(ctx context.Context, table string) ([]domain.ColumnInfo, error)
	Close() error
}

// Embedder generates vector embeddings for category text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// HealthChecker is optionally implemented by embedders that can verify their
// backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CategoryResolver maps free-text category mentions to canonical categories.
// Resolve never fails: "no match" is a representable outcome, not an error.
type CategoryResolver interface {
	Resolve(ctx context.Context, text string) domain.ResolvedCategory
	AddSynonym(ctx context.Context, canonical, synonym string) error
	Categories() []string
}

// IntentParser extracts structured intent from free text. It never fails; an
// unrecognized query produces a best-effort default intent.
type IntentParser interface {
	Parse(text string) domain.ParsedIntent
}

// PlanCompiler turns a parsed intent into a parameterized SQL plan.
type PlanCompiler interface {
	Compile(intent domain.ParsedIntent) (domain.SQLPlan, error)
}

// QueryRunner executes a plan under the safety policy. Failures land inside
// the result, never as a returned error.
type QueryRunner interface {
	Execute(ctx context.Context, plan domain.SQLPlan) domain.QueryResult
}

// ChartSelector decides whether and how to visualize a result. A nil spec
// means abstain.
type ChartSelector interface {
	Select(result domain.QueryResult, intent domain.ParsedIntent) *domain.ChartSpec
}

// AnswerRenderer formats results and failures as user-facing markdown.
type AnswerRenderer interface {
	Synthesize(result domain.QueryResult, intent domain.ParsedIntent, chartPath string) string
	RenderError(err error) string
}

// SafetyPolicy decides whether generated SQL may reach the store. Check
// returns a *domain.SafetyError describing the first violation, or nil when
// the statement is acceptable.
type SafetyPolicy interface {
	Check(query string) error
}

// AuditLogger persists one structured record per query and returns an opaque
// id. Implementations must never propagate failures to the caller.
type AuditLogger interface {
	Log(record domain.AuditRecord) string
	Recent(limit int) ([]domain.AuditRecord, error)
}

// ChartRenderer draws a chart to an image file and returns its path. Failures
// are non-fatal to the pipeline.
type ChartRenderer interface {
	Render(spec domain.ChartSpec, result domain.QueryResult) (string, error)
}

// Logger provides structured logging for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

// Clock abstracts the process clock so tests can pin "now".
type Clock func() time.Time
