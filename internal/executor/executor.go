// Package executor runs compiled SQL plans against the store under the
// safety policy. Execution failures never surface as Go errors to the
// pipeline; they travel inside the QueryResult so downstream stages can
// render them.
package executor

import (
	"context"
	"time"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// Executor gates every statement through the policy before it reaches the
// store and bounds each call with the configured timeout.
type Executor struct {
	store   ports.Store
	policy  ports.SafetyPolicy
	logger  ports.Logger
	timeout time.Duration
}

// New wires an executor. A non-positive timeout falls back to the default.
func New(store ports.Store, policy ports.SafetyPolicy, logger ports.Logger, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = domain.DefaultQueryTimeout
	}
	return &Executor{store: store, policy: policy, logger: logger, timeout: timeout}
}

// Execute runs the plan and always returns a result; a policy violation or
// store failure lands in Result.Err with zero rows.
func (e *Executor) Execute(ctx context.Context, plan domain.SQLPlan) domain.QueryResult {
	if err := e.policy.Check(plan.Query); err != nil {
		e.logger.Warn("query rejected by safety policy", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.QueryResult{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	rows, columns, err := e.store.Execute(ctx, plan.Query, plan.Params)
	if err != nil {
		e.logger.Error("query execution failed", err, map[string]interface{}{
			"elapsed_ms": time.Since(started).Milliseconds(),
		})
		return domain.QueryResult{Err: err}
	}

	e.logger.Debug("query executed", map[string]interface{}{
		"rows":       len(rows),
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return domain.QueryResult{Rows: rows, Columns: columns, RowCount: len(rows)}
}

// Tables lists the store's tables for introspection commands.
func (e *Executor) Tables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.ListTables(ctx)
}

// Schema describes one table. The name is validated before it can reach any
// query text.
func (e *Executor) Schema(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.store.TableInfo(ctx, table)
}
