// Package services orchestrates the query pipeline end-to-end.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// Stage names recorded on pipeline failure.
const (
	StageParseIntent       = "parse_intent"
	StageResolveCategories = "resolve_categories"
	StagePlanSQL           = "plan_sql"
	StageExecuteQuery      = "execute_query"
	StageGenerateChart     = "generate_chart"
	StageSynthesizeAnswer  = "synthesize_answer"
)

// PipelineService runs one query through parse, resolve, plan, execute,
// chart, and synthesize. Every invocation gets its own PipelineState; once a
// stage fails, the remaining stages are no-ops and the error renderer
// produces the answer.
type PipelineService struct {
	Parser   ports.IntentParser
	Resolver ports.CategoryResolver
	Planner  ports.PlanCompiler
	Runner   ports.QueryRunner
	Selector ports.ChartSelector
	Renderer ports.ChartRenderer
	Answerer ports.AnswerRenderer
	Audit    ports.AuditLogger
	Logger   ports.Logger
	Clock    ports.Clock

	ChartsEnabled bool
}

// Run processes a single natural-language query and always returns a state
// whose Answer is populated. The returned error covers only unsatisfied
// dependencies; query-level failures are rendered into the answer.
func (s *PipelineService) Run(ctx context.Context, query string) (domain.PipelineState, error) {
	if s.Parser == nil || s.Resolver == nil || s.Planner == nil ||
		s.Runner == nil || s.Selector == nil || s.Answerer == nil || s.Logger == nil {
		return domain.PipelineState{}, errors.New("services.PipelineService dependencies not satisfied")
	}
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}

	state := domain.PipelineState{
		QueryID:   uuid.NewString(),
		UserQuery: query,
		StartedAt: clock(),
	}
	s.Logger.Debug("pipeline started", map[string]interface{}{
		"query_id": state.QueryID,
		"query":    query,
	})

	state = s.parseIntent(state)
	state = s.resolveCategories(ctx, state)
	state = s.planSQL(state)
	state = s.executeQuery(ctx, state)
	state = s.generateChart(state)
	state = s.synthesizeAnswer(state)

	s.logAudit(state, clock)
	return state, nil
}

func (s *PipelineService) parseIntent(state domain.PipelineState) domain.PipelineState {
	intent := s.Parser.Parse(state.UserQuery)
	state.Intent = &intent
	return state
}

// resolveCategories swaps each mentioned category for its canonical name
// when the resolver finds a match; unmatched mentions pass through verbatim
// so they still act as literal filters.
func (s *PipelineService) resolveCategories(ctx context.Context, state domain.PipelineState) domain.PipelineState {
	if state.Failed() {
		return state
	}
	mentions := state.Intent.Filters["category"]
	if len(mentions) == 0 {
		return state
	}

	canonical := make([]string, 0, len(mentions))
	for _, mention := range mentions {
		resolved := s.Resolver.Resolve(ctx, mention)
		state.Resolved = append(state.Resolved, resolved)
		if resolved.Matched() {
			canonical = append(canonical, resolved.Canonical)
		} else {
			canonical = append(canonical, mention)
		}
	}

	intent := *state.Intent
	filters := make(map[string][]string, len(intent.Filters))
	for k, v := range intent.Filters {
		filters[k] = v
	}
	filters["category"] = canonical
	intent.Filters = filters
	state.Intent = &intent
	return state
}

func (s *PipelineService) planSQL(state domain.PipelineState) domain.PipelineState {
	if state.Failed() {
		return state
	}
	plan, err := s.Planner.Compile(*state.Intent)
	if err != nil {
		return state.Fail(StagePlanSQL, err)
	}
	state.Plan = &plan
	return state
}

func (s *PipelineService) executeQuery(ctx context.Context, state domain.PipelineState) domain.PipelineState {
	if state.Failed() {
		return state
	}
	result := s.Runner.Execute(ctx, *state.Plan)
	state.Results = &result
	if result.Err != nil {
		return state.Fail(StageExecuteQuery, result.Err)
	}
	return state
}

// generateChart is deliberately non-fatal: a rendering failure is logged and
// the pipeline continues with a text-only answer.
func (s *PipelineService) generateChart(state domain.PipelineState) domain.PipelineState {
	if state.Failed() || !s.ChartsEnabled || s.Renderer == nil {
		return state
	}
	spec := s.Selector.Select(*state.Results, *state.Intent)
	if spec == nil {
		return state
	}
	path, err := s.Renderer.Render(*spec, *state.Results)
	if err != nil {
		s.Logger.Warn("chart rendering failed", map[string]interface{}{
			"query_id": state.QueryID,
			"error":    err.Error(),
		})
		return state
	}
	state.Chart = spec
	state.ChartPath = path
	return state
}

func (s *PipelineService) synthesizeAnswer(state domain.PipelineState) domain.PipelineState {
	var markdown string
	if state.Failed() {
		markdown = s.Answerer.RenderError(state.Err)
	} else {
		markdown = s.Answerer.Synthesize(*state.Results, *state.Intent, state.ChartPath)
	}
	state.Answer = &domain.Answer{Markdown: markdown, ChartPath: state.ChartPath}
	return state
}

// logAudit persists the invocation record. The audit trail is best-effort;
// nothing here can fail the user-facing query.
func (s *PipelineService) logAudit(state domain.PipelineState, clock ports.Clock) {
	if s.Audit == nil {
		return
	}
	record := domain.AuditRecord{
		Timestamp:       state.StartedAt,
		QueryID:         state.QueryID,
		Query:           state.UserQuery,
		ExecutionTimeMS: clock().Sub(state.StartedAt).Milliseconds(),
		ChartPath:       state.ChartPath,
	}
	if state.Intent != nil {
		record.IntentType = string(state.Intent.Type)
	}
	if state.Plan != nil {
		record.SQL = state.Plan.Query
		record.Params = state.Plan.Params
	}
	if state.Results != nil {
		record.ResultCount = state.Results.RowCount
		sample := state.Results.Rows
		if len(sample) > domain.AuditSampleRows {
			sample = sample[:domain.AuditSampleRows]
		}
		record.ResultSample = sample
	}
	if state.Err != nil {
		record.Error = state.Err.Error()
	}
	s.Audit.Log(record)
}
