package domain

import "time"

// PipelineState is the single record threaded through the orchestrator stages.
// Each stage receives a state and returns an updated copy; once Err is set,
// every later stage is a no-op except the error-rendering step. A state lives
// for exactly one invocation and is never persisted.
type PipelineState struct {
	QueryID   string
	UserQuery string
	StartedAt time.Time

	Intent     *ParsedIntent
	Resolved   []ResolvedCategory
	Plan       *SQLPlan
	Results    *QueryResult
	Chart      *ChartSpec
	ChartPath  string
	Answer     *Answer
	Err        error
	FailedStep string
}

// Failed reports whether a stage has recorded a terminal error.
func (s PipelineState) Failed() bool {
	return s.Err != nil
}

// Fail returns a copy of the state with the error slot populated. The first
// failure wins; later calls keep the original error.
func (s PipelineState) Fail(step string, err error) PipelineState {
	if s.Err != nil {
		return s
	}
	s.Err = err
	s.FailedStep = step
	return s
}
