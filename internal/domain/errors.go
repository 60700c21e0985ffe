package domain

import (
	"errors"
	"fmt"
	"strings"
)

// PlanningError reports a structurally invalid intent reaching the SQL
// compiler, e.g. a comparison without resolvable time bounds. It short-circuits
// the pipeline.
type PlanningError struct {
	Reason string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning: %s", e.Reason)
}

// SafetyError reports a query rejected by the safety policy before it reached
// the storage engine. Always fatal to the invocation.
type SafetyError struct {
	Reason string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("query safety: %s", e.Reason)
}

// ErrorKind classifies failures for user-facing rendering.
type ErrorKind string

const (
	ErrorSyntax       ErrorKind = "syntax"
	ErrorMissingTable ErrorKind = "missing_table"
	ErrorAmbiguous    ErrorKind = "ambiguous"
	ErrorSafety       ErrorKind = "safety"
	ErrorPlanning     ErrorKind = "planning"
	ErrorGeneric      ErrorKind = "generic"
)

// ClassifyError maps an error to the rendering category used by the answer
// synthesizer. Classification is by type first, message substring second
// (the storage engine only exposes message text for SQL-level failures).
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorGeneric
	}
	var safetyErr *SafetyError
	if errors.As(err, &safetyErr) {
		return ErrorSafety
	}
	var planErr *PlanningError
	if errors.As(err, &planErr) {
		return ErrorPlanning
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "syntax error"):
		return ErrorSyntax
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return ErrorMissingTable
	case strings.Contains(msg, "ambiguous"):
		return ErrorAmbiguous
	default:
		return ErrorGeneric
	}
}
