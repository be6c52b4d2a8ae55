package selector

import (
	"errors"
	"fmt"
)

// Sentinel errors for selector configuration and evaluation.
var (
	// ErrInvalidConfig indicates a selector document is malformed.
	ErrInvalidConfig = errors.New("invalid selector configuration")

	// ErrEvaluationFailed indicates a FAIL action aborted a selection.
	ErrEvaluationFailed = errors.New("selector evaluation failed")
)

// EvaluationError describes which evaluator aborted a selection.
// Rule is the zero-based rule index, or -1 for selector-level evaluators.
type EvaluationError struct {
	Selector string
	Rule     int
	Stage    string
	Reason   string
}

func (e *EvaluationError) Error() string {
	where := "selector"
	if e.Rule >= 0 {
		where = fmt.Sprintf("rule %d", e.Rule)
	}
	if e.Selector != "" {
		where = e.Selector + " " + where
	}
	return fmt.Sprintf("%v: %s %s: %s", ErrEvaluationFailed, where, e.Stage, e.Reason)
}

// Unwrap returns ErrEvaluationFailed so callers can use errors.Is.
func (e *EvaluationError) Unwrap() error {
	return ErrEvaluationFailed
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
