package cvssel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates the engine configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCandidate indicates a candidate's header or vector could not be parsed.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrNoCandidates indicates a finding carried no usable candidate.
	ErrNoCandidates = errors.New("no candidates")

	// ErrNoFindings indicates a findings document listed no findings.
	ErrNoFindings = errors.New("no findings")

	// ErrEvaluationFailed indicates a selector aborted with a FAIL action.
	ErrEvaluationFailed = errors.New("evaluation failed")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindEvaluation represents selectors aborting a selection.
	KindEvaluation = "evaluation"

	// KindNotFound represents findings without any usable candidate.
	KindNotFound = "not_found"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// the operation that failed and the category of error.
//
// Error supports unwrapping, so package sentinels such as
// selector.ErrEvaluationFailed remain reachable through errors.Is().
//
// Example usage:
//
//	err := &Error{
//		Op:   "Engine.Assess",
//		Kind: KindValidation,
//		Err:  ErrInvalidCandidate,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Assess", "Engine.Score").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional),
	// such as the finding id or the offending candidate index.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cvssel: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("cvssel: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("cvssel: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op when the target sets one), and
// otherwise delegates to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

func newError(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. If logger is nil, slog.Default() is used.
//
//	defer cvssel.CloseWithLog(file, logger, "candidate file")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
