package selector

import (
	"strings"

	"github.com/zero-day-ai/cvssel/cvss"
)

// Condition is a predicate, optionally inverted.
type Condition struct {
	Predicate Predicate
	Negate    bool
}

// ParseCondition parses "IS_NULL" or "not:IS_NULL".
func ParseCondition(literal string) (Condition, error) {
	c := Condition{}
	literal = strings.TrimSpace(literal)
	if rest, ok := strings.CutPrefix(literal, negatedPrefix); ok {
		c.Negate = true
		literal = rest
	}
	p, err := ParsePredicate(literal)
	if err != nil {
		return Condition{}, err
	}
	c.Predicate = p
	return c, nil
}

// Holds evaluates the condition against v, which may be nil.
func (c Condition) Holds(v *cvss.Vector) bool {
	return c.Predicate.Eval(v) != c.Negate
}

func (c Condition) String() string {
	if c.Negate {
		return negatedPrefix + c.Predicate.String()
	}
	return c.Predicate.String()
}

// Eval evaluates the predicate. A nil vector is null, has no base metrics and
// defines nothing.
func (p Predicate) Eval(v *cvss.Vector) bool {
	if v == nil {
		return p == PredicateIsNull || p == PredicateIsBaseNotDefined
	}
	switch p {
	case PredicateIsBaseFullyDefined:
		return v.IsBaseFullyDefined()
	case PredicateIsBasePartiallyDefined:
		return v.IsBasePartiallyDefined()
	case PredicateIsBaseNotDefined:
		return !v.IsBasePartiallyDefined()
	case PredicateIsTemporalPartiallyDefined:
		return v.IsTemporalPartiallyDefined()
	case PredicateIsEnvironmentalPartiallyDefined:
		return v.IsEnvironmentalPartiallyDefined()
	default:
		return false
	}
}

// VectorEvaluator pairs AND-combined conditions with an action. An evaluator
// without conditions always triggers.
type VectorEvaluator struct {
	Conditions []Condition
	Action     Action
}

// Triggers reports whether every condition holds for v.
func (e VectorEvaluator) Triggers(v *cvss.Vector) bool {
	for _, c := range e.Conditions {
		if !c.Holds(v) {
			return false
		}
	}
	return true
}

func (e VectorEvaluator) String() string {
	parts := make([]string, len(e.Conditions))
	for i, c := range e.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ") + " -> " + e.Action.String()
}

// firstTriggered returns the first evaluator in evals that triggers for v.
func firstTriggered(evals []VectorEvaluator, v *cvss.Vector) (VectorEvaluator, bool) {
	for _, e := range evals {
		if e.Triggers(v) {
			return e, true
		}
	}
	return VectorEvaluator{}, false
}
