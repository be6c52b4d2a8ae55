package selector

import (
	"fmt"
	"strings"
)

// MergingMethod decides how a rule's candidate is merged into the running result.
type MergingMethod int

const (
	MethodAll MergingMethod = iota + 1
	MethodLower
	MethodHigher
	MethodLowerMetric
	MethodHigherMetric
	MethodOverwrite
)

var methodNames = map[MergingMethod]string{
	MethodAll:          "ALL",
	MethodLower:        "LOWER",
	MethodHigher:       "HIGHER",
	MethodLowerMetric:  "LOWER_METRIC",
	MethodHigherMetric: "HIGHER_METRIC",
	MethodOverwrite:    "OVERWRITE",
}

func (m MergingMethod) String() string { return nameOf(methodNames, m) }

// ParseMergingMethod parses a merging method literal such as "LOWER".
func ParseMergingMethod(s string) (MergingMethod, error) {
	return parseName("merging method", s, methodNames)
}

// Predicate is a boolean test over a (possibly absent) vector.
type Predicate int

const (
	PredicateIsNull Predicate = iota + 1
	PredicateIsBaseFullyDefined
	PredicateIsBasePartiallyDefined
	PredicateIsBaseNotDefined
	PredicateIsTemporalPartiallyDefined
	PredicateIsEnvironmentalPartiallyDefined
)

var predicateNames = map[Predicate]string{
	PredicateIsNull:                          "IS_NULL",
	PredicateIsBaseFullyDefined:              "IS_BASE_FULLY_DEFINED",
	PredicateIsBasePartiallyDefined:          "IS_BASE_PARTIALLY_DEFINED",
	PredicateIsBaseNotDefined:                "IS_BASE_NOT_DEFINED",
	PredicateIsTemporalPartiallyDefined:      "IS_TEMPORAL_PARTIALLY_DEFINED",
	PredicateIsEnvironmentalPartiallyDefined: "IS_ENVIRONMENTAL_PARTIALLY_DEFINED",
}

func (p Predicate) String() string { return nameOf(predicateNames, p) }

// ParsePredicate parses a predicate literal such as "IS_NULL".
func ParsePredicate(s string) (Predicate, error) {
	return parseName("predicate", s, predicateNames)
}

// Action is the control-flow outcome of a satisfied evaluator.
type Action int

const (
	// ActionFail aborts the selection with an *EvaluationError.
	ActionFail Action = iota + 1
	// ActionReturnNull ends the selection with no vector.
	ActionReturnNull
	// ActionSkip discards the rule's candidate.
	ActionSkip
	// ActionReturnPrevious ends the selection with the result so far.
	ActionReturnPrevious
)

var actionNames = map[Action]string{
	ActionFail:           "FAIL",
	ActionReturnNull:     "RETURN_NULL",
	ActionSkip:           "SKIP",
	ActionReturnPrevious: "RETURN_PREVIOUS",
}

func (a Action) String() string { return nameOf(actionNames, a) }

// ParseAction parses an action literal such as "SKIP".
func ParseAction(s string) (Action, error) {
	return parseName("action", s, actionNames)
}

// Provider names the event a stats collector reacts to.
type Provider int

const (
	// ProviderPresence yields 1 when the rule contributed a candidate.
	ProviderPresence Provider = iota + 1
	// ProviderAbsence yields 1 when the rule found no usable candidate.
	ProviderAbsence
	// ProviderAppliedPartsCount yields the number of attributes the rule changed.
	ProviderAppliedPartsCount
)

var providerNames = map[Provider]string{
	ProviderPresence:          "PRESENCE",
	ProviderAbsence:           "ABSENCE",
	ProviderAppliedPartsCount: "APPLIED_PARTS_COUNT",
}

func (p Provider) String() string { return nameOf(providerNames, p) }

// ParseProvider parses a provider literal such as "PRESENCE".
func ParseProvider(s string) (Provider, error) {
	return parseName("provider", s, providerNames)
}

// Combinator folds a provider value into a named counter.
type Combinator int

const (
	CombinatorAdd Combinator = iota + 1
	CombinatorSubtract
	CombinatorSet
	CombinatorMax
	CombinatorMin
)

var combinatorNames = map[Combinator]string{
	CombinatorAdd:      "ADD",
	CombinatorSubtract: "SUBTRACT",
	CombinatorSet:      "SET",
	CombinatorMax:      "MAX",
	CombinatorMin:      "MIN",
}

func (c Combinator) String() string { return nameOf(combinatorNames, c) }

// ParseCombinator parses a combinator literal such as "ADD".
func ParseCombinator(s string) (Combinator, error) {
	return parseName("combinator", s, combinatorNames)
}

// Comparator compares a counter against a threshold.
type Comparator int

const (
	ComparatorEqual Comparator = iota + 1
	ComparatorLess
	ComparatorLessOrEqual
	ComparatorGreater
	ComparatorGreaterOrEqual
)

var comparatorNames = map[Comparator]string{
	ComparatorEqual:          "EQUAL",
	ComparatorLess:           "LESS",
	ComparatorLessOrEqual:    "LESS_OR_EQUAL",
	ComparatorGreater:        "GREATER",
	ComparatorGreaterOrEqual: "GREATER_OR_EQUAL",
}

func (c Comparator) String() string { return nameOf(comparatorNames, c) }

// ParseComparator parses a comparator literal such as "LESS_OR_EQUAL".
func ParseComparator(s string) (Comparator, error) {
	return parseName("comparator", s, comparatorNames)
}

type enum interface{ ~int }

func nameOf[T enum](names map[T]string, value T) string {
	if name, ok := names[value]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(value))
}

func parseName[T enum](kind, s string, names map[T]string) (T, error) {
	s = strings.TrimSpace(s)
	for value, name := range names {
		if strings.EqualFold(name, s) {
			return value, nil
		}
	}
	var zero T
	return zero, configError("unknown %s %q", kind, s)
}
