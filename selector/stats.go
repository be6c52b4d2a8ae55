package selector

import (
	"fmt"
	"maps"
	"slices"
)

// Stats holds the named counters of one selection.
type Stats map[string]int

// Get returns the counter value; unset counters read as zero.
func (s Stats) Get(name string) int {
	return s[name]
}

// Names returns the counter names in sorted order.
func (s Stats) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// StatsCollector folds the value of a provider into the counter Attribute.
type StatsCollector struct {
	Attribute  string
	Provider   Provider
	Combinator Combinator
}

// ruleEvent describes what one rule contributed.
type ruleEvent struct {
	present bool
	applied int
}

func (c StatsCollector) value(ev ruleEvent) (int, bool) {
	switch c.Provider {
	case ProviderPresence:
		return 1, ev.present
	case ProviderAbsence:
		return 1, !ev.present
	case ProviderAppliedPartsCount:
		return ev.applied, ev.present
	default:
		return 0, false
	}
}

func (c StatsCollector) collect(stats Stats, ev ruleEvent) {
	v, ok := c.value(ev)
	if !ok {
		return
	}
	cur, exists := stats[c.Attribute]
	switch c.Combinator {
	case CombinatorAdd:
		stats[c.Attribute] = cur + v
	case CombinatorSubtract:
		stats[c.Attribute] = cur - v
	case CombinatorSet:
		stats[c.Attribute] = v
	case CombinatorMax:
		if !exists || v > cur {
			stats[c.Attribute] = v
		}
	case CombinatorMin:
		if !exists || v < cur {
			stats[c.Attribute] = v
		}
	}
}

// StatsEvaluator triggers Action when the counter Attribute compares to
// Value. Only ActionReturnNull and ActionFail are meaningful.
type StatsEvaluator struct {
	Attribute  string
	Comparator Comparator
	Value      int
	Action     Action
}

// Triggers reports whether the comparison holds for stats.
func (e StatsEvaluator) Triggers(stats Stats) bool {
	got := stats.Get(e.Attribute)
	switch e.Comparator {
	case ComparatorEqual:
		return got == e.Value
	case ComparatorLess:
		return got < e.Value
	case ComparatorLessOrEqual:
		return got <= e.Value
	case ComparatorGreater:
		return got > e.Value
	case ComparatorGreaterOrEqual:
		return got >= e.Value
	default:
		return false
	}
}

func (e StatsEvaluator) String() string {
	return fmt.Sprintf("%s %s %d -> %s", e.Attribute, e.Comparator, e.Value, e.Action)
}
