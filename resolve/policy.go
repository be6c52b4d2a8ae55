package resolve

import (
	"fmt"
	"math"
	"strings"
)

// Directive is one step of a version-selection policy.
type Directive int

const (
	// Highest picks the class with the highest integer-truncated overall score.
	Highest Directive = iota + 1
	// Lowest picks the class with the lowest integer-truncated overall score.
	Lowest
	// Latest picks the newest class present.
	Latest
	// Oldest picks the oldest class present.
	Oldest
	PinV2
	PinV3
	PinV4
)

var directiveNames = map[Directive]string{
	Highest: "HIGHEST",
	Lowest:  "LOWEST",
	Latest:  "LATEST",
	Oldest:  "OLDEST",
	PinV2:   "V2",
	PinV3:   "V3",
	PinV4:   "V4",
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(d))
}

// ParseDirective parses a directive literal such as "LATEST" or "V3".
func ParseDirective(s string) (Directive, error) {
	s = strings.TrimSpace(s)
	for d, name := range directiveNames {
		if strings.EqualFold(name, s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// Policy is an ordered list of directives evaluated left to right until one
// yields a version class. An empty policy behaves as [LATEST].
type Policy []Directive

// DefaultPolicy is [LATEST].
func DefaultPolicy() Policy {
	return Policy{Latest}
}

// ParsePolicy parses a comma separated directive list such as "V3,LATEST".
func ParsePolicy(s string) (Policy, error) {
	var p Policy
	for _, literal := range strings.Split(s, ",") {
		if strings.TrimSpace(literal) == "" {
			continue
		}
		d, err := ParseDirective(literal)
		if err != nil {
			return nil, err
		}
		p = append(p, d)
	}
	return p, nil
}

// MustParsePolicy is like ParsePolicy but panics on error.
func MustParsePolicy(s string) Policy {
	p, err := ParsePolicy(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Policy) String() string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// Choose returns the version class selected from present, which maps a class
// (2, 3, 4) to the overall score of that class's vector. It reports false
// when every directive falls through.
func (p Policy) Choose(present map[int]float64) (int, bool) {
	if len(p) == 0 {
		p = DefaultPolicy()
	}
	for _, d := range p {
		if class, ok := d.choose(present); ok {
			return class, true
		}
	}
	return 0, false
}

func (d Directive) choose(present map[int]float64) (int, bool) {
	switch d {
	case PinV2, PinV3, PinV4:
		class := int(d-PinV2) + 2
		_, ok := present[class]
		return class, ok
	case Latest, Oldest:
		best, found := 0, false
		for class := range present {
			if !found || (d == Latest && class > best) || (d == Oldest && class < best) {
				best, found = class, true
			}
		}
		return best, found
	case Highest, Lowest:
		best, bestScore, found := 0, 0.0, false
		for class, score := range present {
			if math.IsNaN(score) {
				continue
			}
			truncated := math.Trunc(score)
			better := !found ||
				(d == Highest && truncated > bestScore) ||
				(d == Lowest && truncated < bestScore) ||
				(truncated == bestScore && class > best)
			if better {
				best, bestScore, found = class, truncated, true
			}
		}
		return best, found
	default:
		return 0, false
	}
}
