package severity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zero-day-ai/cvssel/cvss"
)

// ErrInvalidRange indicates a range literal could not be parsed.
var ErrInvalidRange = errors.New("invalid severity range")

// Range is a named score interval. Both bounds are inclusive; an infinite
// bound leaves that side open.
type Range struct {
	Name    string  `json:"name"`
	Color   string  `json:"color,omitempty"`
	Floor   float64 `json:"-"`
	Ceiling float64 `json:"-"`
}

// Undefined is the range reported for scores no range contains.
var Undefined = Range{Name: "Undefined", Color: "#9e9e9e", Floor: math.NaN(), Ceiling: math.NaN()}

// NewRange builds a range, rejecting an empty name and inverted bounds.
func NewRange(name, color string, floor, ceiling float64) (Range, error) {
	if name == "" {
		return Range{}, fmt.Errorf("%w: missing name", ErrInvalidRange)
	}
	if math.IsNaN(floor) || math.IsNaN(ceiling) || floor > ceiling {
		return Range{}, fmt.Errorf("%w: %s bounds [%v, %v]", ErrInvalidRange, name, floor, ceiling)
	}
	return Range{Name: name, Color: color, Floor: floor, Ceiling: ceiling}, nil
}

// Contains reports whether score lies within the range.
func (r Range) Contains(score float64) bool {
	if math.IsNaN(score) {
		return false
	}
	return score >= r.Floor && score <= r.Ceiling
}

// IsUndefined reports whether r is the reserved Undefined range.
func (r Range) IsUndefined() bool {
	return r.Name == Undefined.Name && math.IsNaN(r.Floor)
}

// String renders the range as "name:color:floor:ceiling", leaving open bounds empty.
func (r Range) String() string {
	return strings.Join([]string{r.Name, r.Color, formatBound(r.Floor), formatBound(r.Ceiling)}, ":")
}

func formatBound(b float64) string {
	if math.IsInf(b, 0) || math.IsNaN(b) {
		return ""
	}
	return strconv.FormatFloat(b, 'f', -1, 64)
}

// ParseRange parses "name:color:floor:ceiling". An empty floor or ceiling is
// unbounded on that side.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return Range{}, fmt.Errorf("%w: %q: want name:color:floor:ceiling", ErrInvalidRange, s)
	}

	floor, err := parseBound(parts[2], math.Inf(-1))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: floor: %v", ErrInvalidRange, s, err)
	}
	ceiling, err := parseBound(parts[3], math.Inf(1))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: ceiling: %v", ErrInvalidRange, s, err)
	}
	return NewRange(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), floor, ceiling)
}

func parseBound(s string, open float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return open, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Table is an ordered list of ranges; the first match wins.
type Table []Range

// Classify returns the first range containing score, or Undefined.
func (t Table) Classify(score float64) Range {
	for _, r := range t {
		if r.Contains(score) {
			return r
		}
	}
	return Undefined
}

// Lookup returns the range with the given name.
func (t Table) Lookup(name string) (Range, bool) {
	for _, r := range t {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Range{}, false
}

func (t Table) String() string {
	parts := make([]string, len(t))
	for i, r := range t {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// ParseTable parses a comma separated list of range literals.
func ParseTable(s string) (Table, error) {
	var t Table
	for _, literal := range strings.Split(s, ",") {
		if strings.TrimSpace(literal) == "" {
			continue
		}
		r, err := ParseRange(literal)
		if err != nil {
			return nil, err
		}
		t = append(t, r)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidRange)
	}
	return t, nil
}

// Qualitative severity ratings published with CVSS v2 (NVD) and v3/v4.
var (
	V2 = Table{
		{Name: "Low", Color: "#4caf50", Floor: 0.0, Ceiling: 3.9},
		{Name: "Medium", Color: "#ff9800", Floor: 4.0, Ceiling: 6.9},
		{Name: "High", Color: "#f44336", Floor: 7.0, Ceiling: 10.0},
	}

	V3 = Table{
		{Name: "None", Color: "#9e9e9e", Floor: 0.0, Ceiling: 0.0},
		{Name: "Low", Color: "#4caf50", Floor: 0.1, Ceiling: 3.9},
		{Name: "Medium", Color: "#ff9800", Floor: 4.0, Ceiling: 6.9},
		{Name: "High", Color: "#f44336", Floor: 7.0, Ceiling: 8.9},
		{Name: "Critical", Color: "#b71c1c", Floor: 9.0, Ceiling: 10.0},
	}
)

// ForVersion returns the published rating table for a vector version.
func ForVersion(v cvss.Version) Table {
	if v == cvss.Version2 {
		return V2
	}
	return V3
}
