package selector

import (
	"strings"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/source"
)

const (
	literalAny    = "*"
	literalNull   = "null"
	negatedPrefix = "not:"
)

type matchKind int

const (
	matchName matchKind = iota
	matchAny
	matchNull
)

// fieldMatcher is one entry of a sub-matcher list: ANY ("*"), a concrete
// name, or null, optionally inverted with the "not:" prefix.
type fieldMatcher struct {
	kind   matchKind
	name   string
	negate bool
}

func parseFieldMatcher(literal string) fieldMatcher {
	m := fieldMatcher{}
	literal = strings.TrimSpace(literal)
	if rest, ok := strings.CutPrefix(literal, negatedPrefix); ok {
		m.negate = true
		literal = strings.TrimSpace(rest)
	}
	switch literal {
	case literalAny:
		m.kind = matchAny
	case literalNull, "":
		m.kind = matchNull
	default:
		m.name = literal
	}
	return m
}

func (m fieldMatcher) match(value string, hierarchical func(value, name string) bool) bool {
	var ok bool
	switch m.kind {
	case matchAny:
		ok = value != ""
	case matchNull:
		ok = value == ""
	default:
		ok = value != "" && hierarchical(value, m.name)
	}
	return ok != m.negate
}

func (m fieldMatcher) String() string {
	var s string
	switch m.kind {
	case matchAny:
		s = literalAny
	case matchNull:
		s = literalNull
	default:
		s = m.name
	}
	if m.negate {
		return negatedPrefix + s
	}
	return s
}

// FieldMatcher is the list of entries matching one source field. An empty
// list matches only an absent field; otherwise any entry must match.
type FieldMatcher []fieldMatcher

// ParseFieldMatcher compiles matcher literals such as "*", "NVD", "null" or
// "not:NVD".
func ParseFieldMatcher(literals ...string) FieldMatcher {
	if len(literals) == 0 {
		return nil
	}
	m := make(FieldMatcher, len(literals))
	for i, literal := range literals {
		m[i] = parseFieldMatcher(literal)
	}
	return m
}

// Match reports whether value satisfies the matcher. hierarchical decides
// whether a concrete name matches a present value.
func (m FieldMatcher) Match(value string, hierarchical func(value, name string) bool) bool {
	if len(m) == 0 {
		return value == ""
	}
	for _, entry := range m {
		if entry.match(value, hierarchical) {
			return true
		}
	}
	return false
}

// Literals returns the matcher in its configuration form.
func (m FieldMatcher) Literals() []string {
	out := make([]string, len(m))
	for i, entry := range m {
		out[i] = entry.String()
	}
	return out
}

// SourceSelectorEntry matches a source when its host, issuer role and issuer
// sub-matchers all match.
type SourceSelectorEntry struct {
	Host       FieldMatcher
	IssuerRole FieldMatcher
	Issuer     FieldMatcher
}

// MatchSource reports whether src satisfies all three sub-matchers. Host and
// issuer names match hierarchically through reg; roles match literally.
func (e SourceSelectorEntry) MatchSource(src cvss.Source, reg *source.Registry) bool {
	return e.Host.Match(src.Host(), reg.Matches) &&
		e.IssuerRole.Match(src.Role(), literalEqual) &&
		e.Issuer.Match(src.Issuer(), reg.Matches)
}

// MatchVector reports whether any source in v's provenance chain satisfies
// the entry. A vector without sources is matched as an all-absent source.
func (e SourceSelectorEntry) MatchVector(v *cvss.Vector, reg *source.Registry) bool {
	srcs := v.Sources()
	if len(srcs) == 0 {
		return e.MatchSource(cvss.Source{}, reg)
	}
	for _, src := range srcs {
		if e.MatchSource(src, reg) {
			return true
		}
	}
	return false
}

// SourceSelector is an ordered, priority-ranked list of entries.
type SourceSelector []SourceSelectorEntry

// Pick returns the first candidate matching the first entry that matches any
// candidate, along with that entry's index. It returns nil and -1 when no
// entry matches.
func (s SourceSelector) Pick(candidates []*cvss.Vector, reg *source.Registry) (*cvss.Vector, int) {
	for i, entry := range s {
		for _, c := range candidates {
			if c != nil && entry.MatchVector(c, reg) {
				return c, i
			}
		}
	}
	return nil, -1
}

func literalEqual(value, name string) bool {
	return value == name
}
