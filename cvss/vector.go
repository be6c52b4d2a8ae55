package cvss

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// Vector is a structured severity assessment for one CVSS version.
//
// A vector holds the version's attributes, an ordered provenance chain of
// sources (first = initial, last = latest) and an opaque applicability
// condition owned by callers. Mutation happens only through the apply
// operations, each of which completes the vector and clears its memoized
// score snapshot.
type Vector struct {
	schema    *schema
	values    map[string]string
	sources   []Source
	condition map[string]string

	// baked memoizes the snapshot for the current attributes; cleared on mutation.
	baked *Baked
}

// New returns an empty, completed vector of the given version.
// It returns nil if the version is not supported.
func New(version Version) *Vector {
	s := schemaFor(version)
	if s == nil {
		return nil
	}
	v := &Vector{
		schema: s,
		values: make(map[string]string, len(s.metrics)),
	}
	v.complete()
	return v
}

// ParseStrict parses text and fails unless every token is a recognized
// attribute with a valid value for the detected version.
func ParseStrict(text string) (*Vector, error) {
	version, rest, err := splitPrefix(text)
	if err != nil {
		return nil, err
	}
	v := New(version)
	_, rejected := v.applyTokens(rest)
	if len(rejected) > 0 {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnrecognizedToken, version.Prefix(), strings.Join(rejected, ", "))
	}
	return v, nil
}

// ParseTolerant parses text, skipping tokens that are not recognized for the
// detected version. Every skipped token is logged. It returns nil only when
// the version prefix itself is unknown.
func ParseTolerant(text string) *Vector {
	version, rest, err := splitPrefix(text)
	if err != nil {
		logger().Warn("skipping vector with unknown version", "vector", text, "error", err)
		return nil
	}
	v := New(version)
	_, rejected := v.applyTokens(rest)
	for _, token := range rejected {
		logger().Warn("skipping unrecognized vector token",
			"version", version.String(),
			"token", token,
			"vector", text)
	}
	return v
}

// MustParse is like ParseStrict but panics on error.
func MustParse(text string) *Vector {
	v, err := ParseStrict(text)
	if err != nil {
		panic(err)
	}
	return v
}

// logger returns the package logger.
func logger() *slog.Logger {
	return slog.Default().With("component", "cvss")
}

// ApplyVector applies the KEY:VALUE tokens of text onto v. A leading version
// prefix is ignored. Unrecognized tokens are skipped. Returns the number of
// tokens applied.
func (v *Vector) ApplyVector(text string) int {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, prefixPrefix) {
		_, text, _ = strings.Cut(text, "/")
	}
	applied, _ := v.applyTokens(text)
	return applied
}

// Apply sets a single attribute. It returns false if the attribute or value is
// not valid for the vector's version.
func (v *Vector) Apply(code, value string) bool {
	m := v.schema.lookup(code)
	if m == nil || !m.accepts(value) {
		return false
	}
	v.values[code] = value
	v.complete()
	return true
}

func (v *Vector) applyTokens(text string) (int, []string) {
	var (
		applied  int
		rejected []string
	)
	for _, token := range strings.Split(text, "/") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		code, value, ok := strings.Cut(token, ":")
		m := v.schema.lookup(code)
		if !ok || m == nil || !m.accepts(value) {
			rejected = append(rejected, token)
			continue
		}
		v.values[code] = value
		applied++
	}
	v.complete()
	return applied, rejected
}

// complete enforces the version defaults: every unset optional metric gets its
// explicit "not defined" marker. It also drops the memoized snapshot.
func (v *Vector) complete() {
	for _, m := range v.schema.metrics {
		if m.undefined != "" && v.values[m.code] == "" {
			v.values[m.code] = m.undefined
		}
	}
	v.baked = nil
}

// Version returns the vector's version.
func (v *Vector) Version() Version {
	return v.schema.version
}

// Get returns the value of an attribute, or "" when unset or unknown.
func (v *Vector) Get(code string) string {
	return v.values[code]
}

// IsDefined reports whether the attribute holds a value other than the not
// defined marker.
func (v *Vector) IsDefined(code string) bool {
	m := v.schema.lookup(code)
	return m != nil && m.defined(v.values[code])
}

// Attributes returns the defined attributes in declared order as KEY:VALUE tokens.
func (v *Vector) Attributes() []string {
	tokens := make([]string, 0, len(v.schema.metrics))
	for _, m := range v.schema.metrics {
		if value := v.values[m.code]; m.defined(value) {
			tokens = append(tokens, m.code+":"+value)
		}
	}
	return tokens
}

// String returns the canonical encoding: the version prefix followed by the
// defined attributes in declared order.
func (v *Vector) String() string {
	return v.encode(func(*metric) bool { return true })
}

func (v *Vector) encode(include func(*metric) bool) string {
	var b strings.Builder
	b.WriteString(v.schema.version.Prefix())
	for _, m := range v.schema.metrics {
		value := v.values[m.code]
		if !m.defined(value) || !include(m) {
			continue
		}
		b.WriteByte('/')
		b.WriteString(m.code)
		b.WriteByte(':')
		b.WriteString(value)
	}
	return b.String()
}

// Equal reports whether v and other have the same version and the same
// defined attributes. Sources and conditions are not compared.
func (v *Vector) Equal(other *Vector) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.schema.version == other.schema.version && v.String() == other.String()
}

// Clone returns a deep copy of v, independent thereafter.
func (v *Vector) Clone() *Vector {
	if v == nil {
		return nil
	}
	c := &Vector{
		schema: v.schema,
		values: maps.Clone(v.values),
		baked:  v.baked,
	}
	if len(v.sources) > 0 {
		c.sources = append([]Source(nil), v.sources...)
	}
	if v.condition != nil {
		c.condition = maps.Clone(v.condition)
	}
	return c
}

// Sources returns the provenance chain, initial source first.
func (v *Vector) Sources() []Source {
	return append([]Source(nil), v.sources...)
}

// InitialSource returns the first source of the chain.
func (v *Vector) InitialSource() (Source, bool) {
	if len(v.sources) == 0 {
		return Source{}, false
	}
	return v.sources[0], true
}

// LatestSource returns the last source of the chain.
func (v *Vector) LatestSource() (Source, bool) {
	if len(v.sources) == 0 {
		return Source{}, false
	}
	return v.sources[len(v.sources)-1], true
}

// AddSource appends src to the provenance chain. A source declared for
// another version class is rejected.
func (v *Vector) AddSource(src Source) error {
	if !src.Version().SameClass(v.Version()) {
		return fmt.Errorf("%w: source %s declared for %s, vector is %s",
			ErrVersionMismatch, src.Host(), src.Version(), v.Version())
	}
	v.sources = append(v.sources, src)
	return nil
}

// WithSource appends src and returns v, panicking on a version mismatch.
// Intended for tests and static fixtures.
func (v *Vector) WithSource(src Source) *Vector {
	if err := v.AddSource(src); err != nil {
		panic(err)
	}
	return v
}

// Condition returns a copy of the applicability condition.
func (v *Vector) Condition() map[string]string {
	return maps.Clone(v.condition)
}

// SetCondition replaces the applicability condition.
func (v *Vector) SetCondition(condition map[string]string) {
	v.condition = maps.Clone(condition)
}

// MarshalText encodes the vector canonically.
func (v *Vector) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses text strictly into v. Sources and condition are reset.
func (v *Vector) UnmarshalText(text []byte) error {
	parsed, err := ParseStrict(string(text))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// IsBaseFullyDefined reports whether every base metric is set.
func (v *Vector) IsBaseFullyDefined() bool {
	defined, total := v.countGroup(groupBase)
	return defined == total
}

// IsBasePartiallyDefined reports whether at least one base metric is set.
func (v *Vector) IsBasePartiallyDefined() bool {
	defined, _ := v.countGroup(groupBase)
	return defined > 0
}

// IsTemporalPartiallyDefined reports whether any temporal (4.0: threat)
// metric is defined.
func (v *Vector) IsTemporalPartiallyDefined() bool {
	defined, _ := v.countGroup(groupTemporal)
	return defined > 0
}

// IsEnvironmentalPartiallyDefined reports whether any environmental metric is defined.
func (v *Vector) IsEnvironmentalPartiallyDefined() bool {
	defined, _ := v.countGroup(groupEnvironmental)
	return defined > 0
}

func (v *Vector) countGroup(g group) (defined, total int) {
	for _, m := range v.schema.metrics {
		if m.group != g {
			continue
		}
		total++
		if m.defined(v.values[m.code]) {
			defined++
		}
	}
	return defined, total
}
