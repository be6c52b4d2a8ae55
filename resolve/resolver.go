package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/selector"
	"github.com/zero-day-ai/cvssel/severity"
)

// Role names the two selectors run per finding.
type Role string

const (
	RoleBase      Role = "base"
	RoleEffective Role = "effective"
)

// Resolver runs the base and effective selectors per version class and picks
// one class per role with its policy. It is safe for concurrent use.
type Resolver struct {
	base      *selector.Selector
	effective *selector.Selector
	policy    Policy
	cache     *cvss.Cache
	tables    func(cvss.Version) severity.Table
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPolicy sets the version-selection policy. Defaults to [LATEST].
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// WithCache sets the score cache used for chosen vectors.
// If not provided, cvss.Default() is used.
func WithCache(cache *cvss.Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithSeverityTable classifies every effective score with table instead of
// the published per-version ratings.
func WithSeverityTable(table severity.Table) Option {
	return func(r *Resolver) {
		r.tables = func(cvss.Version) severity.Table { return table }
	}
}

// WithLogger sets the logger for policy diagnostics.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver from the base and effective selectors.
func New(base, effective *selector.Selector, opts ...Option) *Resolver {
	r := &Resolver{
		base:      base,
		effective: effective,
		policy:    DefaultPolicy(),
		tables:    severity.ForVersion,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cvss.Default()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Policy returns the version-selection policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Choice is the vector chosen for one role.
type Choice struct {
	Vector  *cvss.Vector
	Version cvss.Version
	Scores  cvss.Baked
}

// Found reports whether a vector was chosen.
func (c Choice) Found() bool { return c.Vector != nil }

// Resolution is the outcome for one finding.
type Resolution struct {
	ID uuid.UUID

	// Selected holds the selector result per role and version class.
	Selected map[Role]map[int]*cvss.Vector

	Base      Choice
	Effective Choice

	// Severity classifies the effective overall score.
	Severity severity.Range
}

// Resolve selects the base and effective vectors for one finding's
// candidates. A FAIL action in either selector aborts with its error.
func (r *Resolver) Resolve(ctx context.Context, candidates []*cvss.Vector) (*Resolution, error) {
	groups := groupByClass(candidates)
	if len(groups) == 0 {
		return nil, ErrNoCandidates
	}

	res := &Resolution{
		ID:       uuid.New(),
		Selected: make(map[Role]map[int]*cvss.Vector, 2),
		Severity: severity.Undefined,
	}

	roles := []struct {
		role Role
		sel  *selector.Selector
		into *Choice
	}{
		{RoleBase, r.base, &res.Base},
		{RoleEffective, r.effective, &res.Effective},
	}

	for _, rs := range roles {
		perClass := make(map[int]*cvss.Vector, len(groups))
		for _, class := range sortedClasses(groups) {
			if rs.sel == nil {
				continue
			}
			v, err := rs.sel.Select(ctx, groups[class])
			if err != nil {
				return nil, fmt.Errorf("%s selector, version class %d: %w", rs.role, class, err)
			}
			if v != nil {
				perClass[class] = v
			}
		}
		res.Selected[rs.role] = perClass
		*rs.into = r.choose(rs.role, perClass)
	}

	if res.Effective.Found() {
		res.Severity = r.tables(res.Effective.Version).Classify(res.Effective.Scores.Overall)
	}

	r.logger.Debug("finding resolved",
		"resolution", res.ID.String(),
		"base", vectorString(res.Base.Vector),
		"effective", vectorString(res.Effective.Vector),
		"severity", res.Severity.Name,
	)
	return res, nil
}

func (r *Resolver) choose(role Role, perClass map[int]*cvss.Vector) Choice {
	if len(perClass) == 0 {
		return Choice{}
	}

	scores := make(map[int]float64, len(perClass))
	baked := make(map[int]cvss.Baked, len(perClass))
	for class, v := range perClass {
		b := r.cache.Bake(v)
		baked[class] = b
		scores[class] = b.Overall
	}

	class, ok := r.policy.Choose(scores)
	if !ok {
		r.logger.Warn("version policy exhausted",
			"role", string(role),
			"policy", r.policy.String(),
			"classes", sortedClasses(perClass),
		)
		return Choice{}
	}

	v := perClass[class]
	return Choice{Vector: v, Version: v.Version(), Scores: baked[class]}
}

// EffectiveScore returns the effective overall score, or NaN.
func (res *Resolution) EffectiveScore() float64 {
	if !res.Effective.Found() {
		return math.NaN()
	}
	return res.Effective.Scores.Overall
}

func groupByClass(candidates []*cvss.Vector) map[int][]*cvss.Vector {
	groups := make(map[int][]*cvss.Vector)
	for _, c := range candidates {
		if c == nil {
			continue
		}
		class := c.Version().Class()
		groups[class] = append(groups[class], c)
	}
	return groups
}

func sortedClasses[V any](m map[int]V) []int {
	classes := make([]int, 0, len(m))
	for class := range m {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	return classes
}

func vectorString(v *cvss.Vector) string {
	if v == nil {
		return ""
	}
	return v.String()
}
