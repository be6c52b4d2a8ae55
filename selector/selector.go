package selector

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/source"
)

// Selector is an immutable, ordered rule set. It is safe for concurrent use.
type Selector struct {
	name       string
	rules      []Rule
	stats      []StatsEvaluator
	evaluators []VectorEvaluator

	registry *source.Registry
	cache    *cvss.Cache
	score    cvss.ScoreFunc
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	metrics  *selectorMetrics
}

// Option configures a Selector.
type Option func(*Selector)

// WithName overrides the document name used in logs, spans and errors.
func WithName(name string) Option {
	return func(s *Selector) {
		s.name = name
	}
}

// WithRegistry enables hierarchical source matching through reg.
func WithRegistry(reg *source.Registry) Option {
	return func(s *Selector) {
		s.registry = reg
	}
}

// WithCache sets the score cache used by LOWER and HIGHER merges.
// If not provided, cvss.Default() is used.
func WithCache(cache *cvss.Cache) Option {
	return func(s *Selector) {
		s.cache = cache
	}
}

// WithLogger sets the logger for rule diagnostics.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// WithTracer records a selector.select span for each selection.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Selector) {
		s.tracer = tracer
	}
}

// WithMeter records selection, rule match and failure counters.
func WithMeter(meter metric.Meter) Option {
	return func(s *Selector) {
		s.meter = meter
	}
}

// New compiles doc into a Selector. Malformed documents fail with an error
// wrapping ErrInvalidConfig.
func New(doc Document, opts ...Option) (*Selector, error) {
	c, err := doc.compile()
	if err != nil {
		return nil, err
	}

	s := &Selector{
		name:       c.name,
		rules:      c.rules,
		stats:      c.stats,
		evaluators: c.evaluators,
	}
	s.apply(opts)
	return s, nil
}

// MustNew is like New but panics on error. Intended for static presets.
func MustNew(doc Document, opts ...Option) *Selector {
	s, err := New(doc, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads and compiles a selector document from a YAML or JSON file.
func Load(path string, opts ...Option) (*Selector, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	s, err := New(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("selector %s: %w", path, err)
	}
	return s, nil
}

// With returns a copy of s with additional options applied. The rule set is
// shared.
func (s *Selector) With(opts ...Option) *Selector {
	c := *s
	c.apply(opts)
	return &c
}

func (s *Selector) apply(opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cache == nil {
		s.cache = cvss.Default()
	}
	s.score = CachedScore(s.cache)
	s.metrics = nil
	if s.meter != nil {
		m, err := newSelectorMetrics(s.meter)
		if err != nil {
			s.logger.Warn("selector metrics disabled", "selector", s.name, "error", err)
		} else {
			s.metrics = m
		}
	}
}

// Name returns the selector name.
func (s *Selector) Name() string { return s.name }

// Rules returns a copy of the compiled rules.
func (s *Selector) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// RuleTrace records what one rule did during a selection.
type RuleTrace struct {
	Rule    int
	Entry   int // matching source selector entry, -1 when none matched
	Found   bool
	Skipped bool
	Source  cvss.Source // latest source of the picked candidate
	Applied int
	Action  Action // triggered evaluator action, 0 when none
}

// Outcome is the full result of a selection.
type Outcome struct {
	Vector    *cvss.Vector
	Stats     Stats
	Trace     []RuleTrace
	StoppedBy Action // action that ended the selection early, 0 when none
	StoppedAt int    // rule index of StoppedBy, -1 for selector-level evaluators
}

// Select runs the rule set over candidates and returns the effective vector,
// or nil when no rule produced one. Candidates are not modified. A FAIL action
// returns an *EvaluationError.
func (s *Selector) Select(ctx context.Context, candidates []*cvss.Vector) (*cvss.Vector, error) {
	out, err := s.Run(ctx, candidates)
	return out.Vector, err
}

// Run is Select with the collected stats and per-rule trace.
func (s *Selector) Run(ctx context.Context, candidates []*cvss.Vector) (out Outcome, err error) {
	ctx, end := s.startSpan(ctx, len(candidates))
	defer func() {
		end(out, err)
		s.metrics.recordSelection(ctx, s.name, out, err)
	}()
	return s.run(ctx, candidates)
}

func (s *Selector) run(ctx context.Context, candidates []*cvss.Vector) (Outcome, error) {
	out := Outcome{Stats: Stats{}, StoppedAt: -1}
	var effective *cvss.Vector

	for i, rule := range s.rules {
		rt := RuleTrace{Rule: i, Entry: -1}
		candidate, entry := rule.Sources.Pick(candidates, s.registry)
		if candidate != nil {
			rt.Entry, rt.Found = entry, true
			rt.Source, _ = candidate.LatestSource()
		}

		if ev, ok := firstTriggered(rule.Evaluators, candidate); ok {
			rt.Action = ev.Action
			switch ev.Action {
			case ActionSkip:
				candidate = nil
				rt.Skipped = true
			case ActionFail:
				out.Trace = append(out.Trace, rt)
				return s.stop(out, nil, ev.Action, i), &EvaluationError{
					Selector: s.name, Rule: i, Stage: "vector evaluator", Reason: ev.String(),
				}
			case ActionReturnNull:
				out.Trace = append(out.Trace, rt)
				return s.stop(out, nil, ev.Action, i), nil
			case ActionReturnPrevious:
				out.Trace = append(out.Trace, rt)
				return s.stop(out, effective, ev.Action, i), nil
			}
		}

		event := ruleEvent{}
		if candidate != nil {
			if effective == nil {
				effective = candidate.Clone()
				event.applied = len(effective.Attributes())
			} else {
				effective, event.applied = rule.Method.Merge(effective, candidate, s.score)
				s.appendProvenance(effective, candidate)
			}
			event.present = true
			s.metrics.recordRuleMatch(ctx, s.name, i, rule.Method)
		}
		for _, c := range rule.Collectors {
			c.collect(out.Stats, event)
		}

		rt.Applied = event.applied
		out.Trace = append(out.Trace, rt)
		s.logger.Debug("rule evaluated",
			"selector", s.name,
			"rule", i,
			"found", rt.Found,
			"skipped", rt.Skipped,
			"source", rt.Source.String(),
			"applied", rt.Applied,
		)
	}

	for _, se := range s.stats {
		if !se.Triggers(out.Stats) {
			continue
		}
		if se.Action == ActionFail {
			return s.stop(out, nil, se.Action, -1), &EvaluationError{
				Selector: s.name, Rule: -1, Stage: "stats evaluator", Reason: se.String(),
			}
		}
		return s.stop(out, nil, se.Action, -1), nil
	}

	if ev, ok := firstTriggered(s.evaluators, effective); ok {
		switch ev.Action {
		case ActionFail:
			return s.stop(out, nil, ev.Action, -1), &EvaluationError{
				Selector: s.name, Rule: -1, Stage: "vector evaluator", Reason: ev.String(),
			}
		case ActionReturnNull:
			return s.stop(out, nil, ev.Action, -1), nil
		case ActionReturnPrevious:
			return s.stop(out, effective, ev.Action, -1), nil
		}
	}

	out.Vector = effective
	return out, nil
}

func (s *Selector) stop(out Outcome, v *cvss.Vector, action Action, at int) Outcome {
	out.Vector = v
	out.StoppedBy = action
	out.StoppedAt = at
	s.logger.Debug("selection stopped", "selector", s.name, "action", action.String(), "rule", at)
	return out
}

// appendProvenance appends the candidate's latest source unless the chain
// already ends with it.
func (s *Selector) appendProvenance(effective, candidate *cvss.Vector) {
	src, ok := candidate.LatestSource()
	if !ok {
		return
	}
	if latest, ok := effective.LatestSource(); ok && latest == src {
		return
	}
	if err := effective.AddSource(src); err != nil {
		s.logger.Debug("provenance not recorded", "selector", s.name, "error", err)
	}
}
