package cvssel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/cvssel/config"
	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/resolve"
	"github.com/zero-day-ai/cvssel/selector"
	"github.com/zero-day-ai/cvssel/severity"
	"github.com/zero-day-ai/cvssel/source"
)

// Engine assesses findings: it turns candidate vectors into a base and an
// effective vector with their scores and severity. It is safe for
// concurrent use.
type Engine struct {
	base      *selector.Selector
	effective *selector.Selector
	resolver  *resolve.Resolver
	registry  *source.Registry
	cache     *cvss.Cache
	table     severity.Table
	logger    *slog.Logger
	tracer    trace.Tracer
	workers   int
}

// NewEngine builds an engine from options and the engine configuration.
//
// Example:
//
//	engine, err := cvssel.NewEngine(
//	    cvssel.WithConfigFile("cvssel.yaml"),
//	    cvssel.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	assessment, err := engine.Assess(ctx, candidates)
func NewEngine(opts ...Option) (*Engine, error) {
	const op = "NewEngine"

	ec := &engineConfig{}
	for _, opt := range opts {
		opt(ec)
	}
	if ec.logger == nil {
		ec.logger = slog.Default()
	}

	cfg := ec.config
	if ec.configPath != "" {
		loaded, err := config.Load(ec.configPath)
		if err != nil {
			return nil, configError(op, err)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, configError(op, err)
	}

	registry := ec.registry
	if registry == nil {
		reg, err := cfg.BuildRegistry()
		if err != nil {
			return nil, configError(op, err)
		}
		registry = reg
	}

	cache := ec.cache
	if cache == nil {
		if cfg.Cache == nil && ec.meter == nil {
			cache = cvss.Default()
		} else {
			cache = cvss.NewCache(cfg.Cache.GetCapacity(), cvss.WithMeter(ec.meter))
		}
	}

	policy := ec.policy
	if policy == nil {
		p, err := cfg.ParsedPolicy()
		if err != nil {
			return nil, configError(op, err)
		}
		policy = p
	}

	table, err := cfg.SeverityTable()
	if err != nil {
		return nil, configError(op, err)
	}

	selOpts := []selector.Option{
		selector.WithRegistry(registry),
		selector.WithCache(cache),
		selector.WithLogger(ec.logger),
		selector.WithTracer(ec.tracer),
		selector.WithMeter(ec.meter),
	}

	baseDoc, err := cfg.BaseDocument()
	if err != nil {
		return nil, configError(op, err)
	}
	base, err := selector.New(baseDoc, selOpts...)
	if err != nil {
		return nil, configError(op, fmt.Errorf("base selector: %w", err))
	}

	effectiveDoc, err := cfg.EffectiveDocument()
	if err != nil {
		return nil, configError(op, err)
	}
	effective, err := selector.New(effectiveDoc, selOpts...)
	if err != nil {
		return nil, configError(op, fmt.Errorf("effective selector: %w", err))
	}

	resolverOpts := []resolve.Option{
		resolve.WithPolicy(policy),
		resolve.WithCache(cache),
		resolve.WithLogger(ec.logger),
	}
	if table != nil {
		resolverOpts = append(resolverOpts, resolve.WithSeverityTable(table))
	}

	workers := ec.workers
	if workers <= 0 {
		workers = cfg.GetWorkers()
	}

	e := &Engine{
		base:      base,
		effective: effective,
		resolver:  resolve.New(base, effective, resolverOpts...),
		registry:  registry,
		cache:     cache,
		table:     table,
		logger:    ec.logger,
		tracer:    ec.tracer,
		workers:   workers,
	}

	e.logger.Debug("engine ready",
		"base", base.Name(),
		"effective", effective.Name(),
		"policy", policy.String(),
		"workers", workers,
	)
	return e, nil
}

func configError(op string, err error) error {
	return newError(op, KindConfiguration, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
}

// Base returns the base selector.
func (e *Engine) Base() *selector.Selector { return e.base }

// Effective returns the effective selector.
func (e *Engine) Effective() *selector.Selector { return e.effective }

// Registry returns the entity registry, which may be nil.
func (e *Engine) Registry() *source.Registry { return e.registry }

// Cache returns the score cache.
func (e *Engine) Cache() *cvss.Cache { return e.cache }

// VectorReport describes one chosen vector.
type VectorReport struct {
	Vector  string     `json:"vector"`
	Version string     `json:"version"`
	Sources string     `json:"sources,omitempty"`
	Scores  cvss.Baked `json:"scores"`
}

// Assessment is the engine's answer for one finding.
type Assessment struct {
	ID        string         `json:"id"`
	FindingID string         `json:"finding,omitempty"`
	Base      *VectorReport  `json:"base,omitempty"`
	Effective *VectorReport  `json:"effective,omitempty"`
	Severity  severity.Range `json:"severity"`

	Resolution *resolve.Resolution `json:"-"`
}

func newAssessment(findingID string, res *resolve.Resolution) *Assessment {
	return &Assessment{
		ID:         res.ID.String(),
		FindingID:  findingID,
		Base:       report(res.Base),
		Effective:  report(res.Effective),
		Severity:   res.Severity,
		Resolution: res,
	}
}

func report(c resolve.Choice) *VectorReport {
	if !c.Found() {
		return nil
	}
	return &VectorReport{
		Vector:  c.Vector.String(),
		Version: c.Version.String(),
		Sources: source.FormatCombinedHeader(c.Vector.Sources()),
		Scores:  c.Scores,
	}
}

// Assess resolves one finding's candidates.
func (e *Engine) Assess(ctx context.Context, candidates []Candidate) (*Assessment, error) {
	const op = "Engine.Assess"

	ctx, span := e.startSpan(ctx, "engine.assess", len(candidates))
	defer span.End()

	vectors, err := buildAll(op, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := e.resolver.Resolve(ctx, vectors)
	if err != nil {
		err = classify(op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	a := newAssessment("", res)
	span.SetAttributes(attribute.String("engine.severity", a.Severity.Name))
	span.SetStatus(codes.Ok, "")
	return a, nil
}

// AssessVectors resolves already built candidate vectors.
func (e *Engine) AssessVectors(ctx context.Context, vectors []*cvss.Vector) (*Assessment, error) {
	res, err := e.resolver.Resolve(ctx, vectors)
	if err != nil {
		return nil, classify("Engine.AssessVectors", err)
	}
	return newAssessment("", res), nil
}

// BatchResult pairs a finding with its assessment or error.
type BatchResult struct {
	FindingID  string
	Assessment *Assessment
	Err        error
}

// AssessBatch assesses findings in parallel, bounded by the configured
// worker count. Results keep the order of findings. Per-finding errors are
// reported in BatchResult.Err; the returned error is non-nil only when ctx
// is cancelled.
func (e *Engine) AssessBatch(ctx context.Context, findings []FindingInput) ([]BatchResult, error) {
	const op = "Engine.AssessBatch"

	results := make([]BatchResult, len(findings))
	work := make([]resolve.Finding, 0, len(findings))
	index := make([]int, 0, len(findings))

	for i, f := range findings {
		results[i].FindingID = f.ID
		vectors, err := buildAll(op, f.Candidates)
		if err != nil {
			results[i].Err = withFinding(err, f.ID)
			continue
		}
		work = append(work, resolve.Finding{ID: f.ID, Candidates: vectors})
		index = append(index, i)
	}

	resolved, err := e.resolver.Batch(ctx, work, e.workers)
	for j, r := range resolved {
		i := index[j]
		if r.Err != nil {
			results[i].Err = withFinding(classify(op, r.Err), r.FindingID)
			continue
		}
		results[i].Assessment = newAssessment(r.FindingID, r.Resolution)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.logger.Info("batch assessed", "findings", len(findings), "failed", failed)
	return results, err
}

// ScoreReport is the scoring of a single vector.
type ScoreReport struct {
	Scores   cvss.Baked     `json:"scores"`
	Severity severity.Range `json:"severity"`
}

// Score strictly parses a vector and returns its scores and severity.
func (e *Engine) Score(text string) (*ScoreReport, error) {
	v, err := cvss.ParseStrict(text)
	if err != nil {
		return nil, newError("Engine.Score", KindValidation, err)
	}

	b := e.cache.Bake(v)
	table := e.table
	if table == nil {
		table = severity.ForVersion(v.Version())
	}
	return &ScoreReport{Scores: b, Severity: table.Classify(b.Overall)}, nil
}

func buildAll(op string, candidates []Candidate) ([]*cvss.Vector, error) {
	vectors := make([]*cvss.Vector, 0, len(candidates))
	for i, c := range candidates {
		v, err := c.Build()
		if err != nil {
			return nil, newError(op, KindValidation, err).WithContext(map[string]any{"candidate": i})
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// classify maps resolver errors onto engine error kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, resolve.ErrNoCandidates):
		return newError(op, KindNotFound, fmt.Errorf("%w: %w", ErrNoCandidates, err))
	case errors.Is(err, selector.ErrEvaluationFailed):
		return newError(op, KindEvaluation, fmt.Errorf("%w: %w", ErrEvaluationFailed, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return newError(op, KindInternal, err)
	}
}

func withFinding(err error, id string) error {
	var e *Error
	if errors.As(err, &e) {
		return e.WithContext(map[string]any{"finding": id})
	}
	return err
}

func (e *Engine) startSpan(ctx context.Context, name string, candidates int) (context.Context, trace.Span) {
	tracer := e.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("engine.candidates", candidates),
	))
}
