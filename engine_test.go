package cvssel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zero-day-ai/cvssel/config"
	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/resolve"
	"github.com/zero-day-ai/cvssel/selector"
)

const (
	critical = "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"
	partial  = "CVSS:2.0/AV:N/AC:L/Au:N/C:P/I:P/A:P"
)

func nvdWithAssessment() []Candidate {
	return []Candidate{
		{Source: "CVSS:3.1 NVD", Vector: critical},
		{Source: "CVSS:3.1 Assessment", Vector: "CVSS:3.1/MAV:L"},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithCache(cvss.NewCache(256))}, opts...)
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_Assess(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.Assess(context.Background(), nvdWithAssessment())
	require.NoError(t, err)
	require.NotNil(t, a.Base)
	require.NotNil(t, a.Effective)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, critical+"/MAV:L", a.Effective.Vector)
	assert.Equal(t, "3.1", a.Effective.Version)
	assert.Equal(t, "CVSS:3.1 NVD + CVSS:3.1 Assessment", a.Effective.Sources)
	assert.InDelta(t, 8.4, a.Effective.Scores.Overall, 1e-9)
	assert.InDelta(t, 9.8, a.Effective.Scores.Base, 1e-9)
	assert.Equal(t, "High", a.Severity.Name)
	require.NotNil(t, a.Resolution)
	assert.Equal(t, a.ID, a.Resolution.ID.String())
}

func TestEngine_AssessErrors(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name       string
		candidates []Candidate
		kind       string
		sentinels  []error
	}{
		{
			name:       "no candidates",
			candidates: nil,
			kind:       KindNotFound,
			sentinels:  []error{ErrNoCandidates, resolve.ErrNoCandidates},
		},
		{
			name:       "header version class differs from vector",
			candidates: []Candidate{{Source: "CVSS:2.0 NVD", Vector: critical}},
			kind:       KindValidation,
			sentinels:  []error{ErrInvalidCandidate, cvss.ErrVersionMismatch},
		},
		{
			name:       "unknown vector version",
			candidates: []Candidate{{Source: "CVSS:3.1 NVD", Vector: critical}, {Vector: "CVSS:9.9/AV:N"}},
			kind:       KindValidation,
			sentinels:  []error{ErrInvalidCandidate, cvss.ErrInvalidVector},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := e.Assess(context.Background(), tt.candidates)
			assert.Nil(t, a)
			require.Error(t, err)

			var engineErr *Error
			require.True(t, errors.As(err, &engineErr))
			assert.Equal(t, tt.kind, engineErr.Kind)
			assert.Equal(t, "Engine.Assess", engineErr.Op)
			for _, sentinel := range tt.sentinels {
				assert.ErrorIs(t, err, sentinel)
			}
		})
	}
}

func TestEngine_AssessEvaluationFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Base = config.SelectorConfig{Inline: &selector.Document{
		Name: "strict",
		Rules: []selector.RuleDocument{{
			Selector:   []selector.SourceSelectorEntryDocument{{Host: []string{"NVD"}}},
			Method:     "ALL",
			VectorEval: []selector.VectorEvaluatorDocument{{Conditions: []string{"not:IS_NULL"}, Action: "FAIL"}},
		}},
	}}
	e := newTestEngine(t, WithConfig(cfg))

	_, err := e.Assess(context.Background(), nvdWithAssessment())
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindEvaluation})
	assert.ErrorIs(t, err, ErrEvaluationFailed)
	assert.ErrorIs(t, err, selector.ErrEvaluationFailed)

	var evalErr *selector.EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "strict", evalErr.Selector)
	assert.Equal(t, 0, evalErr.Rule)
}

func TestEngine_PolicyOverride(t *testing.T) {
	candidates := []Candidate{
		{Source: "CVSS:3.1 NVD", Vector: critical},
		{Source: "CVSS:2.0 NVD", Vector: partial},
	}

	latest := newTestEngine(t)
	a, err := latest.Assess(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, "3.1", a.Effective.Version)

	pinned := newTestEngine(t, WithPolicy(resolve.Policy{resolve.PinV2}))
	a, err = pinned.Assess(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, "2.0", a.Effective.Version)
	assert.Equal(t, "High", a.Severity.Name)
	assert.Len(t, a.Resolution.Selected[resolve.RoleEffective], 2)
}

func TestEngine_CustomSeverityRanges(t *testing.T) {
	cfg := config.Default()
	cfg.Severity = &config.SeverityConfig{Ranges: []string{"Acceptable:#00ff00:0:8.9", "Urgent:#ff0000:9.0:"}}
	e := newTestEngine(t, WithConfig(cfg))

	a, err := e.Assess(context.Background(), []Candidate{{Source: "CVSS:3.1 NVD", Vector: critical}})
	require.NoError(t, err)
	assert.Equal(t, "Urgent", a.Severity.Name)

	a, err = e.Assess(context.Background(), nvdWithAssessment())
	require.NoError(t, err)
	assert.Equal(t, "Acceptable", a.Severity.Name)

	report, err := e.Score(partial)
	require.NoError(t, err)
	assert.Equal(t, "Acceptable", report.Severity.Name)
}

func TestEngine_Score(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Score(critical)
	require.NoError(t, err)
	assert.InDelta(t, 9.8, report.Scores.Overall, 1e-9)
	assert.Equal(t, "Critical", report.Severity.Name)
	assert.True(t, e.Cache().Contains(critical))

	report, err = e.Score(partial)
	require.NoError(t, err)
	assert.Equal(t, "High", report.Severity.Name, "2.0 vectors use the 2.0 ratings")

	_, err = e.Score("CVSS:3.1/AV:N/ZZ:Q")
	assert.ErrorIs(t, err, &Error{Kind: KindValidation, Op: "Engine.Score"})
	assert.ErrorIs(t, err, cvss.ErrUnrecognizedToken)
}

func TestEngine_AssessBatch(t *testing.T) {
	e := newTestEngine(t, WithWorkers(2))

	findings := []FindingInput{
		{ID: "CVE-2024-0001", Candidates: nvdWithAssessment()},
		{ID: "CVE-2024-0002", Candidates: []Candidate{{Source: "bogus", Vector: critical}}},
		{ID: "CVE-2024-0003"},
		{ID: "CVE-2024-0004", Candidates: []Candidate{{Source: "CVSS:2.0 NVD", Vector: partial}}},
	}

	results, err := e.AssessBatch(context.Background(), findings)
	require.NoError(t, err)
	require.Len(t, results, len(findings))

	for i, r := range results {
		assert.Equal(t, findings[i].ID, r.FindingID)
	}

	require.NoError(t, results[0].Err)
	assert.Equal(t, "CVE-2024-0001", results[0].Assessment.FindingID)
	assert.InDelta(t, 8.4, results[0].Assessment.Effective.Scores.Overall, 1e-9)

	assert.ErrorIs(t, results[1].Err, &Error{Kind: KindValidation})
	var engineErr *Error
	require.True(t, errors.As(results[1].Err, &engineErr))
	assert.Equal(t, "CVE-2024-0002", engineErr.Context["finding"])

	assert.ErrorIs(t, results[2].Err, ErrNoCandidates)
	assert.Nil(t, results[2].Assessment)

	require.NoError(t, results[3].Err)
	assert.Equal(t, "2.0", results[3].Assessment.Effective.Version)
}

func TestEngine_AssessBatchCancelled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.AssessBatch(ctx, []FindingInput{{ID: "a", Candidates: nvdWithAssessment()}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestNewEngine_ConfigErrors(t *testing.T) {
	_, err := NewEngine(WithConfigFile("testdata/does-not-exist.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, &Error{Kind: KindConfiguration, Op: "NewEngine"})

	cfg := config.Default()
	cfg.Policy = "NEWEST"
	_, err = NewEngine(WithConfig(cfg))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = config.Default()
	cfg.Effective = config.SelectorConfig{Inline: &selector.Document{Name: "empty"}}
	_, err = NewEngine(WithConfig(cfg))
	assert.ErrorIs(t, err, selector.ErrInvalidConfig)
}

func TestEngine_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	e := newTestEngine(t,
		WithTracer(tp.Tracer("engine-test")),
		WithMeter(noop.NewMeterProvider().Meter("engine-test")),
	)
	_, err := e.Assess(context.Background(), nvdWithAssessment())
	require.NoError(t, err)

	names := map[string]int{}
	for _, span := range recorder.Ended() {
		names[span.Name()]++
	}
	assert.Equal(t, 1, names["engine.assess"])
	assert.Equal(t, 2, names["selector.select"], "base and effective for one version class")
}

func TestEngine_Accessors(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, "base", e.Base().Name())
	assert.Equal(t, "effective", e.Effective().Name())
	require.NotNil(t, e.Registry())
	assert.True(t, e.Registry().Matches("NVD", "NIST"))
}
