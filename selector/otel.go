package selector

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// selectorMetrics holds the OpenTelemetry instruments of an instrumented selector.
type selectorMetrics struct {
	selections metric.Int64Counter
	ruleMatch  metric.Int64Counter
	failures   metric.Int64Counter
}

func newSelectorMetrics(meter metric.Meter) (*selectorMetrics, error) {
	m := &selectorMetrics{}
	var err error

	m.selections, err = meter.Int64Counter(
		"selector.select.count",
		metric.WithDescription("Number of selections performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create selection counter: %w", err)
	}

	m.ruleMatch, err = meter.Int64Counter(
		"selector.rule.match",
		metric.WithDescription("Rules that contributed a candidate"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rule match counter: %w", err)
	}

	m.failures, err = meter.Int64Counter(
		"selector.select.failures",
		metric.WithDescription("Selections aborted by a FAIL action"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failure counter: %w", err)
	}

	return m, nil
}

func (m *selectorMetrics) recordRuleMatch(ctx context.Context, selector string, rule int, method MergingMethod) {
	if m == nil {
		return
	}
	m.ruleMatch.Add(ctx, 1, metric.WithAttributes(
		attribute.String("selector.name", selector),
		attribute.Int("selector.rule", rule),
		attribute.String("selector.method", method.String()),
	))
}

func (m *selectorMetrics) recordSelection(ctx context.Context, selector string, out Outcome, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("selector.name", selector),
		attribute.Bool("selector.found", out.Vector != nil),
	)
	m.selections.Add(ctx, 1, attrs)
	if err != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("selector.name", selector)))
	}
}

// startSpan opens the selector.select span. The returned function ends it.
func (s *Selector) startSpan(ctx context.Context, candidates int) (context.Context, func(Outcome, error)) {
	if s.tracer == nil {
		return ctx, func(Outcome, error) {}
	}

	ctx, span := s.tracer.Start(ctx, "selector.select",
		trace.WithAttributes(
			attribute.String("selector.name", s.name),
			attribute.Int("selector.rules", len(s.rules)),
			attribute.Int("selector.candidates", candidates),
		),
	)
	return ctx, func(out Outcome, err error) {
		defer span.End()
		if out.Vector != nil {
			span.SetAttributes(
				attribute.String("selector.result.version", out.Vector.Version().String()),
				attribute.String("selector.result.vector", out.Vector.String()),
			)
		}
		if out.StoppedBy != 0 {
			span.SetAttributes(
				attribute.String("selector.stopped_by", out.StoppedBy.String()),
				attribute.Int("selector.stopped_at", out.StoppedAt),
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}
