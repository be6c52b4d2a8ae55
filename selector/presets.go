package selector

import "github.com/zero-day-ai/cvssel/source"

var anyOrNull = []string{literalAny, literalNull}

// providerEntries prefers the well-known vulnerability databases, then any
// other publisher that is not a local assessment.
func providerEntries() []SourceSelectorEntryDocument {
	hosts := []string{source.NVD, source.GHSA, source.MSRC, source.CERTSEI, negatedPrefix + source.Assessment}
	entries := make([]SourceSelectorEntryDocument, len(hosts))
	for i, host := range hosts {
		entries[i] = SourceSelectorEntryDocument{Host: []string{host}, IssuerRole: anyOrNull, Issuer: anyOrNull}
	}
	return entries
}

func assessmentEntries() []SourceSelectorEntryDocument {
	return []SourceSelectorEntryDocument{{Host: []string{source.Assessment}, IssuerRole: anyOrNull, Issuer: anyOrNull}}
}

// DefaultBaseDocument returns the preset used to select base vectors: the
// best provider vector with a defined base, overridden by local assessments.
func DefaultBaseDocument() Document {
	return Document{
		Name: "base",
		Rules: []RuleDocument{
			{
				Selector: providerEntries(),
				Method:   MethodAll.String(),
				Stats:    []StatsCollectorDocument{{Attribute: "providers", Provider: "PRESENCE", Combinator: "ADD"}},
				VectorEval: []VectorEvaluatorDocument{
					{Conditions: []string{"not:IS_NULL", "IS_BASE_NOT_DEFINED"}, Action: ActionSkip.String()},
				},
			},
			{
				Selector: assessmentEntries(),
				Method:   MethodAll.String(),
				Stats: []StatsCollectorDocument{
					{Attribute: "assessments", Provider: "PRESENCE", Combinator: "ADD"},
					{Attribute: "assessed_parts", Provider: "APPLIED_PARTS_COUNT", Combinator: "SET"},
				},
			},
		},
		VectorEval: []VectorEvaluatorDocument{
			{Conditions: []string{"not:IS_BASE_FULLY_DEFINED"}, Action: ActionReturnNull.String()},
		},
	}
}

// DefaultEffectiveDocument returns the preset used to select effective
// vectors. It extends the base preset with authorized data publisher
// enrichment, which may only raise metric severities.
func DefaultEffectiveDocument() Document {
	doc := DefaultBaseDocument()
	doc.Name = "effective"
	doc.Rules = append(doc.Rules, RuleDocument{
		Selector: []SourceSelectorEntryDocument{{Host: []string{literalAny}, IssuerRole: []string{"ADP"}, Issuer: anyOrNull}},
		Method:   MethodHigherMetric.String(),
		Stats:    []StatsCollectorDocument{{Attribute: "enrichments", Provider: "PRESENCE", Combinator: "ADD"}},
	})
	return doc
}

// DefaultBaseSelector builds the base preset.
func DefaultBaseSelector(opts ...Option) *Selector {
	return MustNew(DefaultBaseDocument(), opts...)
}

// DefaultEffectiveSelector builds the effective preset.
func DefaultEffectiveSelector(opts ...Option) *Selector {
	return MustNew(DefaultEffectiveDocument(), opts...)
}
