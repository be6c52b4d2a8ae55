package selector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/cvssel/cvss"
)

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "custom",
		"rules": [
			{
				"selector": [{"host": ["NVD"], "issuerRole": [null, "*"], "issuer": ["not:MITRE"]}],
				"method": "ALL",
				"stats": [{"attribute": "found", "provider": "PRESENCE", "combinator": "ADD"}],
				"vectorEval": [{"conditions": ["IS_BASE_NOT_DEFINED", "not:IS_NULL"], "action": "SKIP"}]
			}
		],
		"stats": [{"attribute": "found", "comparator": "LESS", "value": 1, "action": "RETURN_NULL"}],
		"vectorEval": [{"conditions": ["IS_NULL"], "action": "FAIL"}]
	}`))
	require.NoError(t, err)

	sel, err := New(doc)
	require.NoError(t, err)
	assert.Equal(t, "custom", sel.Name())

	rules := sel.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, MethodAll, rules[0].Method)
	assert.Equal(t, []string{"null", "*"}, rules[0].Sources[0].IssuerRole.Literals())
	assert.Equal(t, []string{"not:MITRE"}, rules[0].Sources[0].Issuer.Literals())
	assert.Equal(t, []StatsCollector{{Attribute: "found", Provider: ProviderPresence, Combinator: CombinatorAdd}}, rules[0].Collectors)
	require.Len(t, rules[0].Evaluators, 1)
	assert.Equal(t, ActionSkip, rules[0].Evaluators[0].Action)
}

func TestDocument_ValidationErrors(t *testing.T) {
	entry := []SourceSelectorEntryDocument{{Host: []string{"*"}}}

	tests := []struct {
		name string
		doc  Document
	}{
		{"no rules", Document{}},
		{"missing selector", Document{Rules: []RuleDocument{{Method: "ALL"}}}},
		{"missing method", Document{Rules: []RuleDocument{{Selector: entry}}}},
		{"unknown method", Document{Rules: []RuleDocument{{Selector: entry, Method: "AVERAGE"}}}},
		{"unknown provider", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL",
			Stats: []StatsCollectorDocument{{Attribute: "n", Provider: "COUNT", Combinator: "ADD"}}}}}},
		{"collector without attribute", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL",
			Stats: []StatsCollectorDocument{{Provider: "PRESENCE", Combinator: "ADD"}}}}}},
		{"unknown predicate", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL",
			VectorEval: []VectorEvaluatorDocument{{Conditions: []string{"IS_SHINY"}, Action: "SKIP"}}}}}},
		{"unknown action", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL",
			VectorEval: []VectorEvaluatorDocument{{Conditions: []string{"IS_NULL"}, Action: "RETRY"}}}}}},
		{"skip at selector level", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL"}},
			VectorEval: []VectorEvaluatorDocument{{Conditions: []string{"IS_NULL"}, Action: "SKIP"}}}},
		{"stats evaluator skip", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL"}},
			Stats: []StatsEvaluatorDocument{{Attribute: "n", Comparator: "EQUAL", Action: "SKIP"}}}},
		{"unknown comparator", Document{Rules: []RuleDocument{{Selector: entry, Method: "ALL"}},
			Stats: []StatsEvaluatorDocument{{Attribute: "n", Comparator: "ABOUT", Action: "FAIL"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.doc.Validate(), ErrInvalidConfig)
			sel, err := New(tt.doc)
			assert.Nil(t, sel)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := ParseJSON([]byte(`{"rules": [], "priority": 3}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseYAML([]byte("rules: []\npriority: 3\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: from-file
rules:
  - selector:
      - host: [NVD]
        issuerRole: ["*", null]
        issuer: ["*", null]
    method: ALL
  - selector:
      - host: [Assessment]
    method: LOWER
`), 0o600))

	sel, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", sel.Name())
	require.Len(t, sel.Rules(), 2)
	assert.Equal(t, MethodLower, sel.Rules()[1].Method)
	assert.Equal(t, []string{"*", "null"}, sel.Rules()[0].Sources[0].Issuer.Literals())

	_, err = Load(filepath.Join(dir, "base.toml"))
	assert.Error(t, err)
}

func TestParse_NullMatchersAgreeAcrossFormats(t *testing.T) {
	fromYAML, err := ParseYAML([]byte(`
rules:
  - selector:
      - host: [NVD]
        issuerRole: [null]
        issuer: ["MITRE", null]
    method: ALL
`))
	require.NoError(t, err)

	fromJSON, err := ParseJSON([]byte(`{"rules": [{
		"selector": [{"host": ["NVD"], "issuerRole": [null], "issuer": ["MITRE", null]}],
		"method": "ALL"
	}]}`))
	require.NoError(t, err)

	yamlSel := MustNew(fromYAML)
	jsonSel := MustNew(fromJSON)
	assert.Equal(t, jsonSel.Rules()[0].Sources[0].Issuer.Literals(), yamlSel.Rules()[0].Sources[0].Issuer.Literals())
	assert.Equal(t, []string{"null"}, yamlSel.Rules()[0].Sources[0].IssuerRole.Literals())

	candidates := []*cvss.Vector{withHost("NVD", critical)}
	for name, sel := range map[string]*Selector{"yaml": yamlSel, "json": jsonSel} {
		got, err := sel.Select(context.Background(), candidates)
		require.NoError(t, err, name)
		assert.NotNil(t, got, "%s: a candidate without issuer matches null", name)
	}
}

func TestMatcherList_ScalarYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(`
rules:
  - selector:
      - host: NVD
    method: ALL
`))
	require.NoError(t, err)
	assert.Equal(t, MatcherList{"NVD"}, doc.Rules[0].Selector[0].Host)
}

func TestPresetsCompile(t *testing.T) {
	require.NoError(t, DefaultBaseDocument().Validate())
	require.NoError(t, DefaultEffectiveDocument().Validate())

	assert.Equal(t, "base", DefaultBaseSelector().Name())
	assert.Equal(t, "effective", DefaultEffectiveSelector().Name())
	assert.Len(t, DefaultEffectiveSelector().Rules(), len(DefaultBaseSelector().Rules())+1)
}
