package selector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the configuration form of a Selector.
type Document struct {
	Name       string                    `yaml:"name,omitempty" json:"name,omitempty"`
	Rules      []RuleDocument            `yaml:"rules" json:"rules"`
	Stats      []StatsEvaluatorDocument  `yaml:"stats,omitempty" json:"stats,omitempty"`
	VectorEval []VectorEvaluatorDocument `yaml:"vectorEval,omitempty" json:"vectorEval,omitempty"`
}

// RuleDocument is the configuration form of a Rule.
type RuleDocument struct {
	Selector   []SourceSelectorEntryDocument `yaml:"selector" json:"selector"`
	Method     string                        `yaml:"method" json:"method"`
	Stats      []StatsCollectorDocument      `yaml:"stats,omitempty" json:"stats,omitempty"`
	VectorEval []VectorEvaluatorDocument     `yaml:"vectorEval,omitempty" json:"vectorEval,omitempty"`
}

// SourceSelectorEntryDocument lists matcher literals per source field:
// "*", a concrete name, "null" (or a JSON/YAML null), each optionally
// prefixed with "not:".
type SourceSelectorEntryDocument struct {
	Host       MatcherList `yaml:"host,omitempty" json:"host,omitempty"`
	IssuerRole MatcherList `yaml:"issuerRole,omitempty" json:"issuerRole,omitempty"`
	Issuer     MatcherList `yaml:"issuer,omitempty" json:"issuer,omitempty"`
}

// MatcherList is a list of matcher literals. A null element decodes to the
// "null" literal in both JSON and YAML.
type MatcherList []string

// UnmarshalYAML keeps null sequence elements, which yaml.v3 would otherwise
// drop when decoding into a []string. A scalar decodes as a one-element list.
func (l *MatcherList) UnmarshalYAML(value *yaml.Node) error {
	items := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		items = value.Content
	}

	out := make(MatcherList, 0, len(items))
	for _, item := range items {
		if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!null" {
			out = append(out, literalNull)
			continue
		}
		var literal string
		if err := item.Decode(&literal); err != nil {
			return err
		}
		out = append(out, literal)
	}
	*l = out
	return nil
}

// VectorEvaluatorDocument is the configuration form of a VectorEvaluator.
type VectorEvaluatorDocument struct {
	Conditions []string `yaml:"conditions" json:"conditions"`
	Action     string   `yaml:"action" json:"action"`
}

// StatsCollectorDocument is the configuration form of a StatsCollector.
type StatsCollectorDocument struct {
	Attribute  string `yaml:"attribute" json:"attribute"`
	Provider   string `yaml:"provider" json:"provider"`
	Combinator string `yaml:"combinator" json:"combinator"`
}

// StatsEvaluatorDocument is the configuration form of a StatsEvaluator.
type StatsEvaluatorDocument struct {
	Attribute  string `yaml:"attribute" json:"attribute"`
	Comparator string `yaml:"comparator" json:"comparator"`
	Value      int    `yaml:"value" json:"value"`
	Action     string `yaml:"action" json:"action"`
}

// LoadDocument reads a selector document from a YAML or JSON file.
// The format is detected by file extension (.json, .yaml, .yml).
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read selector file: %w", err)
	}

	ext := filepath.Ext(path)
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Document{}, fmt.Errorf("unsupported selector format: %s (supported: .json, .yaml, .yml)", ext)
	}
}

// ParseJSON decodes a JSON selector document. Unknown fields are rejected.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return doc, nil
}

// ParseYAML decodes a YAML selector document. Unknown fields are rejected.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return doc, nil
}

// Rule is one compiled step of a Selector.
type Rule struct {
	Sources    SourceSelector
	Method     MergingMethod
	Collectors []StatsCollector
	Evaluators []VectorEvaluator
}

// compiled is the validated, immutable form of a Document.
type compiled struct {
	name       string
	rules      []Rule
	stats      []StatsEvaluator
	evaluators []VectorEvaluator
}

// Validate checks doc without building a selector.
func (doc Document) Validate() error {
	_, err := doc.compile()
	return err
}

func (doc Document) compile() (*compiled, error) {
	if len(doc.Rules) == 0 {
		return nil, configError("selector %q has no rules", doc.Name)
	}

	c := &compiled{name: doc.Name, rules: make([]Rule, 0, len(doc.Rules))}
	for i, rd := range doc.Rules {
		rule, err := rd.compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		c.rules = append(c.rules, rule)
	}

	for i, sd := range doc.Stats {
		se, err := sd.compile()
		if err != nil {
			return nil, fmt.Errorf("stats evaluator %d: %w", i, err)
		}
		c.stats = append(c.stats, se)
	}

	evals, err := compileEvaluators(doc.VectorEval)
	if err != nil {
		return nil, fmt.Errorf("selector vector evaluator: %w", err)
	}
	for _, e := range evals {
		if e.Action == ActionSkip {
			return nil, configError("action SKIP is only valid in rule evaluators")
		}
	}
	c.evaluators = evals
	return c, nil
}

func (rd RuleDocument) compile() (Rule, error) {
	if len(rd.Selector) == 0 {
		return Rule{}, configError("missing source selector")
	}
	if strings.TrimSpace(rd.Method) == "" {
		return Rule{}, configError("missing merging method")
	}

	method, err := ParseMergingMethod(rd.Method)
	if err != nil {
		return Rule{}, err
	}

	rule := Rule{Method: method, Sources: make(SourceSelector, len(rd.Selector))}
	for i, ed := range rd.Selector {
		rule.Sources[i] = SourceSelectorEntry{
			Host:       ParseFieldMatcher(ed.Host...),
			IssuerRole: ParseFieldMatcher(ed.IssuerRole...),
			Issuer:     ParseFieldMatcher(ed.Issuer...),
		}
	}

	for i, cd := range rd.Stats {
		if cd.Attribute == "" {
			return Rule{}, configError("stats collector %d has no attribute", i)
		}
		provider, err := ParseProvider(cd.Provider)
		if err != nil {
			return Rule{}, err
		}
		combinator, err := ParseCombinator(cd.Combinator)
		if err != nil {
			return Rule{}, err
		}
		rule.Collectors = append(rule.Collectors, StatsCollector{
			Attribute:  cd.Attribute,
			Provider:   provider,
			Combinator: combinator,
		})
	}

	rule.Evaluators, err = compileEvaluators(rd.VectorEval)
	if err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (sd StatsEvaluatorDocument) compile() (StatsEvaluator, error) {
	if sd.Attribute == "" {
		return StatsEvaluator{}, configError("missing attribute")
	}
	comparator, err := ParseComparator(sd.Comparator)
	if err != nil {
		return StatsEvaluator{}, err
	}
	action, err := ParseAction(sd.Action)
	if err != nil {
		return StatsEvaluator{}, err
	}
	if action != ActionReturnNull && action != ActionFail {
		return StatsEvaluator{}, configError("stats evaluator action must be RETURN_NULL or FAIL, got %s", action)
	}
	return StatsEvaluator{
		Attribute:  sd.Attribute,
		Comparator: comparator,
		Value:      sd.Value,
		Action:     action,
	}, nil
}

func compileEvaluators(docs []VectorEvaluatorDocument) ([]VectorEvaluator, error) {
	var out []VectorEvaluator
	for i, ed := range docs {
		action, err := ParseAction(ed.Action)
		if err != nil {
			return nil, fmt.Errorf("vector evaluator %d: %w", i, err)
		}
		eval := VectorEvaluator{Action: action}
		for _, literal := range ed.Conditions {
			cond, err := ParseCondition(literal)
			if err != nil {
				return nil, fmt.Errorf("vector evaluator %d: %w", i, err)
			}
			eval.Conditions = append(eval.Conditions, cond)
		}
		out = append(out, eval)
	}
	return out, nil
}
