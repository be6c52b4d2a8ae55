package cvssel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/source"
)

// Candidate is the input form of a candidate vector: a combined column
// header naming its sources, the vector text and an optional condition.
type Candidate struct {
	Source    string            `json:"source,omitempty" yaml:"source,omitempty"`
	Vector    string            `json:"vector" yaml:"vector"`
	Condition map[string]string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Build parses the candidate into a vector. The vector text is parsed
// tolerantly; every source in the header must share the vector's version
// class.
func (c Candidate) Build() (*cvss.Vector, error) {
	v := cvss.ParseTolerant(c.Vector)
	if v == nil {
		return nil, fmt.Errorf("%w: vector %q: %w", ErrInvalidCandidate, c.Vector, cvss.ErrInvalidVector)
	}

	srcs, err := source.ParseCombinedHeader(c.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	for _, src := range srcs {
		if err := v.AddSource(src); err != nil {
			return nil, fmt.Errorf("%w: source %q on %s: %w", ErrInvalidCandidate, source.FormatHeader(src), v.Version(), err)
		}
	}

	if len(c.Condition) > 0 {
		v.SetCondition(c.Condition)
	}
	return v, nil
}

// CandidateFromVector renders v back into its input form.
func CandidateFromVector(v *cvss.Vector) Candidate {
	return Candidate{
		Source:    source.FormatCombinedHeader(v.Sources()),
		Vector:    v.String(),
		Condition: v.Condition(),
	}
}

// FindingInput groups the candidates harvested for one vulnerability.
type FindingInput struct {
	ID         string      `json:"id" yaml:"id"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

type findingsDocument struct {
	Findings []FindingInput `json:"findings" yaml:"findings"`
}

// LoadCandidates reads a list of candidates from a YAML or JSON file.
// The format is automatically detected by file extension (.json, .yaml, .yml).
func LoadCandidates(path string) ([]Candidate, error) {
	var candidates []Candidate
	if err := decodeFile(path, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// LoadFindings reads findings from a YAML or JSON file holding
// {"findings": [{"id": ..., "candidates": [...]}]}. A file holding a bare
// candidate list is read as a single finding named after the file. A document
// with no findings is rejected with ErrNoFindings.
func LoadFindings(path string) ([]FindingInput, error) {
	var doc findingsDocument
	if err := decodeFile(path, &doc); err == nil {
		if len(doc.Findings) == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrNoFindings)
		}
		return doc.Findings, nil
	}

	candidates, err := LoadCandidates(path)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []FindingInput{{ID: id, Candidates: candidates}}, nil
}

func decodeFile(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer CloseWithLog(f, nil, path)

	return decode(f, filepath.Ext(path), out)
}

func decode(r io.Reader, ext string, out any) error {
	switch ext {
	case ".json":
		if err := json.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("failed to parse JSON input: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("failed to parse YAML input: %w", err)
		}
	default:
		return fmt.Errorf("unsupported input format: %s (supported: .json, .yaml, .yml)", ext)
	}
	return nil
}
