package cvssel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/source"
)

func TestCandidate_Build(t *testing.T) {
	c := Candidate{
		Source:    "CVSS:3.1 NVD + CVSS:3.0 GHSA-CNA-GitHub",
		Vector:    critical + "/ZZ:Q",
		Condition: map[string]string{"os": "linux"},
	}

	v, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, critical, v.String(), "unknown tokens are skipped")
	assert.Equal(t, "linux", v.Condition()["os"])

	srcs := v.Sources()
	require.Len(t, srcs, 2)
	assert.Equal(t, source.NVD, srcs[0].Host())
	assert.Equal(t, cvss.Version30, srcs[1].Version())
	assert.Equal(t, cvss.RoleCNA, srcs[1].Role())
	assert.Equal(t, "GitHub", srcs[1].Issuer())
}

func TestCandidate_BuildWithoutSource(t *testing.T) {
	v, err := Candidate{Vector: partial}.Build()
	require.NoError(t, err)
	assert.Empty(t, v.Sources())
}

func TestCandidate_BuildRejects(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want error
	}{
		{"unknown version", Candidate{Vector: "CVSS:9.9/AV:N"}, cvss.ErrInvalidVector},
		{"malformed header", Candidate{Source: "NVD", Vector: critical}, source.ErrInvalidHeader},
		{"version class mismatch", Candidate{Source: "CVSS:4.0 NVD", Vector: critical}, cvss.ErrVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Build()
			assert.ErrorIs(t, err, ErrInvalidCandidate)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCandidateFromVector(t *testing.T) {
	in := Candidate{Source: "CVSS:3.1 NVD-GitHub", Vector: critical}
	v, err := in.Build()
	require.NoError(t, err)

	out := CandidateFromVector(v)
	assert.Equal(t, in.Source, out.Source)
	assert.Equal(t, in.Vector, out.Vector)
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "candidates.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"source": "CVSS:3.1 NVD", "vector": "`+critical+`"},
		{"source": "CVSS:3.1 Assessment", "vector": "CVSS:3.1/MAV:L", "condition": {"env": "prod"}}
	]`), 0o644))

	yamlPath := filepath.Join(dir, "candidates.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- source: CVSS:3.1 NVD
  vector: `+critical+`
- source: CVSS:3.1 Assessment
  vector: CVSS:3.1/MAV:L
  condition:
    env: prod
`), 0o644))

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			candidates, err := LoadCandidates(path)
			require.NoError(t, err)
			require.Len(t, candidates, 2)
			assert.Equal(t, "CVSS:3.1 NVD", candidates[0].Source)
			assert.Equal(t, "prod", candidates[1].Condition["env"])
		})
	}

	txtPath := filepath.Join(dir, "candidates.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err := LoadCandidates(txtPath)
	assert.ErrorContains(t, err, "unsupported input format: .txt")
}

func TestLoadFindings(t *testing.T) {
	dir := t.TempDir()

	docPath := filepath.Join(dir, "findings.yaml")
	require.NoError(t, os.WriteFile(docPath, []byte(`
findings:
  - id: CVE-2024-0001
    candidates:
      - source: CVSS:3.1 NVD
        vector: `+critical+`
  - id: CVE-2024-0002
    candidates: []
`), 0o644))

	findings, err := LoadFindings(docPath)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "CVE-2024-0001", findings[0].ID)
	assert.Len(t, findings[0].Candidates, 1)

	listPath := filepath.Join(dir, "CVE-2024-0003.json")
	require.NoError(t, os.WriteFile(listPath, []byte(`[{"vector": "`+partial+`"}]`), 0o644))

	findings, err = LoadFindings(listPath)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "CVE-2024-0003", findings[0].ID)
	assert.Equal(t, partial, findings[0].Candidates[0].Vector)
}

func TestLoadFindings_RejectsEmptyDocument(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"empty.json":      `{}`,
		"typo.json":       `{"finding": [{"id": "CVE-2024-0001"}]}`,
		"empty-list.yaml": "findings: []\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := LoadFindings(path)
			assert.ErrorIs(t, err, ErrNoFindings)
		})
	}
}
