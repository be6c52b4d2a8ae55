package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/resolve"
)

const engineYAML = `
base:
  preset: default
effective:
  path: effective.yaml
policy: V3,LATEST
registry:
  defaults: true
  entities:
    - name: Acme
      key: acme
      root: github
severity:
  ranges:
    - "Low:#00ff00:0:4.9"
    - "High:#ff0000:5.0:"
cache:
  capacity: 128
workers: 3
`

const effectiveYAML = `
name: custom-effective
rules:
  - selector:
      - host: ["*"]
    method: HIGHER
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cvssel.yaml", engineYAML)
	writeFile(t, dir, "effective.yaml", effectiveYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.GetWorkers())
	assert.Equal(t, 128, cfg.Cache.GetCapacity())

	policy, err := cfg.ParsedPolicy()
	require.NoError(t, err)
	assert.Equal(t, resolve.Policy{resolve.PinV3, resolve.Latest}, policy)

	table, err := cfg.SeverityTable()
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "High", table.Classify(9.8).Name)

	base, err := cfg.BaseDocument()
	require.NoError(t, err)
	assert.Equal(t, "base", base.Name)

	effective, err := cfg.EffectiveDocument()
	require.NoError(t, err)
	assert.Equal(t, "custom-effective", effective.Name)

	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.True(t, reg.Matches("Acme", "github"), "inline entity resolves its root among defaults")
	assert.True(t, reg.Matches("NVD", "NIST"))
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cvssel.json", `{"base":{"preset":"default"},"effective":{"preset":"default"}}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, PresetDefault, cfg.Base.Preset)

	_, err = Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cvssel.toml", "base = 1")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format: .toml")
}

func TestLoadFromDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cvssel.yaml", "base: {preset: default}\neffective: {preset: default}\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, PresetDefault, cfg.Effective.Preset)
}

func TestLoadFromDir_StopsOnInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cvssel.yaml", "base: {preset: default}\neffective: {}\n")

	_, err := LoadFromDir(root)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFromDir_StopsOnMalformedConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cvssel.yaml", "base: {preset: default}\neffective: {preset: default}\n")
	nested := filepath.Join(root, "a")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, nested, "cvssel.yaml", "base: {preset: default\n")

	_, err := LoadFromDir(nested)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), filepath.Join(nested, "cvssel.yaml"))
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml top level", "cvssel.yaml", "base: {preset: default}\neffective: {preset: default}\nworkerz: 2\n"},
		{"yaml inline selector", "cvssel.yaml", `
base: {preset: default}
effective:
  inline:
    rules:
      - selector: [{host: [NVD]}]
        method: ALL
        vectorEvals: [{conditions: [IS_NULL], action: SKIP}]
`},
		{"json", "cvssel.json", `{"base": {"preset": "default"}, "effective": {"preset": "default"}, "polcy": "V3"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"missing base", func(c *Config) { c.Base = SelectorConfig{} }, true},
		{"unknown preset", func(c *Config) { c.Effective.Preset = "strict" }, true},
		{"preset and path", func(c *Config) { c.Base.Path = "base.yaml" }, true},
		{"bad policy", func(c *Config) { c.Policy = "NEWEST" }, true},
		{"bad severity", func(c *Config) { c.Severity = &SeverityConfig{Ranges: []string{"Low"}} }, true},
		{"negative cache", func(c *Config) { c.Cache = &CacheConfig{Capacity: -1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.GetWorkers())
	assert.Equal(t, cvss.DefaultCacheCapacity, cfg.Cache.GetCapacity())

	table, err := cfg.SeverityTable()
	require.NoError(t, err)
	assert.Nil(t, table)

	reg, err := cfg.BuildRegistry()
	require.NoError(t, err)
	assert.True(t, reg.Matches("NVD", "NIST"))

	cfg.Registry = nil
	reg, err = cfg.BuildRegistry()
	require.NoError(t, err)
	assert.Nil(t, reg)
}
