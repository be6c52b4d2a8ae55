// Package config provides loading and validation of cvssel engine
// configuration files. An engine configuration names the base and effective
// selectors, the entity registry, the version-selection policy, the severity
// ranges and the score cache size.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/resolve"
	"github.com/zero-day-ai/cvssel/selector"
	"github.com/zero-day-ai/cvssel/severity"
	"github.com/zero-day-ai/cvssel/source"
)

// ErrInvalidConfig indicates an engine configuration is malformed.
var ErrInvalidConfig = errors.New("invalid engine configuration")

// ErrConfigNotFound indicates a directory holds no engine configuration file.
var ErrConfigNotFound = errors.New("engine configuration not found")

// PresetDefault selects the built-in selector preset for a role.
const PresetDefault = "default"

// fileNames are tried in order when Load is given a directory.
var fileNames = []string{"cvssel.yaml", "cvssel.yml", "cvssel.json"}

// Config represents a cvssel engine configuration file.
type Config struct {
	// Selectors per role
	Base      SelectorConfig `yaml:"base" json:"base"`
	Effective SelectorConfig `yaml:"effective" json:"effective"`

	// Policy is a comma separated version-selection policy (e.g., "V3,LATEST").
	// Default: LATEST
	Policy string `yaml:"policy,omitempty" json:"policy,omitempty"`

	Registry *RegistryConfig `yaml:"registry,omitempty" json:"registry,omitempty"`
	Severity *SeverityConfig `yaml:"severity,omitempty" json:"severity,omitempty"`
	Cache    *CacheConfig    `yaml:"cache,omitempty" json:"cache,omitempty"`

	// Workers bounds parallel batch resolution.
	// Default: GOMAXPROCS
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// dir resolves relative paths; set by Load.
	dir string
}

// SelectorConfig names exactly one selector source: a preset, a document
// file or an inline document.
type SelectorConfig struct {
	Preset string             `yaml:"preset,omitempty" json:"preset,omitempty"`
	Path   string             `yaml:"path,omitempty" json:"path,omitempty"`
	Inline *selector.Document `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// RegistryConfig describes the entity registry.
type RegistryConfig struct {
	// Defaults seeds the registry with the well-known hosts.
	Defaults bool `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	// Path is a YAML or JSON entity file.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// Entities are declared inline.
	Entities []source.Definition `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// SeverityConfig overrides the published rating tables.
type SeverityConfig struct {
	// Ranges are "name:color:floor:ceiling" literals, first match wins.
	Ranges []string `yaml:"ranges" json:"ranges"`
}

// CacheConfig sizes the score cache.
type CacheConfig struct {
	// Capacity is the maximum number of cached snapshots.
	// Default: 5000
	Capacity int `yaml:"capacity,omitempty" json:"capacity,omitempty"`
}

// GetCapacity returns the configured capacity or the default value.
func (c *CacheConfig) GetCapacity() int {
	if c == nil || c.Capacity <= 0 {
		return cvss.DefaultCacheCapacity
	}
	return c.Capacity
}

// GetWorkers returns the configured worker count or GOMAXPROCS.
func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Default returns a configuration using the built-in presets, the default
// registry and the LATEST policy.
func Default() *Config {
	return &Config{
		Base:      SelectorConfig{Preset: PresetDefault},
		Effective: SelectorConfig{Preset: PresetDefault},
		Policy:    resolve.DefaultPolicy().String(),
		Registry:  &RegistryConfig{Defaults: true},
	}
}

// Load reads and parses an engine configuration file. If the path is a
// directory, it looks for cvssel.yaml, cvssel.yml or cvssel.json in it.
// The format is detected by file extension.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range fileNames {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("%w: no cvssel.yaml, cvssel.yml or cvssel.json in %s", ErrConfigNotFound, path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrInvalidConfig, configPath, err)
	}

	var cfg Config
	switch ext := filepath.Ext(configPath); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, configPath, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, configPath, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s (supported: .json, .yaml, .yml)", ErrInvalidConfig, ext)
	}

	cfg.dir = filepath.Dir(configPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return &cfg, nil
}

// LoadFromDir searches for an engine configuration starting from the given
// directory and walking up to parent directories until found or root is reached.
// A configuration file that exists but cannot be read, parsed or validated
// stops the walk.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		cfg, err := Load(absDir)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrConfigNotFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no cvssel configuration found in %s or parent directories", dir)
		}
		absDir = parent
	}
}

// Validate checks the configuration without loading referenced files.
func (c *Config) Validate() error {
	if err := c.Base.validate(); err != nil {
		return fmt.Errorf("%w: base selector: %w", ErrInvalidConfig, err)
	}
	if err := c.Effective.validate(); err != nil {
		return fmt.Errorf("%w: effective selector: %w", ErrInvalidConfig, err)
	}
	if _, err := c.ParsedPolicy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.SeverityTable(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Cache != nil && c.Cache.Capacity < 0 {
		return fmt.Errorf("%w: negative cache capacity", ErrInvalidConfig)
	}
	return nil
}

func (sc SelectorConfig) validate() error {
	set := 0
	if sc.Preset != "" {
		set++
		if sc.Preset != PresetDefault {
			return fmt.Errorf("unknown preset %q", sc.Preset)
		}
	}
	if sc.Path != "" {
		set++
	}
	if sc.Inline != nil {
		set++
		if err := sc.Inline.Validate(); err != nil {
			return err
		}
	}
	switch set {
	case 0:
		return errors.New("one of preset, path or inline is required")
	case 1:
		return nil
	default:
		return errors.New("preset, path and inline are mutually exclusive")
	}
}

// ParsedPolicy returns the version-selection policy.
func (c *Config) ParsedPolicy() (resolve.Policy, error) {
	return resolve.ParsePolicy(c.Policy)
}

// SeverityTable returns the configured table, or nil to use the published
// per-version ratings.
func (c *Config) SeverityTable() (severity.Table, error) {
	if c.Severity == nil || len(c.Severity.Ranges) == 0 {
		return nil, nil
	}
	table := make(severity.Table, 0, len(c.Severity.Ranges))
	for _, literal := range c.Severity.Ranges {
		r, err := severity.ParseRange(literal)
		if err != nil {
			return nil, err
		}
		table = append(table, r)
	}
	return table, nil
}

// BaseDocument returns the base selector document.
func (c *Config) BaseDocument() (selector.Document, error) {
	return c.document(c.Base, selector.DefaultBaseDocument)
}

// EffectiveDocument returns the effective selector document.
func (c *Config) EffectiveDocument() (selector.Document, error) {
	return c.document(c.Effective, selector.DefaultEffectiveDocument)
}

func (c *Config) document(sc SelectorConfig, preset func() selector.Document) (selector.Document, error) {
	switch {
	case sc.Inline != nil:
		return *sc.Inline, nil
	case sc.Path != "":
		return selector.LoadDocument(c.resolvePath(sc.Path))
	default:
		return preset(), nil
	}
}

// BuildRegistry returns the configured entity registry, or nil when none is
// configured. Defaults, file entities and inline entities are merged in that
// order before the registry is built.
func (c *Config) BuildRegistry() (*source.Registry, error) {
	rc := c.Registry
	if rc == nil {
		return nil, nil
	}

	var defs []source.Definition
	if rc.Defaults {
		defs = append(defs, source.DefaultDefinitions()...)
	}
	if rc.Path != "" {
		fileDefs, err := loadDefinitions(c.resolvePath(rc.Path))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	defs = append(defs, rc.Entities...)
	if len(defs) == 0 {
		return nil, nil
	}
	return source.NewRegistry(defs)
}

func loadDefinitions(path string) ([]source.Definition, error) {
	reg, err := source.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	defs := make([]source.Definition, 0, reg.Len())
	for _, e := range reg.Entities() {
		d := source.Definition{
			Key:     e.Key,
			Name:    e.Name,
			Email:   e.Email,
			URL:     e.URL,
			Country: e.Country,
			Role:    e.Role,
		}
		if p, ok := reg.Parent(e); ok {
			d.Root = p.Name
		}
		if top, ok := reg.TopLevelRoot(e); ok {
			d.TopLevelRoot = top.Name
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func (c *Config) resolvePath(path string) string {
	if filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
