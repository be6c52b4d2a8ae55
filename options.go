package cvssel

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/cvssel/config"
	"github.com/zero-day-ai/cvssel/cvss"
	"github.com/zero-day-ai/cvssel/resolve"
	"github.com/zero-day-ai/cvssel/source"
)

// Option configures the Engine.
type Option func(*engineConfig)

// engineConfig holds configuration for the Engine instance. Fields set by
// options take precedence over the configuration file.
type engineConfig struct {
	configPath string
	config     *config.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	cache      *cvss.Cache
	registry   *source.Registry
	policy     resolve.Policy
	workers    int
}

// WithConfigFile loads the engine configuration from a YAML or JSON file, or
// from a directory holding cvssel.yaml.
func WithConfigFile(path string) Option {
	return func(c *engineConfig) {
		c.configPath = path
	}
}

// WithConfig uses an already loaded configuration.
// If neither WithConfig nor WithConfigFile is given, config.Default() is used.
func WithConfig(cfg *config.Config) Option {
	return func(c *engineConfig) {
		c.config = cfg
	}
}

// WithLogger sets a custom logger for the engine and its selectors.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Every selection records a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for selector and cache counters.
func WithMeter(meter metric.Meter) Option {
	return func(c *engineConfig) {
		c.meter = meter
	}
}

// WithCache shares a score cache with the engine.
func WithCache(cache *cvss.Cache) Option {
	return func(c *engineConfig) {
		c.cache = cache
	}
}

// WithRegistry replaces the configured entity registry.
func WithRegistry(reg *source.Registry) Option {
	return func(c *engineConfig) {
		c.registry = reg
	}
}

// WithPolicy replaces the configured version-selection policy.
func WithPolicy(p resolve.Policy) Option {
	return func(c *engineConfig) {
		c.policy = p
	}
}

// WithWorkers bounds the parallelism of AssessBatch.
func WithWorkers(n int) Option {
	return func(c *engineConfig) {
		c.workers = n
	}
}
