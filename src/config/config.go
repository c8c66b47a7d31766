// Package config loads the YAML configuration shared by the command line tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"house_assignment/src/client"
	"house_assignment/src/housing"
	"house_assignment/src/outcome"
	"house_assignment/src/solver"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Solver    SolverConfig    `yaml:"solver"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type GeneratorConfig struct {
	Groups            int                `yaml:"groups"`
	Seed              uint64             `yaml:"seed"`
	Catalog           string             `yaml:"catalog"`
	Houses            int                `yaml:"houses"`
	PreferenceSampler string             `yaml:"preference_sampler"`
	IDScheme          string             `yaml:"id_scheme"`
	MinMembers        int                `yaml:"min_members"`
	MaxMembers        int                `yaml:"max_members"`
	Reconcile         bool               `yaml:"reconcile"`
	Categories        []CategoryConfig   `yaml:"categories,omitempty"`
	SizeWeights       map[string]int     `yaml:"size_weights,omitempty"`
	Distribution      []DistributionItem `yaml:"distribution,omitempty"`
}

type CategoryConfig struct {
	Size    string `yaml:"size"`
	Low     int    `yaml:"low"`
	High    int    `yaml:"high"`
	Divisor int    `yaml:"divisor"`
}

type DistributionItem struct {
	Size  string `yaml:"size"`
	Count int    `yaml:"count"`
}

type EndpointConfig struct {
	Path         string `yaml:"path"`
	CapacityBand bool   `yaml:"capacity_band"`
}

type SolverConfig struct {
	BaseURL   string                    `yaml:"base_url"`
	Timeout   string                    `yaml:"timeout"`
	Backend   string                    `yaml:"backend"`
	Weighting string                    `yaml:"weighting"`
	Endpoints map[string]EndpointConfig `yaml:"endpoints"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Groups:            2000,
			Catalog:           "synthetic",
			Houses:            22,
			PreferenceSampler: "uniform",
			IDScheme:          string(housing.IDCounter),
			MinMembers:        1,
			MaxMembers:        3,
			Reconcile:         true,
		},
		Solver: SolverConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   "0s",
			Backend:   "highs",
			Weighting: "people",
			Endpoints: map[string]EndpointConfig{
				"A": {Path: "/api/solve_va"},
				"B": {Path: "/api/solve_vb", CapacityBand: true},
			},
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:4321", "http://localhost:8000"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("HOUSING_SOLVER_URL"); url != "" {
		c.Solver.BaseURL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
}

// GetTimeout returns zero, meaning no timeout, when the value is empty or invalid.
func (s SolverConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Config) Validate() error {
	g := c.Generator
	if g.Groups < 0 {
		return fmt.Errorf("%w: generator.groups must not be negative", ErrInvalidConfig)
	}
	if g.MinMembers < 1 || g.MaxMembers < g.MinMembers {
		return fmt.Errorf("%w: member range [%d, %d]", ErrInvalidConfig, g.MinMembers, g.MaxMembers)
	}
	switch g.Catalog {
	case "synthetic", "fixed":
	default:
		return fmt.Errorf("%w: unknown catalog %q", ErrInvalidConfig, g.Catalog)
	}
	switch g.PreferenceSampler {
	case "uniform", "size_weighted":
	default:
		return fmt.Errorf("%w: unknown preference sampler %q", ErrInvalidConfig, g.PreferenceSampler)
	}
	switch housing.IDScheme(g.IDScheme) {
	case housing.IDCounter, housing.IDRandomPool, housing.IDUUID:
	default:
		return fmt.Errorf("%w: unknown id scheme %q", ErrInvalidConfig, g.IDScheme)
	}
	if _, err := solver.BackendByName(c.Solver.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := outcome.ParseWeighting(c.Solver.Weighting); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Solver.Timeout != "" {
		if _, err := time.ParseDuration(c.Solver.Timeout); err != nil {
			return fmt.Errorf("%w: solver.timeout: %v", ErrInvalidConfig, err)
		}
	}
	for name := range c.Solver.Endpoints {
		if _, err := housing.ParseVariant(name); err != nil {
			return fmt.Errorf("%w: endpoint %q: %v", ErrInvalidConfig, name, err)
		}
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Build returns the logger described by the config. verbose forces debug level.
func (l LoggingConfig) Build(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if l.Development {
		config = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewGenerator assembles the generator the config describes.
func (g GeneratorConfig) NewGenerator(logger *zap.Logger) (*housing.Generator, error) {
	gen := housing.NewGenerator()
	gen.Logger = logger
	gen.IDs = housing.IDScheme(g.IDScheme)
	gen.MinMembers = g.MinMembers
	gen.MaxMembers = g.MaxMembers
	gen.Reconcile = g.Reconcile

	if len(g.Categories) > 0 {
		categories := make(map[housing.Size]housing.SizeCategory, len(g.Categories))
		for _, c := range g.Categories {
			size, err := housing.ParseSize(c.Size)
			if err != nil {
				return nil, fmt.Errorf("%w: category: %v", ErrInvalidConfig, err)
			}
			categories[size] = housing.SizeCategory{Size: size, Low: c.Low, High: c.High, Divisor: c.Divisor}
		}
		gen.Categories = categories
	}

	switch g.Catalog {
	case "fixed":
		gen.Catalog = housing.NewFixedCatalog()
	default:
		catalog := housing.NewSyntheticCatalog(g.Houses)
		catalog.Categories = gen.Categories
		if len(g.Distribution) > 0 {
			catalog.Distribution = nil
			for _, d := range g.Distribution {
				size, err := housing.ParseSize(d.Size)
				if err != nil {
					return nil, fmt.Errorf("%w: distribution: %v", ErrInvalidConfig, err)
				}
				catalog.Distribution = append(catalog.Distribution, housing.DistributionEntry{Size: size, Count: d.Count})
			}
		}
		gen.Catalog = catalog
	}

	if g.PreferenceSampler == "size_weighted" {
		weights := housing.DefaultSizeWeights()
		for name, w := range g.SizeWeights {
			size, err := housing.ParseSize(name)
			if err != nil {
				return nil, fmt.Errorf("%w: size weight: %v", ErrInvalidConfig, err)
			}
			weights[size] = w
		}
		gen.Preferences = housing.SizeWeighted{Weights: weights}
	}
	return gen, nil
}

// NewClient returns an HTTP client for the configured solver service.
func (s SolverConfig) NewClient(logger *zap.Logger) *client.Client {
	c := client.New(s.BaseURL, s.GetTimeout(), logger)
	for name, ep := range s.Endpoints {
		variant, err := housing.ParseVariant(name)
		if err != nil {
			continue
		}
		c.Endpoints[variant] = client.Endpoint{Path: ep.Path, Band: ep.CapacityBand}
	}
	return c
}

// NewLocal returns the in-process reference solver.
func (s SolverConfig) NewLocal(logger *zap.Logger) (*solver.Solver, error) {
	backend, err := solver.BackendByName(s.Backend)
	if err != nil {
		return nil, err
	}
	return solver.New(backend, logger), nil
}
