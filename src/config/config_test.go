package config

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"house_assignment/src/housing"
	"house_assignment/src/solver"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOUSING_SOLVER_URL", "")
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTripWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Generator.Groups = 150
	cfg.Solver.Timeout = "30s"
	require.NoError(t, cfg.Save(path))

	t.Setenv("HOUSING_SOLVER_URL", "http://solver:9000")
	t.Setenv("PORT", "9100")
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150, loaded.Generator.Groups)
	assert.Equal(t, 30*time.Second, loaded.Solver.GetTimeout())
	assert.Equal(t, "http://solver:9000", loaded.Solver.BaseURL)
	assert.Equal(t, ":9100", loaded.Server.Addr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator: [1,"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"catalog":   func(c *Config) { c.Generator.Catalog = "csv" },
		"sampler":   func(c *Config) { c.Generator.PreferenceSampler = "zipf" },
		"ids":       func(c *Config) { c.Generator.IDScheme = "serial" },
		"members":   func(c *Config) { c.Generator.MinMembers = 0 },
		"backend":   func(c *Config) { c.Solver.Backend = "cplex" },
		"weighting": func(c *Config) { c.Solver.Weighting = "houses" },
		"timeout":   func(c *Config) { c.Solver.Timeout = "soon" },
		"endpoint":  func(c *Config) { c.Solver.Endpoints["C"] = EndpointConfig{Path: "/x"} },
		"level":     func(c *Config) { c.Logging.Level = "chatty" },
	} {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}

func TestGetTimeoutDefaultsToNone(t *testing.T) {
	assert.Zero(t, SolverConfig{}.GetTimeout())
	assert.Zero(t, SolverConfig{Timeout: "-1s"}.GetTimeout())
}

func TestNewGeneratorFromConfig(t *testing.T) {
	g := DefaultConfig().Generator
	g.Catalog = "fixed"
	g.PreferenceSampler = "size_weighted"
	g.IDScheme = "uuid"
	g.SizeWeights = map[string]int{"2XL": 90}

	gen, err := g.NewGenerator(nil)
	require.NoError(t, err)
	assert.IsType(t, &housing.FixedCatalog{}, gen.Catalog)
	require.IsType(t, housing.SizeWeighted{}, gen.Preferences)
	assert.Equal(t, 90, gen.Preferences.(housing.SizeWeighted).Weights[housing.SizeXXL])

	snap, err := gen.Generate(rand.New(rand.NewPCG(1, 2)), 40)
	require.NoError(t, err)
	assert.NoError(t, snap.Validate())
}

func TestNewGeneratorDistributionMismatch(t *testing.T) {
	g := DefaultConfig().Generator
	g.Distribution = []DistributionItem{{Size: "S", Count: 3}}
	gen, err := g.NewGenerator(nil)
	require.NoError(t, err)
	_, err = gen.Generate(rand.New(rand.NewPCG(1, 2)), 10)
	assert.ErrorIs(t, err, housing.ErrSizeDistributionMismatch)

	g.Distribution = []DistributionItem{{Size: "XS", Count: 3}}
	_, err = g.NewGenerator(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSolverFactories(t *testing.T) {
	s := DefaultConfig().Solver
	s.Endpoints["A"] = EndpointConfig{Path: "/custom", CapacityBand: true}
	c := s.NewClient(nil)
	assert.Equal(t, "/custom", c.Endpoints[housing.VariantA].Path)
	assert.True(t, c.Endpoints[housing.VariantA].Band)
	assert.True(t, c.Endpoints[housing.VariantB].Band)

	s.Backend = "lpsolve"
	local, err := s.NewLocal(nil)
	require.NoError(t, err)
	assert.IsType(t, solver.LPSolve{}, local.Backend)
}

func TestLoggingBuild(t *testing.T) {
	logger, err := LoggingConfig{Level: "warn"}.Build(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = LoggingConfig{Level: "warn"}.Build(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
