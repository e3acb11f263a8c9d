package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/feature"
	"github.com/dshills/quantagraph/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Planner.UniqueIndexDominance)
	assert.True(t, cfg.Planner.ResolveTokens)
	assert.Equal(t, 10, cfg.Planner.DefaultCollectionSize)
	assert.Equal(t, 1000.0, cfg.Statistics.TotalNodes)
	assert.True(t, cfg.Statistics.CollectionErosion)
	assert.Equal(t, 4, cfg.Runner.Workers)

	opts := cfg.PlannerOptions(nil)
	assert.True(t, opts.ResolveTokens)
	assert.Equal(t, 10, opts.DefaultCollectionSize)
}

func TestLoadFromFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := testutil.WriteFile(t, dir, "leafplan.yaml", `
log:
  level: debug
  format: json
planner:
  unique_index_dominance: true
statistics:
  total_nodes: 250
runner:
  workers: 2
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Planner.UniqueIndexDominance)
	// untouched keys keep defaults
	assert.True(t, cfg.Planner.ResolveTokens)
	assert.Equal(t, 10, cfg.Planner.DefaultCollectionSize)
	assert.Equal(t, 250.0, cfg.Statistics.TotalNodes)
	assert.Equal(t, 0.2, cfg.Statistics.LabelSelectivity)
	assert.Equal(t, 2, cfg.Runner.Workers)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	testutil.AssertErrorCode(t, err, errors.IOError)

	bad := testutil.WriteFile(t, dir, "bad.yaml", "planner: [unterminated")
	_, err = LoadFromFile(bad)
	testutil.AssertErrorCode(t, err, errors.ConfigFileError)

	invalid := testutil.WriteFile(t, dir, "invalid.yaml", "runner:\n  workers: 0\n")
	_, err = LoadFromFile(invalid)
	testutil.AssertErrorCode(t, err, errors.ConfigFileError)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, errors.ConfigFileError},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, errors.ConfigFileError},
		{"zero collection size", func(c *Config) { c.Planner.DefaultCollectionSize = 0 }, errors.ConfigFileError},
		{"selectivity above one", func(c *Config) { c.Statistics.LabelSelectivity = 1.5 }, errors.InvalidParameterValue},
		{"negative nodes", func(c *Config) { c.Statistics.TotalNodes = -1 }, errors.InvalidParameterValue},
		{"both catalog sources", func(c *Config) {
			c.Catalog.Snapshot = "catalog.yaml"
			c.Catalog.DSN = "sqlite3://:memory:"
		}, errors.ConfigFileError},
		{"no workers", func(c *Config) { c.Runner.Workers = 0 }, errors.ConfigFileError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			testutil.AssertErrorCode(t, cfg.Validate(), tt.code)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QUANTAGRAPH_LOG_LEVEL", "warn")
	t.Setenv("QUANTAGRAPH_UNIQUE_INDEX_DOMINANCE", "true")
	t.Setenv("QUANTAGRAPH_DEFAULT_COLLECTION_SIZE", "25")
	t.Setenv("QUANTAGRAPH_INDEX_SELECTIVITY", "0.05")
	t.Setenv("QUANTAGRAPH_COLLECTION_EROSION", "false")
	t.Setenv("QUANTAGRAPH_DSN", "sqlite3://catalog.db")
	t.Setenv("QUANTAGRAPH_WORKERS", "not-a-number")

	cfg := LoadFromEnv()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Planner.UniqueIndexDominance)
	assert.Equal(t, 25, cfg.Planner.DefaultCollectionSize)
	assert.Equal(t, 0.05, cfg.Statistics.IndexSelectivity)
	assert.False(t, cfg.Statistics.CollectionErosion)
	assert.Equal(t, "sqlite3://catalog.db", cfg.Catalog.DSN)
	// unparsable values are ignored
	assert.Equal(t, 4, cfg.Runner.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.DSN = "postgres://localhost/catalog"

	cfg.LoadFromFlags("catalog.yaml", "", true)
	assert.Equal(t, "catalog.yaml", cfg.Catalog.Snapshot)
	assert.Empty(t, cfg.Catalog.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg.LoadFromFlags("", "", false)
	assert.Equal(t, "catalog.yaml", cfg.Catalog.Snapshot)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFeaturesFollowConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.UniqueIndexDominance = true
	cfg.Statistics.CollectionErosion = false

	m := cfg.Features()
	assert.True(t, m.IsEnabled(feature.UniqueIndexDominance))
	assert.False(t, m.IsEnabled(feature.CollectionErosion))

	opts := cfg.PlannerOptions(m)
	assert.True(t, opts.UniqueIndexDominance)
	assert.False(t, cfg.StatsConfig(m).CollectionErosion)
	assert.Equal(t, 4, cfg.Workers(m))

	m.Disable(feature.ParallelWorkload)
	assert.Equal(t, 1, cfg.Workers(m))
}

func TestFeatureEnvironmentWins(t *testing.T) {
	t.Setenv("QUANTAGRAPH_FEATURE_TOKEN_RESOLUTION", "false")

	cfg := DefaultConfig()
	require.True(t, cfg.Planner.ResolveTokens)

	opts := cfg.PlannerOptions(cfg.Features())
	assert.False(t, opts.ResolveTokens)
}
