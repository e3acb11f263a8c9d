// Package config holds the leafplan configuration: logging, planner
// policy, default statistics, the catalog source and the workload runner.
// Values come from defaults, a YAML file, QUANTAGRAPH_* environment
// variables and command-line flags, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/feature"
	"github.com/dshills/quantagraph/internal/log"
	"github.com/dshills/quantagraph/internal/planner"
)

// Config represents the complete leafplan configuration.
type Config struct {
	Log        log.Config       `yaml:"log" json:"log"`
	Planner    PlannerConfig    `yaml:"planner" json:"planner"`
	Statistics StatisticsConfig `yaml:"statistics" json:"statistics"`
	Catalog    CatalogConfig    `yaml:"catalog" json:"catalog"`
	Runner     RunnerConfig     `yaml:"runner" json:"runner"`
}

// PlannerConfig represents planner policy.
type PlannerConfig struct {
	UniqueIndexDominance  bool `yaml:"unique_index_dominance" json:"unique_index_dominance"`
	ResolveTokens         bool `yaml:"resolve_tokens" json:"resolve_tokens"`
	DefaultCollectionSize int  `yaml:"default_collection_size" json:"default_collection_size"`
}

// StatisticsConfig holds the statistics used where a catalog snapshot
// does not set its own.
type StatisticsConfig struct {
	TotalNodes        float64 `yaml:"total_nodes" json:"total_nodes"`
	LabelSelectivity  float64 `yaml:"label_selectivity" json:"label_selectivity"`
	IndexSelectivity  float64 `yaml:"index_selectivity" json:"index_selectivity"`
	IDSeekCardinality float64 `yaml:"id_seek_cardinality" json:"id_seek_cardinality"`
	CollectionErosion bool    `yaml:"collection_erosion" json:"collection_erosion"`
}

// CatalogConfig names where the catalog snapshot is read from. At most one
// of Snapshot and DSN may be set.
type CatalogConfig struct {
	Snapshot string `yaml:"snapshot" json:"snapshot"` // YAML snapshot file
	DSN      string `yaml:"dsn" json:"dsn"`           // sqlite3:// or postgres:// store
}

// RunnerConfig represents workload runner configuration.
type RunnerConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: log.DefaultConfig(),
		Planner: PlannerConfig{
			UniqueIndexDominance:  false,
			ResolveTokens:         true,
			DefaultCollectionSize: planner.DefaultCollectionSize,
		},
		Statistics: StatisticsConfig{
			TotalNodes:        catalog.DefaultTotalNodes,
			LabelSelectivity:  catalog.DefaultLabelSelectivity,
			IndexSelectivity:  catalog.DefaultIndexSelectivity,
			IDSeekCardinality: catalog.DefaultIDSeekCardinality,
			CollectionErosion: true,
		},
		Runner: RunnerConfig{
			Workers: 4,
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileIOError("read", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ConfigFileError, "failed to parse config file").
			WithDetail(err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFlags merges command-line flags into the configuration. Empty
// values leave the configuration untouched.
func (c *Config) LoadFromFlags(snapshot, dsn string, verbose bool) {
	if snapshot != "" {
		c.Catalog.Snapshot = snapshot
		c.Catalog.DSN = ""
	}
	if dsn != "" {
		c.Catalog.DSN = dsn
		c.Catalog.Snapshot = ""
	}
	if verbose {
		c.Log.Level = "debug"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
		// Valid
	default:
		return errors.InvalidConfigurationError("log.level", c.Log.Level).
			WithHint("Use one of debug, info, warn or error.")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.InvalidConfigurationError("log.format", c.Log.Format).
			WithHint("Use text or json.")
	}

	if c.Planner.DefaultCollectionSize < 1 {
		return errors.InvalidConfigurationError("planner.default_collection_size",
			fmt.Sprint(c.Planner.DefaultCollectionSize)).
			WithDetail("collection size must be at least 1")
	}

	if err := c.StatsConfig(nil).Validate(); err != nil {
		return err
	}

	if c.Catalog.Snapshot != "" && c.Catalog.DSN != "" {
		return errors.New(errors.ConfigFileError, "catalog snapshot and dsn are mutually exclusive")
	}

	if c.Runner.Workers < 1 {
		return errors.InvalidConfigurationError("runner.workers", fmt.Sprint(c.Runner.Workers)).
			WithDetail("at least one worker is required")
	}

	return nil
}

// Features returns a feature flag manager seeded from the configuration.
// QUANTAGRAPH_FEATURE_* environment variables take precedence.
func (c *Config) Features() *feature.Manager {
	m := feature.NewManager()
	m.SetDefault(feature.UniqueIndexDominance, c.Planner.UniqueIndexDominance)
	m.SetDefault(feature.TokenResolution, c.Planner.ResolveTokens)
	m.SetDefault(feature.CollectionErosion, c.Statistics.CollectionErosion)
	return m
}

// PlannerOptions returns the planner options. Flags in m, when non-nil,
// decide the policy toggles.
func (c *Config) PlannerOptions(m *feature.Manager) planner.Options {
	opts := planner.Options{
		UniqueIndexDominance:  c.Planner.UniqueIndexDominance,
		ResolveTokens:         c.Planner.ResolveTokens,
		DefaultCollectionSize: c.Planner.DefaultCollectionSize,
	}
	if m != nil {
		opts.UniqueIndexDominance = m.IsEnabled(feature.UniqueIndexDominance)
		opts.ResolveTokens = m.IsEnabled(feature.TokenResolution)
	}
	return opts
}

// StatsConfig returns the base statistics configuration that catalog
// snapshots are layered over.
func (c *Config) StatsConfig(m *feature.Manager) catalog.StatsConfig {
	cfg := catalog.StatsConfig{
		TotalNodes:        c.Statistics.TotalNodes,
		LabelSelectivity:  c.Statistics.LabelSelectivity,
		IndexSelectivity:  c.Statistics.IndexSelectivity,
		IDSeekCardinality: c.Statistics.IDSeekCardinality,
		CollectionErosion: c.Statistics.CollectionErosion,
	}
	if m != nil {
		cfg.CollectionErosion = m.IsEnabled(feature.CollectionErosion)
	}
	return cfg
}

// Workers returns the workload concurrency. A disabled parallel_workload
// flag forces a single worker.
func (c *Config) Workers(m *feature.Manager) int {
	if m != nil && !m.IsEnabled(feature.ParallelWorkload) {
		return 1
	}
	return c.Runner.Workers
}
