package catalog

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quantagraph/internal/errors"
)

// Snapshot is the declarative form of a catalog plus its statistics. It is
// what test fixtures, snapshot files and the SQL store exchange.
//
// Indexes are registered before UniqueIndexes, each list in order, so a
// unique index listed here always has a higher ordinal than every plain one.
type Snapshot struct {
	Statistics           StatisticsSpec     `yaml:"statistics" json:"statistics"`
	CardinalityOverrides map[string]float64 `yaml:"cardinality_overrides,omitempty" json:"cardinality_overrides,omitempty"`
	Indexes              []IndexSpec        `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	UniqueIndexes        []IndexSpec        `yaml:"unique_indexes,omitempty" json:"unique_indexes,omitempty"`
	KnownLabels          []string           `yaml:"known_labels,omitempty" json:"known_labels,omitempty"`
	KnownPropertyKeys    []string           `yaml:"known_property_keys,omitempty" json:"known_property_keys,omitempty"`
}

// IndexSpec names an index by label and property.
type IndexSpec struct {
	Label    string `yaml:"label" json:"label"`
	Property string `yaml:"property" json:"property"`
}

// StatisticsSpec holds the numeric statistics of a snapshot. Zero values
// fall back to the package defaults.
type StatisticsSpec struct {
	TotalNodes         float64            `yaml:"total_nodes,omitempty" json:"total_nodes,omitempty"`
	LabelSelectivity   float64            `yaml:"label_selectivity,omitempty" json:"label_selectivity,omitempty"`
	IndexSelectivity   float64            `yaml:"index_selectivity,omitempty" json:"index_selectivity,omitempty"`
	IDSeekCardinality  float64            `yaml:"id_seek_cardinality,omitempty" json:"id_seek_cardinality,omitempty"`
	LabelCounts        map[string]float64 `yaml:"label_counts,omitempty" json:"label_counts,omitempty"`
	IndexSelectivities map[string]float64 `yaml:"index_selectivities,omitempty" json:"index_selectivities,omitempty"`
}

// LoadSnapshot reads a YAML snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileIOError("read", path, err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a YAML snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.SnapshotCorruptedError(err.Error())
	}
	return &s, nil
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// StatsConfig returns the statistics configuration described by s, with
// defaults filled in and collection erosion enabled.
func (s *Snapshot) StatsConfig() StatsConfig {
	return s.StatsConfigFrom(DefaultStatsConfig())
}

// StatsConfigFrom layers the snapshot's statistics over base. Zero
// snapshot values keep the base value.
func (s *Snapshot) StatsConfigFrom(base StatsConfig) StatsConfig {
	cfg := base
	if s.Statistics.TotalNodes != 0 {
		cfg.TotalNodes = s.Statistics.TotalNodes
	}
	if s.Statistics.LabelSelectivity != 0 {
		cfg.LabelSelectivity = s.Statistics.LabelSelectivity
	}
	if s.Statistics.IndexSelectivity != 0 {
		cfg.IndexSelectivity = s.Statistics.IndexSelectivity
	}
	if s.Statistics.IDSeekCardinality != 0 {
		cfg.IDSeekCardinality = s.Statistics.IDSeekCardinality
	}
	cfg.LabelCounts = s.Statistics.LabelCounts
	cfg.IndexSelectivities = s.Statistics.IndexSelectivities
	cfg.Overrides = s.CardinalityOverrides
	return cfg
}

// BuildCatalog registers the snapshot's tokens and indexes in a new
// MemoryCatalog.
func (s *Snapshot) BuildCatalog() (*MemoryCatalog, error) {
	c := NewMemoryCatalog()
	for _, l := range s.KnownLabels {
		c.AddLabel(l)
	}
	for _, p := range s.KnownPropertyKeys {
		c.AddPropertyKey(p)
	}
	for _, idx := range s.Indexes {
		if _, err := c.CreateIndex(idx.Label, idx.Property, false); err != nil {
			return nil, err
		}
	}
	for _, idx := range s.UniqueIndexes {
		if _, err := c.CreateIndex(idx.Label, idx.Property, true); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Build returns both adapters described by the snapshot.
func (s *Snapshot) Build() (*MemoryCatalog, *MemoryStatistics, error) {
	return s.BuildWith(DefaultStatsConfig())
}

// BuildWith is Build with the statistics layered over base.
func (s *Snapshot) BuildWith(base StatsConfig) (*MemoryCatalog, *MemoryStatistics, error) {
	cfg := s.StatsConfigFrom(base)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	c, err := s.BuildCatalog()
	if err != nil {
		return nil, nil, err
	}
	if err := checkSelectivityKeys(c, cfg.IndexSelectivities); err != nil {
		return nil, nil, err
	}
	return c, NewMemoryStatistics(cfg), nil
}

// checkSelectivityKeys rejects per-index selectivities for indexes the
// catalog does not have.
func checkSelectivityKeys(c Catalog, selectivities map[string]float64) error {
	for key := range selectivities {
		label, property, ok := strings.Cut(key, ".")
		if !ok || label == "" || property == "" {
			return errors.InvalidParameterValueError("index_selectivities", key, "keys have the form Label.property")
		}
		if _, plain := c.LookupIndex(label, property); plain {
			continue
		}
		if _, unique := c.LookupUniqueIndex(label, property); unique {
			continue
		}
		return errors.UndefinedIndexError(label, property).
			WithDetailf("index_selectivities names %s", key)
	}
	return nil
}
