package catalog

import (
	"fmt"
	"math"
	"sync"

	"github.com/dshills/quantagraph/internal/errors"
)

// Statistics estimates the cardinality of hypothetical leaf plans.
// Estimates must be finite and non-negative; larger is strictly more
// expensive.
type Statistics interface {
	Estimate(shape Shape) float64
}

// Shape describes a leaf plan to the statistics adapter.
type Shape interface {
	// Key identifies the shape for cardinality overrides. Collection
	// sizes are not part of the key.
	Key() string
	String() string
	shape()
}

// AllNodesShape is the shape of a full node scan.
type AllNodesShape struct{}

// LabelShape is the shape of a label scan.
type LabelShape struct {
	Label string
}

// IDSeekShape is the shape of a direct id lookup of Values ids.
type IDSeekShape struct {
	Values int
}

// IndexSeekShape is the shape of a property index seek for Values values.
type IndexSeekShape struct {
	Label    string
	Property string
	Unique   bool
	Values   int
}

func (AllNodesShape) shape()  {}
func (LabelShape) shape()     {}
func (IDSeekShape) shape()    {}
func (IndexSeekShape) shape() {}

func (AllNodesShape) Key() string    { return "all_nodes" }
func (s LabelShape) Key() string     { return "label:" + s.Label }
func (IDSeekShape) Key() string      { return "id_seek" }
func (s IndexSeekShape) Key() string { return IndexSeekKey(s.Label, s.Property, s.Unique) }

func (AllNodesShape) String() string { return "AllNodes" }

func (s LabelShape) String() string {
	return fmt.Sprintf("LabelCount(%s)", s.Label)
}

func (s IDSeekShape) String() string {
	return fmt.Sprintf("IdSeek(values=%d)", s.Values)
}

func (s IndexSeekShape) String() string {
	name := "IndexSeek"
	if s.Unique {
		name = "UniqueIndexSeek"
	}
	return fmt.Sprintf("%s(:%s(%s), values=%d)", name, s.Label, s.Property, s.Values)
}

// IndexSeekKey returns the override key of an index seek shape.
func IndexSeekKey(label, property string, unique bool) string {
	if unique {
		return "unique_index:" + label + "." + property
	}
	return "index:" + label + "." + property
}

// SelectivityKey returns the key used for per-index selectivities.
func SelectivityKey(label, property string) string {
	return label + "." + property
}

// Default statistics used when nothing more specific is known.
const (
	DefaultTotalNodes        = 1000
	DefaultLabelSelectivity  = 0.2
	DefaultIndexSelectivity  = 0.02
	DefaultIDSeekCardinality = 1
)

// StatsConfig holds the inputs of MemoryStatistics.
type StatsConfig struct {
	TotalNodes        float64
	LabelSelectivity  float64
	IndexSelectivity  float64
	IDSeekCardinality float64

	// LabelCounts replaces TotalNodes*LabelSelectivity for specific labels.
	LabelCounts map[string]float64
	// IndexSelectivities holds per-value selectivities keyed by SelectivityKey.
	IndexSelectivities map[string]float64
	// Overrides replaces the estimate of any shape, keyed by Shape.Key.
	Overrides map[string]float64

	// CollectionErosion enables the large-collection policy for non-unique
	// index seeks. When disabled a membership seek is costed like an
	// equality seek.
	CollectionErosion bool
}

// DefaultStatsConfig returns the default statistics configuration.
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{
		TotalNodes:        DefaultTotalNodes,
		LabelSelectivity:  DefaultLabelSelectivity,
		IndexSelectivity:  DefaultIndexSelectivity,
		IDSeekCardinality: DefaultIDSeekCardinality,
		CollectionErosion: true,
	}
}

// Validate checks that every configured value is a usable estimate input.
func (c StatsConfig) Validate() error {
	if err := checkCount("total_nodes", c.TotalNodes); err != nil {
		return err
	}
	if err := checkFraction("label_selectivity", c.LabelSelectivity); err != nil {
		return err
	}
	if err := checkFraction("index_selectivity", c.IndexSelectivity); err != nil {
		return err
	}
	if err := checkCount("id_seek_cardinality", c.IDSeekCardinality); err != nil {
		return err
	}
	for label, n := range c.LabelCounts {
		if err := checkCount("label_counts."+label, n); err != nil {
			return err
		}
	}
	for key, s := range c.IndexSelectivities {
		if err := checkFraction("index_selectivities."+key, s); err != nil {
			return err
		}
	}
	for key, n := range c.Overrides {
		if err := checkCount("cardinality_overrides."+key, n); err != nil {
			return err
		}
	}
	return nil
}

func checkCount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errors.InvalidParameterValueError(name, fmt.Sprint(v), "must be a finite non-negative number")
	}
	return nil
}

func checkFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errors.InvalidParameterValueError(name, fmt.Sprint(v), "must be between 0 and 1")
	}
	return nil
}

// MemoryStatistics answers cardinality estimates from fixed numbers.
// It is safe for concurrent use.
type MemoryStatistics struct {
	mu  sync.RWMutex
	cfg StatsConfig
}

// NewMemoryStatistics creates statistics from cfg. Maps are copied.
func NewMemoryStatistics(cfg StatsConfig) *MemoryStatistics {
	cfg.LabelCounts = copyMap(cfg.LabelCounts)
	cfg.IndexSelectivities = copyMap(cfg.IndexSelectivities)
	cfg.Overrides = copyMap(cfg.Overrides)
	return &MemoryStatistics{cfg: cfg}
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Config returns a copy of the statistics configuration.
func (s *MemoryStatistics) Config() StatsConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.LabelCounts = copyMap(cfg.LabelCounts)
	cfg.IndexSelectivities = copyMap(cfg.IndexSelectivities)
	cfg.Overrides = copyMap(cfg.Overrides)
	return cfg
}

// SetOverride replaces the estimate for every shape with the given key.
func (s *MemoryStatistics) SetOverride(key string, cardinality float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Overrides[key] = cardinality
}

// Estimate implements Statistics. Index seeks are costed against the total
// node count, TotalNodes × selectivity, not against the label count.
func (s *MemoryStatistics) Estimate(shape Shape) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.cfg.Overrides[shape.Key()]; ok {
		return v
	}

	switch sh := shape.(type) {
	case AllNodesShape:
		return s.cfg.TotalNodes
	case LabelShape:
		if n, ok := s.cfg.LabelCounts[sh.Label]; ok {
			return n
		}
		return s.cfg.TotalNodes * s.cfg.LabelSelectivity
	case IDSeekShape:
		return s.cfg.IDSeekCardinality * float64(sh.Values)
	case IndexSeekShape:
		return s.cfg.TotalNodes * s.seekSelectivity(sh)
	default:
		return s.cfg.TotalNodes
	}
}

func (s *MemoryStatistics) seekSelectivity(sh IndexSeekShape) float64 {
	sel, ok := s.cfg.IndexSelectivities[SelectivityKey(sh.Label, sh.Property)]
	if !ok {
		sel = s.cfg.IndexSelectivity
	}
	if !s.cfg.CollectionErosion {
		return sel
	}
	return ErodedSelectivity(sel, sh.Values, sh.Unique)
}

// ErodedSelectivity applies the large-collection policy: a non-unique seek
// for n values matches 1-(1-s)^n of all nodes. Unique seeks keep s.
func ErodedSelectivity(s float64, n int, unique bool) float64 {
	if unique || n == 1 {
		return s
	}
	if n < 0 {
		n = 0
	}
	return 1 - math.Pow(1-s, float64(n))
}
