package config

import (
	"os"
	"strconv"
)

// LoadFromEnv returns the default configuration with QUANTAGRAPH_*
// environment variables applied.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides c with any QUANTAGRAPH_* environment variables that
// are set. Unparsable values are ignored.
func (c *Config) ApplyEnv() {
	c.Log.Level = getEnv("QUANTAGRAPH_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("QUANTAGRAPH_LOG_FORMAT", c.Log.Format)

	c.Planner.UniqueIndexDominance = getEnvBool("QUANTAGRAPH_UNIQUE_INDEX_DOMINANCE", c.Planner.UniqueIndexDominance)
	c.Planner.ResolveTokens = getEnvBool("QUANTAGRAPH_RESOLVE_TOKENS", c.Planner.ResolveTokens)
	c.Planner.DefaultCollectionSize = getEnvInt("QUANTAGRAPH_DEFAULT_COLLECTION_SIZE", c.Planner.DefaultCollectionSize)

	c.Statistics.TotalNodes = getEnvFloat("QUANTAGRAPH_TOTAL_NODES", c.Statistics.TotalNodes)
	c.Statistics.LabelSelectivity = getEnvFloat("QUANTAGRAPH_LABEL_SELECTIVITY", c.Statistics.LabelSelectivity)
	c.Statistics.IndexSelectivity = getEnvFloat("QUANTAGRAPH_INDEX_SELECTIVITY", c.Statistics.IndexSelectivity)
	c.Statistics.IDSeekCardinality = getEnvFloat("QUANTAGRAPH_ID_SEEK_CARDINALITY", c.Statistics.IDSeekCardinality)
	c.Statistics.CollectionErosion = getEnvBool("QUANTAGRAPH_COLLECTION_EROSION", c.Statistics.CollectionErosion)

	if v := os.Getenv("QUANTAGRAPH_CATALOG"); v != "" {
		c.Catalog.Snapshot = v
		c.Catalog.DSN = ""
	}
	if v := os.Getenv("QUANTAGRAPH_DSN"); v != "" {
		c.Catalog.DSN = v
		c.Catalog.Snapshot = ""
	}

	c.Runner.Workers = getEnvInt("QUANTAGRAPH_WORKERS", c.Runner.Workers)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
