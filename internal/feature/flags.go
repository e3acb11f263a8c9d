// Package feature provides feature flags that toggle planner policies at
// runtime. Every flag can be overridden with a QUANTAGRAPH_FEATURE_<NAME>
// environment variable.
package feature

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Flag represents a feature flag
type Flag string

// Planner flags
const (
	// UniqueIndexDominance makes seek uniqueness outrank index ordinals
	// when index seeks tie on cardinality.
	UniqueIndexDominance Flag = "unique_index_dominance"
	// TokenResolution attaches catalog ids to label and property tokens.
	TokenResolution Flag = "token_resolution"
)

// Statistics flags
const (
	// CollectionErosion applies the large-collection policy to
	// non-unique membership seeks.
	CollectionErosion Flag = "collection_erosion"
)

// Runner flags
const (
	// ParallelWorkload plans workload items concurrently.
	ParallelWorkload Flag = "parallel_workload"
)

// FlagMetadata contains information about a feature flag
type FlagMetadata struct {
	Name         Flag
	Description  string
	DefaultValue bool
	Category     string
	Stability    string // "stable", "beta", "experimental"
}

// Manager holds the state of every flag. Each leafplan invocation builds
// its own Manager from configuration; it is safe for concurrent use.
type Manager struct {
	flags    map[Flag]*flagState
	mu       sync.RWMutex
	metadata map[Flag]*FlagMetadata
}

type flagState struct {
	enabled    atomic.Bool
	overridden bool
	envVar     string
}

// NewManager creates a manager with every flag registered at its default
// value and environment overrides applied.
func NewManager() *Manager {
	m := &Manager{
		flags:    make(map[Flag]*flagState),
		metadata: make(map[Flag]*FlagMetadata),
	}

	m.registerFlags()
	m.loadFromEnvironment()

	return m
}

// registerFlags registers all known feature flags
func (m *Manager) registerFlags() {
	m.register(UniqueIndexDominance, &FlagMetadata{
		Name:         UniqueIndexDominance,
		Description:  "Prefer unique index seeks over later registered indexes on equal estimates",
		DefaultValue: false,
		Category:     "planner",
		Stability:    "beta",
	})

	m.register(TokenResolution, &FlagMetadata{
		Name:         TokenResolution,
		Description:  "Resolve label and property key ids at plan time",
		DefaultValue: true,
		Category:     "planner",
		Stability:    "stable",
	})

	m.register(CollectionErosion, &FlagMetadata{
		Name:         CollectionErosion,
		Description:  "Erode non-unique index selectivity for large IN collections",
		DefaultValue: true,
		Category:     "statistics",
		Stability:    "stable",
	})

	m.register(ParallelWorkload, &FlagMetadata{
		Name:         ParallelWorkload,
		Description:  "Plan workload items concurrently",
		DefaultValue: true,
		Category:     "runner",
		Stability:    "stable",
	})
}

// register adds a flag to the manager
func (m *Manager) register(flag Flag, metadata *FlagMetadata) {
	state := &flagState{
		envVar: flagToEnvVar(flag),
	}
	state.enabled.Store(metadata.DefaultValue)

	m.flags[flag] = state
	m.metadata[flag] = metadata
}

// loadFromEnvironment loads flag values from environment variables
func (m *Manager) loadFromEnvironment() {
	for _, state := range m.flags {
		if val := os.Getenv(state.envVar); val != "" {
			if enabled, err := strconv.ParseBool(val); err == nil {
				state.enabled.Store(enabled)
				state.overridden = true
			}
		}
	}
}

// IsEnabled reports whether flag is on. Unknown flags are off.
func (m *Manager) IsEnabled(flag Flag) bool {
	m.mu.RLock()
	state, exists := m.flags[flag]
	m.mu.RUnlock()

	if !exists {
		return false
	}

	return state.enabled.Load()
}

// Enable enables a feature flag
func (m *Manager) Enable(flag Flag) {
	m.setFlag(flag, true)
}

// Disable disables a feature flag
func (m *Manager) Disable(flag Flag) {
	m.setFlag(flag, false)
}

// SetDefault sets a flag from configuration unless the environment
// overrides it.
func (m *Manager) SetDefault(flag Flag, enabled bool) {
	m.mu.RLock()
	state, exists := m.flags[flag]
	m.mu.RUnlock()

	if !exists || state.overridden {
		return
	}
	m.setFlag(flag, enabled)
}

// IsOverridden reports whether the environment set the flag.
func (m *Manager) IsOverridden(flag Flag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.flags[flag]
	return exists && state.overridden
}

func (m *Manager) setFlag(flag Flag, enabled bool) {
	m.mu.RLock()
	state, exists := m.flags[flag]
	m.mu.RUnlock()

	if exists {
		state.enabled.Store(enabled)
	}
}

// GetAll returns a snapshot of every flag's state.
func (m *Manager) GetAll() map[Flag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[Flag]bool)
	for flag, state := range m.flags {
		result[flag] = state.enabled.Load()
	}
	return result
}

// GetMetadata returns metadata for a flag
func (m *Manager) GetMetadata(flag Flag) (*FlagMetadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metadata, exists := m.metadata[flag]
	return metadata, exists
}

// flagToEnvVar converts a flag name to an environment variable name
func flagToEnvVar(flag Flag) string {
	return "QUANTAGRAPH_FEATURE_" + strings.ToUpper(string(flag))
}

// DebugString returns a debug string with all flag states
func (m *Manager) DebugString() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Feature Flags:\n")

	// Group by category
	categories := make(map[string][]Flag)
	for flag, metadata := range m.metadata {
		categories[metadata.Category] = append(categories[metadata.Category], flag)
	}
	names := make([]string, 0, len(categories))
	for category := range categories {
		names = append(names, category)
	}
	sort.Strings(names)

	for _, category := range names {
		flags := categories[category]
		sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })

		fmt.Fprintf(&b, "\n%s%s:\n", strings.ToUpper(category[:1]), category[1:])
		for _, flag := range flags {
			state := m.flags[flag]
			metadata := m.metadata[flag]

			status := "disabled"
			if state.enabled.Load() {
				status = "enabled"
			}

			override := ""
			if state.overridden {
				override = " (overridden)"
			}

			fmt.Fprintf(&b, "  %-30s: %-8s [%s]%s - %s\n",
				flag, status, metadata.Stability, override, metadata.Description)
		}
	}

	return b.String()
}
