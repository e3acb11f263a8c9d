package testutil

import (
	"testing"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/pattern"
)

// IntRange returns the list literal [from, from+1, ..., to].
func IntRange(from, to int) *pattern.ListLiteral {
	values := make([]interface{}, 0, to-from+1)
	for i := from; i <= to; i++ {
		values = append(values, i)
	}
	return pattern.List(values...)
}

// Labels returns one label predicate per name on variable.
func Labels(variable string, names ...string) []pattern.Predicate {
	preds := make([]pattern.Predicate, len(names))
	for i, name := range names {
		preds[i] = pattern.NewHasLabel(variable, name)
	}
	return preds
}

// Preds collects predicates into a slice.
func Preds(preds ...pattern.Predicate) []pattern.Predicate {
	return preds
}

// Index returns an index spec for label.property.
func Index(label, property string) catalog.IndexSpec {
	return catalog.IndexSpec{Label: label, Property: property}
}

// MustBuild builds both adapters of a snapshot, failing the test on error.
func MustBuild(t testing.TB, snap *catalog.Snapshot) (*catalog.MemoryCatalog, *catalog.MemoryStatistics) {
	t.Helper()
	c, s, err := snap.Build()
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	return c, s
}
