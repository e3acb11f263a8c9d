package catalog

import (
	"sort"
	"sync"

	"github.com/dshills/quantagraph/internal/errors"
)

// MemoryCatalog is an in-memory implementation of the Catalog interface.
// Registration methods must complete before the catalog is shared; lookups
// are safe for concurrent use.
type MemoryCatalog struct {
	mu           sync.RWMutex
	plain        map[indexKey]IndexDescriptor
	unique       map[indexKey]IndexDescriptor
	indexes      []IndexDescriptor // by ordinal
	labels       map[string]int
	propertyKeys map[string]int
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		plain:        make(map[indexKey]IndexDescriptor),
		unique:       make(map[indexKey]IndexDescriptor),
		labels:       make(map[string]int),
		propertyKeys: make(map[string]int),
	}
}

// CreateIndex registers an index on label.property and assigns it the next
// ordinal. The label and property key tokens become known as a side effect.
// A plain and a unique index may coexist on the same pair.
func (c *MemoryCatalog) CreateIndex(label, property string, unique bool) (IndexDescriptor, error) {
	if label == "" || property == "" {
		return IndexDescriptor{}, errors.InvalidParameterValueError("index",
			label+"."+property, "label and property are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := indexKey{label: label, property: property}
	target := c.plain
	if unique {
		target = c.unique
	}
	if _, exists := target[key]; exists {
		return IndexDescriptor{}, errors.DuplicateIndexError(label, property, unique)
	}

	desc := IndexDescriptor{
		Label:    label,
		Property: property,
		Unique:   unique,
		Ordinal:  len(c.indexes),
	}
	target[key] = desc
	c.indexes = append(c.indexes, desc)

	c.addToken(c.labels, label)
	c.addToken(c.propertyKeys, property)

	return desc, nil
}

// AddLabel registers a label token and returns its id.
func (c *MemoryCatalog) AddLabel(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addToken(c.labels, name)
}

// AddPropertyKey registers a property key token and returns its id.
func (c *MemoryCatalog) AddPropertyKey(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addToken(c.propertyKeys, name)
}

// addToken must be called with the lock held.
func (c *MemoryCatalog) addToken(tokens map[string]int, name string) int {
	if id, ok := tokens[name]; ok {
		return id
	}
	id := len(tokens)
	tokens[name] = id
	return id
}

// LookupIndex implements Catalog.
func (c *MemoryCatalog) LookupIndex(label, property string) (IndexDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.plain[indexKey{label: label, property: property}]
	return desc, ok
}

// LookupUniqueIndex implements Catalog.
func (c *MemoryCatalog) LookupUniqueIndex(label, property string) (IndexDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.unique[indexKey{label: label, property: property}]
	return desc, ok
}

// LabelID implements Catalog.
func (c *MemoryCatalog) LabelID(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.labels[name]
	return id, ok
}

// PropertyKeyID implements Catalog.
func (c *MemoryCatalog) PropertyKeyID(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.propertyKeys[name]
	return id, ok
}

// Indexes returns every registered index in ordinal order.
func (c *MemoryCatalog) Indexes() []IndexDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]IndexDescriptor, len(c.indexes))
	copy(out, c.indexes)
	return out
}

// Labels returns the known label names in id order.
func (c *MemoryCatalog) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tokensByID(c.labels)
}

// PropertyKeys returns the known property key names in id order.
func (c *MemoryCatalog) PropertyKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tokensByID(c.propertyKeys)
}

func tokensByID(tokens map[string]int) []string {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return tokens[names[i]] < tokens[names[j]]
	})
	return names
}
