package catalog

import "fmt"

// Catalog is the read-only view of schema metadata the leaf planner
// consults: property indexes and the token ids known at plan time.
// Implementations must return consistent answers for the duration of one
// planning invocation.
type Catalog interface {
	// LookupIndex returns the plain (non-unique) index on label.property.
	LookupIndex(label, property string) (IndexDescriptor, bool)
	// LookupUniqueIndex returns the unique index on label.property.
	LookupUniqueIndex(label, property string) (IndexDescriptor, bool)
	// LabelID returns the id of a label token if the catalog knows it.
	LabelID(name string) (int, bool)
	// PropertyKeyID returns the id of a property key token if the catalog knows it.
	PropertyKeyID(name string) (int, bool)
}

// IndexDescriptor describes a single-property index on a label.
type IndexDescriptor struct {
	Label    string
	Property string
	Unique   bool
	// Ordinal is the registration position of the index in its catalog.
	Ordinal int
}

// Kind returns the index kind keyword.
func (d IndexDescriptor) Kind() string {
	if d.Unique {
		return "UNIQUE"
	}
	return "RANGE"
}

func (d IndexDescriptor) String() string {
	return fmt.Sprintf("%s INDEX #%d :%s(%s)", d.Kind(), d.Ordinal, d.Label, d.Property)
}

type indexKey struct {
	label    string
	property string
}
