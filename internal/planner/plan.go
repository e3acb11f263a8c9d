package planner

import (
	"fmt"
	"strings"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/pattern"
)

// Plan represents a node in a leaf-level plan fragment.
type Plan interface {
	// Children returns the child plans.
	Children() []Plan
	// String returns a string representation for debugging.
	String() string
}

// LeafPlan is an access operator that first materializes entities for a
// pattern variable. The set of leaf plans is closed.
type LeafPlan interface {
	Plan
	// Variable returns the name of the variable the leaf binds.
	Variable() string
	// Solved returns the input predicates the access method satisfies.
	// The returned predicates are the caller's own values.
	Solved() []pattern.Predicate
	leafNode()
}

// leafBase holds what every leaf plan has in common.
type leafBase struct {
	variable string
	solved   []pattern.Predicate
}

func (b *leafBase) Children() []Plan            { return nil }
func (b *leafBase) Variable() string            { return b.variable }
func (b *leafBase) Solved() []pattern.Predicate { return b.solved }

// SeekArg is the value source of a seek: one value or a collection.
type SeekArg interface {
	// Expr returns the underlying expression.
	Expr() pattern.Expr
	// Count returns how many values the seek looks up, using
	// defaultSize when a collection's size is unknown at plan time.
	Count(defaultSize int) int
	String() string
	seekArg()
}

// SingleSeekArg seeks one value (equality).
type SingleSeekArg struct {
	Value pattern.Expr
}

// ManySeekArgs seeks every value of a collection (membership).
type ManySeekArgs struct {
	Values pattern.Expr
}

func (SingleSeekArg) seekArg() {}
func (ManySeekArgs) seekArg()  {}

func (a SingleSeekArg) Expr() pattern.Expr { return a.Value }
func (a ManySeekArgs) Expr() pattern.Expr  { return a.Values }

func (a SingleSeekArg) Count(int) int { return 1 }

func (a ManySeekArgs) Count(defaultSize int) int {
	if n, ok := pattern.CollectionSize(a.Values); ok {
		return n
	}
	return defaultSize
}

func (a SingleSeekArg) String() string { return "= " + a.Value.String() }
func (a ManySeekArgs) String() string  { return "IN " + a.Values.String() }

// AllNodesScan reads every node.
type AllNodesScan struct {
	leafBase
}

// NodeByLabelScan reads the nodes carrying one label.
type NodeByLabelScan struct {
	leafBase
	Label pattern.Token
}

// NodeByIDSeek looks nodes up by id.
type NodeByIDSeek struct {
	leafBase
	IDs SeekArg
}

// DirectedRelationshipByIDSeek looks directed relationships up by id.
type DirectedRelationshipByIDSeek struct {
	leafBase
	IDs SeekArg
}

// UndirectedRelationshipByIDSeek looks relationships up by id in both directions.
type UndirectedRelationshipByIDSeek struct {
	leafBase
	IDs SeekArg
}

// NodeIndexSeek looks nodes up through a property index. Index is the
// backing index, which is unique when no plain index exists for the pair.
type NodeIndexSeek struct {
	leafBase
	Index    catalog.IndexDescriptor
	Label    pattern.Token
	Property pattern.Token
	Value    SeekArg
}

// NodeIndexUniqueSeek looks nodes up through a unique property index.
type NodeIndexUniqueSeek struct {
	leafBase
	Index    catalog.IndexDescriptor
	Label    pattern.Token
	Property pattern.Token
	Value    SeekArg
}

func (*AllNodesScan) leafNode()                   {}
func (*NodeByLabelScan) leafNode()                {}
func (*NodeByIDSeek) leafNode()                   {}
func (*DirectedRelationshipByIDSeek) leafNode()   {}
func (*UndirectedRelationshipByIDSeek) leafNode() {}
func (*NodeIndexSeek) leafNode()                  {}
func (*NodeIndexUniqueSeek) leafNode()            {}

func (p *AllNodesScan) String() string {
	return fmt.Sprintf("AllNodesScan(%s)", p.variable)
}

func (p *NodeByLabelScan) String() string {
	return fmt.Sprintf("NodeByLabelScan(%s:%s)", p.variable, p.Label.Name())
}

func (p *NodeByIDSeek) String() string {
	return fmt.Sprintf("NodeByIdSeek(id(%s) %s)", p.variable, p.IDs.String())
}

func (p *DirectedRelationshipByIDSeek) String() string {
	return fmt.Sprintf("DirectedRelationshipByIdSeek(id(%s) %s)", p.variable, p.IDs.String())
}

func (p *UndirectedRelationshipByIDSeek) String() string {
	return fmt.Sprintf("UndirectedRelationshipByIdSeek(id(%s) %s)", p.variable, p.IDs.String())
}

func (p *NodeIndexSeek) String() string {
	return fmt.Sprintf("NodeIndexSeek(%s:%s(%s) %s)", p.variable, p.Label.Name(), p.Property.Name(), p.Value.String())
}

func (p *NodeIndexUniqueSeek) String() string {
	return fmt.Sprintf("NodeIndexUniqueSeek(%s:%s(%s) %s)", p.variable, p.Label.Name(), p.Property.Name(), p.Value.String())
}

// Filter applies residual predicates to the rows of its source.
type Filter struct {
	Source     LeafPlan
	Predicates []pattern.Predicate
}

func (f *Filter) Children() []Plan { return []Plan{f.Source} }

func (f *Filter) String() string {
	parts := make([]string, len(f.Predicates))
	for i, p := range f.Predicates {
		parts[i] = p.String()
	}
	return fmt.Sprintf("Filter(%s)", strings.Join(parts, " AND "))
}

// OperatorName returns the operator name of a leaf plan.
func OperatorName(p LeafPlan) string {
	switch p.(type) {
	case *AllNodesScan:
		return "AllNodesScan"
	case *NodeByLabelScan:
		return "NodeByLabelScan"
	case *NodeByIDSeek:
		return "NodeByIdSeek"
	case *DirectedRelationshipByIDSeek:
		return "DirectedRelationshipByIdSeek"
	case *UndirectedRelationshipByIDSeek:
		return "UndirectedRelationshipByIdSeek"
	case *NodeIndexSeek:
		return "NodeIndexSeek"
	case *NodeIndexUniqueSeek:
		return "NodeIndexUniqueSeek"
	default:
		panic(fmt.Sprintf("unexpected leaf plan %T", p))
	}
}

// backingIndex returns the index an index seek reads.
func backingIndex(p LeafPlan) (catalog.IndexDescriptor, bool) {
	switch p := p.(type) {
	case *NodeIndexSeek:
		return p.Index, true
	case *NodeIndexUniqueSeek:
		return p.Index, true
	case *AllNodesScan, *NodeByLabelScan, *NodeByIDSeek,
		*DirectedRelationshipByIDSeek, *UndirectedRelationshipByIDSeek:
		return catalog.IndexDescriptor{}, false
	default:
		panic(fmt.Sprintf("unexpected leaf plan %T", p))
	}
}
