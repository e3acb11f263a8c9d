package planner

import (
	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/pattern"
)

// Candidate is one structurally valid leaf plan together with the shape the
// statistics adapter costs it by.
type Candidate struct {
	Plan  LeafPlan
	Shape catalog.Shape
	// Cardinality is set once the candidate has been estimated.
	Cardinality float64
	Estimated   bool
}

// GenerateCandidates enumerates every leaf plan able to bind v given its
// predicates. preds must already be scoped to v. Generation order is all
// nodes, label scans, id seeks, then index seeks; within each group the
// input order of the predicates is kept.
func GenerateCandidates(v pattern.Variable, preds []pattern.Predicate, cat catalog.Catalog, opts Options) ([]*Candidate, error) {
	g := &generator{
		variable: v,
		catalog:  cat,
		opts:     opts,
	}

	var labels []*pattern.HasLabel
	var ids []pattern.Predicate
	var props []pattern.Predicate
	for _, p := range preds {
		switch p := p.(type) {
		case *pattern.HasLabel:
			labels = append(labels, p)
		case *pattern.IDEquals, *pattern.IDIn:
			ids = append(ids, p)
		case *pattern.PropertyEquals, *pattern.PropertyIn:
			props = append(props, p)
		default:
			return nil, errors.InvalidPredicateError(v.Name, "unsupported predicate")
		}
	}

	if v.IsNode() {
		g.emit(&AllNodesScan{leafBase: leafBase{variable: v.Name}}, catalog.AllNodesShape{})
		for _, l := range labels {
			g.emit(&NodeByLabelScan{
				leafBase: g.base(l),
				Label:    g.labelToken(l.Label),
			}, catalog.LabelShape{Label: l.Label.Name()})
		}
	}

	for _, p := range ids {
		g.idSeek(p)
	}

	if v.IsNode() {
		for _, p := range props {
			for _, l := range labels {
				g.indexSeeks(p, l)
			}
		}
	}

	if len(g.out) == 0 {
		return nil, errors.EmptyCandidateSetError(v.Name)
	}
	return g.out, nil
}

type generator struct {
	variable pattern.Variable
	catalog  catalog.Catalog
	opts     Options
	out      []*Candidate
}

func (g *generator) emit(plan LeafPlan, shape catalog.Shape) {
	g.out = append(g.out, &Candidate{Plan: plan, Shape: shape})
}

func (g *generator) base(solved ...pattern.Predicate) leafBase {
	return leafBase{variable: g.variable.Name, solved: solved}
}

func (g *generator) idSeek(p pattern.Predicate) {
	var arg SeekArg
	switch p := p.(type) {
	case *pattern.IDEquals:
		arg = SingleSeekArg{Value: p.ID}
	case *pattern.IDIn:
		arg = ManySeekArgs{Values: p.IDs}
	}
	shape := catalog.IDSeekShape{Values: arg.Count(g.opts.DefaultCollectionSize)}

	switch g.variable.Kind {
	case pattern.Node:
		g.emit(&NodeByIDSeek{leafBase: g.base(p), IDs: arg}, shape)
	case pattern.DirectedRelationship:
		g.emit(&DirectedRelationshipByIDSeek{leafBase: g.base(p), IDs: arg}, shape)
	case pattern.UndirectedRelationship:
		g.emit(&UndirectedRelationshipByIDSeek{leafBase: g.base(p), IDs: arg}, shape)
	}
}

// indexSeeks emits the seeks for one property predicate under one label.
func (g *generator) indexSeeks(p pattern.Predicate, l *pattern.HasLabel) {
	var property pattern.Token
	var arg SeekArg
	switch p := p.(type) {
	case *pattern.PropertyEquals:
		property = p.Property
		arg = SingleSeekArg{Value: p.Value}
	case *pattern.PropertyIn:
		property = p.Property
		arg = ManySeekArgs{Values: p.Values}
	}

	label := l.Label.Name()
	plain, hasPlain := g.catalog.LookupIndex(label, property.Name())
	unique, hasUnique := g.catalog.LookupUniqueIndex(label, property.Name())
	if !hasPlain && !hasUnique {
		return
	}

	backing := plain
	if !hasPlain {
		backing = unique
	}
	values := arg.Count(g.opts.DefaultCollectionSize)
	labelTok := g.labelToken(l.Label)
	propTok := g.propertyToken(property)

	g.emit(&NodeIndexSeek{
		leafBase: g.base(l, p),
		Index:    backing,
		Label:    labelTok,
		Property: propTok,
		Value:    arg,
	}, catalog.IndexSeekShape{Label: label, Property: property.Name(), Unique: backing.Unique, Values: values})

	if hasUnique {
		g.emit(&NodeIndexUniqueSeek{
			leafBase: g.base(l, p),
			Index:    unique,
			Label:    labelTok,
			Property: propTok,
			Value:    arg,
		}, catalog.IndexSeekShape{Label: label, Property: property.Name(), Unique: true, Values: values})
	}
}

func (g *generator) labelToken(t pattern.Token) pattern.Token {
	if !g.opts.ResolveTokens || t.IsResolved() {
		return t
	}
	if id, ok := g.catalog.LabelID(t.Name()); ok {
		return t.Resolve(id)
	}
	return t
}

func (g *generator) propertyToken(t pattern.Token) pattern.Token {
	if !g.opts.ResolveTokens || t.IsResolved() {
		return t
	}
	if id, ok := g.catalog.PropertyKeyID(t.Name()); ok {
		return t.Resolve(id)
	}
	return t
}
