package pattern

import "fmt"

// Predicate is a constraint on a single pattern variable.
type Predicate interface {
	// Var returns the name of the constrained variable.
	Var() string
	String() string
	predicateNode()
}

// HasLabel constrains a node to carry a label: n:Label.
type HasLabel struct {
	Variable string
	Label    Token
}

// PropertyEquals constrains a property to a value: n.prop = value.
type PropertyEquals struct {
	Variable string
	Property Token
	Value    Expr
}

// PropertyIn constrains a property to a collection: n.prop IN values.
type PropertyIn struct {
	Variable string
	Property Token
	Values   Expr
}

// IDEquals constrains the entity id: id(n) = value.
type IDEquals struct {
	Variable string
	ID       Expr
}

// IDIn constrains the entity id to a collection: id(n) IN values.
type IDIn struct {
	Variable string
	IDs      Expr
}

func (*HasLabel) predicateNode()       {}
func (*PropertyEquals) predicateNode() {}
func (*PropertyIn) predicateNode()     {}
func (*IDEquals) predicateNode()       {}
func (*IDIn) predicateNode()           {}

func (p *HasLabel) Var() string       { return p.Variable }
func (p *PropertyEquals) Var() string { return p.Variable }
func (p *PropertyIn) Var() string     { return p.Variable }
func (p *IDEquals) Var() string       { return p.Variable }
func (p *IDIn) Var() string           { return p.Variable }

func (p *HasLabel) String() string {
	return fmt.Sprintf("%s:%s", p.Variable, p.Label.Name())
}

func (p *PropertyEquals) String() string {
	return fmt.Sprintf("%s.%s = %s", p.Variable, p.Property.Name(), p.Value.String())
}

func (p *PropertyIn) String() string {
	return fmt.Sprintf("%s.%s IN %s", p.Variable, p.Property.Name(), p.Values.String())
}

func (p *IDEquals) String() string {
	return fmt.Sprintf("id(%s) = %s", p.Variable, p.ID.String())
}

func (p *IDIn) String() string {
	return fmt.Sprintf("id(%s) IN %s", p.Variable, p.IDs.String())
}

// NewHasLabel returns n:label with an unresolved token.
func NewHasLabel(variable, label string) *HasLabel {
	return &HasLabel{Variable: variable, Label: Unresolved(label)}
}

// NewPropertyEquals returns variable.property = value.
func NewPropertyEquals(variable, property string, value Expr) *PropertyEquals {
	return &PropertyEquals{Variable: variable, Property: Unresolved(property), Value: value}
}

// NewPropertyIn returns variable.property IN values.
func NewPropertyIn(variable, property string, values Expr) *PropertyIn {
	return &PropertyIn{Variable: variable, Property: Unresolved(property), Values: values}
}

// NewIDEquals returns id(variable) = value.
func NewIDEquals(variable string, value Expr) *IDEquals {
	return &IDEquals{Variable: variable, ID: value}
}

// NewIDIn returns id(variable) IN values.
func NewIDIn(variable string, values Expr) *IDIn {
	return &IDIn{Variable: variable, IDs: values}
}

// ForVariable returns the predicates constraining name, in input order.
func ForVariable(preds []Predicate, name string) []Predicate {
	var out []Predicate
	for _, p := range preds {
		if !IsNil(p) && p.Var() == name {
			out = append(out, p)
		}
	}
	return out
}

// IsNil reports whether p is nil or a nil pointer of a predicate type.
func IsNil(p Predicate) bool {
	switch p := p.(type) {
	case nil:
		return true
	case *HasLabel:
		return p == nil
	case *PropertyEquals:
		return p == nil
	case *PropertyIn:
		return p == nil
	case *IDEquals:
		return p == nil
	case *IDIn:
		return p == nil
	}
	return false
}

// Validate checks that a predicate is well formed.
func Validate(p Predicate) error {
	if IsNil(p) {
		return fmt.Errorf("nil predicate")
	}
	switch p := p.(type) {
	case *HasLabel:
		if p.Label.Name() == "" {
			return fmt.Errorf("label predicate on %s has no label", p.Variable)
		}
	case *PropertyEquals:
		if p.Property.Name() == "" || p.Value == nil {
			return fmt.Errorf("property equality on %s is incomplete", p.Variable)
		}
	case *PropertyIn:
		if p.Property.Name() == "" || p.Values == nil {
			return fmt.Errorf("property membership on %s is incomplete", p.Variable)
		}
	case *IDEquals:
		if p.ID == nil {
			return fmt.Errorf("id equality on %s has no value", p.Variable)
		}
	case *IDIn:
		if p.IDs == nil {
			return fmt.Errorf("id membership on %s has no values", p.Variable)
		}
	default:
		return fmt.Errorf("unsupported predicate %T", p)
	}
	if p.Var() == "" {
		return fmt.Errorf("predicate %s has no variable", p.String())
	}
	return nil
}
