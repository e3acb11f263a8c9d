package pattern

import "fmt"

// Hint is a user directive forcing the access method of one variable.
type Hint interface {
	Var() string
	String() string
	hintNode()
}

// UsingIndexHint is USING INDEX n:Label(property).
type UsingIndexHint struct {
	Variable string
	Label    Token
	Property Token
}

// UsingScanHint is USING SCAN n:Label.
type UsingScanHint struct {
	Variable string
	Label    Token
}

func (*UsingIndexHint) hintNode() {}
func (*UsingScanHint) hintNode()  {}

func (h *UsingIndexHint) Var() string { return h.Variable }
func (h *UsingScanHint) Var() string  { return h.Variable }

func (h *UsingIndexHint) String() string {
	return fmt.Sprintf("USING INDEX %s:%s(%s)", h.Variable, h.Label.Name(), h.Property.Name())
}

func (h *UsingScanHint) String() string {
	return fmt.Sprintf("USING SCAN %s:%s", h.Variable, h.Label.Name())
}

// NewUsingIndexHint returns USING INDEX variable:label(property).
func NewUsingIndexHint(variable, label, property string) *UsingIndexHint {
	return &UsingIndexHint{Variable: variable, Label: Unresolved(label), Property: Unresolved(property)}
}

// NewUsingScanHint returns USING SCAN variable:label.
func NewUsingScanHint(variable, label string) *UsingScanHint {
	return &UsingScanHint{Variable: variable, Label: Unresolved(label)}
}

// HintsFor returns the hints scoped to name, in input order.
func HintsFor(hints []Hint, name string) []Hint {
	var out []Hint
	for _, h := range hints {
		if h != nil && h.Var() == name {
			out = append(out, h)
		}
	}
	return out
}
