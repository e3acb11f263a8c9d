package pattern

import "fmt"

// Token names a label or property key. A token is either unresolved (name
// only) or resolved (name plus the catalog id known at plan time). Both
// forms are interchangeable during planning: equality and hashing use the
// name alone.
type Token struct {
	name     string
	id       int
	resolved bool
}

// Unresolved returns a name-only token.
func Unresolved(name string) Token {
	return Token{name: name}
}

// Resolved returns a token carrying a pre-resolved catalog id.
func Resolved(name string, id int) Token {
	return Token{name: name, id: id, resolved: true}
}

// Name returns the token name.
func (t Token) Name() string {
	return t.name
}

// ID returns the catalog id if the token is resolved.
func (t Token) ID() (int, bool) {
	return t.id, t.resolved
}

// IsResolved reports whether the token carries a catalog id.
func (t Token) IsResolved() bool {
	return t.resolved
}

// Resolve returns a copy of t carrying id.
func (t Token) Resolve(id int) Token {
	return Resolved(t.name, id)
}

// Equal compares tokens by name.
func (t Token) Equal(other Token) bool {
	return t.name == other.name
}

// Key returns the value to use when tokens are map keys.
func (t Token) Key() string {
	return t.name
}

func (t Token) String() string {
	return t.name
}

// GoString shows whether the token is resolved.
func (t Token) GoString() string {
	if t.resolved {
		return fmt.Sprintf("Resolved(%q, %d)", t.name, t.id)
	}
	return fmt.Sprintf("Unresolved(%q)", t.name)
}
