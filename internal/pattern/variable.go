package pattern

import "fmt"

// Kind classifies a pattern variable.
type Kind int

const (
	// Node is a node variable, as in (n).
	Node Kind = iota
	// DirectedRelationship is a relationship variable with a declared direction, as in ()-[r]->().
	DirectedRelationship
	// UndirectedRelationship is a relationship variable without a direction, as in ()-[r]-().
	UndirectedRelationship
)

func (k Kind) String() string {
	switch k {
	case Node:
		return "node"
	case DirectedRelationship:
		return "directed relationship"
	case UndirectedRelationship:
		return "undirected relationship"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ParseKind parses the textual form used in workload files.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "node":
		return Node, nil
	case "relationship", "directed", "directed_relationship":
		return DirectedRelationship, nil
	case "undirected", "undirected_relationship":
		return UndirectedRelationship, nil
	default:
		return Node, fmt.Errorf("unknown variable kind %q", s)
	}
}

// Variable identifies a node or relationship binding within one pattern.
type Variable struct {
	Name string
	Kind Kind
}

// NodeVariable returns a node variable.
func NodeVariable(name string) Variable {
	return Variable{Name: name, Kind: Node}
}

// RelationshipVariable returns a relationship variable.
func RelationshipVariable(name string, directed bool) Variable {
	if directed {
		return Variable{Name: name, Kind: DirectedRelationship}
	}
	return Variable{Name: name, Kind: UndirectedRelationship}
}

// IsNode reports whether v binds nodes.
func (v Variable) IsNode() bool {
	return v.Kind == Node
}

func (v Variable) String() string {
	switch v.Kind {
	case DirectedRelationship:
		return fmt.Sprintf("()-[%s]->()", v.Name)
	case UndirectedRelationship:
		return fmt.Sprintf("()-[%s]-()", v.Name)
	default:
		return fmt.Sprintf("(%s)", v.Name)
	}
}
