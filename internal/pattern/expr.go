package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a value expression supplied by the upstream compiler. The planner
// never evaluates expressions; it only carries them into seek arguments and
// inspects literal collection sizes.
type Expr interface {
	String() string
	exprNode()
}

// Literal is a constant scalar value.
type Literal struct {
	Value interface{}
}

// ListLiteral is a literal collection, as in [1, 2, 3].
type ListLiteral struct {
	Items []Expr
}

// Parameter is a query parameter, as in $ids.
type Parameter struct {
	Name string
}

func (*Literal) exprNode()     {}
func (*ListLiteral) exprNode() {}
func (*Parameter) exprNode()   {}

// Lit returns a literal expression.
func Lit(v interface{}) *Literal {
	return &Literal{Value: v}
}

// List returns a list literal of scalar values.
func List(values ...interface{}) *ListLiteral {
	items := make([]Expr, len(values))
	for i, v := range values {
		if e, ok := v.(Expr); ok {
			items[i] = e
			continue
		}
		items[i] = Lit(v)
	}
	return &ListLiteral{Items: items}
}

// Param returns a parameter expression.
func Param(name string) *Parameter {
	return &Parameter{Name: name}
}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p *Parameter) String() string {
	return "$" + p.Name
}

// CollectionSize returns the number of elements of a literal collection.
// The size of a parameter or a scalar is not known at plan time.
func CollectionSize(e Expr) (int, bool) {
	switch e := e.(type) {
	case *ListLiteral:
		return len(e.Items), true
	case *Literal, *Parameter:
		return 0, false
	default:
		return 0, false
	}
}
