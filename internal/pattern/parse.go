package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The textual predicate forms accepted by ParsePredicate:
//
//	n:Label
//	n.prop = <expr>
//	n.prop IN <expr>
//	id(n) = <expr>
//	id(n) IN <expr>
//
// where <expr> is a scalar literal, a $parameter, a list [a, b, c] or an
// integer range [1..15].
var (
	labelRe     = regexp.MustCompile(`^(\w+):(\w+)$`)
	propertyRe  = regexp.MustCompile(`^(\w+)\.(\w+)\s+(=|(?i:IN))\s+(.+)$`)
	idRe        = regexp.MustCompile(`^(?i:id)\((\w+)\)\s+(=|(?i:IN))\s+(.+)$`)
	rangeRe     = regexp.MustCompile(`^\[\s*(-?\d+)\s*\.\.\s*(-?\d+)\s*\]$`)
	indexHintRe = regexp.MustCompile(`^(?i:USING\s+INDEX)\s+(\w+):(\w+)\((\w+)\)$`)
	scanHintRe  = regexp.MustCompile(`^(?i:USING\s+SCAN)\s+(\w+):(\w+)$`)
)

// maxRange bounds the size of a parsed [a..b] range.
const maxRange = 100000

// ParsePredicate parses the textual form of a predicate.
func ParsePredicate(s string) (Predicate, error) {
	s = strings.TrimSpace(s)

	if m := labelRe.FindStringSubmatch(s); m != nil {
		return NewHasLabel(m[1], m[2]), nil
	}

	if m := propertyRe.FindStringSubmatch(s); m != nil {
		e, err := ParseExpr(m[4])
		if err != nil {
			return nil, fmt.Errorf("predicate %q: %w", s, err)
		}
		if m[3] == "=" {
			return NewPropertyEquals(m[1], m[2], e), nil
		}
		return NewPropertyIn(m[1], m[2], e), nil
	}

	if m := idRe.FindStringSubmatch(s); m != nil {
		e, err := ParseExpr(m[3])
		if err != nil {
			return nil, fmt.Errorf("predicate %q: %w", s, err)
		}
		if m[2] == "=" {
			return NewIDEquals(m[1], e), nil
		}
		return NewIDIn(m[1], e), nil
	}

	return nil, fmt.Errorf("cannot parse predicate %q", s)
}

// ParseHint parses USING INDEX n:Label(prop) or USING SCAN n:Label.
func ParseHint(s string) (Hint, error) {
	s = strings.TrimSpace(s)
	if m := indexHintRe.FindStringSubmatch(s); m != nil {
		return NewUsingIndexHint(m[1], m[2], m[3]), nil
	}
	if m := scanHintRe.FindStringSubmatch(s); m != nil {
		return NewUsingScanHint(m[1], m[2]), nil
	}
	return nil, fmt.Errorf("cannot parse hint %q", s)
}

// ParseExpr parses a value expression.
func ParseExpr(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty expression")
	case strings.HasPrefix(s, "$"):
		name := s[1:]
		if name == "" || strings.ContainsAny(name, " ,[]") {
			return nil, fmt.Errorf("invalid parameter %q", s)
		}
		return Param(name), nil
	case strings.HasPrefix(s, "["):
		return parseList(s)
	default:
		return parseScalar(s)
	}
}

func parseList(s string) (Expr, error) {
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		if to < from || to-from >= maxRange {
			return nil, fmt.Errorf("invalid range %q", s)
		}
		items := make([]Expr, 0, to-from+1)
		for i := from; i <= to; i++ {
			items = append(items, Lit(i))
		}
		return &ListLiteral{Items: items}, nil
	}

	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated list %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return &ListLiteral{}, nil
	}

	parts := strings.Split(body, ",")
	items := make([]Expr, 0, len(parts))
	for _, part := range parts {
		e, err := parseScalar(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return &ListLiteral{Items: items}, nil
}

func parseScalar(s string) (Expr, error) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return Lit(s[1 : len(s)-1]), nil
	}
	switch strings.ToLower(s) {
	case "null":
		return Lit(nil), nil
	case "true":
		return Lit(true), nil
	case "false":
		return Lit(false), nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return Lit(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Lit(f), nil
	}
	if strings.HasPrefix(s, "$") {
		return Param(s[1:]), nil
	}
	return nil, fmt.Errorf("invalid literal %q", s)
}
