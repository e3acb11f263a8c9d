package planner

import (
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/pattern"
)

// ResolveHints applies the hints scoped to variable. It returns nil when no
// hint applies. Otherwise it returns the forced candidate or fails: every
// hint must be satisfiable on its own and one candidate must satisfy all of
// them. A unique seek is preferred over a plain one; remaining ties keep
// generation order.
func ResolveHints(variable string, candidates []*Candidate, hints []pattern.Hint) (*Candidate, error) {
	scoped := pattern.HintsFor(hints, variable)
	if len(scoped) == 0 {
		return nil, nil
	}

	for _, h := range scoped {
		if !anySatisfies(candidates, h) {
			return nil, unsatisfiable(variable, h)
		}
	}

	var forced *Candidate
	for _, c := range candidates {
		if !satisfiesAll(c, scoped) {
			continue
		}
		if forced == nil {
			forced = c
			continue
		}
		if _, ok := c.Plan.(*NodeIndexUniqueSeek); ok {
			if _, already := forced.Plan.(*NodeIndexUniqueSeek); !already {
				forced = c
			}
		}
	}

	if forced == nil {
		names := make([]string, len(scoped))
		for i, h := range scoped {
			names[i] = h.String()
		}
		return nil, errors.ConflictingHintsError(variable, names)
	}
	return forced, nil
}

func anySatisfies(candidates []*Candidate, h pattern.Hint) bool {
	for _, c := range candidates {
		if satisfies(c.Plan, h) {
			return true
		}
	}
	return false
}

func satisfiesAll(c *Candidate, hints []pattern.Hint) bool {
	for _, h := range hints {
		if !satisfies(c.Plan, h) {
			return false
		}
	}
	return true
}

// satisfies reports whether plan is the access method h asks for.
func satisfies(plan LeafPlan, h pattern.Hint) bool {
	switch h := h.(type) {
	case *pattern.UsingScanHint:
		p, ok := plan.(*NodeByLabelScan)
		return ok && p.Label.Equal(h.Label)
	case *pattern.UsingIndexHint:
		switch p := plan.(type) {
		case *NodeIndexSeek:
			return p.Label.Equal(h.Label) && p.Property.Equal(h.Property)
		case *NodeIndexUniqueSeek:
			return p.Label.Equal(h.Label) && p.Property.Equal(h.Property)
		}
		return false
	default:
		return false
	}
}

func unsatisfiable(variable string, h pattern.Hint) error {
	switch h := h.(type) {
	case *pattern.UsingScanHint:
		return errors.UnsatisfiableScanHintError(variable, h.Label.Name())
	case *pattern.UsingIndexHint:
		return errors.UnsatisfiableIndexHintError(variable, h.Label.Name(), h.Property.Name())
	default:
		return errors.InternalErrorf("unsupported hint %T", h)
	}
}
