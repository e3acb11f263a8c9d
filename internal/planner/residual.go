package planner

import "github.com/dshills/quantagraph/internal/pattern"

// ComposeResidual returns the predicates leaf does not solve, in input
// order, and the plan to hand downstream: the leaf itself when nothing
// remains, otherwise a Filter over it. Predicates are compared by identity.
func ComposeResidual(leaf LeafPlan, preds []pattern.Predicate) ([]pattern.Predicate, Plan) {
	solved := make(map[pattern.Predicate]struct{}, len(leaf.Solved()))
	for _, p := range leaf.Solved() {
		solved[p] = struct{}{}
	}

	var residual []pattern.Predicate
	for _, p := range preds {
		if _, ok := solved[p]; !ok {
			residual = append(residual, p)
		}
	}

	if len(residual) == 0 {
		return nil, leaf
	}
	return residual, &Filter{Source: leaf, Predicates: residual}
}
