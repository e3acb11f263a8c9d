package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func explainPlan(plan Plan, indent string) string {
	result := indent + plan.String() + "\n"

	for _, child := range plan.Children() {
		result += explainPlan(child, indent+"  ")
	}

	return result
}

// ExplainPlan returns a string representation of the plan tree.
func ExplainPlan(plan Plan) string {
	return explainPlan(plan, "")
}

// ExplainCandidates lists every candidate of a result with its estimate and
// solved predicates. The chosen leaf is marked with '*'.
func ExplainCandidates(r *Result) string {
	var b strings.Builder
	for _, c := range r.Candidates {
		mark := " "
		if c.Plan == r.Leaf {
			mark = "*"
		}
		estimate := "-"
		if c.Estimated {
			estimate = FormatRows(c.Cardinality)
		}
		fmt.Fprintf(&b, "%s %s rows=%s solves=[%s]\n", mark, c.Plan.String(), estimate, solvedList(c.Plan))
	}
	return b.String()
}

func solvedList(p LeafPlan) string {
	parts := make([]string, len(p.Solved()))
	for i, s := range p.Solved() {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// FormatRows formats a cardinality estimate rounded to two decimals.
func FormatRows(rows float64) string {
	return strconv.FormatFloat(math.Round(rows*100)/100, 'f', -1, 64)
}
