package planner

import (
	"math"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
)

// EstimateCandidates asks stats for the cardinality of every candidate.
func EstimateCandidates(candidates []*Candidate, stats catalog.Statistics) error {
	for _, c := range candidates {
		est := stats.Estimate(c.Shape)
		if math.IsNaN(est) || math.IsInf(est, 0) || est < 0 {
			return errors.InconsistentStatisticsError(c.Shape.String(), est)
		}
		c.Cardinality = est
		c.Estimated = true
	}
	return nil
}

// SelectCheapest estimates every candidate and returns the one with the
// strictly lowest cardinality. Equal cardinalities are broken by
// preferred; the earliest generated candidate wins remaining ties.
func SelectCheapest(candidates []*Candidate, stats catalog.Statistics, uniqueDominance bool) (*Candidate, error) {
	if len(candidates) == 0 {
		return nil, errors.InternalErrorf("no candidates to select from")
	}
	if err := EstimateCandidates(candidates, stats); err != nil {
		return nil, err
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Cardinality < best.Cardinality ||
			(c.Cardinality == best.Cardinality && preferred(c.Plan, best.Plan, uniqueDominance)) {
			best = c
		}
	}
	return best, nil
}

// preferred reports whether a beats b at equal cardinality. Between index
// seeks on different label/property pairs the later registered backing index
// wins. On the same pair a unique seek always beats a plain one. With
// uniqueDominance the seek kind is compared before the ordinal for every
// pair. Everything else is ranked by kind.
func preferred(a, b LeafPlan, uniqueDominance bool) bool {
	ai, aSeek := backingIndex(a)
	bi, bSeek := backingIndex(b)
	if aSeek && bSeek {
		samePair := ai.Label == bi.Label && ai.Property == bi.Property
		if (samePair || uniqueDominance) && rank(a) != rank(b) {
			return rank(a) > rank(b)
		}
		if ai.Ordinal != bi.Ordinal {
			return ai.Ordinal > bi.Ordinal
		}
	}
	return rank(a) > rank(b)
}

// rank orders leaf kinds for tie-breaking.
func rank(p LeafPlan) int {
	switch p.(type) {
	case *NodeIndexUniqueSeek:
		return 4
	case *NodeIndexSeek:
		return 3
	case *NodeByIDSeek, *DirectedRelationshipByIDSeek, *UndirectedRelationshipByIDSeek:
		return 2
	case *NodeByLabelScan:
		return 1
	case *AllNodesScan:
		return 0
	default:
		panic("unexpected leaf plan")
	}
}
