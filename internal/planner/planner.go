package planner

import (
	"time"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/log"
	"github.com/dshills/quantagraph/internal/pattern"
)

// DefaultCollectionSize is the assumed size of a collection whose size is
// not known at plan time, such as a parameter.
const DefaultCollectionSize = 10

// Options tune leaf planning.
type Options struct {
	// UniqueIndexDominance compares seek uniqueness before index ordinals
	// when index seeks tie on cardinality.
	UniqueIndexDominance bool
	// ResolveTokens attaches catalog ids to label and property tokens of
	// candidate plans when the catalog knows them.
	ResolveTokens bool
	// DefaultCollectionSize is used for membership seeks over collections
	// of unknown size.
	DefaultCollectionSize int
}

// DefaultOptions returns the default planning options.
func DefaultOptions() Options {
	return Options{
		ResolveTokens:         true,
		DefaultCollectionSize: DefaultCollectionSize,
	}
}

// Result is the outcome of planning one variable.
type Result struct {
	Variable pattern.Variable
	// Leaf is the chosen access method.
	Leaf LeafPlan
	// Residual holds the predicates Leaf does not solve, in input order.
	Residual []pattern.Predicate
	// Plan is Leaf, or a Filter over Leaf when Residual is not empty.
	Plan Plan
	// Cardinality is the estimate of Leaf. It is only set when the leaf
	// was chosen by cost.
	Cardinality float64
	// Hinted is set when a hint forced the leaf.
	Hinted bool
	// Candidates are all generated leaf plans in generation order.
	Candidates []*Candidate
}

// LeafPlanner chooses the access method of single pattern variables.
// It holds no per-invocation state and is safe for concurrent use when its
// adapters are.
type LeafPlanner struct {
	catalog catalog.Catalog
	stats   catalog.Statistics
	opts    Options
	logger  log.Logger
}

// NewLeafPlanner creates a leaf planner over the given adapters.
func NewLeafPlanner(cat catalog.Catalog, stats catalog.Statistics, opts Options) *LeafPlanner {
	if opts.DefaultCollectionSize <= 0 {
		opts.DefaultCollectionSize = DefaultCollectionSize
	}
	return &LeafPlanner{
		catalog: cat,
		stats:   stats,
		opts:    opts,
		logger:  log.Discard(),
	}
}

// SetLogger sets the logger used for planning diagnostics.
func (p *LeafPlanner) SetLogger(logger log.Logger) {
	p.logger = logger
}

// Options returns the planner options.
func (p *LeafPlanner) Options() Options {
	return p.opts
}

// PlanLeaf selects the leaf access plan for v. Predicates and hints for
// other variables are ignored. Every predicate on v ends up either solved by
// the leaf or in the residual, never both.
func (p *LeafPlanner) PlanLeaf(v pattern.Variable, preds []pattern.Predicate, hints []pattern.Hint) (*Result, error) {
	start := time.Now()

	if v.Name == "" {
		return nil, errors.InvalidPredicateError(v.Name, "pattern variable has no name")
	}
	for _, pred := range preds {
		if pattern.IsNil(pred) {
			return nil, errors.InvalidPredicateError(v.Name, "nil predicate")
		}
		if pred.Var() != v.Name {
			continue
		}
		if err := pattern.Validate(pred); err != nil {
			return nil, errors.InvalidPredicateError(v.Name, err.Error())
		}
	}
	scoped := pattern.ForVariable(preds, v.Name)

	candidates, err := GenerateCandidates(v, scoped, p.catalog, p.opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Variable: v, Candidates: candidates}

	winner, err := ResolveHints(v.Name, candidates, hints)
	if err != nil {
		p.logger.Debug("hint rejected", log.Variable(v.Name), log.Err(err))
		return nil, err
	}
	if winner != nil {
		result.Hinted = true
	} else {
		winner, err = SelectCheapest(candidates, p.stats, p.opts.UniqueIndexDominance)
		if err != nil {
			return nil, err
		}
		result.Cardinality = winner.Cardinality
	}

	result.Leaf = winner.Plan
	result.Residual, result.Plan = ComposeResidual(winner.Plan, scoped)

	if p.logger.Enabled(log.LevelDebug) {
		p.logger.Debug("leaf planned",
			log.Variable(v.Name),
			log.Operator(OperatorName(result.Leaf)),
			log.Int("candidates", len(candidates)),
			log.Int("residual", len(result.Residual)),
			log.Bool("hinted", result.Hinted),
			log.Float64("cardinality", result.Cardinality),
			log.Duration("elapsed", time.Since(start)))
	}

	return result, nil
}
