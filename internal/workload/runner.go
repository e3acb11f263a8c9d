package workload

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/log"
	"github.com/dshills/quantagraph/internal/planner"
)

// Outcome is the planning result of one workload item. Exactly one of
// Result and Err is set.
type Outcome struct {
	Item   Item
	Result *planner.Result
	Err    error
}

// Report collects the outcomes of one run in workload order.
type Report struct {
	RunID    string
	Name     string
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Failed returns the number of items that could not be planned.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Runner plans every item of a workload with bounded concurrency.
type Runner struct {
	planner *planner.LeafPlanner
	workers int
	logger  log.Logger
}

// NewRunner creates a runner using at most workers goroutines.
func NewRunner(p *planner.LeafPlanner, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		planner: p,
		workers: workers,
		logger:  log.Default(),
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger log.Logger) {
	r.logger = logger
}

// Run plans every item of wl. Planning failures are recorded per item;
// only cancellation of ctx aborts the run.
func (r *Runner) Run(ctx context.Context, wl *Workload) (*Report, error) {
	start := time.Now()
	runID := uuid.Must(uuid.NewV7()).String()
	ctx = log.ContextWithRunID(ctx, runID)
	logger := r.logger.WithContext(ctx)

	report := &Report{
		RunID:    runID,
		Name:     wl.Name,
		Outcomes: make([]Outcome, len(wl.Items)),
	}

	logger.Info("workload started",
		log.String("workload", wl.Name),
		log.Int("items", len(wl.Items)),
		log.Int("workers", r.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, item := range wl.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.planner.PlanLeaf(item.Variable, item.Predicates, item.Hints)
			report.Outcomes[i] = Outcome{Item: item, Result: res, Err: err}
			if err != nil {
				if errors.IsInternal(errors.GetError(err).Code) {
					logger.Error("planning failed", log.Variable(item.Variable.Name), log.Err(err))
				} else {
					logger.Warn("planning failed", log.Variable(item.Variable.Name), log.Err(err))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	logger.Info("workload finished",
		log.String("workload", wl.Name),
		log.Int("failed", report.Failed()),
		log.Duration("elapsed", report.Elapsed))

	return report, nil
}
