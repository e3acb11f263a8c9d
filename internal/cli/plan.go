package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/quantagraph/internal/planner"
	"github.com/dshills/quantagraph/internal/workload"
)

// PlanReport is the output of the plan and candidates commands.
type PlanReport struct {
	Workload string       `json:"workload,omitempty"`
	Items    []ItemReport `json:"items"`
	Failed   int          `json:"failed"`

	withCandidates bool
}

// ItemReport describes the planning outcome of one variable.
type ItemReport struct {
	Variable   string            `json:"variable"`
	Kind       string            `json:"kind"`
	Operator   string            `json:"operator,omitempty"`
	Plan       []string          `json:"plan,omitempty"`
	Rows       string            `json:"rows,omitempty"`
	Hinted     bool              `json:"hinted,omitempty"`
	Residual   []string          `json:"residual,omitempty"`
	Candidates []CandidateReport `json:"candidates,omitempty"`
	Error      *CLIError         `json:"error,omitempty"`

	explain    string
	candidates string
}

// CandidateReport describes one candidate leaf plan.
type CandidateReport struct {
	Plan   string   `json:"plan"`
	Rows   string   `json:"rows,omitempty"`
	Solves []string `json:"solves"`
	Chosen bool     `json:"chosen,omitempty"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <workload>",
		Short: "Plan every variable of a workload",
		Long: `Plan every variable of a YAML workload against the configured catalog
and print the chosen leaf plan with its residual filter.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd, false)
		},
	}
}

// NewCandidatesCommand creates the candidates command.
func NewCandidatesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <workload>",
		Short: "List every candidate leaf plan with its estimate",
		Long: `List every leaf plan generated for each variable of a YAML workload,
with its cardinality estimate and solved predicates. The chosen plan is
marked with '*'.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd, true)
		},
	}
}

func runPlan(opts *RootOptions, path string, cmd *cobra.Command, withCandidates bool) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	wl, err := workload.Load(path)
	if err != nil {
		return s.formatter.commandError("failed to load workload", err)
	}
	s.formatter.VerboseLog("Loaded %d item(s) from %s", len(wl.Items), path)

	p, err := s.newPlanner(ctx)
	if err != nil {
		return s.formatter.commandError("failed to load catalog", err)
	}

	runner := workload.NewRunner(p, s.cfg.Workers(s.features))
	runner.SetLogger(s.logger)

	result, err := runner.Run(ctx, wl)
	if err != nil {
		return s.formatter.commandError("planning aborted", err)
	}

	report := newPlanReport(result, withCandidates)
	if err := s.formatter.Success(report); err != nil {
		return err
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d variables could not be planned",
			report.Failed, len(report.Items)))
	}
	return nil
}

func newPlanReport(r *workload.Report, withCandidates bool) *PlanReport {
	report := &PlanReport{
		Workload:       r.Name,
		Items:          make([]ItemReport, 0, len(r.Outcomes)),
		Failed:         r.Failed(),
		withCandidates: withCandidates,
	}
	for _, o := range r.Outcomes {
		report.Items = append(report.Items, newItemReport(o, withCandidates))
	}
	return report
}

func newItemReport(o workload.Outcome, withCandidates bool) ItemReport {
	item := ItemReport{
		Variable: o.Item.Variable.Name,
		Kind:     o.Item.Variable.Kind.String(),
	}
	if o.Err != nil {
		item.Error = newCLIError(o.Err)
		return item
	}

	res := o.Result
	item.Operator = planner.OperatorName(res.Leaf)
	item.explain = planner.ExplainPlan(res.Plan)
	item.Plan = strings.Split(strings.TrimSuffix(item.explain, "\n"), "\n")
	item.Hinted = res.Hinted
	if !res.Hinted {
		item.Rows = planner.FormatRows(res.Cardinality)
	}
	for _, pred := range res.Residual {
		item.Residual = append(item.Residual, pred.String())
	}

	if withCandidates {
		item.candidates = planner.ExplainCandidates(res)
		for _, c := range res.Candidates {
			cr := CandidateReport{
				Plan:   c.Plan.String(),
				Solves: make([]string, 0, len(c.Plan.Solved())),
				Chosen: c.Plan == res.Leaf,
			}
			if c.Estimated {
				cr.Rows = planner.FormatRows(c.Cardinality)
			}
			for _, pred := range c.Plan.Solved() {
				cr.Solves = append(cr.Solves, pred.String())
			}
			item.Candidates = append(item.Candidates, cr)
		}
	}
	return item
}

// RenderText writes the report in its human-readable form.
func (r *PlanReport) RenderText(w io.Writer) {
	for i, item := range r.Items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "-- %s (%s)\n", item.Variable, item.Kind)

		switch {
		case item.Error != nil:
			fmt.Fprintf(w, "error (%s): %s\n", item.Error.Code, item.Error.Message)
		case r.withCandidates:
			fmt.Fprint(w, item.candidates)
		default:
			fmt.Fprint(w, item.explain)
			if item.Hinted {
				fmt.Fprintln(w, "hinted")
			} else {
				fmt.Fprintf(w, "rows: %s\n", item.Rows)
			}
		}
	}
	fmt.Fprintf(w, "\n%d planned, %d failed\n", len(r.Items)-r.Failed, r.Failed)
}
