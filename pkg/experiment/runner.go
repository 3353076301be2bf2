package experiment

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// Report is the outcome of a run.
type Report struct {
	RunID     string
	Plan      Plan
	Rows      []Row
	Summaries []Summary
	Skipped   []string // unknown heuristic names
	Duration  time.Duration
}

// Runner executes plans. Each search owns its own state, so instances run
// in parallel up to Plan.Workers.
type Runner struct {
	Solver *solver.Runner
	Logger *log.Logger
}

// NewRunner creates a runner. Experiments never use the solve cache: every
// row must come from a fresh, timed search.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	return &Runner{
		Solver: solver.NewRunner(nil, nil, quiet),
		Logger: logger,
	}
}

// Run executes every combination of plan over the same instances.
// Searches that fail with NO_SOLUTION, LIMIT_EXCEEDED or TIMEOUT, and
// instances already at the goal, count as incomplete. Any other error, or
// cancellation of ctx, aborts the run.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Report, error) {
	plan.SetDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	combos, unknown := plan.Combos()
	for _, h := range unknown {
		r.Logger.Warn("skipping unknown heuristic", "heuristic", h)
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Plan:    plan,
		Skipped: unknown,
	}
	boards := plan.Boards()

	for _, c := range combos {
		r.Logger.Info("running",
			"strategy", c.Strategy,
			"heuristic", c.Heuristic,
			"n", plan.Size,
			"shuffle", plan.Shuffle,
			"instances", plan.Instances)

		rows, incomplete, err := r.runCombo(ctx, plan, c, boards)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].RunID = report.RunID
		}
		sum := Summarize(c, rows, incomplete)
		r.Logger.Info("finished",
			"strategy", c.Strategy,
			"heuristic", c.Heuristic,
			"steps", sum.MeanSteps,
			"ms", sum.MeanSeconds*1000,
			"nodes", sum.MeanNodes,
			"b*", sum.EBF,
			"incomplete", sum.Incomplete)

		report.Rows = append(report.Rows, rows...)
		report.Summaries = append(report.Summaries, sum)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (r *Runner) runCombo(ctx context.Context, plan Plan, c Combo, boards []puzzle.Board) ([]Row, int, error) {
	results := make([]*Row, len(boards))
	var done atomic.Int64
	every := int64(max(1, len(boards)/10))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.Workers)
	for i, b := range boards {
		g.Go(func() error {
			defer func() {
				if n := done.Add(1); n%every == 0 {
					r.Logger.Debug("progress", "strategy", c.Strategy, "heuristic", c.Heuristic, "done", n, "of", len(boards))
				}
			}()
			if b.IsGoal() {
				return nil
			}

			res, err := r.Solver.Solve(gctx, solver.Options{
				Start:         b,
				Strategy:      c.Strategy,
				Heuristic:     c.Heuristic,
				MaxExpansions: plan.MaxExpansions,
				Timeout:       plan.Timeout,
			})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if incomplete(err) {
					return nil
				}
				return err
			}

			results[i] = &Row{
				Instance:  i,
				Strategy:  c.Strategy,
				Heuristic: c.Heuristic,
				N:         plan.Size,
				Shuffle:   plan.Shuffle,
				Steps:     res.Steps,
				Seconds:   res.Stats.Duration.Seconds(),
				Nodes:     res.Stats.Expanded,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	rows := make([]Row, 0, len(results))
	for _, r := range results {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	return rows, len(results) - len(rows), nil
}

func incomplete(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeNoSolution, errors.ErrCodeLimitExceeded, errors.ErrCodeTimeout:
		return true
	}
	return false
}
