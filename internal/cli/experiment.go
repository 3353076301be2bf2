package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/experiment"
)

// experimentCommand creates the experiment command group.
func (c *CLI) experimentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Compare strategies and heuristics over many instances",
	}
	cmd.AddCommand(c.experimentRunCommand())
	cmd.AddCommand(c.experimentRunsCommand())
	return cmd
}

// experimentRunCommand creates the "experiment run" subcommand.
func (c *CLI) experimentRunCommand() *cobra.Command {
	var plan experiment.Plan

	cmd := &cobra.Command{
		Use:   "run [plan.toml]",
		Short: "Run an experiment and record one row per solved instance",
		Long: `Run every strategy × heuristic combination over the same shuffled
instances and record steps, seconds and expanded nodes for each solved one.

Settings come from an optional TOML plan file; flags override it. Rows are
written to every configured output. With no output configured they go to
results.csv.`,
		Example: `  # The classic comparison: greedy and A* with every heuristic
  npuzzle experiment run --instances 100 --shuffle 40

  # Store rows in SQLite for later analysis
  npuzzle experiment run plan.toml --sqlite results.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := experiment.Plan{}
			if len(args) == 1 {
				loaded, err := experiment.LoadPlan(args[0])
				if err != nil {
					return err
				}
				p = *loaded
			}
			overridePlan(cmd, &p, plan)
			return c.runExperiment(cmd.Context(), p)
		},
	}

	cmd.Flags().IntVarP(&plan.Size, "size", "n", experiment.DefaultSize, "board width")
	cmd.Flags().IntVar(&plan.Shuffle, "shuffle", experiment.DefaultShuffle, "random moves per instance")
	cmd.Flags().IntVarP(&plan.Instances, "instances", "k", experiment.DefaultInstances, "number of instances")
	cmd.Flags().Uint64Var(&plan.Seed, "seed", experiment.DefaultSeed, "base random seed; instance i uses seed+i")
	cmd.Flags().StringSliceVarP(&plan.Strategies, "strategies", "s", experiment.DefaultStrategies, "strategies to run")
	cmd.Flags().StringSliceVarP(&plan.Heuristics, "heuristics", "H", nil, "heuristics for informed strategies (default all)")
	cmd.Flags().IntVarP(&plan.Workers, "workers", "j", 0, "parallel searches (default number of CPUs)")
	cmd.Flags().IntVar(&plan.MaxExpansions, "max-expansions", 0, "per-search expansion limit (0 = unlimited)")
	cmd.Flags().DurationVar(&plan.Timeout, "timeout", 0, "per-search time limit (0 = unlimited)")
	cmd.Flags().StringVar(&plan.Output.CSV, "csv", "", "write rows to this CSV file")
	cmd.Flags().StringVar(&plan.Output.SQLite, "sqlite", "", "write rows to this SQLite database")
	cmd.Flags().StringVar(&plan.Output.Mongo.URI, "mongo-uri", "", "write rows to this MongoDB deployment")
	registerNameCompletions(cmd, "strategies", "heuristics")

	return cmd
}

// overridePlan copies every flag the user set onto p. Unset fields keep the
// plan file's value and are defaulted later by Plan.SetDefaults.
func overridePlan(cmd *cobra.Command, p *experiment.Plan, f experiment.Plan) {
	set := cmd.Flags().Changed
	if set("size") {
		p.Size = f.Size
	}
	if set("shuffle") {
		p.Shuffle = f.Shuffle
	}
	if set("instances") {
		p.Instances = f.Instances
	}
	if set("seed") {
		p.Seed = f.Seed
	}
	if set("strategies") {
		p.Strategies = f.Strategies
	}
	if set("heuristics") {
		p.Heuristics = f.Heuristics
	}
	if set("workers") {
		p.Workers = f.Workers
	}
	if set("max-expansions") {
		p.MaxExpansions = f.MaxExpansions
	}
	if set("timeout") {
		p.Timeout = f.Timeout
	}
	if set("csv") {
		p.Output.CSV = f.Output.CSV
	}
	if set("sqlite") {
		p.Output.SQLite = f.Output.SQLite
	}
	if set("mongo-uri") {
		p.Output.Mongo.URI = f.Output.Mongo.URI
	}
	if p.Output.CSV == "" && p.Output.SQLite == "" && p.Output.Mongo.URI == "" {
		p.Output.CSV = experiment.DefaultCSV
	}
}

func (c *CLI) runExperiment(ctx context.Context, p experiment.Plan) error {
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return err
	}

	sinks, err := experiment.OpenSinks(ctx, p.Output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPlan, err, "cannot open outputs")
	}

	prog := newProgress(c.Logger)
	report, err := c.newExperimentRunner().Run(ctx, p)
	if err != nil {
		for _, s := range sinks {
			s.Close()
		}
		return err
	}
	prog.done(fmt.Sprintf("Ran %d combinations over %d instances", len(report.Summaries), p.Instances))

	if err := experiment.WriteAll(ctx, report.Rows, sinks...); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write results")
	}

	printSummaries(report.Summaries)
	printNewline()
	printSuccess("Recorded %d rows (run %s)", len(report.Rows), report.RunID)
	for _, path := range []string{p.Output.CSV, p.Output.SQLite} {
		if path != "" {
			printFile(path)
		}
	}
	if p.Output.Mongo.URI != "" {
		printFile(fmt.Sprintf("mongodb %s.%s", p.Output.Mongo.Database, p.Output.Mongo.Collection))
	}
	for _, h := range report.Skipped {
		printWarning("Skipped unknown heuristic %q", h)
	}
	return nil
}

func printSummaries(sums []experiment.Summary) {
	header := []string{"strategy", "heuristic", "solved", "incomplete", "steps", "ms", "nodes", "b*"}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		h := s.Heuristic
		if h == "" {
			h = "-"
		}
		rows = append(rows, []string{
			s.Strategy,
			h,
			fmt.Sprint(s.Solved),
			fmt.Sprint(s.Incomplete),
			formatMean(s.MeanSteps, "%.2f"),
			formatMean(s.MeanSeconds*1000, "%.3f"),
			formatMean(s.MeanNodes, "%.1f"),
			formatMean(s.EBF, "%.4f"),
		})
	}
	printTable(header, rows)
}

func formatMean(v float64, format string) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "inf"
	}
	return fmt.Sprintf(format, v)
}

// experimentRunsCommand creates the "experiment runs" subcommand, which
// lists the runs recorded in a SQLite database.
func (c *CLI) experimentRunsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs <results.db>",
		Short: "List runs stored in a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := experiment.OpenSQLite(ctx, args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			ids, err := db.RunIDs(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(stdout, id)
			}
			return nil
		},
	}
}
