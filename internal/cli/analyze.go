package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/experiment"
	"github.com/matzehuels/npuzzle/pkg/stats"
)

type analyzeFlags struct {
	runID    string
	strategy string
	h1, h2   string
	metric   string
	alpha    float64
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <results.csv|results.db>",
		Short: "Test whether heuristics differ significantly",
		Long: `Pair the rows of one strategy by instance and compare two heuristics with
a Wilcoxon signed-rank test and a paired t-test.

Without --h1 and --h2, every pair of heuristics found in the results is
compared. Files ending in .db, .sqlite or .sqlite3 are read as SQLite
databases; anything else as CSV.`,
		Example: `  npuzzle analyze results.csv --strategy astar --h1 misplaced --h2 manhattan
  npuzzle analyze results.db --run 0f8c... --metric seconds`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.runID, "run", "", "run ID to analyze (SQLite only, default all runs)")
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", "astar", "strategy whose rows are compared")
	cmd.Flags().StringVar(&flags.h1, "h1", "", "first heuristic")
	cmd.Flags().StringVar(&flags.h2, "h2", "", "second heuristic")
	cmd.Flags().StringVarP(&flags.metric, "metric", "m", string(stats.MetricNodes), "metric: nodes, seconds or steps")
	cmd.Flags().Float64Var(&flags.alpha, "alpha", stats.DefaultAlpha, "significance level")
	registerNameCompletions(cmd, "strategy", "h1")
	registerNameCompletions(cmd, "", "h2")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, path string, flags analyzeFlags) error {
	metric, err := stats.ParseMetric(flags.metric)
	if err != nil {
		return err
	}
	if flags.alpha <= 0 || flags.alpha >= 1 {
		return errors.New(errors.ErrCodeInvalidInput, "alpha must be between 0 and 1")
	}
	if (flags.h1 == "") != (flags.h2 == "") {
		return errors.New(errors.ErrCodeInvalidInput, "--h1 and --h2 must be given together")
	}

	rows, err := loadRows(ctx, path, flags.runID)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded results", "path", path, "rows", len(rows))

	pairs := [][2]string{{flags.h1, flags.h2}}
	if flags.h1 == "" {
		pairs = heuristicPairs(rows, flags.strategy)
		if len(pairs) == 0 {
			return errors.New(errors.ErrCodeNotFound, "fewer than two heuristics recorded for %s", flags.strategy)
		}
	}

	header := []string{"h1", "h2", "n", "wilcoxon z", "p", "", "paired t", "p", ""}
	var table [][]string
	for _, p := range pairs {
		cmp, err := stats.Compare(rows, flags.strategy, p[0], p[1], metric)
		if err != nil {
			printWarning("%s vs %s: %s", p[0], p[1], errors.UserMessage(err))
			continue
		}
		table = append(table, []string{
			p[0], p[1],
			fmt.Sprint(cmp.Wilcoxon.N),
			fmt.Sprintf("%.4f", cmp.Wilcoxon.Statistic),
			fmt.Sprintf("%.3g", cmp.Wilcoxon.P),
			significance(cmp.Wilcoxon.Significant(flags.alpha)),
			fmt.Sprintf("%.4f", cmp.PairedT.Statistic),
			fmt.Sprintf("%.3g", cmp.PairedT.P),
			significance(cmp.PairedT.Significant(flags.alpha)),
		})
	}
	if len(table) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no comparable instances for %s", flags.strategy)
	}

	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%s · %s · alpha %.3g", flags.strategy, metric, flags.alpha)))
	printTable(header, table)
	return nil
}

func significance(sig bool) string {
	if sig {
		return styleIconSuccess.Render("significant")
	}
	return StyleDim.Render("n.s.")
}

// loadRows reads experiment rows from a CSV file or SQLite database.
func loadRows(ctx context.Context, path, runID string) ([]experiment.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := experiment.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Rows(ctx, runID)
	default:
		if runID != "" {
			return nil, errors.New(errors.ErrCodeUnsupported, "--run needs a SQLite database")
		}
		return experiment.ReadCSVFile(path)
	}
}

// heuristicPairs lists every unordered pair of heuristics recorded for
// strategy, in name order.
func heuristicPairs(rows []experiment.Row, strategy string) [][2]string {
	var names []string
	for _, r := range rows {
		if r.Strategy == strategy && r.Heuristic != "" && !slices.Contains(names, r.Heuristic) {
			names = append(names, r.Heuristic)
		}
	}
	slices.Sort(names)

	var pairs [][2]string
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			pairs = append(pairs, [2]string{names[i], names[j]})
		}
	}
	return pairs
}
