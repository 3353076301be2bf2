package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/search"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// solveFlags holds flag values for the solve command.
type solveFlags struct {
	opts     solver.Options
	timeout  time.Duration
	noCache  bool
	jsonOut  bool
	showPath bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve [tiles...]",
		Short: "Solve a puzzle",
		Long: `Solve a sliding-tile puzzle and print the moves that lead to the goal.

The board is given in row-major order with 0 for the blank, either as
arguments or with --board. Without a board, a solvable instance is generated
by shuffling the goal with --shuffle random moves seeded by --seed.

Moves name the direction the blank travels.`,
		Example: `  # Solve a specific 8-puzzle with A* and Manhattan distance
  npuzzle solve 1 2 3 4 5 6 0 7 8

  # Solve a random 15-puzzle with greedy search and linear conflicts
  npuzzle solve --size 4 --shuffle 60 --strategy greedy --heuristic linear-conflict

  # Breadth-first search, printing every intermediate board
  npuzzle solve --board "8 6 7 2 5 4 3 0 1" --strategy bfs --path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flags.opts.Board = strings.Join(args, " ")
			}
			return c.runSolve(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.opts.Board, "board", "b", "", "tiles in row-major order, 0 for the blank")
	cmd.Flags().IntVarP(&flags.opts.Size, "size", "n", solver.DefaultSize, "board width")
	cmd.Flags().IntVar(&flags.opts.Shuffle, "shuffle", solver.DefaultShuffle, "random moves used to generate a board")
	cmd.Flags().Uint64Var(&flags.opts.Seed, "seed", solver.DefaultSeed, "random seed for --shuffle")
	cmd.Flags().StringVarP(&flags.opts.Strategy, "strategy", "s", solver.DefaultStrategy, "search strategy: "+strategyList())
	cmd.Flags().StringVarP(&flags.opts.Heuristic, "heuristic", "H", solver.DefaultHeuristic, "heuristic for greedy and astar: "+strings.Join(puzzle.HeuristicNames(), ", "))
	cmd.Flags().IntVar(&flags.opts.MaxExpansions, "max-expansions", 0, "give up after this many expansions (default from config, 0 = unlimited)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "give up after this long (default from config, 0 = unlimited)")
	cmd.Flags().BoolVar(&flags.opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.showPath, "path", false, "print every board along the solution")
	registerNameCompletions(cmd, "strategy", "heuristic")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, flags solveFlags) error {
	ctx := cmd.Context()
	opts := flags.opts
	if opts.Board != "" && !cmd.Flags().Changed("size") {
		opts.Size = inferSize(opts.Board)
	}
	if !cmd.Flags().Changed("max-expansions") {
		opts.MaxExpansions = c.Config.Search.MaxExpansions
	}
	opts.Timeout = flags.timeout
	if !cmd.Flags().Changed("timeout") {
		opts.Timeout = c.Config.Search.Timeout
	}
	opts.MaxShuffle = c.Config.Search.MaxShuffle
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Searching...")
	spinner.Start()
	res, err := runner.Solve(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if flags.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printBoard(res.Initial)
	if res.Steps == 0 {
		printSuccess("Already solved")
	} else {
		printSuccess("Solved in %s moves", StyleNumber.Render(fmt.Sprint(res.Steps)))
		printDetail("%s", formatMoves(res.Moves))
	}
	printSearchStats(res.Strategy, res.Heuristic, res.Stats.Expanded,
		float64(res.Stats.Duration.Microseconds())/1000, res.Cached)

	if flags.showPath && len(res.Path) > 1 {
		printNewline()
		printBoardsSideBySide(res.Path, pathBoardsPerRow(res.Initial.Size()))
	}
	return nil
}

// inferSize returns the board width implied by the number of tiles, or
// the default width when the count is not a square.
func inferSize(board string) int {
	count := len(strings.FieldsFunc(board, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	}))
	for n := 2; n*n <= count; n++ {
		if n*n == count {
			return n
		}
	}
	return solver.DefaultSize
}

func formatMoves(moves []puzzle.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

func pathBoardsPerRow(size int) int {
	return max(1, 12/size)
}

func strategyNames() []string {
	names := make([]string, len(search.Strategies))
	for i, s := range search.Strategies {
		names[i] = s.String()
	}
	return names
}

func strategyList() string {
	return strings.Join(strategyNames(), ", ")
}
