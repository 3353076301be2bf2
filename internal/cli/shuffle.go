package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// shuffleCommand creates the shuffle command, which prints a reproducible
// solvable board.
func (c *CLI) shuffleCommand() *cobra.Command {
	var (
		size  int
		steps int
		seed  uint64
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Generate a solvable board by random moves from the goal",
		Example: `  # Print a 4x4 board 50 moves from the goal and solve it
  npuzzle solve $(npuzzle shuffle --size 4 --steps 50 --plain) --size 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := solver.ShuffleBoard(size, steps, seed, c.Config.Search.MaxShuffle)
			if err != nil {
				return err
			}
			b := sh.Board
			if plain {
				fmt.Fprintln(stdout, b.String())
				return nil
			}
			printBoard(b)
			printKeyValue("tiles", b.String())
			printKeyValue("misplaced", fmt.Sprint(puzzle.Misplaced(b)))
			printKeyValue("manhattan", fmt.Sprint(puzzle.Manhattan(b)))
			printKeyValue("conflict", fmt.Sprint(puzzle.LinearConflict(b)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", solver.DefaultSize, "board width")
	cmd.Flags().IntVar(&steps, "steps", solver.DefaultShuffle, "number of random moves")
	cmd.Flags().Uint64Var(&seed, "seed", solver.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&plain, "plain", false, "print only the tiles")

	return cmd
}
