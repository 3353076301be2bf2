// Package solver runs N-puzzle searches for the CLI, the HTTP API and the
// experiment driver.
//
// It resolves a start board (given explicitly or shuffled from a seed),
// checks solvability, consults a [cache.Cache], runs [search.Search] and
// maps failures onto coded errors from package errors.
//
// # Usage
//
//	runner := solver.NewRunner(c, nil, logger)
//	res, err := runner.Solve(ctx, solver.Options{
//	    Board:     "8 1 3 4 0 2 7 6 5",
//	    Strategy:  "astar",
//	    Heuristic: "linear-conflict",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Steps, res.Moves)
package solver
