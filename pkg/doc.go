// Package pkg provides the libraries behind npuzzle: generic graph search,
// the sliding-tile puzzle domain, and the tooling to run and analyze
// experiments over them.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Search - [search] is a domain-independent engine with five strategies
//     (breadth-first, depth-first, uniform-cost, greedy best-first, A*).
//  2. Domain - [puzzle] implements N×N boards, moves, solvability and the
//     misplaced, Manhattan and linear-conflict heuristics.
//  3. Orchestration - [solver] runs one cached solve; [experiment] runs many
//     and records rows; [stats] tests the rows for significance.
//
// Supporting packages are [cache] (file, Redis, null), [errors] (coded
// errors shared by CLI and API), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	board text or shuffle
//	         ↓
//	    [solver] (validate, cache lookup)
//	         ↓
//	    [search] over [puzzle].NewProblem
//	         ↓
//	    moves, cost, statistics
//
// and for experiments:
//
//	[experiment].Plan → instances → rows → CSV / SQLite / MongoDB
//	                                  ↓
//	                             [stats].Compare
//
// # Quick Start
//
//	start, _ := puzzle.Parse("8 6 7 2 5 4 3 0 1", 3)
//	res, err := search.Search(ctx, search.AStar, puzzle.NewProblem(start, puzzle.LinearConflict))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(puzzle.MovesOf(res.Path), res.Stats.Expanded)
//
// With caching and validation:
//
//	r := solver.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := r.Solve(ctx, solver.Options{Board: "8 6 7 2 5 4 3 0 1", Strategy: "astar"})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Redis and MongoDB (NPUZZLE_TEST_REDIS, NPUZZLE_TEST_MONGO)
//
// [search]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/search
// [puzzle]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/puzzle
// [solver]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/solver
// [experiment]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/experiment
// [stats]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/stats
// [cache]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/npuzzle/pkg/buildinfo
package pkg
