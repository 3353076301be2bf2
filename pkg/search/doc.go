// Package search provides a generic graph-search engine over an abstract
// state space.
//
// # Overview
//
// The engine supports five classical strategies, selected with a [Strategy]
// value:
//
//   - [BreadthFirst]: FIFO frontier, optimal in edge count
//   - [DepthFirst]: LIFO frontier, returns some cycle-free path
//   - [UniformCost]: priority frontier keyed by g(path)
//   - [Greedy]: priority frontier keyed by h(state)
//   - [AStar]: priority frontier keyed by g(path) + h(state)
//
// The state space is described by a [Problem]: an initial state, a goal
// predicate, one or more [Expander] values that produce successors, and
// (for the cost-aware strategies) a [Coster] and a [Heuristic]. States only
// need to be comparable; the engine never inspects them.
//
// # Basic Usage
//
//	res, err := search.Search(ctx, search.AStar, search.Problem[Board]{
//	    Initial:   start,
//	    Goal:      func(b Board) bool { return b == goal },
//	    Expanders: []search.Expander[Board]{search.ExpanderFunc[Board](successors)},
//	    Cost:      search.StepCostFunc[Board](func(_, _ Board) float64 { return 1 }),
//	    Heuristic: search.HeuristicFunc[Board](manhattan),
//	})
//	if err != nil {
//	    return err // configuration error, limit or cancellation
//	}
//	if !res.Found {
//	    // frontier exhausted: no solution
//	}
//
// # Cycle Avoidance
//
// Breadth-first and depth-first search keep a global visited set seeded with
// the initial state, and additionally reject successors already on the
// current path. The cost-aware strategies only reject successors on the
// current path: a state may be enqueued again through a different route.
// Uniform-cost and A* prune such re-insertions with a best-cost table,
// inserting a successor only if no cost is recorded for it yet or the new
// cost is strictly lower. Greedy search keeps no table and always inserts.
//
// # Determinism
//
// Priority frontiers order entries by key and then by insertion sequence, so
// a search over an unchanged state space always returns the same path.
//
// # Paths
//
// Frontier entries are stored in an arena as (state, cost, parent) records.
// A path is only materialized when a goal is reached, or when a [Coster]
// that does not implement [StepCoster] must be called with the full path.
//
// # Concurrency
//
// A search owns its frontier, visited set and best-cost table exclusively.
// Independent calls to [Search] can run in parallel without coordination as
// long as the supplied oracles are themselves safe for concurrent use.
package search
