package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrUnsupportedStrategy is returned by [ParseStrategy] for unknown names
	// and by [Search] for strategy values outside the supported set.
	ErrUnsupportedStrategy = errors.New("unsupported search strategy")

	// ErrMissingGoal is returned by [Search] when the problem has no goal predicate.
	ErrMissingGoal = errors.New("missing goal predicate")

	// ErrNoExpanders is returned by [Search] when the problem has no non-nil
	// successor function.
	ErrNoExpanders = errors.New("no successor functions registered")

	// ErrMissingCost is returned by [Search] for uniform-cost and A* search
	// when the problem has no [Coster].
	ErrMissingCost = errors.New("strategy requires a cost function")

	// ErrMissingHeuristic is returned by [Search] for greedy and A* search
	// when the problem has no [Heuristic].
	ErrMissingHeuristic = errors.New("strategy requires a heuristic")

	// ErrLimitExceeded is returned by [Search] when the expansion limit set
	// with [WithMaxExpansions] is reached before the frontier is exhausted.
	// It is distinct from a no-solution outcome, which is not an error.
	ErrLimitExceeded = errors.New("expansion limit exceeded")
)

// pollInterval is the number of expansions between context checks.
const pollInterval = 256

// Problem describes a state space and what to look for in it.
type Problem[S comparable] struct {
	// Initial is the state the search starts from.
	Initial S
	// Goal reports whether a state is a goal. Tested when a path is removed
	// from the frontier, never when it is generated.
	Goal func(S) bool
	// Expanders produce successors. Their outputs are concatenated in order.
	Expanders []Expander[S]
	// Cost computes g(path). Required by UniformCost and AStar; when set
	// for other strategies it is only used to report Result.Cost.
	Cost Coster[S]
	// Heuristic estimates remaining cost. Required by Greedy and AStar.
	Heuristic Heuristic[S]
}

// Result is the outcome of a search. When Found is false the frontier was
// exhausted without reaching a goal, and Path is nil.
type Result[S comparable] struct {
	Path  []S
	Cost  float64 // g(Path), or its edge count when the problem has no Coster
	Found bool
	Stats Stats
}

// Steps returns the number of edges in the path, or 0 when nothing was found.
func (r Result[S]) Steps() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Stats are diagnostic counters collected during a search.
type Stats struct {
	Expanded    int           // paths whose successors were generated
	Generated   int           // successors produced by the expanders
	Enqueued    int           // paths inserted into the frontier, including the initial one
	MaxFrontier int           // largest frontier size observed
	Duration    time.Duration // wall time spent inside Search
}

type options struct {
	maxExpansions int
}

// Option configures a search.
type Option func(*options)

// WithMaxExpansions stops the search with [ErrLimitExceeded] after n
// expansions. Values <= 0 disable the limit, which is the default.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// Search runs strategy over p and returns the first goal-reaching path it
// finds. Configuration errors are reported before any expansion. An
// exhausted frontier yields a Result with Found == false and a nil error.
//
// ctx is polled periodically; on cancellation Search returns ctx.Err()
// together with the statistics gathered so far.
func Search[S comparable](ctx context.Context, strategy Strategy, p Problem[S], opts ...Option) (Result[S], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.validate(strategy); err != nil {
		return Result[S]{}, err
	}

	start := time.Now()
	s := &searcher[S]{
		problem: p,
		profile: strategy.profile(),
		opts:    o,
	}
	if sc, ok := p.Cost.(StepCoster[S]); ok {
		s.step = sc
	}
	for _, e := range p.Expanders {
		if e != nil {
			s.expanders = append(s.expanders, e)
		}
	}

	res, err := s.run(ctx)
	res.Stats = s.stats
	res.Stats.Duration = time.Since(start)
	return res, err
}

func (p Problem[S]) validate(strategy Strategy) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedStrategy, strategy)
	}
	if p.Goal == nil {
		return ErrMissingGoal
	}
	if !slices.ContainsFunc(p.Expanders, func(e Expander[S]) bool { return e != nil }) {
		return ErrNoExpanders
	}
	prof := strategy.profile()
	if prof.needsCost && p.Cost == nil {
		return fmt.Errorf("%s: %w", strategy, ErrMissingCost)
	}
	if prof.needsHeur && p.Heuristic == nil {
		return fmt.Errorf("%s: %w", strategy, ErrMissingHeuristic)
	}
	return nil
}

// node is an arena record. parent is -1 for the initial state.
type node[S comparable] struct {
	state  S
	g      float64
	parent int
	depth  int
}

type searcher[S comparable] struct {
	problem   Problem[S]
	profile   profile
	opts      options
	expanders []Expander[S]
	step      StepCoster[S]

	arena    []node[S]
	frontier frontier
	stats    Stats
}

func (s *searcher[S]) run(ctx context.Context) (Result[S], error) {
	if err := ctx.Err(); err != nil {
		return Result[S]{}, err
	}

	s.frontier = newFrontier(s.profile.discipline)
	s.arena = append(s.arena, node[S]{state: s.problem.Initial, parent: -1})
	s.enqueue(0, 0)

	var visited map[S]struct{}
	if s.profile.globalVisited {
		visited = map[S]struct{}{s.problem.Initial: {}}
	}
	var best map[S]float64
	if s.profile.relax {
		best = map[S]float64{s.problem.Initial: 0}
	}

	for s.frontier.len() > 0 {
		id := s.frontier.pop()
		cur := s.arena[id]

		if s.problem.Goal(cur.state) {
			return s.found(id), nil
		}

		if s.opts.maxExpansions > 0 && s.stats.Expanded >= s.opts.maxExpansions {
			return Result[S]{}, ErrLimitExceeded
		}
		if s.stats.Expanded%pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result[S]{}, err
			}
		}
		s.stats.Expanded++

		for _, child := range s.successors(cur.state) {
			s.stats.Generated++

			if visited != nil {
				if _, seen := visited[child]; seen {
					continue
				}
			}
			if s.onPath(id, child) {
				continue
			}

			g := s.extend(id, child)
			if best != nil {
				if old, ok := best[child]; ok && g >= old {
					continue
				}
				best[child] = g
			}
			if visited != nil {
				visited[child] = struct{}{}
			}

			s.arena = append(s.arena, node[S]{
				state:  child,
				g:      g,
				parent: id,
				depth:  cur.depth + 1,
			})
			s.enqueue(len(s.arena)-1, s.key(g, child))
		}
	}

	return Result[S]{}, nil
}

// successors flattens the outputs of every registered expander.
func (s *searcher[S]) successors(state S) []S {
	if len(s.expanders) == 1 {
		return s.expanders[0].Expand(state)
	}
	var out []S
	for _, e := range s.expanders {
		out = append(out, e.Expand(state)...)
	}
	return out
}

func (s *searcher[S]) enqueue(id int, key float64) {
	s.frontier.push(id, key)
	s.stats.Enqueued++
	if n := s.frontier.len(); n > s.stats.MaxFrontier {
		s.stats.MaxFrontier = n
	}
}

func (s *searcher[S]) key(g float64, state S) float64 {
	if s.profile.key == nil {
		return 0
	}
	var h float64
	if s.profile.needsHeur {
		h = s.problem.Heuristic.Estimate(state)
	}
	return s.profile.key(g, h)
}

// extend returns g of the path ending at arena[parent] extended by child.
// Without a Coster, g is the edge count.
func (s *searcher[S]) extend(parent int, child S) float64 {
	p := s.arena[parent]
	switch {
	case s.step != nil:
		return p.g + s.step.StepCost(p.state, child)
	case s.problem.Cost != nil:
		return s.problem.Cost.Cost(append(s.path(parent), child))
	default:
		return float64(p.depth + 1)
	}
}

// onPath reports whether state occurs on the path ending at arena[id].
func (s *searcher[S]) onPath(id int, state S) bool {
	for i := id; i >= 0; i = s.arena[i].parent {
		if s.arena[i].state == state {
			return true
		}
	}
	return false
}

// path materializes the states from the initial one to arena[id].
func (s *searcher[S]) path(id int) []S {
	out := make([]S, s.arena[id].depth+1)
	for i := id; i >= 0; i = s.arena[i].parent {
		out[s.arena[i].depth] = s.arena[i].state
	}
	return out
}

func (s *searcher[S]) found(id int) Result[S] {
	n := s.arena[id]
	return Result[S]{
		Path:  s.path(id),
		Cost:  n.g,
		Found: true,
	}
}
