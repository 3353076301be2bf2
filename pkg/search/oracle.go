package search

// Expander produces the successors of a state. It may return nil or an
// empty slice when the state has no successors.
type Expander[S comparable] interface {
	Expand(state S) []S
}

// ExpanderFunc adapts a plain function to [Expander].
type ExpanderFunc[S comparable] func(state S) []S

// Expand calls f(state).
func (f ExpanderFunc[S]) Expand(state S) []S { return f(state) }

// Coster computes g(path), the cumulative cost of a path from the initial
// state to its last state. It is always called with the full path.
type Coster[S comparable] interface {
	Cost(path []S) float64
}

// StepCoster is an optional extension of [Coster] for additive costs. When
// the Coster supplied to [Search] also implements StepCoster, g is
// accumulated one edge at a time instead of re-evaluating whole paths.
// Implementations must satisfy Cost(append(p, to)) == Cost(p) + StepCost(last(p), to).
type StepCoster[S comparable] interface {
	Coster[S]
	StepCost(from, to S) float64
}

// CostFunc adapts a plain function to [Coster].
type CostFunc[S comparable] func(path []S) float64

// Cost calls f(path).
func (f CostFunc[S]) Cost(path []S) float64 { return f(path) }

// StepCostFunc adapts an edge-cost function to [StepCoster]. Its Cost sums
// the edge costs along the path.
type StepCostFunc[S comparable] func(from, to S) float64

// StepCost calls f(from, to).
func (f StepCostFunc[S]) StepCost(from, to S) float64 { return f(from, to) }

// Cost sums f over consecutive pairs of path.
func (f StepCostFunc[S]) Cost(path []S) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += f(path[i-1], path[i])
	}
	return total
}

// Heuristic estimates the remaining cost from a state to the nearest goal.
// It should return 0 for goal states and never be negative. The engine does
// not check either property.
type Heuristic[S comparable] interface {
	Estimate(state S) float64
}

// HeuristicFunc adapts a plain function to [Heuristic].
type HeuristicFunc[S comparable] func(state S) float64

// Estimate calls f(state).
func (f HeuristicFunc[S]) Estimate(state S) float64 { return f(state) }
