package search

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// graph is a small weighted digraph used throughout the tests.
type graph struct {
	adj     map[string][]string
	weights map[[2]string]float64
}

func (g graph) Expand(s string) []string { return g.adj[s] }

func (g graph) StepCost(from, to string) float64 {
	if w, ok := g.weights[[2]string{from, to}]; ok {
		return w
	}
	return 1
}

func (g graph) Cost(path []string) float64 { return StepCostFunc[string](g.StepCost).Cost(path) }

func goalIs(target string) func(string) bool {
	return func(s string) bool { return s == target }
}

func problem(g graph, start, goal string, h map[string]float64) Problem[string] {
	p := Problem[string]{
		Initial:   start,
		Goal:      goalIs(goal),
		Expanders: []Expander[string]{g},
		Cost:      g,
	}
	if h != nil {
		p.Heuristic = HeuristicFunc[string](func(s string) float64 { return h[s] })
	}
	return p
}

// checkPath verifies that path starts at start, ends at goal, follows edges
// and never repeats a state.
func checkPath(t *testing.T, g graph, path []string, start, goal string) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("empty path")
	}
	if path[0] != start {
		t.Errorf("path starts at %q, want %q", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %q, want %q", path[len(path)-1], goal)
	}
	seen := map[string]bool{}
	for i, s := range path {
		if seen[s] {
			t.Errorf("state %q repeats in path %v", s, path)
		}
		seen[s] = true
		if i > 0 && !slices.Contains(g.adj[path[i-1]], s) {
			t.Errorf("no edge %q -> %q in path %v", path[i-1], s, path)
		}
	}
}

var branchy = graph{
	adj: map[string][]string{
		"S": {"A", "B"},
		"A": {"G"},
		"B": {"C"},
		"C": {"G", "S"},
	},
}

// weighted has a direct expensive edge and a cheap three-edge detour.
var weighted = graph{
	adj: map[string][]string{
		"S": {"G", "A"},
		"A": {"B", "S"},
		"B": {"G", "A"},
	},
	weights: map[[2]string]float64{
		{"S", "G"}: 10,
	},
}

var weightedH = map[string]float64{"S": 2, "A": 2, "B": 1, "G": 0}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"bfs", BreadthFirst, false},
		{"Breadth-First", BreadthFirst, false},
		{"dfs", DepthFirst, false},
		{"depth-first", DepthFirst, false},
		{"ucs", UniformCost, false},
		{"uniform-cost", UniformCost, false},
		{"greedy", Greedy, false},
		{" best-first ", Greedy, false},
		{"astar", AStar, false},
		{"A*", AStar, false},
		{"dijkstra", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedStrategy) {
					t.Fatalf("ParseStrategy(%q) error = %v, want ErrUnsupportedStrategy", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStrategyTextRoundTrip(t *testing.T) {
	for _, s := range Strategies {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Strategy
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != s {
			t.Errorf("round trip of %v gave %v", s, back)
		}
	}
	if _, err := Strategy(42).MarshalText(); !errors.Is(err, ErrUnsupportedStrategy) {
		t.Errorf("MarshalText of invalid strategy: %v", err)
	}
}

func TestSearchConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	base := problem(weighted, "S", "G", weightedH)

	tests := []struct {
		name     string
		strategy Strategy
		mutate   func(*Problem[string])
		wantErr  error
	}{
		{"unknown strategy", Strategy(99), nil, ErrUnsupportedStrategy},
		{"negative strategy", Strategy(-1), nil, ErrUnsupportedStrategy},
		{"missing goal", BreadthFirst, func(p *Problem[string]) { p.Goal = nil }, ErrMissingGoal},
		{"no expanders", BreadthFirst, func(p *Problem[string]) { p.Expanders = nil }, ErrNoExpanders},
		{"only nil expanders", DepthFirst, func(p *Problem[string]) { p.Expanders = []Expander[string]{nil} }, ErrNoExpanders},
		{"ucs without cost", UniformCost, func(p *Problem[string]) { p.Cost = nil }, ErrMissingCost},
		{"astar without cost", AStar, func(p *Problem[string]) { p.Cost = nil }, ErrMissingCost},
		{"astar without heuristic", AStar, func(p *Problem[string]) { p.Heuristic = nil }, ErrMissingHeuristic},
		{"greedy without heuristic", Greedy, func(p *Problem[string]) { p.Heuristic = nil }, ErrMissingHeuristic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			calls := 0
			if len(p.Expanders) > 0 && p.Expanders[0] != nil {
				p.Expanders = []Expander[string]{ExpanderFunc[string](func(s string) []string {
					calls++
					return weighted.Expand(s)
				})}
			}
			res, err := Search(ctx, tt.strategy, p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Search error = %v, want %v", err, tt.wantErr)
			}
			if res.Found || res.Stats.Expanded != 0 || calls != 0 {
				t.Errorf("configuration error should fail before expansion: %+v, calls=%d", res, calls)
			}
		})
	}
}

func TestSearchOptionalOracles(t *testing.T) {
	ctx := context.Background()
	p := problem(weighted, "S", "G", nil)
	p.Cost = nil

	for _, s := range []Strategy{BreadthFirst, DepthFirst} {
		res, err := Search(ctx, s, p)
		if err != nil {
			t.Fatalf("%v without oracles: %v", s, err)
		}
		if !res.Found {
			t.Fatalf("%v found nothing", s)
		}
		if res.Cost != float64(res.Steps()) {
			t.Errorf("%v cost without coster = %v, want edge count %d", s, res.Cost, res.Steps())
		}
	}

	greedy := problem(weighted, "S", "G", weightedH)
	greedy.Cost = nil
	if _, err := Search(ctx, Greedy, greedy); err != nil {
		t.Errorf("greedy should not require a cost function: %v", err)
	}
}

func TestBreadthFirstSingleEdge(t *testing.T) {
	g := graph{adj: map[string][]string{"init": {"goal"}}}
	res, err := Search(context.Background(), BreadthFirst, problem(g, "init", "goal", nil))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Found {
		t.Fatal("expected a solution")
	}
	if want := []string{"init", "goal"}; !slices.Equal(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
}

func TestInitialStateIsGoal(t *testing.T) {
	for _, s := range Strategies {
		res, err := Search(context.Background(), s, problem(weighted, "S", "S", weightedH))
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if !slices.Equal(res.Path, []string{"S"}) || res.Cost != 0 || res.Stats.Expanded != 0 {
			t.Errorf("%v: got %+v, want the singleton path with no expansion", s, res)
		}
	}
}

func TestBreadthFirstVersusDepthFirst(t *testing.T) {
	ctx := context.Background()
	p := problem(branchy, "S", "G", nil)

	bfs, err := Search(ctx, BreadthFirst, p)
	if err != nil {
		t.Fatalf("bfs: %v", err)
	}
	checkPath(t, branchy, bfs.Path, "S", "G")
	if want := []string{"S", "A", "G"}; !slices.Equal(bfs.Path, want) {
		t.Errorf("bfs path = %v, want %v", bfs.Path, want)
	}

	dfs, err := Search(ctx, DepthFirst, p)
	if err != nil {
		t.Fatalf("dfs: %v", err)
	}
	checkPath(t, branchy, dfs.Path, "S", "G")
	// LIFO pops the most recently generated branch (B) first.
	if want := []string{"S", "B", "C", "G"}; !slices.Equal(dfs.Path, want) {
		t.Errorf("dfs path = %v, want %v", dfs.Path, want)
	}
}

func TestCostAwareStrategies(t *testing.T) {
	ctx := context.Background()
	p := problem(weighted, "S", "G", weightedH)

	tests := []struct {
		strategy Strategy
		wantPath []string
		wantCost float64
	}{
		{UniformCost, []string{"S", "A", "B", "G"}, 3},
		{AStar, []string{"S", "A", "B", "G"}, 3},
		// Greedy follows h only: G has h = 0 and is generated first.
		{Greedy, []string{"S", "G"}, 10},
		{BreadthFirst, []string{"S", "G"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			res, err := Search(ctx, tt.strategy, p)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			checkPath(t, weighted, res.Path, "S", "G")
			if !slices.Equal(res.Path, tt.wantPath) {
				t.Errorf("Path = %v, want %v", res.Path, tt.wantPath)
			}
			if res.Cost != tt.wantCost {
				t.Errorf("Cost = %v, want %v", res.Cost, tt.wantCost)
			}
		})
	}
}

func TestRelaxationPrunesDominatedPaths(t *testing.T) {
	// Two routes reach M; the cheaper one is generated second. Both must be
	// considered, and the dominated re-insertion through the expensive
	// route must not happen once the cheap cost is known.
	g := graph{
		adj: map[string][]string{
			"S": {"X", "Y"},
			"X": {"M"},
			"Y": {"M"},
			"M": {"G"},
		},
		weights: map[[2]string]float64{
			{"S", "X"}: 1, {"X", "M"}: 10,
			{"S", "Y"}: 2, {"Y", "M"}: 1,
		},
	}
	res, err := Search(context.Background(), UniformCost, problem(g, "S", "G", nil))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"S", "Y", "M", "G"}; !slices.Equal(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
	if res.Cost != 4 {
		t.Errorf("Cost = %v, want 4", res.Cost)
	}
}

func TestFullPathCoster(t *testing.T) {
	// A Coster without StepCost must receive whole paths.
	var longest int
	cost := CostFunc[string](func(path []string) float64 {
		if len(path) > longest {
			longest = len(path)
		}
		return weighted.Cost(path)
	})
	p := problem(weighted, "S", "G", weightedH)
	p.Cost = cost

	res, err := Search(context.Background(), AStar, p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Cost != 3 {
		t.Errorf("Cost = %v, want 3", res.Cost)
	}
	if longest < len(res.Path) {
		t.Errorf("coster saw paths of length %d, want at least %d", longest, len(res.Path))
	}
}

func TestExhaustion(t *testing.T) {
	// Finite, cyclic state space whose goal predicate never holds.
	never := func(string) bool { return false }
	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			p := problem(branchy, "S", "G", map[string]float64{})
			p.Goal = never
			res, err := Search(context.Background(), s, p)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Found || res.Path != nil {
				t.Errorf("expected no solution, got %+v", res)
			}
			if res.Stats.Expanded == 0 {
				t.Error("expected expansions before exhaustion")
			}
		})
	}
}

func TestUnreachableGoal(t *testing.T) {
	for _, s := range Strategies {
		res, err := Search(context.Background(), s, problem(branchy, "S", "Z", map[string]float64{}))
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if res.Found {
			t.Errorf("%v found a path to an unreachable goal: %v", s, res.Path)
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	// Every edge costs 1 and the heuristic is flat, so ties are everywhere.
	g := graph{adj: map[string][]string{
		"S": {"A", "B", "C"},
		"A": {"D", "E"},
		"B": {"D", "E"},
		"C": {"E", "F"},
		"D": {"G"},
		"E": {"G"},
		"F": {"G"},
	}}
	flat := map[string]float64{}
	for _, s := range Strategies {
		first, err := Search(context.Background(), s, problem(g, "S", "G", flat))
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		for i := 0; i < 5; i++ {
			again, err := Search(context.Background(), s, problem(g, "S", "G", flat))
			if err != nil {
				t.Fatalf("%v: %v", s, err)
			}
			if !slices.Equal(first.Path, again.Path) || first.Stats.Expanded != again.Stats.Expanded {
				t.Fatalf("%v not deterministic: %v vs %v", s, first.Path, again.Path)
			}
		}
	}
}

func TestMultipleExpandersAreFlattened(t *testing.T) {
	left := ExpanderFunc[int](func(n int) []int {
		if n%2 == 0 {
			return nil
		}
		return []int{n + 1}
	})
	right := ExpanderFunc[int](func(n int) []int {
		if n >= 10 {
			return nil
		}
		return []int{n + 2, n + 3}
	})
	p := Problem[int]{
		Initial:   0,
		Goal:      func(n int) bool { return n == 7 },
		Expanders: []Expander[int]{left, nil, right},
	}
	res, err := Search(context.Background(), BreadthFirst, p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// 7 is three edges away; 4 is first generated from 2 by the right expander.
	if want := []int{0, 2, 4, 7}; !slices.Equal(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
}

func TestMaxExpansions(t *testing.T) {
	// An infinite chain: every state has a fresh successor.
	chain := ExpanderFunc[int](func(n int) []int { return []int{n + 1} })
	p := Problem[int]{
		Initial:   0,
		Goal:      func(int) bool { return false },
		Expanders: []Expander[int]{chain},
	}
	res, err := Search(context.Background(), DepthFirst, p, WithMaxExpansions(50))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("error = %v, want ErrLimitExceeded", err)
	}
	if res.Stats.Expanded != 50 {
		t.Errorf("Expanded = %d, want 50", res.Stats.Expanded)
	}
	if res.Found {
		t.Error("limit result must not be marked found")
	}
}

func TestContextCancellation(t *testing.T) {
	chain := ExpanderFunc[int](func(n int) []int { return []int{n + 1} })
	p := Problem[int]{
		Initial:   0,
		Goal:      func(int) bool { return false },
		Expanders: []Expander[int]{chain},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Search(ctx, BreadthFirst, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	calls := 0
	p.Expanders = []Expander[int]{ExpanderFunc[int](func(n int) []int {
		calls++
		if calls == 1000 {
			cancel()
		}
		return []int{n + 1}
	})}
	res, err := Search(ctx, BreadthFirst, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if res.Stats.Expanded < 1000 || res.Stats.Expanded > 1000+pollInterval {
		t.Errorf("Expanded = %d, want cancellation within one poll interval", res.Stats.Expanded)
	}
}

func TestStats(t *testing.T) {
	res, err := Search(context.Background(), BreadthFirst, problem(branchy, "S", "G", nil))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// S, A and B are expanded before G is popped.
	if res.Stats.Expanded != 3 {
		t.Errorf("Expanded = %d, want 3", res.Stats.Expanded)
	}
	// S -> A,B; A -> G; B -> C.
	if res.Stats.Generated != 4 {
		t.Errorf("Generated = %d, want 4", res.Stats.Generated)
	}
	if res.Stats.Enqueued != 5 {
		t.Errorf("Enqueued = %d, want 5", res.Stats.Enqueued)
	}
	if res.Stats.MaxFrontier != 2 {
		t.Errorf("MaxFrontier = %d, want 2", res.Stats.MaxFrontier)
	}
	if res.Stats.Duration <= 0 {
		t.Error("Duration should be positive")
	}
}
