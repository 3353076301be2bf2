package search

import (
	"fmt"
	"strings"
)

// Strategy selects the frontier discipline and evaluation key of a search.
type Strategy int

const (
	// BreadthFirst expands the oldest path first.
	BreadthFirst Strategy = iota
	// DepthFirst expands the newest path first.
	DepthFirst
	// UniformCost expands the path with the lowest g(path).
	UniformCost
	// Greedy expands the path whose last state has the lowest h(state).
	Greedy
	// AStar expands the path with the lowest g(path) + h(state).
	AStar
)

// Strategies lists every supported strategy in declaration order.
var Strategies = []Strategy{BreadthFirst, DepthFirst, UniformCost, Greedy, AStar}

var strategyNames = map[Strategy]string{
	BreadthFirst: "bfs",
	DepthFirst:   "dfs",
	UniformCost:  "ucs",
	Greedy:       "greedy",
	AStar:        "astar",
}

var strategyAliases = map[string]Strategy{
	"bfs":           BreadthFirst,
	"breadth-first": BreadthFirst,
	"dfs":           DepthFirst,
	"depth-first":   DepthFirst,
	"ucs":           UniformCost,
	"uniform-cost":  UniformCost,
	"greedy":        Greedy,
	"best-first":    Greedy,
	"astar":         AStar,
	"a*":            AStar,
	"a-star":        AStar,
}

// String returns the canonical short name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Informed reports whether the strategy consults a heuristic.
func (s Strategy) Informed() bool { return s == Greedy || s == AStar }

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy maps a strategy name to its [Strategy]. Matching is
// case-insensitive and accepts both short names ("bfs", "astar") and long
// names ("breadth-first", "a*"). Unknown names fail with
// [ErrUnsupportedStrategy].
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, name)
}

// discipline is the removal order of a frontier.
type discipline int

const (
	fifo discipline = iota
	lifo
	priority
)

// profile bundles everything that distinguishes one strategy from another.
type profile struct {
	discipline    discipline
	globalVisited bool // uninformed search: skip states seen anywhere
	relax         bool // keep a best-cost table and prune dominated entries
	needsCost     bool
	needsHeur     bool
	key           func(g, h float64) float64
}

func (s Strategy) profile() profile {
	switch s {
	case BreadthFirst:
		return profile{discipline: fifo, globalVisited: true}
	case DepthFirst:
		return profile{discipline: lifo, globalVisited: true}
	case UniformCost:
		return profile{
			discipline: priority, relax: true, needsCost: true,
			key: func(g, _ float64) float64 { return g },
		}
	case Greedy:
		return profile{
			discipline: priority, needsHeur: true,
			key: func(_, h float64) float64 { return h },
		}
	default:
		return profile{
			discipline: priority, relax: true, needsCost: true, needsHeur: true,
			key: func(g, h float64) float64 { return g + h },
		}
	}
}
