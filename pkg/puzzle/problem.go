package puzzle

import "github.com/matzehuels/npuzzle/pkg/search"

// space implements the search oracles for boards. Every move costs 1.
type space struct {
	h Heuristic
}

func (space) Expand(b Board) []Board { return b.Successors() }

func (space) StepCost(_, _ Board) float64 { return 1 }

func (space) Cost(path []Board) float64 {
	if len(path) == 0 {
		return 0
	}
	return float64(len(path) - 1)
}

func (s space) Estimate(b Board) float64 {
	if s.h == nil {
		return 0
	}
	return float64(s.h(b))
}

// NewProblem returns a search problem that slides tiles from start to the
// goal of the same size. h may be nil for uninformed strategies.
func NewProblem(start Board, h Heuristic) search.Problem[Board] {
	sp := space{h: h}
	p := search.Problem[Board]{
		Initial:   start,
		Goal:      Board.IsGoal,
		Expanders: []search.Expander[Board]{sp},
		Cost:      sp,
	}
	if h != nil {
		p.Heuristic = sp
	}
	return p
}

// MovesOf converts a path of boards into the moves of the blank.
// It stops at the first pair of boards that are not one move apart.
func MovesOf(path []Board) []Move {
	out := make([]Move, 0, max(len(path)-1, 0))
	for i := 1; i < len(path); i++ {
		m, ok := MoveBetween(path[i-1], path[i])
		if !ok {
			break
		}
		out = append(out, m)
	}
	return out
}
