package puzzle

import (
	"fmt"
	"slices"
	"strings"
)

// Heuristic estimates the number of moves needed to solve a board.
type Heuristic func(b Board) int

// Heuristic names accepted by LookupHeuristic.
const (
	HeuristicMisplaced      = "misplaced"
	HeuristicManhattan      = "manhattan"
	HeuristicLinearConflict = "linear-conflict"
)

// Heuristics maps canonical names to implementations.
var Heuristics = map[string]Heuristic{
	HeuristicMisplaced:      Misplaced,
	HeuristicManhattan:      Manhattan,
	HeuristicLinearConflict: LinearConflict,
}

var heuristicAliases = map[string]string{
	"conflict": HeuristicLinearConflict,
	"linear":   HeuristicLinearConflict,
	"hamming":  HeuristicMisplaced,
}

// HeuristicNames returns the canonical heuristic names in sorted order.
func HeuristicNames() []string {
	names := make([]string, 0, len(Heuristics))
	for name := range Heuristics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CanonicalHeuristic resolves aliases ("conflict", "hamming") to canonical
// names. It reports false for unknown names.
func CanonicalHeuristic(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := heuristicAliases[key]; ok {
		key = alias
	}
	_, ok := Heuristics[key]
	return key, ok
}

// LookupHeuristic returns the heuristic registered under name or one of
// its aliases.
func LookupHeuristic(name string) (Heuristic, error) {
	key, ok := CanonicalHeuristic(name)
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q (available: %s)", name, strings.Join(HeuristicNames(), ", "))
	}
	return Heuristics[key], nil
}

// Misplaced counts the tiles that are not on their goal square.
func Misplaced(b Board) int {
	count := 0
	last := b.Len() - 1
	for i := 0; i < last; i++ {
		if t := int(b.tiles[i]); t != 0 && t != i+1 {
			count++
		}
	}
	// The goal has the blank on the last square, so any tile there is misplaced.
	if b.tiles[last] != 0 {
		count++
	}
	return count
}

// ManhattanOf returns the distance of tile from its goal square. The blank
// contributes 0.
func (b Board) ManhattanOf(tile int) int {
	if tile == 0 {
		return 0
	}
	r, c := b.Position(tile)
	return manhattan(b.Size(), tile, r, c)
}

func manhattan(n, tile, r, c int) int {
	gr, gc := (tile-1)/n, (tile-1)%n
	return abs(r-gr) + abs(c-gc)
}

// Manhattan sums the distances of all tiles from their goal squares.
func Manhattan(b Board) int {
	n := b.Size()
	sum := 0
	for i := 0; i < b.Len(); i++ {
		if t := int(b.tiles[i]); t != 0 {
			sum += manhattan(n, t, i/n, i%n)
		}
	}
	return sum
}

// LinearConflict adds to Manhattan two moves for every tile that has to leave
// its goal row (or column) so that the remaining tiles of that line, all of
// which belong there, are in goal order.
func LinearConflict(b Board) int {
	n := b.Size()
	conflicts := 0
	goals := make([]int, 0, n)

	for r := 0; r < n; r++ {
		goals = goals[:0]
		for c := 0; c < n; c++ {
			if t := b.At(r, c); t != 0 && (t-1)/n == r {
				goals = append(goals, (t-1)%n)
			}
		}
		conflicts += len(goals) - longestIncreasing(goals)
	}

	for c := 0; c < n; c++ {
		goals = goals[:0]
		for r := 0; r < n; r++ {
			if t := b.At(r, c); t != 0 && (t-1)%n == c {
				goals = append(goals, (t-1)/n)
			}
		}
		conflicts += len(goals) - longestIncreasing(goals)
	}

	return Manhattan(b) + 2*conflicts
}

// longestIncreasing returns the length of the longest strictly increasing
// subsequence of xs. Lines hold at most MaxSize tiles.
func longestIncreasing(xs []int) int {
	best := 0
	lens := make([]int, len(xs))
	for i := range xs {
		lens[i] = 1
		for j := 0; j < i; j++ {
			if xs[j] < xs[i] && lens[j]+1 > lens[i] {
				lens[i] = lens[j] + 1
			}
		}
		best = max(best, lens[i])
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
