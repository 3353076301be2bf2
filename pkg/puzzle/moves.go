package puzzle

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Move is a direction in which the blank slides.
type Move int

const (
	Up Move = iota
	Down
	Left
	Right
)

// Moves lists the directions in the order successors are generated.
var Moves = []Move{Up, Down, Left, Right}

var moveDelta = [...][2]int{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

func (m Move) String() string {
	switch m {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Move(%d)", int(m))
}

// ParseMove reads a direction name ("up", "down", "left", "right" or the
// initials u, d, l, r).
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown move %q", s)
}

// Apply slides the blank in direction m. It reports false, and returns b
// unchanged, when the blank is on the corresponding edge.
func (b Board) Apply(m Move) (Board, bool) {
	if m < Up || m > Right {
		return b, false
	}
	n := b.Size()
	r, c := b.Blank()
	nr, nc := r+moveDelta[m][0], c+moveDelta[m][1]
	if nr < 0 || nr >= n || nc < 0 || nc >= n {
		return b, false
	}
	j := nr*n + nc
	next := b
	next.tiles[b.blank], next.tiles[j] = next.tiles[j], next.tiles[b.blank]
	next.blank = uint8(j)
	return next, true
}

// Successors returns every board reachable with one move, in [Moves] order.
func (b Board) Successors() []Board {
	out := make([]Board, 0, 4)
	for _, m := range Moves {
		if next, ok := b.Apply(m); ok {
			out = append(out, next)
		}
	}
	return out
}

// MoveBetween returns the move that turns from into to, if they are one
// move apart.
func MoveBetween(from, to Board) (Move, bool) {
	for _, m := range Moves {
		if next, ok := from.Apply(m); ok && next == to {
			return m, true
		}
	}
	return 0, false
}

// Inversions counts pairs of tiles (ignoring the blank) that appear in
// reversed order when the board is read row by row.
func (b Board) Inversions() int {
	inv := 0
	for i := 0; i < b.Len(); i++ {
		if b.tiles[i] == 0 {
			continue
		}
		for j := i + 1; j < b.Len(); j++ {
			if b.tiles[j] != 0 && b.tiles[i] > b.tiles[j] {
				inv++
			}
		}
	}
	return inv
}

// Solvable reports whether the goal can be reached from b. For odd widths
// the inversion count must be even. For even widths the inversion count
// plus the blank's row counted from the bottom (starting at 1) must be odd.
func (b Board) Solvable() bool {
	inv := b.Inversions()
	if b.Size()%2 == 1 {
		return inv%2 == 0
	}
	r, _ := b.Blank()
	fromBottom := b.Size() - r
	return (inv+fromBottom)%2 == 1
}

// NewRand returns the generator used for shuffling, seeded deterministically.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Shuffle performs a random walk of steps moves starting from the goal of
// width n, never immediately undoing the previous move. The result is
// always solvable and at most steps moves from the goal.
func Shuffle(n, steps int, rng *rand.Rand) Board {
	b := Goal(n)
	var prev Board
	for i := 0; i < steps; i++ {
		candidates := b.Successors()
		if i > 0 {
			kept := candidates[:0]
			for _, c := range candidates {
				if c != prev {
					kept = append(kept, c)
				}
			}
			candidates = kept
		}
		prev = b
		b = candidates[rng.IntN(len(candidates))]
	}
	return b
}

// MarshalText encodes the move by name.
func (m Move) MarshalText() ([]byte, error) {
	if m < Up || m > Right {
		return nil, fmt.Errorf("invalid move %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a move name accepted by ParseMove.
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Replay applies moves to start and returns every board visited, start
// included.
func Replay(start Board, moves []Move) ([]Board, error) {
	path := make([]Board, 0, len(moves)+1)
	path = append(path, start)
	cur := start
	for i, m := range moves {
		next, ok := cur.Apply(m)
		if !ok {
			return nil, fmt.Errorf("move %d (%s) is not legal from %v", i, m, cur)
		}
		path = append(path, next)
		cur = next
	}
	return path, nil
}
