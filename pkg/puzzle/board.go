package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinSize is the smallest supported board width.
	MinSize = 2
	// MaxSize is the largest supported board width.
	MaxSize = 5
	// MaxTiles is the number of squares on the largest board.
	MaxTiles = MaxSize * MaxSize
)

var (
	// ErrInvalidSize is returned for board widths outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("invalid board size")

	// ErrInvalidTiles is returned when the tiles are not a permutation of 0..N²-1.
	ErrInvalidTiles = errors.New("invalid tiles")
)

// Board is one configuration of an N×N sliding puzzle.
//
// The zero value is not a valid board. Boards are comparable and can be
// used as map keys; two boards are equal iff they have the same size and
// the same tiles in the same squares.
type Board struct {
	n     uint8
	blank uint8
	tiles [MaxTiles]uint8
}

// ValidateSize returns ErrInvalidSize unless MinSize <= n <= MaxSize.
func ValidateSize(n int) error {
	if n < MinSize || n > MaxSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSize, n, MinSize, MaxSize)
	}
	return nil
}

// New creates a board of width n from tiles in row-major order.
// tiles must contain every value in 0..n²-1 exactly once.
func New(n int, tiles []int) (Board, error) {
	if err := ValidateSize(n); err != nil {
		return Board{}, err
	}
	if len(tiles) != n*n {
		return Board{}, fmt.Errorf("%w: got %d tiles, want %d", ErrInvalidTiles, len(tiles), n*n)
	}

	b := Board{n: uint8(n)}
	seen := make([]bool, n*n)
	for i, t := range tiles {
		if t < 0 || t >= n*n {
			return Board{}, fmt.Errorf("%w: tile %d out of range 0..%d", ErrInvalidTiles, t, n*n-1)
		}
		if seen[t] {
			return Board{}, fmt.Errorf("%w: tile %d appears twice", ErrInvalidTiles, t)
		}
		seen[t] = true
		b.tiles[i] = uint8(t)
		if t == 0 {
			b.blank = uint8(i)
		}
	}
	return b, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// package-level fixtures.
func MustNew(n int, tiles ...int) Board {
	b, err := New(n, tiles)
	if err != nil {
		panic(err)
	}
	return b
}

// Goal returns the solved board of width n: tiles 1..n²-1 followed by the blank.
// It panics if n is not a supported size.
func Goal(n int) Board {
	if err := ValidateSize(n); err != nil {
		panic(err)
	}
	b := Board{n: uint8(n), blank: uint8(n*n - 1)}
	for i := 0; i < n*n-1; i++ {
		b.tiles[i] = uint8(i + 1)
	}
	return b
}

// Parse reads a board of width n from text such as "1 2 3 4 5 6 7 8 0" or
// "1,2,3,4,5,6,7,8,0". Tokens may be separated by spaces, commas, newlines
// or tabs.
func Parse(text string, n int) (Board, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	tiles := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Board{}, fmt.Errorf("%w: %q is not a number", ErrInvalidTiles, f)
		}
		tiles[i] = v
	}
	return New(n, tiles)
}

// Size returns the width of the board.
func (b Board) Size() int { return int(b.n) }

// Len returns the number of squares, N².
func (b Board) Len() int { return int(b.n) * int(b.n) }

// IsZero reports whether b is the zero Board.
func (b Board) IsZero() bool { return b.n == 0 }

// Tiles returns a copy of the tiles in row-major order.
func (b Board) Tiles() []int {
	out := make([]int, b.Len())
	for i := range out {
		out[i] = int(b.tiles[i])
	}
	return out
}

// At returns the tile at row r, column c.
func (b Board) At(r, c int) int { return int(b.tiles[r*int(b.n)+c]) }

// Rows returns the tiles grouped by row.
func (b Board) Rows() [][]int {
	n := b.Size()
	rows := make([][]int, n)
	for r := range rows {
		rows[r] = make([]int, n)
		for c := range rows[r] {
			rows[r][c] = b.At(r, c)
		}
	}
	return rows
}

// Blank returns the row and column of the blank square.
func (b Board) Blank() (row, col int) {
	return int(b.blank) / int(b.n), int(b.blank) % int(b.n)
}

// Position returns the row and column of tile, or (-1, -1) if the board
// does not contain it.
func (b Board) Position(tile int) (row, col int) {
	for i := 0; i < b.Len(); i++ {
		if int(b.tiles[i]) == tile {
			return i / int(b.n), i % int(b.n)
		}
	}
	return -1, -1
}

// IsGoal reports whether b is the solved board of its size.
func (b Board) IsGoal() bool {
	return !b.IsZero() && b == Goal(b.Size())
}

// Less orders boards by size and then lexicographically by tiles.
func (b Board) Less(o Board) bool {
	if b.n != o.n {
		return b.n < o.n
	}
	for i := 0; i < b.Len(); i++ {
		if b.tiles[i] != o.tiles[i] {
			return b.tiles[i] < o.tiles[i]
		}
	}
	return false
}

// String returns the tiles as a space separated list, e.g. "1 2 3 4 5 6 7 8 0".
// The output can be read back with Parse.
func (b Board) String() string {
	var sb strings.Builder
	for i := 0; i < b.Len(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(b.tiles[i])))
	}
	return sb.String()
}

// Grid renders the board as rows of right-aligned tiles with the blank
// shown as "·".
func (b Board) Grid() string {
	width := len(strconv.Itoa(b.Len() - 1))
	var sb strings.Builder
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := "·"
			if t := b.At(r, c); t != 0 {
				cell = strconv.Itoa(t)
			}
			sb.WriteString(strings.Repeat(" ", width-len([]rune(cell))))
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type boardJSON struct {
	Size  int   `json:"size"`
	Tiles []int `json:"tiles"`
}

// MarshalJSON encodes the board as {"size": N, "tiles": [...]}.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Size: b.Size(), Tiles: b.Tiles()})
}

// UnmarshalJSON decodes and validates a board written by MarshalJSON.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := New(raw.Size, raw.Tiles)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
