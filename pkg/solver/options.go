package solver

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npuzzle/pkg/cache"
	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Experiments
// =============================================================================

const (
	// DefaultSize is the board width used when none is given (the 8-puzzle).
	DefaultSize = 3

	// DefaultShuffle is the number of random moves applied to the goal when
	// no board is given.
	DefaultShuffle = 30

	// DefaultSeed is the default random seed for reproducible shuffles.
	DefaultSeed = uint64(7)

	// DefaultStrategy is the search strategy used when none is given.
	DefaultStrategy = "astar"

	// DefaultHeuristic is the heuristic used by informed strategies when
	// none is given.
	DefaultHeuristic = puzzle.HeuristicManhattan

	// DefaultMaxShuffle caps the random walk that generates a board when no
	// other limit is configured.
	DefaultMaxShuffle = 1_000_000
)

// =============================================================================
// Options - Solve Configuration
// =============================================================================

// Options contains all configuration for one solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	Size          int    `json:"size,omitempty"`
	Board         string `json:"board,omitempty"` // tiles in row-major order; empty means shuffle
	Shuffle       int    `json:"shuffle,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
	Strategy      string `json:"strategy,omitempty"`
	Heuristic     string `json:"heuristic,omitempty"`
	MaxExpansions int    `json:"max_expansions,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Start      puzzle.Board  `json:"-"` // takes precedence over Board and Shuffle when set
	Timeout    time.Duration `json:"-"`
	MaxShuffle int           `json:"-"` // caps Shuffle; zero means DefaultMaxShuffle
	Logger     *log.Logger   `json:"-"`

	strategy  search.Strategy
	heuristic puzzle.Heuristic
	initial   puzzle.Board

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options, applies defaults and resolves
// the initial board. Errors carry INVALID_* codes.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := errors.ValidateName(errors.ErrCodeInvalidStrategy, o.Strategy); err != nil {
		return err
	}
	strategy, err := search.ParseStrategy(o.Strategy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStrategy, err, "invalid strategy")
	}
	o.strategy = strategy
	o.Strategy = strategy.String()

	if err := o.resolveHeuristic(); err != nil {
		return err
	}

	if o.MaxExpansions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_expansions cannot be negative")
	}
	if err := checkShuffle(o.Shuffle, o.MaxShuffle); err != nil {
		return err
	}

	if err := o.resolveBoard(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

func (o *Options) resolveHeuristic() error {
	if !o.strategy.Informed() {
		// Uninformed strategies ignore the heuristic, so it is dropped to
		// keep cache keys and reports honest.
		o.Heuristic = ""
		o.heuristic = nil
		return nil
	}
	if o.Heuristic == "" {
		o.Heuristic = DefaultHeuristic
	}
	if err := errors.ValidateName(errors.ErrCodeInvalidHeuristic, o.Heuristic); err != nil {
		return err
	}
	name, ok := puzzle.CanonicalHeuristic(o.Heuristic)
	if !ok {
		_, err := puzzle.LookupHeuristic(o.Heuristic)
		return errors.Wrap(errors.ErrCodeInvalidHeuristic, err, "invalid heuristic")
	}
	o.Heuristic = name
	o.heuristic = puzzle.Heuristics[name]
	return nil
}

func (o *Options) resolveBoard() error {
	if !o.Start.IsZero() {
		o.initial = o.Start
		o.Size = o.Start.Size()
		return nil
	}

	if o.Board != "" {
		size, err := resolveSize(o.Size)
		if err != nil {
			return err
		}
		o.Size = size
		if err := errors.ValidateBoardText(o.Board); err != nil {
			return err
		}
		b, err := puzzle.Parse(o.Board, o.Size)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidBoard, err, "invalid board")
		}
		o.initial = b
		return nil
	}

	sh, err := ShuffleBoard(o.Size, o.Shuffle, o.Seed, o.MaxShuffle)
	if err != nil {
		return err
	}
	o.Size, o.Shuffle, o.Seed, o.initial = sh.Size, sh.Steps, sh.Seed, sh.Board
	return nil
}

// Shuffled is a board generated by a seeded random walk from the goal,
// together with the parameters that reproduce it.
type Shuffled struct {
	Size  int
	Steps int
	Seed  uint64
	Board puzzle.Board
}

// ShuffleBoard generates a solvable board. Zero size, steps or seed take the
// Default* values. steps must not exceed maxSteps (DefaultMaxShuffle when
// zero); larger walks fail with INVALID_INPUT before any move is made.
func ShuffleBoard(size, steps int, seed uint64, maxSteps int) (Shuffled, error) {
	size, err := resolveSize(size)
	if err != nil {
		return Shuffled{}, err
	}
	if err := checkShuffle(steps, maxSteps); err != nil {
		return Shuffled{}, err
	}
	if steps == 0 {
		steps = DefaultShuffle
	}
	if seed == 0 {
		seed = DefaultSeed
	}
	return Shuffled{
		Size:  size,
		Steps: steps,
		Seed:  seed,
		Board: puzzle.Shuffle(size, steps, puzzle.NewRand(seed)),
	}, nil
}

func resolveSize(size int) (int, error) {
	if size == 0 {
		size = DefaultSize
	}
	if err := puzzle.ValidateSize(size); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidBoard, err, "invalid size")
	}
	return size, nil
}

func checkShuffle(steps, maxSteps int) error {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxShuffle
	}
	if steps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "shuffle cannot be negative")
	}
	if steps > maxSteps {
		return errors.New(errors.ErrCodeInvalidInput, "shuffle of %d moves exceeds the limit of %d", steps, maxSteps)
	}
	return nil
}

// Initial returns the resolved start board. It is the zero Board until
// ValidateAndSetDefaults succeeds.
func (o *Options) Initial() puzzle.Board { return o.initial }

// SearchStrategy returns the parsed strategy.
func (o *Options) SearchStrategy() search.Strategy { return o.strategy }

// SolveKeyOpts returns cache key options for this solve.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		Strategy:      o.Strategy,
		Heuristic:     o.Heuristic,
		MaxExpansions: o.MaxExpansions,
	}
}
