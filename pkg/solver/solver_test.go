package solver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/observability"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
)

// hardest is one of the two 8-puzzle boards 31 moves from the goal.
const hardest = "8 6 7 2 5 4 3 0 1"

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if opts.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", opts.Size, DefaultSize)
	}
	if opts.Strategy != DefaultStrategy {
		t.Errorf("Strategy = %q, want %q", opts.Strategy, DefaultStrategy)
	}
	if opts.Heuristic != DefaultHeuristic {
		t.Errorf("Heuristic = %q, want %q", opts.Heuristic, DefaultHeuristic)
	}
	if opts.Shuffle != DefaultShuffle || opts.Seed != DefaultSeed {
		t.Errorf("Shuffle/Seed = %d/%d", opts.Shuffle, opts.Seed)
	}
	want := puzzle.Shuffle(DefaultSize, DefaultShuffle, puzzle.NewRand(DefaultSeed))
	if opts.Initial() != want {
		t.Errorf("Initial() = %v, want %v", opts.Initial(), want)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsNormalizesNames(t *testing.T) {
	opts := Options{Strategy: "A*", Heuristic: "conflict", Board: "1 2 3 4 5 6 7 0 8"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Strategy != "astar" || opts.Heuristic != puzzle.HeuristicLinearConflict {
		t.Errorf("names not canonical: %q %q", opts.Strategy, opts.Heuristic)
	}

	opts = Options{Strategy: "bfs", Heuristic: "manhattan"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Heuristic != "" {
		t.Errorf("uninformed strategy kept heuristic %q", opts.Heuristic)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown strategy", Options{Strategy: "ida"}, errors.ErrCodeInvalidStrategy},
		{"malformed strategy", Options{Strategy: "a b"}, errors.ErrCodeInvalidStrategy},
		{"unknown heuristic", Options{Heuristic: "euclid"}, errors.ErrCodeInvalidHeuristic},
		{"bad size", Options{Size: 7}, errors.ErrCodeInvalidBoard},
		{"bad board text", Options{Board: "1 2 x"}, errors.ErrCodeInvalidBoard},
		{"wrong tile count", Options{Board: "1 2 3 0"}, errors.ErrCodeInvalidBoard},
		{"negative limit", Options{MaxExpansions: -1}, errors.ErrCodeInvalidInput},
		{"negative shuffle", Options{Shuffle: -3}, errors.ErrCodeInvalidInput},
		{"shuffle over default limit", Options{Shuffle: DefaultMaxShuffle + 1}, errors.ErrCodeInvalidInput},
		{"shuffle over configured limit", Options{Shuffle: 101, MaxShuffle: 100}, errors.ErrCodeInvalidInput},
		{"huge shuffle", Options{Shuffle: 4_000_000_000_000}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Seed: 11}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Initial()
	opts.Seed = 12
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Initial() != first {
		t.Error("second call re-resolved the board")
	}
}

func TestShuffleBoard(t *testing.T) {
	sh, err := ShuffleBoard(0, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sh.Size != DefaultSize || sh.Steps != DefaultShuffle || sh.Seed != DefaultSeed {
		t.Errorf("defaults = %d/%d/%d", sh.Size, sh.Steps, sh.Seed)
	}
	if want := puzzle.Shuffle(DefaultSize, DefaultShuffle, puzzle.NewRand(DefaultSeed)); sh.Board != want {
		t.Errorf("Board = %v, want %v", sh.Board, want)
	}

	sh, err = ShuffleBoard(4, 100, 3, 100)
	if err != nil {
		t.Fatalf("walk at the limit: %v", err)
	}
	if sh.Board.Size() != 4 {
		t.Errorf("Size() = %d, want 4", sh.Board.Size())
	}

	tests := []struct {
		name  string
		size  int
		steps int
		max   int
		code  errors.Code
	}{
		{"over limit", 3, 101, 100, errors.ErrCodeInvalidInput},
		{"over default limit", 3, DefaultMaxShuffle + 1, 0, errors.ErrCodeInvalidInput},
		{"negative", 3, -1, 0, errors.ErrCodeInvalidInput},
		{"bad size", 1, 10, 0, errors.ErrCodeInvalidBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ShuffleBoard(tt.size, tt.steps, 1, tt.max)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsShuffleLimitCheckedWithBoard(t *testing.T) {
	opts := Options{Board: "1 2 3 4 5 6 7 0 8", Shuffle: 50, MaxShuffle: 10}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestSolveOneMove(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Solve(context.Background(), Options{Board: "1 2 3 4 5 6 7 0 8"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Steps != 1 || res.Cost != 1 || len(res.Path) != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Moves) != 1 || res.Moves[0] != puzzle.Right {
		t.Errorf("moves = %v, want [right]", res.Moves)
	}
}

func TestSolveExplicitStart(t *testing.T) {
	start := puzzle.Shuffle(2, 6, puzzle.NewRand(1))
	res, err := NewRunner(nil, nil, nil).Solve(context.Background(), Options{Start: start, Strategy: "bfs"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Initial != start || !res.Path[len(res.Path)-1].IsGoal() {
		t.Errorf("path does not run from %v to the goal", start)
	}
}

func TestSolveErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unsolvable", Options{Board: "2 1 3 4 5 6 7 8 0"}, errors.ErrCodeNoSolution},
		{"limit", Options{Board: hardest, Strategy: "bfs", MaxExpansions: 5}, errors.ErrCodeLimitExceeded},
		{"timeout", Options{Board: hardest, Strategy: "ucs", Timeout: time.Nanosecond}, errors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Solve(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
		})
	}
}

func TestSolveCaching(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Size: 3, Shuffle: 20, Seed: 5}

	first, err := r.Solve(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || c.sets != 1 {
		t.Fatalf("first solve: cached %v, sets %d", first.Cached, c.sets)
	}

	second, err := r.Solve(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second solve should come from the cache")
	}
	if second.Steps != first.Steps || len(second.Path) != len(first.Path) || second.Stats.Expanded != first.Stats.Expanded {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
	for i := range first.Path {
		if first.Path[i] != second.Path[i] {
			t.Fatalf("cached path differs at %d", i)
		}
	}

	opts.Refresh = true
	third, err := r.Solve(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached || c.sets != 2 {
		t.Errorf("refresh: cached %v, sets %d", third.Cached, c.sets)
	}

	other, err := r.Solve(ctx, Options{Size: 3, Shuffle: 20, Seed: 5, Heuristic: "misplaced"})
	if err != nil {
		t.Fatal(err)
	}
	if other.Cached {
		t.Error("different heuristic must not hit the cache")
	}
}

type countingHooks struct {
	observability.NoopSolveHooks
	mu       sync.Mutex
	started  int
	finished int
	lastErr  error
}

func (h *countingHooks) OnSolveStart(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *countingHooks) OnSolveComplete(_ context.Context, _, _ string, _ observability.SolveOutcome, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++
	h.lastErr = err
}

func TestSolveHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetSolveHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Solve(context.Background(), Options{Board: "1 2 3 4 5 6 7 0 8"}); err != nil {
		t.Fatal(err)
	}
	_, _ = r.Solve(context.Background(), Options{Board: "2 1 3 4 5 6 7 8 0"})

	if hooks.started != 2 || hooks.finished != 2 {
		t.Errorf("hooks started %d finished %d, want 2/2", hooks.started, hooks.finished)
	}
	if !errors.Is(hooks.lastErr, errors.ErrCodeNoSolution) {
		t.Errorf("last hook error = %v", hooks.lastErr)
	}
}
