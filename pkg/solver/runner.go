package solver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npuzzle/pkg/cache"
	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/observability"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/search"
)

const cacheKeyType = "solve"

// Runner encapsulates solving with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; every
// call runs its own search.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored results; zero means cache.TTLSolve.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solve resolves the start board described by opts and searches for a path
// to the goal.
//
// Unsolvable boards fail with NO_SOLUTION before any search runs. A search
// stopped by MaxExpansions fails with LIMIT_EXCEEDED and one stopped by
// opts.Timeout or ctx's deadline with TIMEOUT. Successful results are cached
// unless opts.Refresh is set, in which case the cache is bypassed for the
// lookup but still updated.
func (r *Runner) Solve(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	initial := opts.Initial()
	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, opts.Strategy, opts.Heuristic, initial.String())

	res, err := r.solve(ctx, opts, initial)

	outcome := observability.SolveOutcome{}
	if res != nil {
		outcome = observability.SolveOutcome{
			Found:    res.Found,
			Steps:    res.Steps,
			Expanded: res.Stats.Expanded,
			Duration: res.Stats.Duration,
			Cached:   res.Cached,
		}
	}
	hooks.OnSolveComplete(ctx, opts.Strategy, opts.Heuristic, outcome, err)
	return res, err
}

func (r *Runner) solve(ctx context.Context, opts Options, initial puzzle.Board) (*Result, error) {
	if !initial.Solvable() {
		return nil, errors.New(errors.ErrCodeNoSolution, "board %s is not solvable", initial)
	}

	key := r.Keyer.SolveKey(initial.String(), opts.SolveKeyOpts())
	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key, initial); ok {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			opts.Logger.Debug("cache hit", "board", initial.String(), "strategy", opts.Strategy)
			return res, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var sopts []search.Option
	if opts.MaxExpansions > 0 {
		sopts = append(sopts, search.WithMaxExpansions(opts.MaxExpansions))
	}

	problem := puzzle.NewProblem(initial, opts.heuristic)
	out, err := search.Search(ctx, opts.SearchStrategy(), problem, sopts...)
	if err != nil {
		return nil, classify(err, out.Stats)
	}
	if !out.Found {
		return nil, errors.New(errors.ErrCodeNoSolution, "search exhausted after %d expansions", out.Stats.Expanded)
	}

	res := newResult(opts, initial, out)
	opts.Logger.Info("solved",
		"strategy", res.Strategy,
		"heuristic", res.Heuristic,
		"steps", res.Steps,
		"expanded", res.Stats.Expanded,
		"duration", res.Stats.Duration)

	r.store(ctx, key, res, opts.Logger)
	return res, nil
}

// classify maps search errors onto error codes.
func classify(err error, stats search.Stats) error {
	switch {
	case stderrors.Is(err, search.ErrLimitExceeded):
		return errors.Wrap(errors.ErrCodeLimitExceeded, err, "gave up after %d expansions", stats.Expanded)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "search timed out after %d expansions", stats.Expanded)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeTimeout, err, "search canceled after %d expansions", stats.Expanded)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "search failed")
	}
}

func (r *Runner) lookup(ctx context.Context, key string, initial puzzle.Board) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil || res.Initial != initial {
		return nil, false
	}
	path, err := puzzle.Replay(initial, res.Moves)
	if err != nil {
		return nil, false
	}
	res.Path = path
	res.Cached = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Debug("cache encode failed", "error", err)
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLSolve
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Result is the outcome of a successful solve.
type Result struct {
	Initial   puzzle.Board   `json:"initial"`
	Strategy  string         `json:"strategy"`
	Heuristic string         `json:"heuristic,omitempty"`
	Moves     []puzzle.Move  `json:"moves"`
	Path      []puzzle.Board `json:"-"`
	Steps     int            `json:"steps"`
	Cost      float64        `json:"cost"`
	Found     bool           `json:"found"`
	Stats     Stats          `json:"stats"`
	Cached    bool           `json:"cached"`
}

// Stats contains search statistics of the run that produced a Result. For
// cached results they describe the original run.
type Stats struct {
	Expanded    int           `json:"expanded"`
	Generated   int           `json:"generated"`
	Enqueued    int           `json:"enqueued"`
	MaxFrontier int           `json:"max_frontier"`
	Duration    time.Duration `json:"duration_ns"`
}

func newResult(opts Options, initial puzzle.Board, out search.Result[puzzle.Board]) *Result {
	return &Result{
		Initial:   initial,
		Strategy:  opts.Strategy,
		Heuristic: opts.Heuristic,
		Moves:     puzzle.MovesOf(out.Path),
		Path:      out.Path,
		Steps:     out.Steps(),
		Cost:      out.Cost,
		Found:     out.Found,
		Stats: Stats{
			Expanded:    out.Stats.Expanded,
			Generated:   out.Stats.Generated,
			Enqueued:    out.Stats.Enqueued,
			MaxFrontier: out.Stats.MaxFrontier,
			Duration:    out.Stats.Duration,
		},
	}
}
