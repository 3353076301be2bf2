package experiment

import (
	"runtime"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/search"
)

// Plan defaults.
const (
	DefaultSize      = 3
	DefaultShuffle   = 40
	DefaultInstances = 100
	DefaultSeed      = uint64(7)
	DefaultCSV       = "results.csv"
)

// DefaultStrategies are the strategies compared when a plan names none.
var DefaultStrategies = []string{"greedy", "astar"}

// Plan describes an experiment.
type Plan struct {
	Size          int           `toml:"size"`
	Shuffle       int           `toml:"shuffle"`
	Instances     int           `toml:"instances"`
	Seed          uint64        `toml:"seed"`
	Strategies    []string      `toml:"strategies"`
	Heuristics    []string      `toml:"heuristics"`
	Workers       int           `toml:"workers"`
	MaxExpansions int           `toml:"max_expansions"`
	Timeout       time.Duration `toml:"timeout"` // per search, e.g. "30s"
	Output        Output        `toml:"output"`
}

// Output lists where rows are written. Empty fields disable a sink.
type Output struct {
	CSV    string      `toml:"csv"`
	SQLite string      `toml:"sqlite"`
	Mongo  MongoOutput `toml:"mongo"`
}

// MongoOutput configures the MongoDB sink.
type MongoOutput struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LoadPlan decodes a TOML plan file. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func LoadPlan(path string) (*Plan, error) {
	var p Plan
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "cannot read plan %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidPlan, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return &p, nil
}

// SetDefaults fills zero fields with defaults.
func (p *Plan) SetDefaults() {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Shuffle == 0 {
		p.Shuffle = DefaultShuffle
	}
	if p.Instances == 0 {
		p.Instances = DefaultInstances
	}
	if p.Seed == 0 {
		p.Seed = DefaultSeed
	}
	if len(p.Strategies) == 0 {
		p.Strategies = slices.Clone(DefaultStrategies)
	}
	if len(p.Heuristics) == 0 {
		p.Heuristics = puzzle.HeuristicNames()
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.Output.Mongo.URI != "" {
		if p.Output.Mongo.Database == "" {
			p.Output.Mongo.Database = "npuzzle"
		}
		if p.Output.Mongo.Collection == "" {
			p.Output.Mongo.Collection = "results"
		}
	}
}

// Validate checks the plan after defaults are applied. Unknown heuristics
// are not an error; the runner skips them with a warning.
func (p *Plan) Validate() error {
	if err := puzzle.ValidateSize(p.Size); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPlan, err, "invalid size")
	}
	if p.Shuffle < 0 {
		return errors.New(errors.ErrCodeInvalidPlan, "shuffle cannot be negative")
	}
	if p.Instances < 0 {
		return errors.New(errors.ErrCodeInvalidPlan, "instances cannot be negative")
	}
	if p.MaxExpansions < 0 {
		return errors.New(errors.ErrCodeInvalidPlan, "max_expansions cannot be negative")
	}
	for _, s := range p.Strategies {
		if _, err := search.ParseStrategy(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPlan, err, "invalid strategy")
		}
	}
	for _, path := range []string{p.Output.CSV, p.Output.SQLite} {
		if path == "" {
			continue
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
	}
	return nil
}

// Combo is one strategy × heuristic pair. Heuristic is empty for
// uninformed strategies.
type Combo struct {
	Strategy  string
	Heuristic string
}

// Combos expands the plan into the combinations to run, in plan order.
// Informed strategies are paired with every known heuristic; uninformed
// ones run once. Unknown heuristic names are returned separately.
func (p *Plan) Combos() (combos []Combo, unknown []string) {
	var known []string
	for _, h := range p.Heuristics {
		name, ok := puzzle.CanonicalHeuristic(h)
		if !ok {
			unknown = append(unknown, h)
			continue
		}
		if !slices.Contains(known, name) {
			known = append(known, name)
		}
	}

	for _, name := range p.Strategies {
		s, err := search.ParseStrategy(name)
		if err != nil {
			continue
		}
		if !s.Informed() {
			combos = append(combos, Combo{Strategy: s.String()})
			continue
		}
		for _, h := range known {
			combos = append(combos, Combo{Strategy: s.String(), Heuristic: h})
		}
	}
	return combos, unknown
}

// Boards generates the plan's instances. Instance i is a walk of Shuffle
// moves seeded with Seed+i. Walks from the goal are always solvable; the
// reshuffle is kept as a guard for boards produced by other generators.
func (p *Plan) Boards() []puzzle.Board {
	boards := make([]puzzle.Board, p.Instances)
	for i := range boards {
		seed := p.Seed + uint64(i)
		b := puzzle.Shuffle(p.Size, p.Shuffle, puzzle.NewRand(seed))
		if !b.Solvable() {
			b = puzzle.Shuffle(p.Size, p.Shuffle+1, puzzle.NewRand(seed+999))
		}
		boards[i] = b
	}
	return boards
}
