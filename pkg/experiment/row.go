package experiment

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Row is the result of one search over one instance.
type Row struct {
	RunID     string  `json:"run_id" bson:"run_id"`
	Instance  int     `json:"instance" bson:"instance"`
	Strategy  string  `json:"strategy" bson:"strategy"`
	Heuristic string  `json:"heuristic" bson:"heuristic"`
	N         int     `json:"n" bson:"n"`
	Shuffle   int     `json:"shuffle" bson:"shuffle"`
	Steps     int     `json:"steps" bson:"steps"`
	Seconds   float64 `json:"seconds" bson:"seconds"`
	Nodes     int     `json:"nodes" bson:"nodes"`
}

// Summary aggregates the rows of one combination. Means are +Inf when no
// instance was solved.
type Summary struct {
	Combo
	Solved      int
	Incomplete  int
	MeanSteps   float64
	MeanSeconds float64
	MeanNodes   float64
	EBF         float64 // effective branching factor b*
}

// Summarize aggregates rows. incomplete counts instances that produced no
// row: unsolved, stopped by a limit, or already at the goal.
func Summarize(c Combo, rows []Row, incomplete int) Summary {
	s := Summary{
		Combo:       c,
		Solved:      len(rows),
		Incomplete:  incomplete,
		MeanSteps:   math.Inf(1),
		MeanSeconds: math.Inf(1),
		MeanNodes:   math.Inf(1),
		EBF:         math.Inf(1),
	}
	if len(rows) == 0 {
		return s
	}

	steps := make(stats.Float64Data, len(rows))
	secs := make(stats.Float64Data, len(rows))
	nodes := make(stats.Float64Data, len(rows))
	for i, r := range rows {
		steps[i] = float64(r.Steps)
		secs[i] = r.Seconds
		nodes[i] = float64(r.Nodes)
	}
	// Mean only fails on empty input, which is excluded above.
	s.MeanSteps, _ = steps.Mean()
	s.MeanSeconds, _ = secs.Mean()
	s.MeanNodes, _ = nodes.Mean()
	s.EBF = EffectiveBranchingFactor(int(s.MeanNodes), int(s.MeanSteps))
	return s
}

// EffectiveBranchingFactor returns b* such that a uniform tree of the given
// depth with branching factor b* has nodes+1 nodes:
//
//	nodes + 1 = 1 + b* + b*² + ... + b*^depth
//
// It bisects 60 times on [1.000001, 10] and returns 0 for depth <= 0.
func EffectiveBranchingFactor(nodes, depth int) float64 {
	if depth <= 0 {
		return 0
	}
	target := float64(nodes) + 1
	lo, hi := 1.000001, 10.0
	for range 60 {
		mid := (lo + hi) / 2
		total, pow := 1.0, 1.0
		for range depth {
			pow *= mid
			total += pow
			if total > target {
				break
			}
		}
		if total > target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}
