package stats

import (
	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/experiment"
)

// Comparison holds both paired tests for one heuristic pair.
type Comparison struct {
	Strategy   string
	Heuristic1 string
	Heuristic2 string
	Metric     Metric
	Wilcoxon   Result
	PairedT    Result
}

// Compare pairs rows and runs both tests. It fails with INVALID_INPUT when
// no instance has rows for both heuristics.
func Compare(rows []experiment.Row, strategy, h1, h2 string, metric Metric) (*Comparison, error) {
	x, y := Pair(rows, strategy, h1, h2, metric)
	if len(x) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no instances solved by %s with both %s and %s", strategy, h1, h2)
	}
	w, err := Wilcoxon(x, y)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "wilcoxon")
	}
	t, err := PairedT(x, y)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "paired t-test")
	}
	return &Comparison{
		Strategy:   strategy,
		Heuristic1: h1,
		Heuristic2: h2,
		Metric:     metric,
		Wilcoxon:   w,
		PairedT:    t,
	}, nil
}
