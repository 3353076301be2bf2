// Package stats tests whether two heuristics differ significantly on the
// same experiment instances.
//
// Rows are paired per instance with [Pair]; the paired samples are then
// compared with a Wilcoxon signed-rank test ([Wilcoxon], normal
// approximation) or a paired t-test ([PairedT]).
package stats

import (
	"fmt"
	"math"
	"slices"

	mstats "github.com/montanaflynn/stats"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/experiment"
)

// DefaultAlpha is the significance level used by the CLI.
const DefaultAlpha = 0.05

// Metric selects the column compared between heuristics.
type Metric string

// Metrics accepted by Pair.
const (
	MetricNodes   Metric = "nodes"
	MetricSeconds Metric = "seconds"
	MetricSteps   Metric = "steps"
)

// ParseMetric validates a metric name.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case MetricNodes, MetricSeconds, MetricSteps:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown metric %q (want nodes, seconds or steps)", name)
}

func (m Metric) value(r experiment.Row) float64 {
	switch m {
	case MetricSeconds:
		return r.Seconds
	case MetricSteps:
		return float64(r.Steps)
	default:
		return float64(r.Nodes)
	}
}

// Pair collects metric values of strategy with heuristics h1 and h2 for
// every instance that has a row for both. Pairs are ordered by instance.
func Pair(rows []experiment.Row, strategy, h1, h2 string, metric Metric) (x, y []float64) {
	type pair struct {
		a, b       float64
		hasA, hasB bool
	}
	byInstance := map[int]*pair{}
	for _, r := range rows {
		if r.Strategy != strategy || (r.Heuristic != h1 && r.Heuristic != h2) {
			continue
		}
		p := byInstance[r.Instance]
		if p == nil {
			p = &pair{}
			byInstance[r.Instance] = p
		}
		v := metric.value(r)
		if r.Heuristic == h1 {
			p.a, p.hasA = v, true
		}
		if r.Heuristic == h2 {
			p.b, p.hasB = v, true
		}
	}

	instances := make([]int, 0, len(byInstance))
	for i := range byInstance {
		instances = append(instances, i)
	}
	slices.Sort(instances)

	for _, i := range instances {
		if p := byInstance[i]; p.hasA && p.hasB {
			x = append(x, p.a)
			y = append(y, p.b)
		}
	}
	return x, y
}

// Result is the outcome of a paired test.
type Result struct {
	Test      string  // "wilcoxon" or "paired-t"
	Statistic float64 // z for Wilcoxon, t for the paired t-test
	P         float64 // two-sided p-value
	N         int     // pairs used
}

// Significant reports whether p < alpha.
func (r Result) Significant(alpha float64) bool { return Significant(r.P, alpha) }

func (r Result) String() string {
	name := "z"
	if r.Test == "paired-t" {
		name = "t"
	}
	return fmt.Sprintf("%s: %s=%.4f, n=%d, p=%.6f", r.Test, name, r.Statistic, r.N, r.P)
}

// Significant reports whether p < alpha.
func Significant(p, alpha float64) bool { return p < alpha }

func differences(x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("samples differ in length: %d and %d", len(x), len(y))
	}
	d := make([]float64, len(x))
	for i := range x {
		d[i] = x[i] - y[i]
	}
	return d, nil
}

// Wilcoxon runs a two-sided Wilcoxon signed-rank test using the normal
// approximation. Zero differences are dropped and tied absolute
// differences receive their average rank. With no non-zero differences
// the result is z=0, p=1, n=0.
func Wilcoxon(x, y []float64) (Result, error) {
	d, err := differences(x, y)
	if err != nil {
		return Result{}, err
	}
	d = slices.DeleteFunc(d, func(v float64) bool { return v == 0 })
	n := len(d)
	res := Result{Test: "wilcoxon", P: 1, N: n}
	if n == 0 {
		return res, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmpFloat(math.Abs(d[a]), math.Abs(d[b]))
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && math.Abs(d[idx[j+1]]) == math.Abs(d[idx[i]]) {
			j++
		}
		// Positions i..j share ranks i+1..j+1.
		avg := float64(i+1+j+1) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	var wPos float64
	for i, v := range d {
		if v > 0 {
			wPos += ranks[i]
		}
	}
	fn := float64(n)
	mu := fn * (fn + 1) / 4
	sigma := math.Sqrt(fn * (fn + 1) * (2*fn + 1) / 24)
	if sigma > 0 {
		res.Statistic = (wPos - mu) / sigma
	}
	res.P = math.Erfc(math.Abs(res.Statistic) / math.Sqrt2)
	return res, nil
}

// PairedT runs a two-sided paired t-test. The p-value comes from Student's
// t distribution with n-1 degrees of freedom. Constant differences (zero
// standard deviation) and fewer than two pairs give t=0, p=1.
func PairedT(x, y []float64) (Result, error) {
	d, err := differences(x, y)
	if err != nil {
		return Result{}, err
	}
	n := len(d)
	res := Result{Test: "paired-t", P: 1, N: n}
	if n < 2 {
		return res, nil
	}

	data := mstats.Float64Data(d)
	mean, err := data.Mean()
	if err != nil {
		return Result{}, err
	}
	sd, err := data.StandardDeviationSample()
	if err != nil {
		return Result{}, err
	}
	if sd == 0 {
		return res, nil
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	res.Statistic = t
	res.P = studentTwoSided(t, float64(n-1))
	return res, nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
