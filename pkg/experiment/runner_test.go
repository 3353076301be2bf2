package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRun(t *testing.T) {
	plan := Plan{
		Size:       3,
		Shuffle:    12,
		Instances:  6,
		Seed:       7,
		Strategies: []string{"astar", "bfs"},
		Heuristics: []string{"manhattan", "bogus"},
		Workers:    3,
	}

	report, err := NewRunner(nil).Run(context.Background(), plan)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{"bogus"}, report.Skipped)
	require.Len(t, report.Summaries, 2)

	byCombo := map[Combo][]Row{}
	for _, r := range report.Rows {
		assert.Equal(t, report.RunID, r.RunID)
		assert.Equal(t, 3, r.N)
		assert.Equal(t, 12, r.Shuffle)
		c := Combo{Strategy: r.Strategy, Heuristic: r.Heuristic}
		byCombo[c] = append(byCombo[c], r)
	}

	for _, s := range report.Summaries {
		assert.Equal(t, plan.Instances, s.Solved+s.Incomplete, "%v", s.Combo)
	}

	// Both strategies are optimal for unit costs, so they agree on every
	// instance they both solved, and rows are in instance order.
	astar := byCombo[Combo{Strategy: "astar", Heuristic: "manhattan"}]
	bfs := byCombo[Combo{Strategy: "bfs"}]
	require.Equal(t, len(astar), len(bfs))
	for i := range astar {
		assert.Equal(t, astar[i].Instance, bfs[i].Instance)
		assert.Equal(t, bfs[i].Steps, astar[i].Steps, "instance %d", astar[i].Instance)
		assert.LessOrEqual(t, astar[i].Steps, plan.Shuffle)
		if i > 0 {
			assert.Less(t, astar[i-1].Instance, astar[i].Instance)
		}
	}
}

func TestRunnerLimitCountsAsIncomplete(t *testing.T) {
	plan := Plan{
		Size:          3,
		Shuffle:       30,
		Instances:     4,
		Strategies:    []string{"bfs"},
		MaxExpansions: 3,
		Workers:       2,
	}
	report, err := NewRunner(nil).Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, report.Summaries, 1)

	s := report.Summaries[0]
	assert.Equal(t, 4, s.Solved+s.Incomplete)
	assert.Positive(t, s.Incomplete)
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Run(ctx, Plan{Instances: 3, Strategies: []string{"ucs"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerInvalidPlan(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), Plan{Size: 1})
	assert.Error(t, err)
}
