package vrp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exactParams() Params {
	return Params{Scaler: 100, Method: MethodExact, TimeLimit: 5 * time.Second}
}

func TestExactSquareTourOptimal(t *testing.T) {
	p := mustBuild(t, squareInstance(1, 10), exactParams())
	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, raw.Status)
	assertCoverage(t, p, raw)
	assert.InDelta(t, 40.0, objective(p, raw.Routes), 1e-9)
}

func TestExactMatchesHeuristicOnTinyInstance(t *testing.T) {
	in := squareInstance(1, 10)

	hp := mustBuild(t, in, heuristicParams())
	hr, err := HeuristicSolver{}.Solve(context.Background(), hp)
	require.NoError(t, err)

	ep := mustBuild(t, in, exactParams())
	er, err := ExactSolver{}.Solve(context.Background(), ep)
	require.NoError(t, err)

	require.Equal(t, StatusOptimal, er.Status)
	assert.InDelta(t, objective(hp, hr.Routes), objective(ep, er.Routes), 1e-6)
}

func TestExactFromMatrix(t *testing.T) {
	dist := [][]float64{
		{0, 2, 9, 10},
		{2, 0, 6, 4},
		{9, 6, 0, 3},
		{10, 4, 3, 0},
	}
	p, err := BuildMatrix(dist, []int{0, 1, 1, 1}, 1, 10, exactParams())
	require.NoError(t, err)

	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, raw.Status)
	// Optimal tour is 0 -> 1 -> 3 -> 2 -> 0 with cost 18.
	assert.InDelta(t, 18.0, objective(p, raw.Routes), 1e-9)
}

func TestExactRespectsTimeWindows(t *testing.T) {
	// The farther customer has the earlier deadline, so the cheap
	// nearest-first order is schedule-infeasible and must be reversed.
	in := Instance{
		NumVehicles: 1,
		Capacity:    10,
		X:           []float64{0, 10, 20},
		Y:           []float64{0, 0, 0},
		Demands:     []int{0, 1, 1},
		ReadyTimes:  []int{0, 25, 0},
		DueTimes:    []int{1000, 100, 25},
		ServiceSec:  []int{0, 0, 0},
		HasWindows:  true,
	}
	p := mustBuild(t, in, Params{Scaler: 1, Method: MethodExact, TimeLimit: 5 * time.Second})
	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, raw.Status)
	require.Len(t, raw.Routes, 1)
	assert.Equal(t, []int{2, 1}, raw.Routes[0])
}

func TestExactProvesWindowInfeasibility(t *testing.T) {
	// Customer window closes before any vehicle can reach it.
	in := Instance{
		NumVehicles: 2,
		Capacity:    10,
		X:           []float64{0, 10},
		Y:           []float64{0, 0},
		Demands:     []int{0, 1},
		ReadyTimes:  []int{0, 0},
		DueTimes:    []int{1000, 0},
		ServiceSec:  []int{0, 0},
		HasWindows:  true,
	}
	p := mustBuild(t, in, Params{Scaler: 1, Method: MethodExact, TimeLimit: 5 * time.Second})
	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, raw.Status)
	assert.Empty(t, raw.Routes)
}

func TestExactStaticInfeasibility(t *testing.T) {
	p := mustBuild(t, squareInstance(1, 2), exactParams())
	require.True(t, p.Infeasible)
	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, raw.Status)
}

func TestExactDeadlineReturnsIncumbent(t *testing.T) {
	// The tree for 20 customers cannot be exhausted in a nanosecond, so
	// the search must come back with the seeded heuristic incumbent.
	in := clusteredInstance(20, 5, 15)
	p := mustBuild(t, in, Params{Scaler: 100, Method: MethodExact, TimeLimit: time.Nanosecond})
	raw, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusFeasible, raw.Status)
	assertCoverage(t, p, raw)
}

func TestExactCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := clusteredInstance(20, 5, 15)
	p := mustBuild(t, in, Params{Scaler: 100, Method: MethodExact, TimeLimit: time.Minute})
	raw, err := ExactSolver{}.Solve(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, raw.Status)
}

func TestExactProgressReportsSearchPhase(t *testing.T) {
	var phases []string
	params := exactParams()
	params.Progress = func(e ProgressEvent) { phases = append(phases, e.Phase) }
	p := mustBuild(t, squareInstance(1, 10), params)
	_, err := ExactSolver{}.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Contains(t, phases, "search")
}
