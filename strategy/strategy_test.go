// SPDX-License-Identifier: MIT

package strategy_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/epidemic/epidemictest"
	"github.com/katalvlaran/sentinel/genetic"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
	"github.com/katalvlaran/sentinel/strategy"
)

var (
	_ strategy.Strategy = strategy.GlobalDegree{}
	_ strategy.Strategy = strategy.Modular{}
	_ strategy.Strategy = strategy.Random{}
	_ strategy.Strategy = strategy.Greedy{}
	_ strategy.Strategy = strategy.GeneticAlgorithm{}
)

// twoCliques joins two K5s by a single bridge a0-b0.
func twoCliques(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, p := range []string{"a", "b"} {
		for i := 0; i < 5; i++ {
			for j := i + 1; j < 5; j++ {
				_, err := g.AddEdge(fmt.Sprintf("%s%d", p, i), fmt.Sprintf("%s%d", p, j))
				require.NoError(t, err)
			}
		}
	}
	_, err := g.AddEdge("a0", "b0")
	require.NoError(t, err)

	return g
}

func assertDistinctMembers(t *testing.T, g *core.Graph, picked []string, want int) {
	t.Helper()
	assert.Len(t, picked, want)
	seen := map[string]bool{}
	for _, id := range picked {
		assert.True(t, g.HasVertex(id), id)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestGlobalDegree(t *testing.T) {
	g, err := builder.BuildGraph(nil, builder.Star(6))
	require.NoError(t, err)
	ctx := context.Background()

	picked, err := strategy.GlobalDegree{}.Select(ctx, g, 2)
	require.NoError(t, err)
	assert.Equal(t, builder.CenterVertexID, picked[0])
	assertDistinctMembers(t, g, picked, 2)

	picked, err = strategy.GlobalDegree{}.Select(ctx, g, 50)
	require.NoError(t, err)
	assertDistinctMembers(t, g, picked, 6)

	_, err = strategy.GlobalDegree{}.Select(ctx, g, 0)
	assert.ErrorIs(t, err, strategy.ErrInvalidK)
	_, err = strategy.GlobalDegree{}.Select(ctx, core.NewGraph(), 1)
	assert.ErrorIs(t, err, strategy.ErrEmptyGraph)
}

func TestModular_OnePerCommunityFirst(t *testing.T) {
	g := twoCliques(t)
	s := strategy.Modular{Rand: rng.New(1)}

	picked, err := s.Select(context.Background(), g, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "b0"}, picked)

	picked, err = s.Select(context.Background(), g, 12)
	require.NoError(t, err)
	assertDistinctMembers(t, g, picked, 10)

	_, err = strategy.Modular{}.Select(context.Background(), g, 2)
	assert.ErrorIs(t, err, strategy.ErrNeedRandSource)
}

func TestRandom(t *testing.T) {
	g := twoCliques(t)
	a, err := strategy.Random{Rand: rng.New(4)}.Select(context.Background(), g, 4)
	require.NoError(t, err)
	assertDistinctMembers(t, g, a, 4)

	b, err := strategy.Random{Rand: rng.New(4)}.Select(context.Background(), g, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = strategy.Random{}.Select(context.Background(), g, 1)
	assert.ErrorIs(t, err, strategy.ErrNeedRandSource)
}

func referenceSim(t *testing.T) (*core.Graph, strategy.Simulation) {
	t.Helper()
	g, err := builder.BuildGraph(nil, builder.Path(6))
	require.NoError(t, err)
	a, err := emergence.FromMap(g.Vertices(), map[string]float64{"0": 0, "1": 0, "2": 1, "3": 0, "4": 0, "5": 0})
	require.NoError(t, err)

	return g, strategy.Simulation{Assignment: a, Engine: epidemictest.Wave{}, Rand: rng.New(2)}
}

func TestGreedy_OnIncompleteNetwork(t *testing.T) {
	ref, sim := referenceSim(t)
	sub := ref.InducedSubgraph(map[string]bool{"1": true, "2": true, "3": true})

	picked, err := strategy.Greedy{Sim: sim, Simulations: 5}.Select(context.Background(), sub, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, picked)

	// node "9" has no probability
	bad := core.NewGraph()
	require.NoError(t, bad.AddVertex("9"))
	_, err = strategy.Greedy{Sim: sim, Simulations: 5}.Select(context.Background(), bad, 1)
	assert.ErrorIs(t, err, emergence.ErrUnknownNode)
}

func TestGeneticAlgorithm(t *testing.T) {
	ref, sim := referenceSim(t)
	cfg := genetic.DefaultConfig(1)
	cfg.PopulationSize = 20
	cfg.Simulations = 3
	cfg.MaxGenerations = 10

	picked, err := strategy.GeneticAlgorithm{Sim: sim, Config: cfg}.Select(context.Background(), ref, 2)
	require.NoError(t, err)
	assertDistinctMembers(t, ref, picked, 2)
	assert.Contains(t, picked, "2")
}

func TestComparison(t *testing.T) {
	ref, sim := referenceSim(t)
	est, err := detection.NewEstimator(ref, sim.Assignment, sim.Engine, epidemic.Params{}, rng.New(5))
	require.NoError(t, err)
	var sets [][]*epidemic.Trace
	for rep := 0; rep < 3; rep++ {
		traces, err := est.Simulate(context.Background(), 4)
		require.NoError(t, err)
		sets = append(sets, traces)
	}
	reg := metrics.NewRegistry()

	c := strategy.Comparison{
		Strategies: []strategy.Strategy{strategy.GlobalDegree{}, strategy.Random{Rand: rng.New(1)}},
		Reference:  ref,
		SimSets:    sets,
		Metrics:    reg,
	}
	scores, err := c.Run(context.Background(), ref, 1)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	// wave from "2" over a 6-path: cumulative 1,3,5,6,6; the first
	// max-degree node "1" is infected at t=1, gain 6-3
	assert.Equal(t, strategy.NameGlobalDegree, scores[0].Strategy)
	assert.InDelta(t, 100*3.0/6, scores[0].Mean, 1e-12)
	assert.Zero(t, scores[0].Std)
	assert.Equal(t, 1.0, scores[0].ValidMonitors)
	assert.Equal(t, strategy.NameRandom, scores[1].Strategy)

	_, err = strategy.Comparison{Reference: ref}.Run(context.Background(), ref, 1)
	assert.ErrorIs(t, err, detection.ErrNoTrials)
}
