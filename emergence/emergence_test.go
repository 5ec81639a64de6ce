// SPDX-License-Identifier: MIT

package emergence_test

import (
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/rng"
)

// isolated returns n vertices without edges and an importance equal to the index.
func isolated(n int) (*core.Graph, emergence.Importance) {
	g := core.NewGraph()
	for i := 0; i < n; i++ {
		_ = g.AddVertex(strconv.Itoa(i))
	}
	imp := func(g *core.Graph) (map[string]float64, error) {
		out := map[string]float64{}
		for i, id := range g.Vertices() {
			out[id] = float64(i)
		}

		return out, nil
	}

	return g, imp
}

func spearmanOf(a *emergence.Assignment) float64 {
	idx := make([]float64, a.Len())
	for i := range idx {
		idx[i] = float64(i)
	}

	return emergence.Spearman(idx, a.Probabilities)
}

func TestAssign_Validation(t *testing.T) {
	g, _ := isolated(3)
	cases := []emergence.Params{
		{Alpha: 0, Beta: 1},
		{Alpha: 1, Beta: -1},
		{Alpha: 1, Beta: 1, Corr: 1.5},
		{Alpha: math.NaN(), Beta: 1},
	}
	for _, p := range cases {
		_, err := emergence.Assign(g, p, rng.New(1))
		assert.ErrorIs(t, err, emergence.ErrInvalidParams, "%+v", p)
	}

	_, err := emergence.Assign(g, emergence.Params{Alpha: 1, Beta: 1}, nil)
	assert.ErrorIs(t, err, emergence.ErrNeedRandSource)

	_, err = emergence.Assign(core.NewGraph(), emergence.Params{Alpha: 1, Beta: 1}, rng.New(1))
	assert.ErrorIs(t, err, emergence.ErrEmptyGraph)

	assert.Panics(t, func() { emergence.WithImportance(nil) })
}

func TestAssign_PoolIsConsumedExactlyOnce(t *testing.T) {
	g, err := builder.BuildGraph(nil, builder.Complete(30))
	require.NoError(t, err)
	p := emergence.Params{Alpha: 0.5, Beta: 4, Corr: 0.3}

	a, err := emergence.Assign(g, p, rng.New(77))
	require.NoError(t, err)

	// replay the pool draws from an identical stream
	replay := distuv.Beta{Alpha: p.Alpha, Beta: p.Beta, Src: rng.New(77)}
	pool := make([]float64, 30)
	for i := range pool {
		pool[i] = replay.Rand()
	}
	got := slices.Clone(a.Probabilities)
	slices.Sort(got)
	slices.Sort(pool)
	assert.Equal(t, pool, got)
	assert.Equal(t, g.Vertices(), a.Nodes)
}

func TestAssign_PerfectCorrelation(t *testing.T) {
	g, imp := isolated(200)
	pos, err := emergence.Assign(g, emergence.Params{Alpha: 1, Beta: 3, Corr: 1}, rng.New(5), emergence.WithImportance(imp))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, spearmanOf(pos), 1e-12)

	neg, err := emergence.Assign(g, emergence.Params{Alpha: 1, Beta: 3, Corr: -1}, rng.New(5), emergence.WithImportance(imp))
	require.NoError(t, err)
	assert.InDelta(t, -1.0, spearmanOf(neg), 1e-12)
}

func TestAssign_SpearmanTracksCorr(t *testing.T) {
	g, imp := isolated(3000)
	for _, c := range []float64{-0.6, 0, 0.8} {
		a, err := emergence.Assign(g, emergence.Params{Alpha: 0.8, Beta: 5, Corr: c}, rng.New(int64(100*c)+7), emergence.WithImportance(imp))
		require.NoError(t, err)
		want := 6 / math.Pi * math.Asin(c/2)
		assert.InDelta(t, want, spearmanOf(a), 0.06, "corr=%v", c)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	g, err := builder.BuildGraph(nil, builder.Cycle(12))
	require.NoError(t, err)
	p := emergence.Params{Alpha: 2, Beta: 2, Corr: -0.4}
	a, err := emergence.Assign(g, p, rng.New(9))
	require.NoError(t, err)
	b, err := emergence.Assign(g, p, rng.New(9))
	require.NoError(t, err)
	assert.Equal(t, a.Probabilities, b.Probabilities)
}

func TestAssignment_RestrictAndLookup(t *testing.T) {
	g, err := builder.BuildGraph(nil, builder.Path(5))
	require.NoError(t, err)
	a, err := emergence.FromMap(g.Vertices(), map[string]float64{"0": .1, "1": .2, "2": .3, "3": .4, "4": .5})
	require.NoError(t, err)

	sub := g.InducedSubgraph(map[string]bool{"1": true, "3": true})
	r, err := a.Restrict(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, r.Nodes)
	assert.Equal(t, []float64{.2, .4}, r.Probabilities)

	_, err = r.Restrict(g)
	assert.ErrorIs(t, err, emergence.ErrUnknownNode)

	v, ok := a.Of("4")
	assert.True(t, ok)
	assert.Equal(t, .5, v)
	mean, _ := a.MeanStd()
	assert.InDelta(t, .3, mean, 1e-12)
}

func TestRanks_StableTies(t *testing.T) {
	assert.Equal(t, []int{2, 0, 3, 1}, emergence.Ranks([]float64{5, 1, 5, 1}))
}

func TestAssignBijectionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("assigned values are a permutation of the pool", prop.ForAll(
		func(n int, alpha, beta, corr float64, seed int64) bool {
			g, imp := isolated(n)
			p := emergence.Params{Alpha: alpha, Beta: beta, Corr: corr}
			a, err := emergence.Assign(g, p, rng.New(seed), emergence.WithImportance(imp))
			if err != nil {
				return false
			}
			replay := distuv.Beta{Alpha: alpha, Beta: beta, Src: rng.New(seed)}
			pool := make([]float64, n)
			for i := range pool {
				pool[i] = replay.Rand()
			}
			got := slices.Clone(a.Probabilities)
			slices.Sort(got)
			slices.Sort(pool)

			return slices.Equal(got, pool)
		},
		gen.IntRange(1, 80),
		gen.Float64Range(0.05, 2),
		gen.Float64Range(2, 10),
		gen.Float64Range(-0.99, 0.99),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
