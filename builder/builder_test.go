// SPDX-License-Identifier: MIT

package builder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/rng"
)

// TestBuilders_Fixtures runs table-driven checks for the deterministic constructors.
func TestBuilders_Fixtures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ctor        builder.Constructor
		wantV       int
		wantE       int
		sampleCheck func(t *testing.T, g *core.Graph)
	}{
		{
			name: "Cycle(5)", ctor: builder.Cycle(5), wantV: 5, wantE: 5,
			sampleCheck: func(t *testing.T, g *core.Graph) {
				assert.True(t, g.HasEdge("4", "0"))
			},
		},
		{
			name: "Path(4)", ctor: builder.Path(4), wantV: 4, wantE: 3,
			sampleCheck: func(t *testing.T, g *core.Graph) {
				assert.False(t, g.HasEdge("3", "0"))
			},
		},
		{
			name: "Star(6)", ctor: builder.Star(6), wantV: 6, wantE: 5,
			sampleCheck: func(t *testing.T, g *core.Graph) {
				d, err := g.Degree(builder.CenterVertexID)
				require.NoError(t, err)
				assert.Equal(t, 5, d)
			},
		},
		{name: "Complete(10)", ctor: builder.Complete(10), wantV: 10, wantE: 45},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g, err := builder.BuildGraph(nil, tc.ctor)
			require.NoError(t, err)
			assert.Equal(t, tc.wantV, g.VertexCount())
			assert.Equal(t, tc.wantE, g.EdgeCount())
			if tc.sampleCheck != nil {
				tc.sampleCheck(t, g)
			}
		})
	}
}

func TestBuilders_Validation(t *testing.T) {
	_, err := builder.BuildGraph(nil, builder.Cycle(2))
	assert.ErrorIs(t, err, builder.ErrTooFewVertices)

	_, err = builder.BuildGraph(nil, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)

	_, err = builder.BuildGraph(nil, builder.ModularNetwork(builder.ModularParams{ModuleSize: 5, ModuleCount: 2, P: 0.5, MeanDegree: 2}))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)

	bad := []struct {
		name string
		p    builder.ModularParams
		want error
	}{
		{"zero module size", builder.ModularParams{ModuleSize: 0, ModuleCount: 1, MeanDegree: 2}, builder.ErrTooFewVertices},
		{"zero modules", builder.ModularParams{ModuleSize: 3, ModuleCount: 0, MeanDegree: 2}, builder.ErrTooFewVertices},
		{"zero mean degree", builder.ModularParams{ModuleSize: 3, ModuleCount: 1}, builder.ErrTooFewVertices},
		{"p above one", builder.ModularParams{ModuleSize: 3, ModuleCount: 1, MeanDegree: 2, P: 1.5}, builder.ErrInvalidProbability},
		{"negative heterogeneity", builder.ModularParams{ModuleSize: 3, ModuleCount: 1, MeanDegree: 2, Heterogeneity: -1}, builder.ErrOptionViolation},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.GenerateModular(tc.p, builder.WithSeed(1))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOptions_PanicOnNil(t *testing.T) {
	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithIDScheme(nil) })
	assert.Panics(t, func() { builder.WithModuleIDScheme(nil) })
	assert.Panics(t, func() { builder.WithLogger(nil) })
	assert.Panics(t, func() { builder.WithMinGiantFraction(0) })
	assert.Panics(t, func() { builder.WithMaxDegreeMoves(0) })
}

func TestDegreeSequence_ReachesTarget(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = builder.DefaultIDFn(i)
	}
	seq, err := builder.NewDegreeSequence(ids, 4, 2.5, rng.New(3), 1_000_000)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, seq.StoppingStdDev(), 2.5)
	assert.Equal(t, 200, seq.Sum())
	assert.False(t, seq.ParityAdjusted())
	for _, k := range seq.Degrees {
		assert.GreaterOrEqual(t, k, 1)
	}
}

func TestDegreeSequence_ParityAndStall(t *testing.T) {
	// 3 nodes of degree 1: odd sum, no donor possible.
	ids := []string{"a", "b", "c"}
	seq, err := builder.NewDegreeSequence(ids, 1, 0, rng.New(1), 10)
	require.NoError(t, err)
	assert.True(t, seq.ParityAdjusted())
	assert.Equal(t, 0, seq.ParityIndex)
	assert.Equal(t, 2, seq.Sum())

	_, err = builder.NewDegreeSequence(ids, 1, 0.5, rng.New(1), 10)
	assert.ErrorIs(t, err, builder.ErrGenerationStalled)

	// unreachable target on two nodes: move budget runs out
	_, err = builder.NewDegreeSequence([]string{"a", "b"}, 2, 5, rng.New(1), 100)
	assert.ErrorIs(t, err, builder.ErrGenerationStalled)
}

func TestMatchStubs_ExhaustedAndDiscard(t *testing.T) {
	// every stub belongs to one node: only self-loops are possible
	stubs := []string{"a", "a", "a", "a"}

	g := core.NewGraph()
	_, err := builder.MatchStubs(g, stubs, rng.New(1), false)
	assert.ErrorIs(t, err, builder.ErrStubMatchingExhausted)

	g = core.NewGraph()
	st, err := builder.MatchStubs(g, stubs, rng.New(1), true)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Edges)
	assert.Equal(t, 4, st.Discarded)
	assert.Equal(t, 0, g.EdgeCount())
}

func TestMatchStubs_PerfectPairing(t *testing.T) {
	g := core.NewGraph()
	st, err := builder.MatchStubs(g, []string{"a", "b", "c", "d"}, rng.New(9), false)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Edges)
	assert.Equal(t, 0, st.Discarded)
	assert.Equal(t, 2, g.EdgeCount())

	st, err = builder.MatchStubs(core.NewGraph(), []string{"x"}, rng.New(9), false)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Discarded)
}

// generateResampled retries with fresh seeds the way callers are expected to.
func generateResampled(t *testing.T, p builder.ModularParams, opts ...builder.BuilderOption) *builder.Network {
	t.Helper()
	for seed := int64(1); seed <= 200; seed++ {
		net, err := builder.GenerateModular(p, append([]builder.BuilderOption{builder.WithSeed(seed)}, opts...)...)
		if err == nil {
			return net
		}
		if !errors.Is(err, builder.ErrStubMatchingExhausted) && !errors.Is(err, builder.ErrGenerationStalled) {
			require.NoError(t, err)
		}
	}
	t.Fatalf("no seed produced a network for %+v", p)

	return nil
}

func TestModular_AllIntraGivesDisconnectedModules(t *testing.T) {
	p := builder.ModularParams{ModuleSize: 5, ModuleCount: 2, P: 1.0, MeanDegree: 2}
	net := generateResampled(t, p)

	assert.Equal(t, 0, net.InterStubs)
	assert.Equal(t, 20, net.IntraStubs)
	for _, e := range net.Graph.Edges() {
		assert.Equal(t, net.Graph.Module(e.From), net.Graph.Module(e.To), "edge %v crosses modules", e)
	}
	comps, err := bfs.Components(net.Graph)
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Len(t, comps[0], 5)
	assert.Len(t, comps[1], 5)
	assert.Equal(t, []string{"0_0", "0_1", "0_2", "0_3", "0_4"}, net.Modules[0])
}

func TestModular_NoIntraRoutesEverythingInter(t *testing.T) {
	p := builder.ModularParams{ModuleSize: 10, ModuleCount: 3, P: 0.0, MeanDegree: 4, Heterogeneity: 1}
	net := generateResampled(t, p)

	assert.Equal(t, 0, net.IntraStubs)
	assert.Equal(t, net.Degrees.Sum(), net.InterStubs)
	assert.Equal(t, net.Degrees.Sum(), 2*net.Graph.EdgeCount()+net.Matching.Discarded)
}

func TestModular_Deterministic(t *testing.T) {
	p := builder.ModularParams{ModuleSize: 20, ModuleCount: 3, P: 0.7, MeanDegree: 4, Heterogeneity: 2}
	a, errA := builder.GenerateModular(p, builder.WithSeed(11), builder.WithDiscardUnmatched())
	b, errB := builder.GenerateModular(p, builder.WithSeed(11), builder.WithDiscardUnmatched())
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a.Graph.Edges(), b.Graph.Edges())
	assert.Equal(t, a.Degrees, b.Degrees)
}

func TestModular_MinGiantFraction(t *testing.T) {
	p := builder.ModularParams{ModuleSize: 5, ModuleCount: 2, P: 1.0, MeanDegree: 2}
	for seed := int64(1); seed <= 50; seed++ {
		_, err := builder.GenerateModular(p, builder.WithSeed(seed), builder.WithMinGiantFraction(0.9))
		if errors.Is(err, builder.ErrStubMatchingExhausted) {
			continue
		}
		assert.ErrorIs(t, err, builder.ErrDisconnectedResult)

		return
	}
	t.Fatal("every seed exhausted stub matching")
}

func TestModular_ViaBuildGraph(t *testing.T) {
	p := builder.ModularParams{ModuleSize: 8, ModuleCount: 2, P: 0.5, MeanDegree: 3}
	g, err := builder.BuildGraph(
		[]builder.BuilderOption{builder.WithRand(rng.New(5)), builder.WithDiscardUnmatched(),
			builder.WithModuleIDScheme(func(m, i int) string { return string(rune('A'+m)) + builder.DefaultIDFn(i) })},
		builder.ModularNetwork(p),
	)
	require.NoError(t, err)
	assert.Equal(t, 16, g.VertexCount())
	assert.True(t, g.HasVertex("B7"))
	assert.Equal(t, 1, g.Module("B7"))
}
