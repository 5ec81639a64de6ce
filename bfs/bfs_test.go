// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/core"
)

func cycle(t *testing.T, ids ...string) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for i := range ids {
		_, err := g.AddEdge(ids[i], ids[(i+1)%len(ids)])
		require.NoError(t, err)
	}

	return g
}

func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS(nil, "A")
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	g := core.NewGraph()
	_, err = bfs.BFS(g, "missing")
	assert.ErrorIs(t, err, bfs.ErrStartVertexNotFound)

	require.NoError(t, g.AddVertex("A"))
	_, err = bfs.BFS(g, "A", bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)
}

func TestBFS_CycleDepths(t *testing.T) {
	g := cycle(t, "A", "B", "C", "D")
	res, err := bfs.BFS(g, "A")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "D", "C"}, res.Order)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "D": 1, "C": 2}, res.Depth)
	assert.Equal(t, "B", res.Parent["C"])
}

func TestBFS_MaxDepthAndFilter(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B")
	_, _ = g.AddEdge("B", "C")

	res, err := bfs.BFS(g, "A", bfs.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Order)

	res, err = bfs.BFS(g, "A", bfs.WithFilterNeighbor(func(c, n string) bool {
		return !(c == "B" && n == "C")
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Order)
}

func TestBFS_OnVisitErrorAndCancel(t *testing.T) {
	g := cycle(t, "A", "B", "C")
	stop := errors.New("stop")
	_, err := bfs.BFS(g, "A", bfs.WithOnVisit(func(id string, _ int) error {
		if id == "B" {
			return stop
		}

		return nil
	}))
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.BFS(g, "A", bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComponentsAndGiant(t *testing.T) {
	g := cycle(t, "a", "b", "c", "d")
	_, _ = g.AddEdge("x", "y")
	require.NoError(t, g.AddVertex("lonely"))

	comps, err := bfs.Components(g)
	require.NoError(t, err)
	require.Len(t, comps, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, comps[0])

	giant, err := bfs.GiantComponent(g)
	require.NoError(t, err)
	assert.Len(t, giant, 4)

	sub, err := bfs.GiantSubgraph(g)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.VertexCount())
	assert.Equal(t, 4, sub.EdgeCount())

	ok, err := bfs.IsConnected(g)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = bfs.IsConnected(sub)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsConnected_HypotheticalRemoval(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("a", "b")
	_, _ = g.AddEdge("b", "c")

	bridge := func(c, n string) bool {
		return !((c == "a" && n == "b") || (c == "b" && n == "a"))
	}
	ok, err := bfs.IsConnected(g, bfs.WithFilterNeighbor(bridge))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, g.HasEdge("a", "b"))
}
