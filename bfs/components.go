// SPDX-License-Identifier: MIT

package bfs

import (
	"github.com/katalvlaran/sentinel/core"
)

// Components returns the connected components of g. Components are listed
// in order of their first vertex in g.Vertices(); members are in BFS order.
//
// Complexity: O(V + E).
func Components(g *core.Graph, opts ...Option) ([][]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	seen := make(map[string]bool, g.VertexCount())
	var out [][]string
	for _, id := range g.Vertices() {
		if seen[id] {
			continue
		}
		res, err := BFS(g, id, opts...)
		if err != nil {
			return nil, err
		}
		for _, v := range res.Order {
			seen[v] = true
		}
		out = append(out, res.Order)
	}

	return out, nil
}

// GiantComponent returns the vertex set of the largest connected component.
// Ties keep the component discovered first. An empty graph yields nil.
func GiantComponent(g *core.Graph) ([]string, error) {
	comps, err := Components(g)
	if err != nil {
		return nil, err
	}
	var best []string
	for _, c := range comps {
		if len(c) > len(best) {
			best = c
		}
	}

	return best, nil
}

// GiantSubgraph returns the subgraph induced by the giant component.
func GiantSubgraph(g *core.Graph) (*core.Graph, error) {
	giant, err := GiantComponent(g)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(giant))
	for _, id := range giant {
		keep[id] = true
	}

	return g.InducedSubgraph(keep), nil
}

// IsConnected reports whether g has exactly one component. Extra options
// (e.g. WithFilterNeighbor) let callers test a hypothetical removal.
func IsConnected(g *core.Graph, opts ...Option) (bool, error) {
	if g == nil {
		return false, ErrGraphNil
	}
	ids := g.Vertices()
	if len(ids) == 0 {
		return true, nil
	}
	res, err := BFS(g, ids[0], opts...)
	if err != nil {
		return false, err
	}

	return len(res.Order) == len(ids), nil
}

// Distances returns hop distances from src to every reachable vertex.
func Distances(g *core.Graph, src string) (map[string]int, error) {
	res, err := BFS(g, src)
	if err != nil {
		return nil, err
	}

	return res.Depth, nil
}
