// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// AddEdge connects from and to. Both endpoints are created if missing.
// Returns the new edge ID.
//
// Errors: ErrEmptyVertexID, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to {
		return "", ErrLoopNotAllowed
	}
	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	if _, dup := g.adjacency[from][to]; dup {
		return "", ErrMultiEdgeNotAllowed
	}

	eid := fmt.Sprintf("e%d", atomic.AddUint64(&g.nextEdgeID, 1))
	g.edges[eid] = &Edge{ID: eid, From: from, To: to}
	g.edgeOrder = append(g.edgeOrder, eid)
	g.adjacency[from][to] = eid
	g.adjacency[to][from] = eid
	g.neighbors[from] = append(g.neighbors[from], to)
	g.neighbors[to] = append(g.neighbors[to], from)

	return eid, nil
}

// HasEdge reports whether from and to are adjacent.
func (g *Graph) HasEdge(from, to string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	_, ok := g.adjacency[from][to]

	return ok
}

// RemoveEdge deletes the edge between from and to.
func (g *Graph) RemoveEdge(from, to string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	eid, ok := g.adjacency[from][to]
	if !ok {
		return ErrEdgeNotFound
	}
	g.dropEdgeLocked(eid)

	return nil
}

// dropEdgeLocked removes edge eid from every index. Caller holds muEdgeAdj.
func (g *Graph) dropEdgeLocked(eid string) {
	e, ok := g.edges[eid]
	if !ok {
		return
	}
	delete(g.edges, eid)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(s string) bool { return s == eid })
	delete(g.adjacency[e.From], e.To)
	delete(g.adjacency[e.To], e.From)
	g.neighbors[e.From] = slices.DeleteFunc(g.neighbors[e.From], func(s string) bool { return s == e.To })
	g.neighbors[e.To] = slices.DeleteFunc(g.neighbors[e.To], func(s string) bool { return s == e.From })
}

// Edges returns all edges in insertion order. Edge values are copies.
func (g *Graph) Edges() []Edge {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, eid := range g.edgeOrder {
		out = append(out, *g.edges[eid])
	}

	return out
}

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edgeOrder)
}

// NeighborIDs returns the neighbors of id in edge insertion order.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return slices.Clone(g.neighbors[id]), nil
}
