// SPDX-License-Identifier: MIT

// File: view.go
// Role: Non-mutating graph views (clones and induced subgraphs).
// Determinism:
//   - Vertex and edge insertion order of the source is preserved.
// Concurrency:
//   - Read locks on source; result is a fresh graph instance.

package core

// Clone returns a deep copy of g's topology. Vertex metadata maps are shared.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	return g.InducedSubgraph(nil)
}

// InducedSubgraph returns a new Graph that keeps only vertices in keep and
// edges with both endpoints kept. A nil keep map keeps every vertex.
// The input graph is not mutated; edge IDs are renumbered.
//
// Complexity: O(V + E).
func InducedSubgraph(g *Graph, keep map[string]bool) *Graph {
	return g.InducedSubgraph(keep)
}

// InducedSubgraph is the method form of the package-level InducedSubgraph.
func (g *Graph) InducedSubgraph(keep map[string]bool) *Graph {
	out := NewGraph()

	g.muVert.RLock()
	for _, id := range g.order {
		if keep != nil && !keep[id] {
			continue
		}
		v := g.vertices[id]
		out.vertices[id] = &Vertex{ID: id, Metadata: v.Metadata}
		out.order = append(out.order, id)
		out.adjacency[id] = make(map[string]string)
	}
	g.muVert.RUnlock()

	for _, e := range g.Edges() {
		if _, ok := out.vertices[e.From]; !ok {
			continue
		}
		if _, ok := out.vertices[e.To]; !ok {
			continue
		}
		// endpoints exist and the source is simple, so this cannot fail
		_, _ = out.AddEdge(e.From, e.To)
	}

	return out
}
