// SPDX-License-Identifier: MIT

package core

import "fmt"

// Snapshot is the serialized form of a Graph: a node list in insertion
// order and an edge list of endpoint pairs.
type Snapshot struct {
	Nodes   []SnapshotNode `json:"nodes"`
	Edges   [][2]string    `json:"edges"`
	Modules int            `json:"modules,omitempty"`
}

// SnapshotNode is one node of a Snapshot. Module is -1 when unknown.
type SnapshotNode struct {
	ID     string `json:"id"`
	Module int    `json:"module"`
}

// Export returns the Snapshot of g.
func (g *Graph) Export() Snapshot {
	ids := g.Vertices()
	s := Snapshot{
		Nodes: make([]SnapshotNode, 0, len(ids)),
		Edges: make([][2]string, 0, g.EdgeCount()),
	}
	maxModule := -1
	for _, id := range ids {
		m := g.Module(id)
		if m > maxModule {
			maxModule = m
		}
		s.Nodes = append(s.Nodes, SnapshotNode{ID: id, Module: m})
	}
	s.Modules = maxModule + 1
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, [2]string{e.From, e.To})
	}

	return s
}

// FromSnapshot rebuilds a Graph from s. Edges referencing unknown nodes
// create those nodes; loops and duplicates are rejected.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := NewGraph()
	for _, n := range s.Nodes {
		var meta map[string]interface{}
		if n.Module >= 0 {
			meta = map[string]interface{}{MetaModule: n.Module}
		}
		if err := g.AddVertexWithMeta(n.ID, meta); err != nil {
			return nil, fmt.Errorf("FromSnapshot: node %q: %w", n.ID, err)
		}
	}
	for _, e := range s.Edges {
		if _, err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("FromSnapshot: edge %s-%s: %w", e[0], e[1], err)
		}
	}

	return g, nil
}
