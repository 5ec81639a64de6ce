// SPDX-License-Identifier: MIT

package core

import "slices"

// AddVertex inserts a vertex with the given id. Adding an existing id is a
// no-op. Returns ErrEmptyVertexID for "".
//
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id string) error {
	return g.AddVertexWithMeta(id, nil)
}

// AddVertexWithMeta inserts a vertex carrying metadata. If the vertex already
// exists its metadata is merged (last write wins per key).
func (g *Graph) AddVertexWithMeta(id string, meta map[string]interface{}) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	g.muVert.Lock()
	defer g.muVert.Unlock()

	if v, ok := g.vertices[id]; ok {
		if len(meta) > 0 {
			if v.Metadata == nil {
				v.Metadata = make(map[string]interface{}, len(meta))
			}
			for k, val := range meta {
				v.Metadata[k] = val
			}
		}

		return nil
	}

	v := &Vertex{ID: id}
	if len(meta) > 0 {
		v.Metadata = make(map[string]interface{}, len(meta))
		for k, val := range meta {
			v.Metadata[k] = val
		}
	}
	g.vertices[id] = v
	g.order = append(g.order, id)

	g.muEdgeAdj.Lock()
	g.adjacency[id] = make(map[string]string)
	g.muEdgeAdj.Unlock()

	return nil
}

// HasVertex reports whether id is present.
func (g *Graph) HasVertex(id string) bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// Vertex returns the vertex for id.
func (g *Graph) Vertex(id string) (*Vertex, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return nil, ErrVertexNotFound
	}

	return v, nil
}

// Vertices returns all vertex IDs in insertion order. The slice is a copy.
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return slices.Clone(g.order)
}

// VertexCount returns |V|.
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.order)
}

// Module returns the module index stored under MetaModule, or -1 when the
// vertex is unknown or carries no module.
func (g *Graph) Module(id string) int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	v, ok := g.vertices[id]
	if !ok || v.Metadata == nil {
		return -1
	}
	m, ok := v.Metadata[MetaModule].(int)
	if !ok {
		return -1
	}

	return m
}

// RemoveVertex deletes id and all its incident edges.
//
// Complexity: O(deg(id) + |V|).
func (g *Graph) RemoveVertex(id string) error {
	g.muVert.Lock()
	defer g.muVert.Unlock()
	if _, ok := g.vertices[id]; !ok {
		return ErrVertexNotFound
	}

	g.muEdgeAdj.Lock()
	// dropEdgeLocked compacts neighbors[id] in place; iterate a copy.
	for _, nb := range slices.Clone(g.neighbors[id]) {
		g.dropEdgeLocked(g.adjacency[id][nb])
	}
	delete(g.adjacency, id)
	delete(g.neighbors, id)
	g.muEdgeAdj.Unlock()

	delete(g.vertices, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })

	return nil
}

// Degree returns the number of neighbors of id.
func (g *Graph) Degree(id string) (int, error) {
	if !g.HasVertex(id) {
		return 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.neighbors[id]), nil
}

// Degrees returns the degree of every vertex keyed by ID.
func (g *Graph) Degrees() map[string]int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	out := make(map[string]int, len(g.order))
	for _, id := range g.order {
		out[id] = len(g.neighbors[id])
	}

	return out
}
