// SPDX-License-Identifier: MIT

// Package core provides the thread-safe in-memory simple undirected Graph
// shared by the generator, the probability assignment and the selectors.
//
// Properties:
//
//   - No self-loops (ErrLoopNotAllowed), no parallel edges (ErrMultiEdgeNotAllowed).
//   - Deterministic iteration: Vertices() returns insertion order, Edges()
//     and NeighborIDs() return edge insertion order. Generators insert nodes
//     module by module, so this is the fixed node ordering used for tie-breaks.
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency
//     (muEdgeAdj).
//   - Views: Clone and InducedSubgraph never mutate the source.
//   - Serialization: Export / FromSnapshot with JSON tags.
//
// Core Methods:
//
//	AddVertex(id) error                  // O(1)
//	AddVertexWithMeta(id, meta) error    // O(1)
//	RemoveVertex(id) error               // O(deg + V)
//	AddEdge(from, to) (edgeID, error)    // O(1)
//	RemoveEdge(from, to) error           // O(deg + E)
//	HasEdge(from, to) bool               // O(1)
//	NeighborIDs(id) ([]string, error)    // O(deg)
//	Degree(id) (int, error)              // O(1)
package core
