// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a core.Graph, returning
// hop distances, parent links and visit order, plus the component helpers
// built on it (Components, GiantComponent, GiantSubgraph, IsConnected).
//
// Determinism
//
//	core.Graph enumerates neighbors in edge insertion order and BFS enqueues
//	them in that order, so the visit sequence is reproducible.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
package bfs
