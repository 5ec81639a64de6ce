// SPDX-License-Identifier: MIT

// File: types.go
// Role: Graph, Vertex and Edge types, sentinel errors and NewGraph.
//
// Errors:
//
//	ErrEmptyVertexID       - vertex ID is the empty string.
//	ErrVertexNotFound      - requested vertex does not exist.
//	ErrEdgeNotFound        - requested edge does not exist.
//	ErrLoopNotAllowed      - self-loop on a simple graph.
//	ErrMultiEdgeNotAllowed - parallel edge on a simple graph.

package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided Vertex has an empty ID.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Vertex represents a node in the graph.
//
// ID uniquely identifies this Vertex within its Graph.
// Metadata stores arbitrary key-value data and is shared on clones.
type Vertex struct {
	// ID is the unique identifier for this Vertex.
	ID string

	// Metadata stores arbitrary user data (e.g. the generator's module index).
	Metadata map[string]interface{}
}

// Edge is an unordered pair of distinct vertices.
// From/To keep the orientation the edge was inserted with; it carries no meaning.
type Edge struct {
	// ID uniquely identifies this edge in the Graph ("e1", "e2", ...).
	ID string

	// From is the first endpoint.
	From string

	// To is the second endpoint.
	To string
}

// MetaModule is the Vertex.Metadata key under which generators store the
// integer module index of a node.
const MetaModule = "module"

// Graph is a simple undirected graph: no self-loops, no parallel edges.
//
// Vertices are enumerated in insertion order, which gives every consumer
// the same fixed node ordering. Neighbor sets are enumerated in the order
// edges were inserted.
//
// Concurrency: muVert guards vertices and order; muEdgeAdj guards edges
// and adjacency. Lock order is always muVert then muEdgeAdj.
type Graph struct {
	muVert    sync.RWMutex
	muEdgeAdj sync.RWMutex

	vertices map[string]*Vertex
	order    []string

	edges     map[string]*Edge
	edgeOrder []string

	// adjacency[u][v] = edgeID, mirrored for v.
	adjacency map[string]map[string]string
	// neighbors[u] keeps insertion order of u's neighbors.
	neighbors map[string][]string

	nextEdgeID uint64
}

// NewGraph returns an empty simple undirected Graph.
func NewGraph() *Graph {
	return &Graph{
		vertices:  make(map[string]*Vertex),
		edges:     make(map[string]*Edge),
		adjacency: make(map[string]map[string]string),
		neighbors: make(map[string][]string),
	}
}
