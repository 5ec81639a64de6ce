// SPDX-License-Identifier: MIT

// Package netview exposes a core.Graph to gonum's graph algorithms.
//
// A View maps every vertex to its position in g.Vertices() (as int64 node
// IDs), so gonum results translate back to string IDs in the fixed node
// order. Views are snapshots: later mutations of the source are not seen.
package netview

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sentinel/core"
)

// ErrEigenFailed is returned when the eigendecomposition of the adjacency
// matrix does not converge.
var ErrEigenFailed = errors.New("netview: eigendecomposition failed")

// View is a gonum snapshot of a core.Graph.
type View struct {
	G     *simple.UndirectedGraph
	IDs   []string
	index map[string]int64
}

// New snapshots g.
//
// Complexity: O(V + E).
func New(g *core.Graph) *View {
	ids := g.Vertices()
	v := &View{
		G:     simple.NewUndirectedGraph(),
		IDs:   ids,
		index: make(map[string]int64, len(ids)),
	}
	for i, id := range ids {
		v.index[id] = int64(i)
		v.G.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		v.G.SetEdge(simple.Edge{F: simple.Node(v.index[e.From]), T: simple.Node(v.index[e.To])})
	}

	return v
}

// Node returns the gonum node ID of id.
func (v *View) Node(id string) (int64, bool) {
	n, ok := v.index[id]

	return n, ok
}

// ID returns the vertex ID of gonum node n.
func (v *View) ID(n int64) string { return v.IDs[n] }

func (v *View) byID(m map[int64]float64) map[string]float64 {
	out := make(map[string]float64, len(v.IDs))
	for i, id := range v.IDs {
		out[id] = m[int64(i)]
	}

	return out
}

func (v *View) groups(nodes [][]graph.Node) [][]string {
	out := make([][]string, 0, len(nodes))
	for _, grp := range nodes {
		idx := make([]int64, 0, len(grp))
		for _, n := range grp {
			idx = append(idx, n.ID())
		}
		slices.Sort(idx)
		ids := make([]string, len(idx))
		for i, n := range idx {
			ids[i] = v.IDs[n]
		}
		out = append(out, ids)
	}
	// order groups by their first member in node order
	slices.SortFunc(out, func(a, b []string) int {
		return int(v.index[a[0]] - v.index[b[0]])
	})

	return out
}

// Betweenness returns the normalized betweenness centrality of every
// vertex: shortest-path pair fractions divided by (n-1)(n-2), which for an
// undirected graph equals the unordered-pair normalization.
func (v *View) Betweenness() map[string]float64 {
	n := float64(len(v.IDs))
	raw := network.Betweenness(v.G)
	out := v.byID(raw)
	if n > 2 {
		scale := 1 / ((n - 1) * (n - 2))
		for id, b := range out {
			out[id] = b * scale
		}
	}

	return out
}

// Communities runs Louvain modularity maximization at the given
// resolution and returns the communities, members in node order.
func (v *View) Communities(resolution float64, r *rand.Rand) [][]string {
	if len(v.IDs) == 0 {
		return nil
	}
	reduced := community.Modularize(v.G, resolution, r)

	return v.groups(reduced.Communities())
}

// Components returns the connected components (members in node order).
func (v *View) Components() [][]string {
	return v.groups(topo.ConnectedComponents(v.G))
}

// Eigenvector returns the eigenvector centrality of every vertex: the
// leading eigenvector of the adjacency matrix, sign-fixed to be
// non-negative and scaled to unit Euclidean norm.
func (v *View) Eigenvector() (map[string]float64, error) {
	n := len(v.IDs)
	if n == 0 {
		return map[string]float64{}, nil
	}
	adj := mat.NewSymDense(n, nil)
	edges := v.G.Edges()
	for edges.Next() {
		e := edges.Edge()
		adj.SetSym(int(e.From().ID()), int(e.To().ID()), 1)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(adj, true); !ok {
		return nil, fmt.Errorf("Eigenvector: %w", ErrEigenFailed)
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	lead := n - 1 // eigenvalues are ascending

	out := make(map[string]float64, n)
	sign := 1.0
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += vecs.At(i, lead)
	}
	if sum < 0 {
		sign = -1
	}
	for i, id := range v.IDs {
		x := sign * vecs.At(i, lead)
		if math.Abs(x) < 1e-12 {
			x = 0
		}
		out[id] = x
	}

	return out, nil
}
