// SPDX-License-Identifier: MIT

package emergence

import (
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/netview"
)

// Importance scores every vertex of g; higher means more important.
type Importance func(g *core.Graph) (map[string]float64, error)

// DegreeCentrality is degree/(n-1), or 0 for a single vertex.
func DegreeCentrality(g *core.Graph) (map[string]float64, error) {
	deg := g.Degrees()
	n := len(deg)
	out := make(map[string]float64, n)
	for id, d := range deg {
		if n > 1 {
			out[id] = float64(d) / float64(n-1)
		} else {
			out[id] = 0
		}
	}

	return out, nil
}

// BetweennessCentrality is normalized shortest-path betweenness.
func BetweennessCentrality(g *core.Graph) (map[string]float64, error) {
	return netview.New(g).Betweenness(), nil
}

// EigenvectorCentrality is the leading adjacency eigenvector.
func EigenvectorCentrality(g *core.Graph) (map[string]float64, error) {
	return netview.New(g).Eigenvector()
}
