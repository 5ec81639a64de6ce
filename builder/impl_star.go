// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// impl_star.go - Star(n) constructor: CenterVertexID plus n-1 leaves.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sentinel/core"
)

// Star returns a Constructor that builds a hub connected to n-1 leaves
// labelled cfg.idFn(1..n-1) (n ≥ 2).
func Star(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < MinStarNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", MethodStar, n, MinStarNodes, ErrTooFewVertices)
		}
		if err := g.AddVertex(CenterVertexID); err != nil {
			return fmt.Errorf("%s: AddVertex(%s): %w", MethodStar, CenterVertexID, err)
		}
		for i := 1; i < n; i++ {
			leaf := cfg.idFn(i)
			if _, err := g.AddEdge(CenterVertexID, leaf); err != nil {
				return fmt.Errorf("%s: AddEdge(%s, %s): %w", MethodStar, CenterVertexID, leaf, err)
			}
		}

		return nil
	}
}
