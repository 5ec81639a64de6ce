// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// impl_complete.go - Complete(n) constructor.
//
// Contract:
//   • n ≥ 1 (else ErrTooFewVertices).
//   • Adds vertices via cfg.idFn in ascending index order (0..n-1).
//   • Emits each unordered pair {i,j} with i<j exactly once, lexicographically.
//
// Complexity: O(n²) edges.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sentinel/core"
)

// Complete returns a Constructor that builds the complete simple graph K_n.
func Complete(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < MinCompleteNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", MethodComplete, n, MinCompleteNodes, ErrTooFewVertices)
		}
		ids, err := addIndexedVertices(g, cfg, MethodComplete, n)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if _, err = g.AddEdge(ids[i], ids[j]); err != nil {
					return fmt.Errorf("%s: AddEdge(%s, %s): %w", MethodComplete, ids[i], ids[j], err)
				}
			}
		}

		return nil
	}
}

// addIndexedVertices inserts cfg.idFn(0..n-1) and returns the IDs.
func addIndexedVertices(g *core.Graph, cfg builderConfig, method string, n int) ([]string, error) {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = cfg.idFn(i)
		if err := g.AddVertex(ids[i]); err != nil {
			return nil, fmt.Errorf("%s: AddVertex(%s): %w", method, ids[i], err)
		}
	}

	return ids, nil
}
