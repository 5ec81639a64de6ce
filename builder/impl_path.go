// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// impl_path.go - Path(n) constructor: 0–1–2–…–(n-1).

package builder

import (
	"fmt"

	"github.com/katalvlaran/sentinel/core"
)

// Path returns a Constructor that builds a simple path P_n (n ≥ 2).
func Path(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < MinPathNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", MethodPath, n, MinPathNodes, ErrTooFewVertices)
		}
		ids, err := addIndexedVertices(g, cfg, MethodPath, n)
		if err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if _, err = g.AddEdge(ids[i-1], ids[i]); err != nil {
				return fmt.Errorf("%s: AddEdge(%s, %s): %w", MethodPath, ids[i-1], ids[i], err)
			}
		}

		return nil
	}
}
