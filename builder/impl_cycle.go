// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// impl_cycle.go - Cycle(n) constructor: the path plus the closing edge.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sentinel/core"
)

// Cycle returns a Constructor that builds the ring C_n (n ≥ 3).
func Cycle(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < MinCycleNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", MethodCycle, n, MinCycleNodes, ErrTooFewVertices)
		}
		ids, err := addIndexedVertices(g, cfg, MethodCycle, n)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			u, v := ids[i], ids[(i+1)%n]
			if _, err = g.AddEdge(u, v); err != nil {
				return fmt.Errorf("%s: AddEdge(%s, %s): %w", MethodCycle, u, v, err)
			}
		}

		return nil
	}
}
