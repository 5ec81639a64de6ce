// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// api.go - thin public entry-points for the builder package.
//
// Design contract (strict):
//   - One orchestrator: BuildGraph(bopts, cons...). Creates g, resolves cfg, runs cons in order.
//   - GenerateModular is the one-call form of ModularNetwork that also returns
//     the generation record (modules, degree sequence, matching counters).
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical graphs.
//   - Safety: never panic; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sentinel/core"
)

// Constructor applies a deterministic graph mutation using the resolved
// builderConfig. Constructors validate parameters early and return
// sentinel errors; they never panic.
type Constructor func(g *core.Graph, cfg builderConfig) error

// BuildGraph creates a new core.Graph, resolves the builder configuration
// from bopts, and applies all constructors in order.
func BuildGraph(bopts []BuilderOption, cons ...Constructor) (*core.Graph, error) {
	g := core.NewGraph()
	cfg := newBuilderConfig(bopts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildGraph: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildGraph: %w", err)
		}
	}

	return g, nil
}

// GenerateModular builds a modular configuration-model network and returns
// it together with its generation record.
//
// Errors: ErrTooFewVertices, ErrInvalidProbability, ErrOptionViolation,
// ErrNeedRandSource, ErrGenerationStalled, ErrStubMatchingExhausted,
// ErrDisconnectedResult.
func GenerateModular(p ModularParams, opts ...BuilderOption) (*Network, error) {
	cfg := newBuilderConfig(opts...)
	g := core.NewGraph()
	net, err := buildModular(g, cfg, p)
	if err != nil {
		return nil, fmt.Errorf("GenerateModular: %w", err)
	}

	return net, nil
}
