// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// config.go - resolved builder configuration.
//
// Determinism:
//   • newBuilderConfig applies options in order (last wins) over fixed
//     defaults, so the same option list always yields the same config.
//   • rng is nil unless WithSeed or WithRand is supplied; stochastic
//     constructors reject a nil rng with ErrNeedRandSource.

package builder

import (
	"log/slog"
	"math/rand/v2"
	"strconv"
)

// builderConfig is the immutable view handed to every Constructor.
type builderConfig struct {
	// idFn labels sequential topologies (Path, Cycle, ...).
	idFn func(int) string
	// moduleIDFn labels modular-network nodes by (module, index).
	moduleIDFn func(module, idx int) string

	rng *rand.Rand

	// maxDegreeMoves bounds the heterogeneity loop; 0 means the default
	// degreeMoveFactor·n·meanDegree.
	maxDegreeMoves int
	// discardUnmatched drops a stub that was tried against every remaining
	// stub instead of spending requeues on it.
	discardUnmatched bool
	// minGiantFraction, if > 0, rejects results whose giant component holds
	// fewer than minGiantFraction·|V| nodes.
	minGiantFraction float64

	logger *slog.Logger
}

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:       decimalID,
		moduleIDFn: ModuleIDFn,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func decimalID(i int) string {
	return strconv.Itoa(i)
}
