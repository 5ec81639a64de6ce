// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// options.go - functional options for the builder package.
//
// Contract (strict):
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Algorithms themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.
//   • No hidden globals; everything flows through builderConfig.

package builder

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/katalvlaran/sentinel/rng"
)

// BuilderOption customizes a constructor by mutating a builderConfig
// before graph construction begins.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the vertex ID generator for sequential topologies.
// Panics on nil.
func WithIDScheme(fn func(int) string) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}

	return func(c *builderConfig) { c.idFn = fn }
}

// WithModuleIDScheme sets the (module, index) → ID generator used by
// ModularNetwork. Panics on nil.
func WithModuleIDScheme(fn func(module, idx int) string) BuilderOption {
	if fn == nil {
		panic("builder: WithModuleIDScheme(nil)")
	}

	return func(c *builderConfig) { c.moduleIDFn = fn }
}

// WithRand provides an explicit RNG for stochastic builders. The builder
// consumes it; share it with later stages to keep one stream per run.
// Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a new deterministic RNG from seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rng.New(seed) }
}

// WithMaxDegreeMoves bounds the number of degree-unit moves made while
// building a heterogeneous degree sequence. Panics on n < 1.
func WithMaxDegreeMoves(n int) BuilderOption {
	if n < 1 {
		panic(fmt.Sprintf("builder: WithMaxDegreeMoves(%d)", n))
	}

	return func(c *builderConfig) { c.maxDegreeMoves = n }
}

// WithDiscardUnmatched makes stub matching drop a stub that cannot pair
// with any remaining stub rather than failing with ErrStubMatchingExhausted.
func WithDiscardUnmatched() BuilderOption {
	return func(c *builderConfig) { c.discardUnmatched = true }
}

// WithMinGiantFraction rejects results whose giant component holds fewer
// than f·|V| nodes (ErrDisconnectedResult). Panics unless 0 < f <= 1.
func WithMinGiantFraction(f float64) BuilderOption {
	if !(f > 0 && f <= 1) {
		panic(fmt.Sprintf("builder: WithMinGiantFraction(%v)", f))
	}

	return func(c *builderConfig) { c.minGiantFraction = f }
}

// WithLogger routes builder diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) BuilderOption {
	if l == nil {
		panic("builder: WithLogger(nil)")
	}

	return func(c *builderConfig) { c.logger = l }
}
