// SPDX-License-Identifier: MIT

// Package rng creates and derives the single explicit random source that
// every stochastic sentinel operation consumes.
//
// All streams are math/rand/v2 PCG generators: a *rand.Rand built here also
// satisfies the rand.Source interface expected by gonum's distributions.
package rng

import "math/rand/v2"

// pcgIncrement decorrelates the two PCG words derived from one seed.
const pcgIncrement = 0x9e3779b97f4a7c15

// New returns a deterministic generator for seed.
func New(seed int64) *rand.Rand {
	s := uint64(seed)

	return rand.New(rand.NewPCG(s, s^pcgIncrement))
}

// Derive draws two words from parent and returns an independent child
// stream. The parent advances by exactly two Uint64 calls.
func Derive(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(parent.Uint64(), parent.Uint64()))
}
