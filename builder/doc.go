// SPDX-License-Identifier: MIT

// Package builder generates the synthetic networks the sentinel selectors
// are benchmarked on, using "functional-options" building blocks.
//
// The package offers the following key components:
//
//   - Orchestration:
//     – BuildGraph(bopts, cons...): resolve options, run constructors in order.
//     – GenerateModular(params, opts...): modular configuration model with its
//     generation record (Network).
//   - Constructors:
//     – ModularNetwork:    modules of equal size, heterogeneous degrees,
//     intra/inter stub routing with probability p.
//     – Complete, Path, Cycle, Star: deterministic fixtures.
//   - Generation stages (exported for reuse and testing):
//     – NewDegreeSequence: mean-degree start, donor/recipient unit moves until
//     the population standard deviation reaches the target.
//     – MatchStubs:        bounded FIFO pairing with a requeue cap.
//   - Configuration primitives:
//     – WithSeed / WithRand: the single explicit random source.
//     – WithModuleIDScheme:  "<module>_<index>" by default.
//     – WithMaxDegreeMoves, WithDiscardUnmatched, WithMinGiantFraction, WithLogger.
//
// Guarantees:
//
//   - Simple graphs only: no self-loops, no duplicate edges.
//   - Every loop is bounded; exceeding a bound is a sentinel error, never a
//     silent continuation.
//   - Fast-fail on invalid option parameters via panics in option constructors.
package builder
