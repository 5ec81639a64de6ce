// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context using `%w` and a method tag.
//   • Algorithms MUST NOT panic at runtime; validation panics are confined to
//     option constructor functions (WithX...).
//   • Generation failures (stalled, exhausted, disconnected) are fatal within
//     one attempt; callers recover by resampling with a fresh seed.

package builder

import "errors"

// ErrTooFewVertices indicates that a numeric parameter (n, module size,
// module count, mean degree) is smaller than the allowed minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates that a probability value is outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor ran without an
// RNG (WithSeed/WithRand must be set).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a structural failure unrelated to the random
// draws (nil constructor, core rejected an edge that passed validation).
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrOptionViolation indicates that a parameter struct carried a
// meaningless value (negative heterogeneity, NaN).
var ErrOptionViolation = errors.New("builder: option violation")

// ErrGenerationStalled indicates the degree-sequence construction could not
// reach the requested heterogeneity: no node had degree > 1 left to donate,
// or the move budget ran out.
var ErrGenerationStalled = errors.New("builder: degree sequence generation stalled")

// ErrStubMatchingExhausted indicates the requeue bound of a stub pool was
// exceeded: the remaining stubs cannot be paired without duplicates or
// self-loops.
var ErrStubMatchingExhausted = errors.New("builder: stub matching exhausted")

// ErrDisconnectedResult indicates the giant component of the generated
// graph is below the configured usability threshold.
var ErrDisconnectedResult = errors.New("builder: giant component below threshold")
