// SPDX-License-Identifier: MIT

// Package epidemic defines the contract with the stochastic SIR engine that
// produces outbreak traces, the trace model itself, and an adapter that runs
// an external engine program.
//
// A Trace records the cumulative number of ever-infected nodes (I+R) at
// every event time, plus each node's state history:
//
//	length 1: [S]        never reached
//	length 2: [I, R]     the outbreak seed
//	length 3: [S, I, R]  infected at Times[1], removed at Times[2]
package epidemic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/katalvlaran/sentinel/core"
)

// Sentinel errors.
var (
	// ErrEngine indicates the engine failed to produce a trace.
	ErrEngine = errors.New("epidemic: engine error")

	// ErrMalformedTrace indicates a trace that violates the trace model.
	ErrMalformedTrace = fmt.Errorf("%w: malformed trace", ErrEngine)

	// ErrDegenerateThreshold indicates a degree distribution without a
	// finite epidemic threshold (no edges, or ⟨k²⟩ = ⟨k⟩).
	ErrDegenerateThreshold = errors.New("epidemic: degenerate epidemic threshold")
)

// State is a compartment label.
type State string

// Compartments.
const (
	Susceptible State = "S"
	Infected    State = "I"
	Removed     State = "R"
)

// Params are the engine rates.
type Params struct {
	// Tau is the per-edge transmission rate.
	Tau float64 `json:"tau" yaml:"tau"`
	// Gamma is the recovery rate.
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// History is one node's state changes; Times and States are aligned.
type History struct {
	Times  []float64 `json:"times"`
	States []State   `json:"states"`
}

// Trace is the full record of one simulated outbreak.
type Trace struct {
	Times      []float64          `json:"times"`
	Cumulative []int              `json:"cumulative"`
	Histories  map[string]History `json:"histories"`
}

// Engine runs one stochastic outbreak on g starting at seed. All
// randomness must come from r.
type Engine interface {
	Simulate(ctx context.Context, g *core.Graph, p Params, seed string, r *rand.Rand) (*Trace, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, g *core.Graph, p Params, seed string, r *rand.Rand) (*Trace, error)

// Simulate calls f.
func (f EngineFunc) Simulate(ctx context.Context, g *core.Graph, p Params, seed string, r *rand.Rand) (*Trace, error) {
	return f(ctx, g, p, seed, r)
}

// Final returns the last cumulative count.
func (t *Trace) Final() int {
	if len(t.Cumulative) == 0 {
		return 0
	}

	return t.Cumulative[len(t.Cumulative)-1]
}

// IndexOf returns the first index whose time equals ts exactly.
func (t *Trace) IndexOf(ts float64) (int, bool) {
	i := slices.Index(t.Times, ts)

	return i, i >= 0
}

// Validate checks the global shape of t: aligned non-empty time and
// cumulative series, non-decreasing times, aligned histories.
// Per-history lengths are checked by consumers.
func (t *Trace) Validate() error {
	if t == nil {
		return fmt.Errorf("Validate: nil trace: %w", ErrMalformedTrace)
	}
	if len(t.Times) == 0 || len(t.Times) != len(t.Cumulative) {
		return fmt.Errorf("Validate: %d times vs %d cumulative: %w", len(t.Times), len(t.Cumulative), ErrMalformedTrace)
	}
	for i := 1; i < len(t.Times); i++ {
		if t.Times[i] < t.Times[i-1] {
			return fmt.Errorf("Validate: times decrease at %d: %w", i, ErrMalformedTrace)
		}
	}
	for id, h := range t.Histories {
		if len(h.Times) != len(h.States) {
			return fmt.Errorf("Validate: history of %q misaligned: %w", id, ErrMalformedTrace)
		}
	}

	return nil
}

// ThresholdScaledTau returns factor/((⟨k²⟩−⟨k⟩)/⟨k⟩): a transmission rate
// expressed as a multiple of the configuration-model epidemic threshold.
func ThresholdScaledTau(g *core.Graph, factor float64) (float64, error) {
	deg := g.Degrees()
	if len(deg) == 0 {
		return 0, fmt.Errorf("ThresholdScaledTau: %w", ErrDegenerateThreshold)
	}
	var k, k2 float64
	for _, d := range deg {
		k += float64(d)
		k2 += float64(d) * float64(d)
	}
	n := float64(len(deg))
	k, k2 = k/n, k2/n
	if k == 0 || k2-k <= 0 {
		return 0, fmt.Errorf("ThresholdScaledTau: <k>=%v <k^2>=%v: %w", k, k2, ErrDegenerateThreshold)
	}

	return factor / ((k2 - k) / k), nil
}
