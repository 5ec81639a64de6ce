// SPDX-License-Identifier: MIT

// Package epidemictest provides in-process Engine implementations for tests
// and offline runs.
package epidemictest

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/epidemic"
)

// SIR is a discrete-time stochastic SIR engine. At each unit step every
// infected node infects each susceptible neighbor with probability
// 1-exp(-Tau) and then recovers with probability 1-exp(-Gamma).
// MaxSteps caps the run (0 = until extinction); nodes still infected at
// the cap are removed one step later.
type SIR struct {
	MaxSteps int
}

// Simulate implements epidemic.Engine.
func (s SIR) Simulate(ctx context.Context, g *core.Graph, p epidemic.Params, seed string, r *rand.Rand) (*epidemic.Trace, error) {
	if !g.HasVertex(seed) {
		return nil, fmt.Errorf("SIR: seed %q: %w: %w", seed, epidemic.ErrEngine, core.ErrVertexNotFound)
	}
	pInf := 1 - math.Exp(-p.Tau)
	pRec := 1.0
	if p.Gamma > 0 {
		pRec = 1 - math.Exp(-p.Gamma)
	}

	tr := newTrace(g)
	state := make(map[string]epidemic.State, g.VertexCount())
	for _, id := range g.Vertices() {
		state[id] = epidemic.Susceptible
	}
	state[seed] = epidemic.Infected
	tr.Histories[seed] = epidemic.History{Times: []float64{0}, States: []epidemic.State{epidemic.Infected}}
	tr.Times = append(tr.Times, 0)
	tr.Cumulative = append(tr.Cumulative, 1)

	infected := []string{seed}
	ever := 1
	for step := 1; len(infected) > 0; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := float64(step)
		capped := s.MaxSteps > 0 && step > s.MaxSteps

		var fresh []string
		if !capped {
			for _, u := range infected {
				nb, _ := g.NeighborIDs(u)
				for _, v := range nb {
					if state[v] == epidemic.Susceptible && r.Float64() < pInf {
						state[v] = epidemic.Infected
						fresh = append(fresh, v)
						record(tr, v, t, epidemic.Infected)
					}
				}
			}
		}
		still := fresh
		for _, u := range infected {
			if capped || r.Float64() < pRec {
				state[u] = epidemic.Removed
				record(tr, u, t, epidemic.Removed)

				continue
			}
			still = append(still, u)
		}
		infected = still
		ever += len(fresh)
		tr.Times = append(tr.Times, t)
		tr.Cumulative = append(tr.Cumulative, ever)
	}

	return tr, nil
}

// Wave is a deterministic engine: a node at hop distance d from the seed
// is infected at time d and removed at d+1. It ignores rates and RNG, so
// the gain of a sentinel set equals the number of nodes within the
// closest sentinel's distance from the seed.
type Wave struct{}

// Simulate implements epidemic.Engine.
func (Wave) Simulate(_ context.Context, g *core.Graph, _ epidemic.Params, seed string, _ *rand.Rand) (*epidemic.Trace, error) {
	dist, err := bfs.Distances(g, seed)
	if err != nil {
		return nil, fmt.Errorf("Wave: %w: %w", epidemic.ErrEngine, err)
	}
	maxD := 0
	perLevel := make(map[int]int)
	for _, d := range dist {
		perLevel[d]++
		if d > maxD {
			maxD = d
		}
	}

	tr := newTrace(g)
	ever := 0
	for d := 0; d <= maxD+1; d++ {
		ever += perLevel[d]
		tr.Times = append(tr.Times, float64(d))
		tr.Cumulative = append(tr.Cumulative, ever)
	}
	for id, d := range dist {
		if d == 0 {
			tr.Histories[id] = epidemic.History{
				Times:  []float64{0, 1},
				States: []epidemic.State{epidemic.Infected, epidemic.Removed},
			}

			continue
		}
		tr.Histories[id] = epidemic.History{
			Times:  []float64{0, float64(d), float64(d + 1)},
			States: []epidemic.State{epidemic.Susceptible, epidemic.Infected, epidemic.Removed},
		}
	}

	return tr, nil
}

// Scripted returns fixed traces keyed by seed node.
type Scripted map[string]*epidemic.Trace

// Simulate implements epidemic.Engine.
func (s Scripted) Simulate(_ context.Context, _ *core.Graph, _ epidemic.Params, seed string, _ *rand.Rand) (*epidemic.Trace, error) {
	tr, ok := s[seed]
	if !ok {
		return nil, fmt.Errorf("Scripted: no trace for %q: %w", seed, epidemic.ErrEngine)
	}

	return tr, nil
}

// Counter wraps an engine and counts calls.
type Counter struct {
	Engine epidemic.Engine
	calls  atomic.Int64
}

// Simulate implements epidemic.Engine.
func (c *Counter) Simulate(ctx context.Context, g *core.Graph, p epidemic.Params, seed string, r *rand.Rand) (*epidemic.Trace, error) {
	c.calls.Add(1)

	return c.Engine.Simulate(ctx, g, p, seed, r)
}

// Calls returns the number of Simulate calls so far.
func (c *Counter) Calls() int64 { return c.calls.Load() }

func newTrace(g *core.Graph) *epidemic.Trace {
	tr := &epidemic.Trace{Histories: make(map[string]epidemic.History, g.VertexCount())}
	for _, id := range g.Vertices() {
		tr.Histories[id] = epidemic.History{Times: []float64{0}, States: []epidemic.State{epidemic.Susceptible}}
	}

	return tr
}

func record(tr *epidemic.Trace, id string, t float64, s epidemic.State) {
	h := tr.Histories[id]
	h.Times = append(h.Times, t)
	h.States = append(h.States, s)
	tr.Histories[id] = h
}
