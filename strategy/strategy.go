// SPDX-License-Identifier: MIT

// Package strategy puts the sentinel selection methods behind one
// interface so they can be compared on the same networks.
//
//	Greedy            marginal-gain search (package greedy)
//	GeneticAlgorithm  set search (package genetic)
//	GlobalDegree      k highest-degree nodes
//	Modular           community round-robin by degree, degree backfill
//	Random            uniform sample
//
// Every Select returns min(k, |V|) distinct nodes.
package strategy

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/genetic"
	"github.com/katalvlaran/sentinel/greedy"
	"github.com/katalvlaran/sentinel/netview"
)

// Strategy names.
const (
	NameGreedy           = "Greedy"
	NameGeneticAlgorithm = "GA"
	NameGlobalDegree     = "Global"
	NameModular          = "Modular"
	NameRandom           = "Random"
)

// Sentinel errors.
var (
	ErrInvalidK       = errors.New("strategy: k must be positive")
	ErrNeedRandSource = errors.New("strategy: random source is nil")
	ErrEmptyGraph     = errors.New("strategy: graph has no vertices")
)

// Strategy selects k sentinels on g.
type Strategy interface {
	Name() string
	Select(ctx context.Context, g *core.Graph, k int) ([]string, error)
}

func checkArgs(name string, g *core.Graph, k int) (int, error) {
	if k <= 0 {
		return 0, fmt.Errorf("%s: k=%d: %w", name, k, ErrInvalidK)
	}
	n := g.VertexCount()
	if n == 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrEmptyGraph)
	}

	return min(k, n), nil
}

// byDegree returns ids sorted by descending degree, ties in input order.
func byDegree(g *core.Graph, ids []string) []string {
	deg := g.Degrees()
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(deg[b], deg[a])
	})

	return out
}

// GlobalDegree picks the k highest-degree nodes.
type GlobalDegree struct{}

// Name implements Strategy.
func (GlobalDegree) Name() string { return NameGlobalDegree }

// Select implements Strategy.
func (s GlobalDegree) Select(_ context.Context, g *core.Graph, k int) ([]string, error) {
	k, err := checkArgs(s.Name(), g, k)
	if err != nil {
		return nil, err
	}

	return byDegree(g, g.Vertices())[:k], nil
}

// Modular detects communities (Louvain at Resolution, default 1) and takes
// the highest-degree node of each community in turn, then the second of
// each, and so on; any shortfall is filled by global degree.
type Modular struct {
	Resolution float64
	Rand       *rand.Rand
}

// Name implements Strategy.
func (Modular) Name() string { return NameModular }

// Select implements Strategy.
func (s Modular) Select(_ context.Context, g *core.Graph, k int) ([]string, error) {
	k, err := checkArgs(s.Name(), g, k)
	if err != nil {
		return nil, err
	}
	if s.Rand == nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), ErrNeedRandSource)
	}
	res := s.Resolution
	if res <= 0 {
		res = 1
	}

	comms := netview.New(g).Communities(res, s.Rand)
	for i, c := range comms {
		comms[i] = byDegree(g, c)
	}

	picked := make([]string, 0, k)
	seen := make(map[string]bool, k)
	for round := 0; len(picked) < k; round++ {
		added := false
		for _, c := range comms {
			if len(picked) >= k {
				break
			}
			if round < len(c) && !seen[c[round]] {
				picked = append(picked, c[round])
				seen[c[round]] = true
				added = true
			}
		}
		if !added {
			break
		}
	}
	for _, id := range byDegree(g, g.Vertices()) {
		if len(picked) >= k {
			break
		}
		if !seen[id] {
			picked = append(picked, id)
			seen[id] = true
		}
	}

	return picked, nil
}

// Random picks k nodes uniformly without replacement.
type Random struct {
	Rand *rand.Rand
}

// Name implements Strategy.
func (Random) Name() string { return NameRandom }

// Select implements Strategy.
func (s Random) Select(_ context.Context, g *core.Graph, k int) ([]string, error) {
	k, err := checkArgs(s.Name(), g, k)
	if err != nil {
		return nil, err
	}
	if s.Rand == nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), ErrNeedRandSource)
	}
	ids := g.Vertices()
	for i := 0; i < k; i++ {
		j := i + s.Rand.IntN(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}

	return ids[:k], nil
}

// Simulation is what the simulation-driven strategies need to build an
// estimator on whatever graph they are given. The assignment may cover
// more nodes than the graph; it is restricted to the graph's vertices.
type Simulation struct {
	Assignment *emergence.Assignment
	Engine     epidemic.Engine
	Params     epidemic.Params
	Rand       *rand.Rand
	Options    []detection.Option
}

func (s Simulation) estimator(g *core.Graph) (*detection.Estimator, error) {
	if s.Rand == nil {
		return nil, ErrNeedRandSource
	}
	if s.Assignment == nil {
		return nil, detection.ErrMissingProbability
	}
	a, err := s.Assignment.Restrict(g)
	if err != nil {
		return nil, err
	}

	return detection.NewEstimator(g, a, s.Engine, s.Params, s.Rand, s.Options...)
}

// Greedy runs the greedy selector with Rounds = k.
type Greedy struct {
	Sim         Simulation
	Simulations int
	Options     []greedy.Option
}

// Name implements Strategy.
func (Greedy) Name() string { return NameGreedy }

// Select implements Strategy.
func (s Greedy) Select(ctx context.Context, g *core.Graph, k int) ([]string, error) {
	k, err := checkArgs(s.Name(), g, k)
	if err != nil {
		return nil, err
	}
	est, err := s.Sim.estimator(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	res, err := greedy.Select(ctx, est, greedy.Config{Rounds: k, Simulations: s.Simulations}, s.Options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}

	return res.Order, nil
}

// GeneticAlgorithm runs the genetic optimizer with Size = k.
type GeneticAlgorithm struct {
	Sim     Simulation
	Config  genetic.Config
	Options []genetic.Option
}

// Name implements Strategy.
func (GeneticAlgorithm) Name() string { return NameGeneticAlgorithm }

// Select implements Strategy.
func (s GeneticAlgorithm) Select(ctx context.Context, g *core.Graph, k int) ([]string, error) {
	k, err := checkArgs(s.Name(), g, k)
	if err != nil {
		return nil, err
	}
	est, err := s.Sim.estimator(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	cfg := s.Config
	cfg.Size = k
	opt, err := genetic.New(est, cfg, s.Sim.Rand, s.Options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	res, err := opt.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}

	return res.Best, nil
}
