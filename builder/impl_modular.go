// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// impl_modular.go - modular configuration model.
//
// Canonical model:
//   • ModuleCount modules of ModuleSize nodes, IDs cfg.moduleIDFn(m, i),
//     each vertex tagged with core.MetaModule = m.
//   • Degree sequence from NewDegreeSequence (mean degree, heterogeneity).
//   • Per module: every stub goes to the module's intra pool with
//     probability P, else to the global inter pool; the intra pool is
//     matched right after its module is partitioned.
//   • The inter pool is matched last, across all modules.
//
// Contract:
//   • ModuleSize ≥ 1, ModuleCount ≥ 1, MeanDegree ≥ 1 (else ErrTooFewVertices).
//   • P ∈ [0,1] (else ErrInvalidProbability); Heterogeneity ≥ 0 (else ErrOptionViolation).
//   • cfg.rng must be non-nil (else ErrNeedRandSource).
//   • 2·|E| + discarded stubs == parity-adjusted degree sum.
//
// Determinism:
//   • RNG draw order: degree moves, then per module (partition draws,
//     intra shuffle), then the inter shuffle.

package builder

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/core"
)

// ModularParams are the generation inputs of ModularNetwork.
type ModularParams struct {
	ModuleSize    int     `json:"module_size" yaml:"module_size"`
	ModuleCount   int     `json:"module_count" yaml:"module_count"`
	P             float64 `json:"p" yaml:"p"`
	Heterogeneity float64 `json:"heterogeneity" yaml:"heterogeneity"`
	MeanDegree    int     `json:"mean_degree" yaml:"mean_degree"`
}

// Network is a generated modular graph plus its generation record.
type Network struct {
	Graph   *core.Graph
	Params  ModularParams
	Modules [][]string
	Degrees DegreeSequence
	// TargetEdges is half the parity-adjusted degree sum.
	TargetEdges int
	IntraStubs  int
	InterStubs  int
	Matching    MatchStats
}

// ModularNetwork returns a Constructor for the modular configuration model.
func ModularNetwork(p ModularParams) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		_, err := buildModular(g, cfg, p)

		return err
	}
}

func (p ModularParams) validate() error {
	switch {
	case p.ModuleSize < MinModuleSize:
		return fmt.Errorf("%s: module size %d < min=%d: %w", MethodModular, p.ModuleSize, MinModuleSize, ErrTooFewVertices)
	case p.ModuleCount < MinModuleCount:
		return fmt.Errorf("%s: module count %d < min=%d: %w", MethodModular, p.ModuleCount, MinModuleCount, ErrTooFewVertices)
	case p.MeanDegree < MinMeanDegree:
		return fmt.Errorf("%s: mean degree %d < min=%d: %w", MethodModular, p.MeanDegree, MinMeanDegree, ErrTooFewVertices)
	case math.IsNaN(p.P) || p.P < MinProbability || p.P > MaxProbability:
		return fmt.Errorf("%s: p=%v: %w", MethodModular, p.P, ErrInvalidProbability)
	case math.IsNaN(p.Heterogeneity) || p.Heterogeneity < 0:
		return fmt.Errorf("%s: heterogeneity=%v: %w", MethodModular, p.Heterogeneity, ErrOptionViolation)
	}

	return nil
}

func buildModular(g *core.Graph, cfg builderConfig, p ModularParams) (*Network, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if cfg.rng == nil {
		return nil, fmt.Errorf("%s: %w", MethodModular, ErrNeedRandSource)
	}

	n := p.ModuleSize * p.ModuleCount
	ids := make([]string, 0, n)
	modules := make([][]string, p.ModuleCount)
	for m := 0; m < p.ModuleCount; m++ {
		modules[m] = make([]string, p.ModuleSize)
		for i := 0; i < p.ModuleSize; i++ {
			id := cfg.moduleIDFn(m, i)
			if g.HasVertex(id) {
				return nil, fmt.Errorf("%s: duplicate node ID %q from ID scheme: %w", MethodModular, id, ErrConstructFailed)
			}
			if err := g.AddVertexWithMeta(id, map[string]interface{}{core.MetaModule: m}); err != nil {
				return nil, fmt.Errorf("%s: AddVertex(%s): %w", MethodModular, id, err)
			}
			modules[m][i] = id
			ids = append(ids, id)
		}
	}

	maxMoves := cfg.maxDegreeMoves
	if maxMoves == 0 {
		maxMoves = degreeMoveFactor * n * p.MeanDegree
	}
	seq, err := NewDegreeSequence(ids, p.MeanDegree, p.Heterogeneity, cfg.rng, maxMoves)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodModular, err)
	}
	cfg.logger.Debug("degree sequence ready",
		slog.Int("nodes", n),
		slog.Int("moves", seq.Moves),
		slog.Float64("std", seq.StdDev()),
		slog.Bool("parity_adjusted", seq.ParityAdjusted()))

	net := &Network{
		Graph:       g,
		Params:      p,
		Modules:     modules,
		Degrees:     seq,
		TargetEdges: seq.Sum() / 2,
	}

	var inter []string
	for m := 0; m < p.ModuleCount; m++ {
		var intra []string
		for i := 0; i < p.ModuleSize; i++ {
			idx := m*p.ModuleSize + i
			for s := 0; s < seq.Degrees[idx]; s++ {
				if cfg.rng.Float64() < p.P {
					intra = append(intra, ids[idx])
				} else {
					inter = append(inter, ids[idx])
				}
			}
		}
		net.IntraStubs += len(intra)
		st, err := MatchStubs(g, intra, cfg.rng, cfg.discardUnmatched)
		if err != nil {
			return nil, fmt.Errorf("%s: module %d: %w", MethodModular, m, err)
		}
		net.Matching.merge(st)
	}
	net.InterStubs = len(inter)
	st, err := MatchStubs(g, inter, cfg.rng, cfg.discardUnmatched)
	if err != nil {
		return nil, fmt.Errorf("%s: inter-module: %w", MethodModular, err)
	}
	net.Matching.merge(st)

	if cfg.minGiantFraction > 0 {
		giant, err := bfs.GiantComponent(g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", MethodModular, err)
		}
		if float64(len(giant)) < cfg.minGiantFraction*float64(n) {
			return nil, fmt.Errorf("%s: giant component %d/%d below %.2f: %w",
				MethodModular, len(giant), n, cfg.minGiantFraction, ErrDisconnectedResult)
		}
	}

	cfg.logger.Debug("modular network generated",
		slog.Int("edges", g.EdgeCount()),
		slog.Int("target_edges", net.TargetEdges),
		slog.Int("requeues", net.Matching.Requeues),
		slog.Int("discarded_stubs", net.Matching.Discarded))

	return net, nil
}
