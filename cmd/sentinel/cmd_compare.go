// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/genetic"
	"github.com/katalvlaran/sentinel/greedy"
	"github.com/katalvlaran/sentinel/omission"
	"github.com/katalvlaran/sentinel/strategy"
)

type compareOutput struct {
	RunID     string           `json:"run_id"`
	Params    epidemic.Params  `json:"params"`
	Kind      omission.Kind    `json:"omission_kind"`
	Percent   float64          `json:"omission_percent"`
	Instances []instanceScores `json:"instances"`
}

type instanceScores struct {
	Nodes  int              `json:"nodes"`
	Edges  int              `json:"edges"`
	Scores []strategy.Score `json:"scores"`
}

func (a *app) compareCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score selection strategies on incomplete copies of a network",
		Long: `compare pre-simulates outbreaks on the reference network, removes a
percentage of edges or nodes (keeping the network connected), lets every
strategy select sentinels on each incomplete copy and scores the selections
against the reference outbreaks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCompare(cmd.Context(), graphPath)
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "network snapshot JSON (default: generate one)")

	return cmd
}

func (a *app) runCompare(ctx context.Context, graphPath string) error {
	cc, oc := a.cfg.Compare, a.cfg.Omission
	ref, err := a.giant(graphPath)
	if err != nil {
		return err
	}
	as, err := emergence.Assign(ref, a.cfg.Emergence.Params(), a.rand, a.cfg.Emergence.Options()...)
	if err != nil {
		return err
	}
	p, err := a.cfg.Epidemic.Rates(ref)
	if err != nil {
		return err
	}
	engine := a.engine()
	refEst, err := detection.NewEstimator(ref, as, engine, p, a.rand, a.estimatorOptions()...)
	if err != nil {
		return err
	}
	simSets := make([][]*epidemic.Trace, cc.Repetitions)
	for i := range simSets {
		if simSets[i], err = refEst.Simulate(ctx, cc.Simulations); err != nil {
			return fmt.Errorf("reference simulations: %w", err)
		}
	}

	instances := []*core.Graph{ref}
	if oc.Percent > 0 {
		instances, err = omission.Instances(ref, oc.Kind, oc.Percent, oc.Instances, a.rand,
			omission.WithMaxTries(oc.MaxTries), omission.WithLogger(a.logger), omission.WithMetrics(a.metrics))
		if err != nil {
			return err
		}
	}

	sim := strategy.Simulation{
		Assignment: as,
		Engine:     engine,
		Params:     p,
		Rand:       a.rand,
		Options:    a.estimatorOptions(),
	}
	strategies, err := a.strategies(cc.Strategies, sim)
	if err != nil {
		return err
	}
	cmp := strategy.Comparison{
		Strategies: strategies,
		Reference:  ref,
		SimSets:    simSets,
		Metrics:    a.metrics,
		Logger:     a.logger,
	}

	out := compareOutput{RunID: a.runID, Params: p, Kind: oc.Kind, Percent: oc.Percent}
	for i, g := range instances {
		scores, err := cmp.Run(ctx, g, cc.Sentinels)
		if err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		out.Instances = append(out.Instances, instanceScores{Nodes: g.VertexCount(), Edges: g.EdgeCount(), Scores: scores})
	}

	return a.writeJSON(out)
}

func (a *app) strategies(names []string, sim strategy.Simulation) ([]strategy.Strategy, error) {
	out := make([]strategy.Strategy, 0, len(names))
	for _, name := range names {
		switch name {
		case strategy.NameGreedy:
			out = append(out, strategy.Greedy{
				Sim:         sim,
				Simulations: a.cfg.Compare.Simulations,
				Options:     []greedy.Option{greedy.WithLogger(a.logger), greedy.WithMetrics(a.metrics)},
			})
		case strategy.NameGeneticAlgorithm:
			out = append(out, strategy.GeneticAlgorithm{
				Sim:     sim,
				Config:  a.cfg.Genetic,
				Options: []genetic.Option{genetic.WithLogger(a.logger), genetic.WithMetrics(a.metrics)},
			})
		case strategy.NameGlobalDegree:
			out = append(out, strategy.GlobalDegree{})
		case strategy.NameModular:
			out = append(out, strategy.Modular{Resolution: a.cfg.Compare.Resolution, Rand: a.rand})
		case strategy.NameRandom:
			out = append(out, strategy.Random{Rand: a.rand})
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}

	return out, nil
}
