// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/genetic"
	"github.com/katalvlaran/sentinel/greedy"
)

// selection is the estimator setup shared by greedy and ga.
type selection struct {
	est    *detection.Estimator
	params epidemic.Params
}

func (a *app) selection(graphPath string) (*selection, error) {
	g, err := a.giant(graphPath)
	if err != nil {
		return nil, err
	}
	as, err := emergence.Assign(g, a.cfg.Emergence.Params(), a.rand, a.cfg.Emergence.Options()...)
	if err != nil {
		return nil, err
	}
	p, err := a.cfg.Epidemic.Rates(g)
	if err != nil {
		return nil, err
	}
	est, err := detection.NewEstimator(g, as, a.engine(), p, a.rand, a.estimatorOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("estimator ready", "nodes", g.VertexCount(), "edges", g.EdgeCount(), "tau", p.Tau, "gamma", p.Gamma)

	return &selection{est: est, params: p}, nil
}

type greedyOutput struct {
	RunID  string          `json:"run_id"`
	Params epidemic.Params `json:"params"`
	Order  []string        `json:"order"`
	Gains  []float64       `json:"mean_gains"`
}

func (a *app) greedyCmd() *cobra.Command {
	var (
		graphPath string
		rounds    int
	)
	cmd := &cobra.Command{
		Use:   "greedy",
		Short: "Rank sentinels by greedy marginal detection gain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Greedy
			if cmd.Flags().Changed("rounds") {
				cfg.Rounds = rounds
			}

			return a.runGreedy(cmd.Context(), graphPath, cfg)
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "network snapshot JSON (default: generate one)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "number of sentinels to rank (overrides greedy.rounds)")

	return cmd
}

func (a *app) runGreedy(ctx context.Context, graphPath string, cfg greedy.Config) error {
	sel, err := a.selection(graphPath)
	if err != nil {
		return err
	}
	res, err := greedy.Select(ctx, sel.est, cfg, greedy.WithLogger(a.logger), greedy.WithMetrics(a.metrics))
	if err != nil {
		return err
	}

	return a.writeJSON(greedyOutput{RunID: a.runID, Params: sel.params, Order: res.Order, Gains: res.Gains})
}

type gaOutput struct {
	RunID       string          `json:"run_id"`
	Params      epidemic.Params `json:"params"`
	Best        []string        `json:"best"`
	Fitness     float64         `json:"fitness"`
	Generations int             `json:"generations"`
	Converged   bool            `json:"converged"`
	History     []float64       `json:"history"`
}

func (a *app) gaCmd() *cobra.Command {
	var (
		graphPath string
		size      int
	)
	cmd := &cobra.Command{
		Use:   "ga",
		Short: "Search a sentinel set with the genetic optimizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Genetic
			if cmd.Flags().Changed("size") {
				cfg.Size = size
			}

			return a.runGA(cmd.Context(), graphPath, cfg)
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "network snapshot JSON (default: generate one)")
	cmd.Flags().IntVar(&size, "size", 0, "sentinels per set (overrides genetic.size)")

	return cmd
}

func (a *app) runGA(ctx context.Context, graphPath string, cfg genetic.Config) error {
	sel, err := a.selection(graphPath)
	if err != nil {
		return err
	}
	opt, err := genetic.New(sel.est, cfg, a.rand, genetic.WithLogger(a.logger), genetic.WithMetrics(a.metrics))
	if err != nil {
		return err
	}
	res, err := opt.Run(ctx)
	if err != nil {
		return err
	}

	return a.writeJSON(gaOutput{
		RunID:       a.runID,
		Params:      sel.params,
		Best:        res.Best,
		Fitness:     res.Fitness,
		Generations: res.Generations,
		Converged:   res.Converged,
		History:     res.History,
	})
}
