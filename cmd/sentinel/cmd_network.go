// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/metrics"
)

type generateOutput struct {
	RunID       string                `json:"run_id"`
	Params      builder.ModularParams `json:"params"`
	Network     core.Snapshot         `json:"network"`
	Edges       int                   `json:"edges"`
	TargetEdges int                   `json:"target_edges"`
	DegreeStd   float64               `json:"degree_std"`
	Requeues    int                   `json:"requeues"`
	Discarded   int                   `json:"discarded_stubs"`
}

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a modular network and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			net, err := a.generate()
			if err != nil {
				return err
			}
			a.metrics.RecordNetwork(metrics.OutcomeAccepted)

			return a.writeJSON(generateOutput{
				RunID:       a.runID,
				Params:      net.Params,
				Network:     net.Graph.Export(),
				Edges:       net.Graph.EdgeCount(),
				TargetEdges: net.TargetEdges,
				DegreeStd:   net.Degrees.StdDev(),
				Requeues:    net.Matching.Requeues,
				Discarded:   net.Matching.Discarded,
			})
		},
	}
}

type assignOutput struct {
	RunID string `json:"run_id"`
	*emergence.Assignment
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

func (a *app) assignCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign emergence probabilities to a network",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			g, err := a.network(graphPath)
			if err != nil {
				return err
			}
			as, err := emergence.Assign(g, a.cfg.Emergence.Params(), a.rand, a.cfg.Emergence.Options()...)
			if err != nil {
				return err
			}
			mean, std := as.MeanStd()

			return a.writeJSON(assignOutput{RunID: a.runID, Assignment: as, Mean: mean, Std: std})
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "network snapshot JSON (default: generate one)")

	return cmd
}
