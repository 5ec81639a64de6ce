// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sentinel/dataset"
)

func (a *app) datasetCmd() *cobra.Command {
	var networks int
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate training rows as JSON lines",
		Long: `dataset samples network and probability parameters, ranks every node
of each accepted network greedily and writes one JSON object per node
(generation parameters, rank and descriptors) to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Dataset
			if cmd.Flags().Changed("networks") {
				cfg.Networks = networks
			}
			res, err := dataset.Generate(cmd.Context(), a.engine(), cfg, a.rand,
				dataset.WithLogger(a.logger),
				dataset.WithMetrics(a.metrics),
				dataset.WithRunID(a.runID),
				dataset.WithEstimatorOptions(a.estimatorOptions()...),
			)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(a.stdout)
			for i := range res.Rows {
				if err := enc.Encode(&res.Rows[i]); err != nil {
					return err
				}
			}
			a.logger.Info("dataset written", "rows", len(res.Rows), "accepted", len(res.Accepted), "skipped", len(res.Skipped))

			return nil
		},
	}
	cmd.Flags().IntVar(&networks, "networks", 0, "number of networks (overrides dataset.networks)")

	return cmd
}
