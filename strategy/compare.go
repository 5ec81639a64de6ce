// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/metrics"
)

// Score summarizes one strategy over the repetitions of a comparison.
// Std is the sample standard deviation (0 for a single repetition);
// ValidMonitors is the mean number of selected nodes present in the
// reference network.
type Score struct {
	Strategy      string  `json:"strategy"`
	Sentinels     int     `json:"num_sentinels"`
	Mean          float64 `json:"surveillance_performance_mean"`
	Std           float64 `json:"surveillance_performance_std"`
	ValidMonitors float64 `json:"valid_monitors"`
}

// Comparison scores strategies run on a (possibly incomplete) network
// against outbreaks pre-simulated on the reference network. SimSets holds
// one batch of traces per repetition; every strategy selects once per
// repetition and is scored on that repetition's batch.
type Comparison struct {
	Strategies []Strategy
	Reference  *core.Graph
	SimSets    [][]*epidemic.Trace
	Metrics    *metrics.Registry
	Logger     *slog.Logger
}

// Run compares every strategy selecting k sentinels on g.
func (c Comparison) Run(ctx context.Context, g *core.Graph, k int) ([]Score, error) {
	if len(c.SimSets) == 0 {
		return nil, fmt.Errorf("Comparison.Run: %w", detection.ErrNoTrials)
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	total := c.Reference.VertexCount()

	scores := make([]Score, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		perf := make([]float64, len(c.SimSets))
		valid := 0.0
		for rep, traces := range c.SimSets {
			picked, err := s.Select(ctx, g, k)
			c.Metrics.RecordSelection(s.Name(), err)
			if err != nil {
				return nil, fmt.Errorf("Comparison.Run: repetition %d: %w", rep, err)
			}
			for _, id := range picked {
				if c.Reference.HasVertex(id) {
					valid++
				}
			}
			if perf[rep], err = detection.Performance(traces, picked, total); err != nil {
				return nil, fmt.Errorf("Comparison.Run: %s repetition %d: %w", s.Name(), rep, err)
			}
		}

		sc := Score{
			Strategy:      s.Name(),
			Sentinels:     k,
			Mean:          stat.Mean(perf, nil),
			ValidMonitors: valid / float64(len(c.SimSets)),
		}
		if len(perf) > 1 {
			sc.Std = stat.StdDev(perf, nil)
		}
		logger.Info("strategy scored", "strategy", sc.Strategy, "num_sentinels", k, "mean", sc.Mean, "std", sc.Std)
		scores = append(scores, sc)
	}

	return scores, nil
}
