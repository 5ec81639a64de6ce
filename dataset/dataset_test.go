// SPDX-License-Identifier: MIT

package dataset_test

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/dataset"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/epidemic/epidemictest"
	"github.com/katalvlaran/sentinel/features"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
)

// smallConfig generates two 8-node modules of mean degree 4.
func smallConfig() dataset.Config {
	cfg := dataset.DefaultConfig()
	cfg.Networks = 3
	cfg.Simulations = 4
	cfg.MaxAttempts = 10
	cfg.Parallel = 2
	cfg.MinNodes = 8
	cfg.MinEdges = 10
	cfg.DiscardUnmatched = true
	cfg.Ranges = dataset.Ranges{
		ModuleSize:    dataset.IntRange{Min: 8, Max: 9},
		ModuleCount:   dataset.IntRange{Min: 2, Max: 3},
		P:             dataset.FloatRange{Min: 0.7, Max: 0.7},
		Heterogeneity: dataset.FloatRange{Min: 0, Max: 1},
		MeanDegree:    dataset.IntRange{Min: 4, Max: 5},
		Alpha:         dataset.FloatRange{Min: 2, Max: 2},
		Beta:          dataset.FloatRange{Min: 5, Max: 5},
		Corr:          dataset.FloatRange{Min: 0.5, Max: 0.5},
	}

	return cfg
}

func TestGenerate_Rows(t *testing.T) {
	reg := metrics.NewRegistry()
	cfg := smallConfig()
	res, err := dataset.Generate(context.Background(), epidemictest.Wave{}, cfg, rng.New(7), dataset.WithMetrics(reg))
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Accepted)
	assert.Empty(t, res.Skipped)
	require.NotEmpty(t, res.Rows)

	byNetwork := map[int][]dataset.Row{}
	for _, row := range res.Rows {
		byNetwork[row.NetworkID] = append(byNetwork[row.NetworkID], row)
		assert.Equal(t, 8, row.ModuleSize)
		assert.Equal(t, 2, row.ModuleCount)
		assert.Equal(t, 2.0, row.Alpha)
		assert.Equal(t, row.NumNodes, len(byNetworkIDs(res.Rows, row.NetworkID)))
	}
	for id, rows := range byNetwork {
		seen := make([]bool, len(rows))
		for _, row := range rows {
			require.Less(t, row.Ranking, len(rows), "network %d", id)
			assert.False(t, seen[row.Ranking], "duplicate rank %d in network %d", row.Ranking, id)
			seen[row.Ranking] = true
			if row.Ranking == 0 {
				assert.Equal(t, float64(features.NoSelectionDistance), row.MinDistToSelected.Value)
				assert.Equal(t, 1.0, row.NewCoverageRatio.Value)
			} else {
				assert.Less(t, row.MinDistToSelected.Value, float64(features.NoSelectionDistance))
			}
		}
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(reg.NetworksTotal.WithLabelValues(metrics.OutcomeAccepted)))
	assert.Equal(t, float64(len(res.Rows)), testutil.ToFloat64(reg.DatasetRowsTotal))
}

func byNetworkIDs(rows []dataset.Row, id int) map[string]bool {
	out := map[string]bool{}
	for _, r := range rows {
		if r.NetworkID == id {
			out[r.NodeID] = true
		}
	}

	return out
}

func TestGenerate_DeterministicAcrossParallelism(t *testing.T) {
	run := func(parallel int) []byte {
		cfg := smallConfig()
		cfg.Parallel = parallel
		res, err := dataset.Generate(context.Background(), epidemictest.Wave{}, cfg, rng.New(11),
			dataset.WithRunID("fixed"), dataset.WithEstimatorOptions(detection.WithWorkers(parallel)))
		require.NoError(t, err)
		raw, err := json.Marshal(res)
		require.NoError(t, err)

		return raw
	}
	assert.JSONEq(t, string(run(1)), string(run(3)))
}

func TestRow_JSONIsFlat(t *testing.T) {
	cfg := smallConfig()
	cfg.Networks = 1
	cfg.Rounds = 2
	res, err := dataset.Generate(context.Background(), epidemictest.Wave{}, cfg, rng.New(3))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	raw, err := json.Marshal(res.Rows[0])
	require.NoError(t, err)
	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	for _, key := range []string{
		"network_id", "node_id", "ranking", "module_size", "p", "alpha", "corr",
		"degree", "probability", "prob_mean", "betweenness_centrality", "min_dist_to_selected",
	} {
		assert.Contains(t, flat, key)
	}
}

func TestGenerate_RejectedNetworksAreSkipped(t *testing.T) {
	reg := metrics.NewRegistry()
	cfg := smallConfig()
	cfg.Networks = 2
	cfg.MaxAttempts = 2
	cfg.MinNodes = 1000
	engine := &epidemictest.Counter{Engine: epidemictest.Wave{}}

	res, err := dataset.Generate(context.Background(), engine, cfg, rng.New(1), dataset.WithMetrics(reg))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, []int{0, 1}, res.Skipped)
	assert.Zero(t, engine.Calls())
	assert.Equal(t, 4.0, testutil.ToFloat64(reg.NetworksTotal.WithLabelValues(metrics.OutcomeRejected)))
}

func TestGenerate_EngineErrorAborts(t *testing.T) {
	failing := epidemic.EngineFunc(func(context.Context, *core.Graph, epidemic.Params, string, *rand.Rand) (*epidemic.Trace, error) {
		return nil, epidemic.ErrEngine
	})
	_, err := dataset.Generate(context.Background(), failing, smallConfig(), rng.New(1))
	assert.ErrorIs(t, err, epidemic.ErrEngine)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dataset.Generate(ctx, epidemictest.Wave{}, smallConfig(), rng.New(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dataset.Config)
	}{
		{"no networks", func(c *dataset.Config) { c.Networks = 0 }},
		{"no simulations", func(c *dataset.Config) { c.Simulations = 0 }},
		{"negative rounds", func(c *dataset.Config) { c.Rounds = -1 }},
		{"zero tau factor", func(c *dataset.Config) { c.TauFactor = 0 }},
		{"empty int range", func(c *dataset.Config) { c.Ranges.ModuleSize = dataset.IntRange{Min: 5, Max: 5} }},
		{"inverted float range", func(c *dataset.Config) { c.Ranges.Corr = dataset.FloatRange{Min: 0.5, Max: -0.5} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := smallConfig()
			tc.mutate(&cfg)
			_, err := dataset.Generate(context.Background(), epidemictest.Wave{}, cfg, rng.New(1))
			assert.ErrorIs(t, err, dataset.ErrInvalidConfig)
		})
	}

	_, err := dataset.Generate(context.Background(), nil, smallConfig(), rng.New(1))
	assert.ErrorIs(t, err, detection.ErrNilEngine)
	_, err = dataset.Generate(context.Background(), epidemictest.Wave{}, smallConfig(), nil)
	assert.ErrorIs(t, err, dataset.ErrNeedRandSource)
}
