// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/config"
	"github.com/katalvlaran/sentinel/dataset"
	"github.com/katalvlaran/sentinel/epidemic"
)

const testConfig = `
run: {seed: 5, workers: 2}
log: {level: debug}
generator: {module_size: 6, module_count: 3, p: 0.7, heterogeneity: 0.5, mean_degree: 3, discard_unmatched: true}
epidemic: {gamma: 1, tau_factor: 3, max_steps: 50}
greedy: {rounds: 3, simulations: 20}
genetic: {size: 2, population_size: 8, max_generations: 4, num_simulations: 10, stability_limit: 3}
compare: {num_sentinels: 2, repetitions: 2, simulations: 20, strategies: [Global, Modular, Random, Greedy]}
omission: {kind: edges, percent: 10, instances: 2}
dataset:
  networks: 1
  rounds: 3
  simulations: 5
  min_nodes: 5
  min_edges: 5
  parallel: 1
  discard_unmatched: true
  ranges:
    module_size: {min: 6, max: 7}
    module_count: {min: 2, max: 3}
    mean_degree: {min: 3, max: 4}
    heterogeneity: {min: 0.5, max: 1}
`

// run executes the CLI with the test configuration.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	var out, errb bytes.Buffer
	root := newRootCmd(&out, &errb)
	root.SetArgs(append([]string{"--config", path}, args...))
	err = root.ExecuteContext(context.Background())

	return out.String(), errb.String(), err
}

func TestGenerate(t *testing.T) {
	stdout, _, err := run(t, "generate")
	require.NoError(t, err)

	var out generateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	_, err = uuid.Parse(out.RunID)
	assert.NoError(t, err)
	assert.Len(t, out.Network.Nodes, 18)
	assert.Equal(t, 3, out.Network.Modules)
	assert.Equal(t, out.Edges, len(out.Network.Edges))

	again, _, err := run(t, "generate")
	require.NoError(t, err)
	var out2 generateOutput
	require.NoError(t, json.Unmarshal([]byte(again), &out2))
	assert.Equal(t, out.Network, out2.Network)
	assert.NotEqual(t, out.RunID, out2.RunID)

	other, _, err := run(t, "--seed", "6", "generate")
	require.NoError(t, err)
	var out3 generateOutput
	require.NoError(t, json.Unmarshal([]byte(other), &out3))
	assert.NotEqual(t, out.Network.Edges, out3.Network.Edges)
}

func TestAssign_FromSnapshot(t *testing.T) {
	stdout, _, err := run(t, "generate")
	require.NoError(t, err)
	var gen generateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &gen))
	raw, err := json.Marshal(gen.Network)
	require.NoError(t, err)
	snap := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, os.WriteFile(snap, raw, 0o600))

	stdout, _, err = run(t, "assign", "--graph", snap)
	require.NoError(t, err)
	var out struct {
		Nodes         []string  `json:"nodes"`
		Probabilities []float64 `json:"probabilities"`
		Mean          float64   `json:"mean"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out.Nodes, 18)
	require.Len(t, out.Probabilities, 18)
	for _, p := range out.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestGreedy(t *testing.T) {
	stdout, stderr, err := run(t, "greedy", "--rounds", "2")
	require.NoError(t, err)
	var out greedyOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out.Order, 2)
	assert.Len(t, out.Gains, 2)
	assert.Greater(t, out.Params.Tau, 0.0)
	assert.Contains(t, stderr, "greedy round")
}

func TestGA(t *testing.T) {
	stdout, _, err := run(t, "ga")
	require.NoError(t, err)
	var out gaOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out.Best, 2)
	assert.GreaterOrEqual(t, out.Generations, 1)
	assert.Len(t, out.History, out.Generations)
}

func TestCompare(t *testing.T) {
	stdout, _, err := run(t, "compare")
	require.NoError(t, err)
	var out compareOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Instances, 2)
	for _, inst := range out.Instances {
		require.Len(t, inst.Scores, 4)
		assert.Equal(t, "Global", inst.Scores[0].Strategy)
		assert.Equal(t, "Greedy", inst.Scores[3].Strategy)
		for _, sc := range inst.Scores {
			assert.GreaterOrEqual(t, sc.Mean, 0.0)
			assert.LessOrEqual(t, sc.Mean, 100.0)
		}
	}
}

func TestDataset_JSONLines(t *testing.T) {
	stdout, _, err := run(t, "dataset")
	require.NoError(t, err)

	sc := bufio.NewScanner(strings.NewReader(stdout))
	var rows []dataset.Row
	for sc.Scan() {
		var row dataset.Row
		require.NoError(t, json.Unmarshal(sc.Bytes(), &row))
		rows = append(rows, row)
	}
	require.Len(t, rows, 3)
	ranks := map[int]bool{}
	for _, row := range rows {
		ranks[row.Ranking] = true
		assert.Equal(t, 6, row.ModuleSize)
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, ranks)
}

func TestMetricsAndJSONLogs(t *testing.T) {
	_, stderr, err := run(t, "--metrics", "--log-format", "json", "--log-level", "info", "greedy", "--rounds", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "sentinel_greedy_rounds_total 1")

	first := strings.SplitN(stderr, "\n", 2)[0]
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &entry))
	assert.Contains(t, entry, "run_id")
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "generate")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = run(t, "--engine", filepath.Join(t.TempDir(), "no-such-engine"), "greedy")
	assert.ErrorIs(t, err, epidemic.ErrEngine)

	_, _, err = run(t, "assign", "--graph", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
