// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/config"
	"github.com/katalvlaran/sentinel/omission"
)

func TestDefault_IsValid(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, omission.Edges, cfg.Omission.Kind)

	cfg, err = config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
run:
  seed: 7
generator:
  module_size: 10
  discard_unmatched: true
compare:
  strategies: [Global, Random]
dataset:
  networks: 3
  ranges:
    module_size: {min: 5, max: 9}
`))
	require.NoError(t, err)

	def := config.Default()
	assert.Equal(t, int64(7), cfg.Run.Seed)
	assert.Equal(t, 10, cfg.Generator.ModuleSize)
	assert.Equal(t, def.Generator.ModuleCount, cfg.Generator.ModuleCount)
	assert.Equal(t, []string{"Global", "Random"}, cfg.Compare.Strategies)
	assert.Equal(t, 3, cfg.Dataset.Networks)
	assert.Equal(t, 5, cfg.Dataset.Ranges.ModuleSize.Min)
	assert.Equal(t, def.Dataset.Ranges.Alpha, cfg.Dataset.Ranges.Alpha)
	assert.Equal(t, def.Genetic, cfg.Genetic)
	assert.Len(t, cfg.Generator.Options(), 1)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := config.Parse(strings.NewReader("generator:\n  modul_size: 3\n"))
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]string{
		"log level":        "log: {level: loud}",
		"log format":       "log: {format: xml}",
		"probability":      "generator: {p: 1.5}",
		"strategy":         "compare: {strategies: [Bogus]}",
		"no strategies":    "compare: {strategies: []}",
		"omission kind":    "omission: {kind: both}",
		"omission percent": "omission: {percent: 120}",
		"no rate":          "epidemic: {tau: 0, tau_factor: 0}",
		"greedy rounds":    "greedy: {rounds: 0}",
		"genetic pc":       "genetic: {pcrossover: 2}",
		"dataset networks": "dataset: {networks: 0}",
		"corr":             "emergence: {corr: -3}",
		"importance":       "emergence: {importance: pagerank}",
		"heterogeneous 1":  "generator: {mean_degree: 1, heterogeneity: 2}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(doc))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run: {seed: 99, workers: 2}\nlog: {format: json}\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Run.Seed)
	assert.Equal(t, 2, cfg.Run.Workers)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEpidemicRates(t *testing.T) {
	g, err := builder.BuildGraph(nil, builder.Cycle(6))
	require.NoError(t, err)

	fixed := config.EpidemicConfig{Tau: 0.4, Gamma: 1}
	p, err := fixed.Rates(g)
	require.NoError(t, err)
	assert.Equal(t, 0.4, p.Tau)

	// cycle: (<k²>-<k>)/<k> = 1
	scaled := config.EpidemicConfig{Gamma: 1, TauFactor: 3}
	p, err = scaled.Rates(g)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, p.Tau, 1e-12)
	assert.Equal(t, 1.0, p.Gamma)
}

func TestEmergenceOptions(t *testing.T) {
	e := config.Default().Emergence
	assert.Empty(t, e.Options())
	e.Importance = config.ImportanceEigenvector
	assert.Len(t, e.Options(), 1)
	assert.Equal(t, 0.5, e.Params().Alpha)
}
