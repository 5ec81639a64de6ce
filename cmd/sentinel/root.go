// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/config"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/epidemic/epidemictest"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
)

// app carries the flags and the per-run state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	seed        int64
	logLevel    string
	logFormat   string
	engineCmd   string
	dumpMetrics bool

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
	runID   string
	rand    *rand.Rand
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "sentinel",
		Short: "Sentinel selection for early outbreak detection on modular networks",
		Long: `sentinel generates modular configuration-model networks, assigns
emergence probabilities and selects sentinel nodes that detect simulated
outbreaks early (greedy ranking, genetic optimization, heuristic baselines).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if !a.dumpMetrics {
				return nil
			}

			return a.metrics.WriteText(a.stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.Int64Var(&a.seed, "seed", 0, "random seed (overrides run.seed)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	pf.StringVar(&a.logFormat, "log-format", "", "text or json (overrides log.format)")
	pf.StringVar(&a.engineCmd, "engine", "", "epidemic engine command line (overrides epidemic.command)")
	pf.BoolVar(&a.dumpMetrics, "metrics", false, "write Prometheus metrics to stderr on exit")

	root.AddCommand(
		a.generateCmd(),
		a.assignCmd(),
		a.greedyCmd(),
		a.gaCmd(),
		a.compareCmd(),
		a.datasetCmd(),
	)

	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger, the metrics registry and the run's random source.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Run.Seed = a.seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("engine") {
		cfg.Epidemic.Command = strings.Fields(a.engineCmd)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger, err = newLogger(a.stderr, cfg.Log)
	if err != nil {
		return err
	}
	a.logger = a.logger.With("run_id", a.runID)
	a.metrics = metrics.NewRegistry()
	a.rand = rng.New(cfg.Run.Seed)
	a.logger.Debug("configuration loaded", "config", a.configPath, "seed", cfg.Run.Seed)

	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// engine returns the configured external engine, or the built-in
// discrete-time SIR when no command is set.
func (a *app) engine() epidemic.Engine {
	if c := a.cfg.Epidemic.Command; len(c) > 0 {
		return epidemic.NewCommandEngine(c[0], c[1:]...)
	}
	a.logger.Info("no engine command configured, using built-in discrete-time SIR")

	return epidemictest.SIR{MaxSteps: a.cfg.Epidemic.MaxSteps}
}

func (a *app) estimatorOptions() []detection.Option {
	opts := []detection.Option{detection.WithLogger(a.logger), detection.WithMetrics(a.metrics)}
	if a.cfg.Run.Workers > 0 {
		opts = append(opts, detection.WithWorkers(a.cfg.Run.Workers))
	}

	return opts
}

// network loads the Snapshot at path, or generates a network from the
// generator section when path is empty.
func (a *app) network(path string) (*core.Graph, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var s core.Snapshot
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return core.FromSnapshot(s)
	}
	net, err := a.generate()
	if err != nil {
		return nil, err
	}

	return net.Graph, nil
}

func (a *app) generate() (*builder.Network, error) {
	opts := append(a.cfg.Generator.Options(), builder.WithRand(a.rand), builder.WithLogger(a.logger))

	return builder.GenerateModular(a.cfg.Generator.Params(), opts...)
}

// giant returns the giant component of the input network, the graph every
// selector works on.
func (a *app) giant(path string) (*core.Graph, error) {
	g, err := a.network(path)
	if err != nil {
		return nil, err
	}
	giant, err := bfs.GiantSubgraph(g)
	if err != nil {
		return nil, err
	}
	if n := g.VertexCount() - giant.VertexCount(); n > 0 {
		a.logger.Info("dropped nodes outside the giant component", "dropped", n, "kept", giant.VertexCount())
	}

	return giant, nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
