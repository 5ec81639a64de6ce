// SPDX-License-Identifier: MIT

package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/features"
	"github.com/katalvlaran/sentinel/greedy"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
)

// Generate runs the pipeline for cfg.Networks networks. Network i draws
// from the i-th stream derived from r, so the rows for a fixed seed do not
// depend on cfg.Parallel.
//
// Rows are ordered by network ID, then by the graph's node order.
func Generate(ctx context.Context, engine epidemic.Engine, cfg Config, r *rand.Rand, opts ...Option) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}
	if engine == nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, detection.ErrNilEngine)
	}
	if r == nil {
		return nil, fmt.Errorf("%s: %w", MethodGenerate, ErrNeedRandSource)
	}
	o := options{
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("github.com/katalvlaran/sentinel/dataset"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	ctx, span := o.tracer.Start(ctx, MethodGenerate, trace.WithAttributes(
		attribute.String("run_id", o.runID),
		attribute.Int("networks", cfg.Networks),
	))
	defer span.End()
	logger := o.logger.With("run_id", o.runID)

	streams := make([]*rand.Rand, cfg.Networks)
	for i := range streams {
		streams[i] = rng.Derive(r)
	}

	perNetwork := make([][]Row, cfg.Networks)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Parallel)
	for id := range cfg.Networks {
		eg.Go(func() error {
			rows, err := network(egCtx, engine, cfg, id, streams[id], o, logger)
			if err != nil {
				return err
			}
			perNetwork[id] = rows

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("%s: %w", MethodGenerate, err)
	}

	res := &Result{RunID: o.runID}
	for id, rows := range perNetwork {
		if rows == nil {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		res.Accepted = append(res.Accepted, id)
		res.Rows = append(res.Rows, rows...)
	}
	o.metrics.RecordRows(len(res.Rows))
	logger.Info("dataset generated",
		"rows", len(res.Rows),
		"accepted", len(res.Accepted),
		"skipped", len(res.Skipped))

	return res, nil
}

// network resamples until an attempt is accepted or MaxAttempts is spent.
// A nil slice with a nil error means the network was skipped.
func network(ctx context.Context, engine epidemic.Engine, cfg Config, id int, r *rand.Rand, o options, logger *slog.Logger) ([]Row, error) {
	logger = logger.With("network_id", id)
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := attemptNetwork(ctx, engine, cfg, id, r, o)
		switch {
		case err == nil:
			o.metrics.RecordNetwork(metrics.OutcomeAccepted)
			logger.Debug("network accepted", "attempt", attempt, "rows", len(rows))

			return rows, nil
		case errors.Is(err, ErrRejected):
			o.metrics.RecordNetwork(metrics.OutcomeRejected)
			logger.Debug("network rejected", "attempt", attempt, "reason", err.Error())
		case resampleable(err):
			o.metrics.RecordNetwork(metrics.OutcomeFailed)
			logger.Debug("network generation failed", "attempt", attempt, "error", err.Error())
		default:
			return nil, fmt.Errorf("network %d: %w", id, err)
		}
	}
	logger.Warn("network skipped", "attempts", cfg.MaxAttempts)

	return nil, nil
}

// resampleable reports whether a fresh draw may succeed where err failed.
func resampleable(err error) bool {
	return errors.Is(err, builder.ErrGenerationStalled) ||
		errors.Is(err, builder.ErrStubMatchingExhausted) ||
		errors.Is(err, builder.ErrDisconnectedResult) ||
		errors.Is(err, epidemic.ErrDegenerateThreshold)
}

func attemptNetwork(ctx context.Context, engine epidemic.Engine, cfg Config, id int, r *rand.Rand, o options) ([]Row, error) {
	params := cfg.Ranges.sample(r)

	bopts := []builder.BuilderOption{builder.WithRand(r), builder.WithLogger(o.logger)}
	if cfg.DiscardUnmatched {
		bopts = append(bopts, builder.WithDiscardUnmatched())
	}
	net, err := builder.GenerateModular(params.ModularParams, bopts...)
	if err != nil {
		return nil, err
	}
	if net.Graph.EdgeCount() == 0 {
		return nil, fmt.Errorf("no edges: %w", ErrRejected)
	}
	g, err := bfs.GiantSubgraph(net.Graph)
	if err != nil {
		return nil, err
	}
	if g.VertexCount() < cfg.MinNodes || g.EdgeCount() < cfg.MinEdges {
		return nil, fmt.Errorf("giant component %d nodes %d edges: %w", g.VertexCount(), g.EdgeCount(), ErrRejected)
	}

	a, err := emergence.Assign(g, params.Params, r)
	if err != nil {
		return nil, err
	}
	if mean, std := a.MeanStd(); std < cfg.MinProbStat || mean < cfg.MinProbStat {
		return nil, fmt.Errorf("probability mean=%.4f std=%.4f: %w", mean, std, ErrRejected)
	}

	tau, err := epidemic.ThresholdScaledTau(g, cfg.TauFactor)
	if err != nil {
		return nil, err
	}
	est, err := detection.NewEstimator(g, a, engine, epidemic.Params{Tau: tau, Gamma: cfg.Gamma}, r, o.estimator...)
	if err != nil {
		return nil, err
	}
	rounds := g.VertexCount()
	if cfg.Rounds > 0 {
		rounds = min(rounds, cfg.Rounds)
	}
	ranked, err := greedy.Select(ctx, est, greedy.Config{Rounds: rounds, Simulations: cfg.Simulations},
		greedy.WithLogger(o.logger), greedy.WithMetrics(o.metrics), greedy.WithTracer(o.tracer))
	if err != nil {
		return nil, err
	}

	return describe(g, a, ranked, params, id)
}

// describe emits one row per ranked node, in node order. A node's
// monitoring context is the set of nodes ranked before it.
func describe(g *core.Graph, a *emergence.Assignment, ranked *greedy.Result, params Params, id int) ([]Row, error) {
	x, err := features.NewExtractor(g, a)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(ranked.Order))
	for _, node := range g.Vertices() {
		rank, ok := ranked.Ranks[node]
		if !ok {
			continue
		}
		desc, err := x.Node(node, slices.Clone(ranked.Order[:rank]))
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			NetworkID: id,
			NodeID:    node,
			Ranking:   rank,
			Params:    params,
			Node:      *desc,
		})
	}

	return rows, nil
}
