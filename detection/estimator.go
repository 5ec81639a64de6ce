// SPDX-License-Identifier: MIT

package detection

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
)

// Estimator runs Monte Carlo trials of one engine on one graph with one
// emergence-probability assignment. It is safe for concurrent use; random
// draws are serialized.
type Estimator struct {
	g      *core.Graph
	nodes  []string
	engine epidemic.Engine
	params epidemic.Params

	mu    sync.Mutex
	rng   *rand.Rand
	seeds distuv.Categorical

	workers int
	logger  *slog.Logger
	metrics *metrics.Registry
	tracer  trace.Tracer
}

// NewEstimator validates its inputs and returns an Estimator. Every vertex
// of g must have a finite non-negative probability in a, with a positive
// total.
func NewEstimator(g *core.Graph, a *emergence.Assignment, engine epidemic.Engine, p epidemic.Params, r *rand.Rand, opts ...Option) (*Estimator, error) {
	if engine == nil {
		return nil, fmt.Errorf("%s: %w", MethodNewEstimator, ErrNilEngine)
	}
	if r == nil {
		return nil, fmt.Errorf("%s: %w", MethodNewEstimator, ErrNeedRandSource)
	}
	if g == nil || g.VertexCount() == 0 {
		return nil, fmt.Errorf("%s: %w", MethodNewEstimator, ErrEmptyGraph)
	}
	if a == nil {
		return nil, fmt.Errorf("%s: nil assignment: %w", MethodNewEstimator, ErrMissingProbability)
	}

	nodes := g.Vertices()
	weights := make([]float64, len(nodes))
	total := 0.0
	for i, id := range nodes {
		w, ok := a.Of(id)
		if !ok {
			return nil, fmt.Errorf("%s: %q: %w", MethodNewEstimator, id, ErrMissingProbability)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%s: %q=%v: %w", MethodNewEstimator, id, w, ErrInvalidProbability)
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("%s: %w", MethodNewEstimator, ErrZeroWeight)
	}

	e := &Estimator{
		g:       g,
		nodes:   nodes,
		engine:  engine,
		params:  p,
		rng:     r,
		seeds:   distuv.NewCategorical(weights, r),
		workers: defaultWorkers(),
		logger:  slog.New(slog.DiscardHandler),
		tracer:  defaultTracer,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Graph returns the graph trials run on.
func (e *Estimator) Graph() *core.Graph { return e.g }

// Nodes returns the fixed node ordering (a copy).
func (e *Estimator) Nodes() []string { return append([]string(nil), e.nodes...) }

// Params returns the engine rates.
func (e *Estimator) Params() epidemic.Params { return e.params }

// DrawTrials draws n outbreak seeds and per-trial random streams.
func (e *Estimator) DrawTrials(n int) ([]Trial, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%s: n=%d: %w", MethodDrawTrials, n, ErrNoTrials)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	trials := make([]Trial, n)
	for i := range trials {
		idx := int(e.seeds.Rand())
		trials[i] = Trial{Seed: e.nodes[idx], stream: rng.Derive(e.rng)}
	}

	return trials, nil
}

// Run executes trials in parallel and returns their traces in trial order.
// The first failing trial cancels the rest and its error is returned.
func (e *Estimator) Run(ctx context.Context, trials []Trial) ([]*epidemic.Trace, error) {
	traces := make([]*epidemic.Trace, len(trials))
	err := e.run(ctx, MethodRun, trials, func(i int, tr *epidemic.Trace) error {
		traces[i] = tr

		return nil
	})
	if err != nil {
		return nil, err
	}

	return traces, nil
}

// Simulate draws and runs n trials.
func (e *Estimator) Simulate(ctx context.Context, n int) ([]*epidemic.Trace, error) {
	trials, err := e.DrawTrials(n)
	if err != nil {
		return nil, err
	}

	return e.Run(ctx, trials)
}

// EstimateFitness is the mean Gain of sentinels over n fresh trials.
func (e *Estimator) EstimateFitness(ctx context.Context, sentinels []string, n int) (float64, error) {
	trials, err := e.DrawTrials(n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", MethodEstimateFitness, err)
	}
	gains := make([]int, n)
	err = e.run(ctx, MethodEstimateFitness, trials, func(i int, tr *epidemic.Trace) error {
		g, err := Gain(tr, sentinels)
		gains[i] = g

		return err
	})
	if err != nil {
		return 0, err
	}
	e.metrics.RecordEstimate()

	return mean(gains), nil
}

// EvaluateMany estimates every set with its own n fresh trials. All trials
// are drawn before any of them runs.
func (e *Estimator) EvaluateMany(ctx context.Context, sets [][]string, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%s: n=%d: %w", MethodEvaluateMany, n, ErrNoTrials)
	}
	if len(sets) == 0 {
		return nil, nil
	}
	trials, err := e.DrawTrials(len(sets) * n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodEvaluateMany, err)
	}
	gains := make([]int, len(trials))
	err = e.run(ctx, MethodEvaluateMany, trials, func(i int, tr *epidemic.Trace) error {
		g, err := Gain(tr, sets[i/n])
		gains[i] = g

		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(sets))
	for s := range sets {
		out[s] = mean(gains[s*n : (s+1)*n])
		e.metrics.RecordEstimate()
	}

	return out, nil
}

// Contributions scores every candidate c as the set selected ∪ {c} against
// one shared batch of traces and returns the mean gains in candidate order.
func (e *Estimator) Contributions(ctx context.Context, traces []*epidemic.Trace, selected, candidates []string) ([]float64, error) {
	if len(traces) == 0 {
		return nil, fmt.Errorf("%s: %w", MethodContributions, ErrNoTrials)
	}
	base := make([]int, len(traces))
	for t, tr := range traces {
		g, err := Gain(tr, selected)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", MethodContributions, err)
		}
		base[t] = g
	}

	out := make([]float64, len(candidates))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for c, id := range candidates {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum := 0
			for t, tr := range traces {
				g, err := NodeGain(tr, id)
				if err != nil {
					return fmt.Errorf("%s: %w", MethodContributions, err)
				}
				sum += max(g, base[t])
			}
			out[c] = float64(sum) / float64(len(traces))

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// run fans trials out over the worker pool and hands each trace to visit.
// visit may be called concurrently for different indices.
func (e *Estimator) run(ctx context.Context, method string, trials []Trial, visit func(i int, tr *epidemic.Trace) error) error {
	ctx, span := e.tracer.Start(ctx, "detection."+method, trace.WithAttributes(
		attribute.Int("trials", len(trials)),
		attribute.Int("workers", e.workers),
	))
	defer span.End()

	start := time.Now()
	var ok, failed atomic.Int64
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, t := range trials {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr, err := e.engine.Simulate(gctx, e.g, e.params, t.Seed, t.stream)
			if err == nil && tr == nil {
				err = fmt.Errorf("nil trace: %w", epidemic.ErrMalformedTrace)
			}
			if err == nil {
				err = tr.Validate()
			}
			if err != nil {
				failed.Add(1)

				return fmt.Errorf("%s: trial %d seed %q: %w", method, i, t.Seed, err)
			}
			ok.Add(1)

			return visit(i, tr)
		})
	}
	err := eg.Wait()

	elapsed := time.Since(start)
	e.metrics.RecordTrials(int(ok.Load()), int(failed.Load()), elapsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Warn("trial batch failed", "method", method, "trials", len(trials), "error", err)

		return err
	}
	e.logger.Debug("trial batch done", "method", method, "trials", len(trials), "elapsed", elapsed)

	return nil
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}

	return float64(sum) / float64(len(xs))
}
