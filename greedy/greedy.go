// SPDX-License-Identifier: MIT

// Package greedy builds a ranked sentinel sequence by incremental
// marginal-gain search.
//
// Each round draws one batch of trials and scores every unselected node as
// best ∪ {node} against that same batch, so candidates are compared on
// identical outbreaks. The highest mean gain wins; ties go to the node that
// comes first in the graph's node order.
//
// Complexity: O(rounds · (simulations·engine + simulations·|V|)).
package greedy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/metrics"
)

// MethodSelect tags errors returned by Select.
const MethodSelect = "greedy.Select"

// ErrInvalidConfig indicates a non-positive round or simulation count.
var ErrInvalidConfig = errors.New("greedy: rounds and simulations must be positive")

// Estimator is the part of detection.Estimator the selector needs.
type Estimator interface {
	Nodes() []string
	Simulate(ctx context.Context, n int) ([]*epidemic.Trace, error)
	Contributions(ctx context.Context, traces []*epidemic.Trace, selected, candidates []string) ([]float64, error)
}

// Config bounds the search.
type Config struct {
	// Rounds is the number of sentinels to rank; capped at |V|.
	Rounds int `yaml:"rounds" validate:"gt=0"`
	// Simulations is the shared trial batch size per round.
	Simulations int `yaml:"simulations" validate:"gt=0"`
}

// Result is the ranked selection.
type Result struct {
	// Ranks maps each selected node to its 0-based selection round.
	Ranks map[string]int
	// Order lists selected nodes by rank.
	Order []string
	// Gains[i] is the mean gain of Order[:i+1] on round i's batch.
	Gains []float64
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Registry
	tracer  trace.Tracer
}

// Option customizes Select.
type Option func(*options)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("greedy: WithLogger(nil)")
	}

	return func(o *options) { o.logger = l }
}

// WithMetrics reports completed rounds to m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer sets the tracer. Panics on nil.
func WithTracer(t trace.Tracer) Option {
	if t == nil {
		panic("greedy: WithTracer(nil)")
	}

	return func(o *options) { o.tracer = t }
}

// Select ranks up to cfg.Rounds sentinels.
func Select(ctx context.Context, est Estimator, cfg Config, opts ...Option) (*Result, error) {
	if cfg.Rounds <= 0 || cfg.Simulations <= 0 {
		return nil, fmt.Errorf("%s: rounds=%d simulations=%d: %w", MethodSelect, cfg.Rounds, cfg.Simulations, ErrInvalidConfig)
	}
	o := options{
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("github.com/katalvlaran/sentinel/greedy"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	available := est.Nodes()
	rounds := min(cfg.Rounds, len(available))
	ctx, span := o.tracer.Start(ctx, MethodSelect, trace.WithAttributes(
		attribute.Int("rounds", rounds),
		attribute.Int("simulations", cfg.Simulations),
	))
	defer span.End()

	res := &Result{Ranks: make(map[string]int, rounds)}
	for round := 0; round < rounds; round++ {
		traces, err := est.Simulate(ctx, cfg.Simulations)
		if err != nil {
			return nil, fail(span, fmt.Errorf("%s: round %d: %w", MethodSelect, round, err))
		}
		gains, err := est.Contributions(ctx, traces, res.Order, available)
		if err != nil {
			return nil, fail(span, fmt.Errorf("%s: round %d: %w", MethodSelect, round, err))
		}

		bestIdx := 0
		for i, g := range gains {
			if g > gains[bestIdx] {
				bestIdx = i
			}
		}
		chosen := available[bestIdx]
		res.Ranks[chosen] = round
		res.Order = append(res.Order, chosen)
		res.Gains = append(res.Gains, gains[bestIdx])
		available = append(available[:bestIdx], available[bestIdx+1:]...)

		o.metrics.RecordGreedyRound(gains[bestIdx])
		o.logger.Info("greedy round", "round", round, "node", chosen, "mean_gain", gains[bestIdx])
	}

	return res, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
