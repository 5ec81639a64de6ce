// SPDX-License-Identifier: MIT

// Package detection estimates the detection gain of sentinel sets by Monte
// Carlo simulation over an epidemic.Engine.
//
// Each trial draws an outbreak seed with probability proportional to its
// emergence probability, runs the engine once and scores the resulting
// trace with Gain. Estimates are never cached: calling EstimateFitness twice
// with the same set draws fresh trials and generally returns a different
// value.
//
// All random draws are taken sequentially from the Estimator's single
// *rand.Rand before any trial runs. Each trial receives its own stream
// derived from that source, so results for a fixed seed do not depend on
// the worker count or on scheduling.
package detection

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/sentinel/metrics"
)

// Method names used in error wrapping and spans.
const (
	MethodNewEstimator    = "NewEstimator"
	MethodGain            = "Gain"
	MethodDrawTrials      = "DrawTrials"
	MethodRun             = "Run"
	MethodEstimateFitness = "EstimateFitness"
	MethodEvaluateMany    = "EvaluateMany"
	MethodContributions   = "Contributions"
	MethodPerformance     = "Performance"
)

// Sentinel errors.
var (
	ErrNoTrials           = errors.New("detection: number of trials must be positive")
	ErrNilEngine          = errors.New("detection: engine is nil")
	ErrNeedRandSource     = errors.New("detection: random source is nil")
	ErrEmptyGraph         = errors.New("detection: graph has no vertices")
	ErrMissingProbability = errors.New("detection: node has no emergence probability")
	ErrInvalidProbability = errors.New("detection: emergence probability must be finite and non-negative")
	ErrZeroWeight         = errors.New("detection: emergence probabilities sum to zero")
	ErrInvalidTotal       = errors.New("detection: network size must be positive")
)

var defaultTracer = otel.Tracer("github.com/katalvlaran/sentinel/detection")

// Option customizes an Estimator.
type Option func(*Estimator)

// WithWorkers bounds the number of concurrent engine calls. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("detection: WithWorkers requires n >= 1")
	}

	return func(e *Estimator) { e.workers = n }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("detection: WithLogger(nil)")
	}

	return func(e *Estimator) { e.logger = l }
}

// WithMetrics reports trial counts and batch durations to m.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Estimator) { e.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer. Panics on nil.
func WithTracer(t trace.Tracer) Option {
	if t == nil {
		panic("detection: WithTracer(nil)")
	}

	return func(e *Estimator) { e.tracer = t }
}

// Trial is one drawn outbreak: its seed node and the random stream the
// engine consumes. A Trial is meant to be run once.
type Trial struct {
	Seed   string
	stream *rand.Rand
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
