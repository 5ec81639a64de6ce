// SPDX-License-Identifier: MIT

// Package dataset produces training rows for downstream sentinel-ranking
// models: one row per node per accepted synthetic network.
//
// For every network the pipeline samples generation parameters from
// Ranges, builds a modular network, keeps its giant component, assigns
// emergence probabilities, ranks every node with the greedy selector under
// a threshold-scaled transmission rate, and finally describes each node
// relative to the nodes ranked before it.
//
// A network attempt is rejected when the generated graph has no edges, the
// giant component is too small, or the probabilities are degenerate. Rejected
// and failed attempts are resampled with fresh draws up to MaxAttempts; a
// network that never yields an accepted attempt is skipped. Engine errors and
// cancellation abort the run.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/detection"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/features"
	"github.com/katalvlaran/sentinel/metrics"
)

// MethodGenerate tags errors returned by Generate.
const MethodGenerate = "dataset.Generate"

// Defaults.
const (
	DefaultNetworks    = 100
	DefaultSimulations = 1000
	DefaultTauFactor   = 3.0
	DefaultGamma       = 1.0
	DefaultMaxAttempts = 20
	DefaultMinNodes    = 20
	DefaultMinEdges    = 25
	DefaultMinProbStat = 0.005
	DefaultParallel    = 4
)

// Sentinel errors.
var (
	// ErrInvalidConfig indicates a non-positive count or an empty range.
	ErrInvalidConfig = errors.New("dataset: invalid config")

	// ErrRejected marks an attempt discarded by a rejection rule.
	ErrRejected = errors.New("dataset: network rejected")

	// ErrNeedRandSource indicates a nil RNG.
	ErrNeedRandSource = errors.New("dataset: rng is required")
)

// IntRange is the half-open integer interval [Min, Max).
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r IntRange) draw(src *rand.Rand) int { return r.Min + src.IntN(r.Max-r.Min) }

// FloatRange is the interval [Min, Max). Min == Max pins the value.
type FloatRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r FloatRange) draw(src *rand.Rand) float64 { return r.Min + src.Float64()*(r.Max-r.Min) }

// Ranges are the sampling intervals of the generation parameters.
type Ranges struct {
	ModuleSize    IntRange   `json:"module_size" yaml:"module_size"`
	ModuleCount   IntRange   `json:"module_count" yaml:"module_count"`
	P             FloatRange `json:"p" yaml:"p"`
	Heterogeneity FloatRange `json:"heterogeneity" yaml:"heterogeneity"`
	MeanDegree    IntRange   `json:"mean_degree" yaml:"mean_degree"`
	Alpha         FloatRange `json:"alpha" yaml:"alpha"`
	Beta          FloatRange `json:"beta" yaml:"beta"`
	Corr          FloatRange `json:"corr" yaml:"corr"`
}

// DefaultRanges returns the standard benchmark intervals.
func DefaultRanges() Ranges {
	return Ranges{
		ModuleSize:    IntRange{15, 30},
		ModuleCount:   IntRange{3, 8},
		P:             FloatRange{0.2, 0.9},
		Heterogeneity: FloatRange{1, 15},
		MeanDegree:    IntRange{3, 8},
		Alpha:         FloatRange{0.05, 2},
		Beta:          FloatRange{2, 10},
		Corr:          FloatRange{-0.9, 0.9},
	}
}

// sample draws one parameter set. Draw order follows the field order.
func (r Ranges) sample(src *rand.Rand) Params {
	return Params{
		ModularParams: builder.ModularParams{
			ModuleSize:    r.ModuleSize.draw(src),
			ModuleCount:   r.ModuleCount.draw(src),
			P:             r.P.draw(src),
			Heterogeneity: r.Heterogeneity.draw(src),
			MeanDegree:    r.MeanDegree.draw(src),
		},
		Params: emergence.Params{
			Alpha: r.Alpha.draw(src),
			Beta:  r.Beta.draw(src),
			Corr:  r.Corr.draw(src),
		},
	}
}

func (r Ranges) validate() error {
	ints := map[string]IntRange{
		"module_size":  r.ModuleSize,
		"module_count": r.ModuleCount,
		"mean_degree":  r.MeanDegree,
	}
	for name, ir := range ints {
		if ir.Min < 1 || ir.Max <= ir.Min {
			return fmt.Errorf("range %s=[%d,%d): %w", name, ir.Min, ir.Max, ErrInvalidConfig)
		}
	}
	floats := map[string]FloatRange{
		"p":             r.P,
		"heterogeneity": r.Heterogeneity,
		"alpha":         r.Alpha,
		"beta":          r.Beta,
		"corr":          r.Corr,
	}
	for name, fr := range floats {
		if math.IsNaN(fr.Min) || math.IsNaN(fr.Max) || fr.Max < fr.Min {
			return fmt.Errorf("range %s=[%v,%v): %w", name, fr.Min, fr.Max, ErrInvalidConfig)
		}
	}

	return nil
}

// Params are the sampled generation parameters of one network.
type Params struct {
	builder.ModularParams
	emergence.Params
}

// Row is one training sample.
type Row struct {
	NetworkID int    `json:"network_id"`
	NodeID    string `json:"node_id"`
	Ranking   int    `json:"ranking"`
	Params
	features.Node
}

// Config controls a dataset run.
type Config struct {
	Networks int `yaml:"networks" validate:"gt=0"`
	// Rounds caps the greedy ranking depth; 0 ranks every node.
	Rounds      int     `yaml:"rounds" validate:"gte=0"`
	Simulations int     `yaml:"simulations" validate:"gt=0"`
	TauFactor   float64 `yaml:"tau_factor" validate:"gt=0"`
	Gamma       float64 `yaml:"gamma" validate:"gt=0"`
	MaxAttempts int     `yaml:"max_attempts" validate:"gt=0"`
	// Parallel bounds the number of networks processed concurrently.
	Parallel    int     `yaml:"parallel" validate:"gt=0"`
	MinNodes    int     `yaml:"min_nodes" validate:"gte=0"`
	MinEdges    int     `yaml:"min_edges" validate:"gte=0"`
	MinProbStat float64 `yaml:"min_prob_stat" validate:"gte=0"`
	// DiscardUnmatched selects lenient stub matching in the generator.
	DiscardUnmatched bool   `yaml:"discard_unmatched"`
	Ranges           Ranges `yaml:"ranges"`
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		Networks:    DefaultNetworks,
		Simulations: DefaultSimulations,
		TauFactor:   DefaultTauFactor,
		Gamma:       DefaultGamma,
		MaxAttempts: DefaultMaxAttempts,
		Parallel:    DefaultParallel,
		MinNodes:    DefaultMinNodes,
		MinEdges:    DefaultMinEdges,
		MinProbStat: DefaultMinProbStat,
		Ranges:      DefaultRanges(),
	}
}

func (c Config) validate() error {
	switch {
	case c.Networks < 1, c.Simulations < 1, c.MaxAttempts < 1, c.Parallel < 1:
		return fmt.Errorf("networks=%d simulations=%d max_attempts=%d parallel=%d: %w",
			c.Networks, c.Simulations, c.MaxAttempts, c.Parallel, ErrInvalidConfig)
	case c.Rounds < 0, c.MinNodes < 0, c.MinEdges < 0:
		return fmt.Errorf("rounds=%d min_nodes=%d min_edges=%d: %w", c.Rounds, c.MinNodes, c.MinEdges, ErrInvalidConfig)
	case !(c.TauFactor > 0), !(c.Gamma > 0), math.IsNaN(c.MinProbStat) || c.MinProbStat < 0:
		return fmt.Errorf("tau_factor=%v gamma=%v min_prob_stat=%v: %w", c.TauFactor, c.Gamma, c.MinProbStat, ErrInvalidConfig)
	}

	return c.Ranges.validate()
}

// Result is the outcome of a run.
type Result struct {
	RunID string `json:"run_id"`
	Rows  []Row  `json:"rows"`
	// Accepted lists the network IDs that produced rows.
	Accepted []int `json:"accepted"`
	// Skipped lists the network IDs that exhausted MaxAttempts.
	Skipped []int `json:"skipped"`
}

type options struct {
	logger    *slog.Logger
	metrics   *metrics.Registry
	tracer    trace.Tracer
	runID     string
	estimator []detection.Option
}

// Option customizes Generate.
type Option func(*options)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("dataset: WithLogger(nil)")
	}

	return func(o *options) { o.logger = l }
}

// WithMetrics reports network outcomes and emitted rows to m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer sets the tracer. Panics on nil.
func WithTracer(t trace.Tracer) Option {
	if t == nil {
		panic("dataset: WithTracer(nil)")
	}

	return func(o *options) { o.tracer = t }
}

// WithRunID fixes the run identifier instead of generating a UUID.
// Panics on an empty id.
func WithRunID(id string) Option {
	if id == "" {
		panic("dataset: WithRunID(\"\")")
	}

	return func(o *options) { o.runID = id }
}

// WithEstimatorOptions passes options to every detection.Estimator the
// run creates.
func WithEstimatorOptions(opts ...detection.Option) Option {
	return func(o *options) { o.estimator = append(o.estimator, opts...) }
}
