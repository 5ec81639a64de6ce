// SPDX-License-Identifier: MIT

package genetic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/sentinel/metrics"
)

// Option customizes an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("genetic: WithLogger(nil)")
	}

	return func(o *Optimizer) { o.logger = l }
}

// WithMetrics reports generations to m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *Optimizer) { o.metrics = m }
}

// WithTracer sets the tracer. Panics on nil.
func WithTracer(t trace.Tracer) Option {
	if t == nil {
		panic("genetic: WithTracer(nil)")
	}

	return func(o *Optimizer) { o.tracer = t }
}

// WithObserver registers fn to run after every evaluated generation.
func WithObserver(fn Observer) Option {
	if fn == nil {
		panic("genetic: WithObserver(nil)")
	}

	return func(o *Optimizer) { o.observer = fn }
}

// Optimizer runs the genetic search. Not safe for concurrent Run calls.
type Optimizer struct {
	fit   Fitness
	cfg   Config
	rng   *rand.Rand
	nodes []string

	logger   *slog.Logger
	metrics  *metrics.Registry
	tracer   trace.Tracer
	observer Observer
}

// state is the optimizer's memory between generations.
type state struct {
	best       Individual
	bestFit    float64
	stability  int
	generation int

	// last best-ever pair seen by the convergence check
	lastBest Individual
	lastFit  float64
}

// New validates cfg against the node universe of fit. r must be the run's
// single random source; the optimizer draws from it only between
// evaluations.
func New(fit Fitness, cfg Config, r *rand.Rand, opts ...Option) (*Optimizer, error) {
	if r == nil {
		return nil, fmt.Errorf("%s: %w", MethodNew, ErrNeedRandSource)
	}
	nodes := fit.Nodes()
	if err := cfg.validate(len(nodes)); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodNew, err)
	}
	o := &Optimizer{
		fit:    fit,
		cfg:    cfg,
		rng:    r,
		nodes:  nodes,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("github.com/katalvlaran/sentinel/genetic"),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Run executes the search until convergence or MaxGenerations.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, MethodRun, trace.WithAttributes(
		attribute.Int("size", o.cfg.Size),
		attribute.Int("population_size", o.cfg.PopulationSize),
		attribute.Int("simulations", o.cfg.Simulations),
	))
	defer span.End()

	st := &state{bestFit: math.Inf(-1), lastFit: math.Inf(-1)}
	res := &Result{}

	pop := o.initialize()
	for st.generation = 0; st.generation < o.cfg.MaxGenerations; st.generation++ {
		fitness, err := o.evaluate(ctx, pop)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, fmt.Errorf("%s: generation %d: %w", MethodRun, st.generation, err)
		}
		if o.observer != nil {
			o.observer(st.generation, pop, fitness)
		}

		top := argmax(fitness)
		if fitness[top] > st.bestFit {
			st.bestFit = fitness[top]
			st.best = slices.Clone(pop[top])
			o.logger.Info("new best", "generation", st.generation, "best_fitness", st.bestFit, "individual", st.best)
		}
		res.History = append(res.History, st.bestFit)
		converged := o.checkConvergence(st)
		o.metrics.RecordGeneration(st.bestFit, st.stability)
		o.logger.Debug("generation", "generation", st.generation, "generation_best", fitness[top],
			"best_fitness", st.bestFit, "stability", st.stability)

		if converged {
			res.Converged = true
			st.generation++

			break
		}

		pop, err = o.breed(pop, fitness, st)
		if err != nil {
			return nil, fmt.Errorf("%s: generation %d: %w", MethodRun, st.generation, err)
		}
	}

	res.Best = st.best
	res.Fitness = st.bestFit
	res.Generations = st.generation
	span.SetAttributes(attribute.Int("generations", res.Generations), attribute.Float64("best_fitness", res.Fitness))

	return res, nil
}

func (o *Optimizer) initialize() []Individual {
	pop := make([]Individual, o.cfg.PopulationSize)
	for i := range pop {
		pop[i] = sample(o.nodes, o.cfg.Size, o.rng)
	}

	return pop
}

// evaluate draws fresh trials for every individual.
func (o *Optimizer) evaluate(ctx context.Context, pop []Individual) ([]float64, error) {
	sets := make([][]string, len(pop))
	for i, ind := range pop {
		sets[i] = ind
	}

	return o.fit.EvaluateMany(ctx, sets, o.cfg.Simulations)
}

// checkConvergence counts generations in which neither the best-ever
// fitness nor the best-ever set changed.
func (o *Optimizer) checkConvergence(st *state) bool {
	if st.bestFit == st.lastFit && st.lastBest != nil && st.best.SameSet(st.lastBest) {
		st.stability++
	} else {
		st.stability = 0
		st.lastFit = st.bestFit
		st.lastBest = slices.Clone(st.best)
	}

	return st.stability >= o.cfg.StabilityLimit
}

// breed runs Select → Recombine → Mutate and reinstates the elite.
func (o *Optimizer) breed(pop []Individual, fitness []float64, st *state) ([]Individual, error) {
	elite := slices.Clone(pop)
	weights := slices.Clone(fitness)
	elite[0] = slices.Clone(st.best)
	weights[0] = st.bestFit

	selected := selectRoulette(elite, weights, o.cfg.PopulationSize, o.rng)
	o.rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })

	next := make([]Individual, 0, len(selected)+1)
	for i := 0; i < len(selected); i += 2 {
		p1 := selected[i]
		p2 := selected[0]
		if i+1 < len(selected) {
			p2 = selected[i+1]
		}
		c1, c2 := slices.Clone(p1), slices.Clone(p2)
		if o.rng.Float64() < o.cfg.PCrossover {
			var err error
			if c1, c2, err = crossover(p1, p2, o.nodes, o.rng); err != nil {
				return nil, err
			}
		}
		next = append(next,
			mutate(c1, o.nodes, o.cfg.PMutation, o.rng),
			mutate(c2, o.nodes, o.cfg.PMutation, o.rng))
	}
	next = next[:o.cfg.PopulationSize]
	next[0] = slices.Clone(st.best)

	return next, nil
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}

	return best
}
