// SPDX-License-Identifier: MIT

// Package genetic searches fixed-size sentinel sets with a genetic
// algorithm whose fitness is a fresh Monte Carlo detection-gain estimate.
//
// State machine, one pass per generation:
//
//	Init → Evaluate → CheckConvergence ─┬→ Terminate
//	          ↑                         ↓
//	          └── Mutate ← Recombine ← Select
//
// Elitism carries the best-ever individual into slot 0 of every new
// population. The run stops once the best-ever fitness and individual
// have been unchanged for StabilityLimit generations, or after
// MaxGenerations.
package genetic

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Method names used in error wrapping.
const (
	MethodNew    = "genetic.New"
	MethodRun    = "genetic.Run"
	MethodRepair = "genetic.repair"
)

// Defaults.
const (
	DefaultPopulationSize = 100
	DefaultPCrossover     = 0.8
	DefaultPMutation      = 0.05
	DefaultSimulations    = 1000
	DefaultMaxGenerations = 100
	DefaultStabilityLimit = 30

	// epsilon keeps roulette weights strictly positive.
	epsilon = 1e-6
)

// Sentinel errors.
var (
	// ErrInvalidIndividual indicates a set that cannot hold Size distinct
	// graph nodes.
	ErrInvalidIndividual = errors.New("genetic: invalid individual")

	// ErrInvalidConfig indicates an out-of-range configuration value.
	ErrInvalidConfig = errors.New("genetic: invalid configuration")

	// ErrNeedRandSource indicates a nil random source.
	ErrNeedRandSource = errors.New("genetic: random source is nil")
)

// Individual is a candidate sentinel set. Order carries no meaning.
type Individual []string

// SameSet reports whether a and b hold the same members.
func (a Individual) SameSet(b Individual) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)

	return slices.Equal(x, y)
}

// Validate checks that a has exactly size distinct members of universe.
func (a Individual) Validate(size int, universe map[string]bool) error {
	if len(a) != size {
		return fmt.Errorf("%d members, want %d: %w", len(a), size, ErrInvalidIndividual)
	}
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		if !universe[id] {
			return fmt.Errorf("%q not in graph: %w", id, ErrInvalidIndividual)
		}
		if seen[id] {
			return fmt.Errorf("%q repeated: %w", id, ErrInvalidIndividual)
		}
		seen[id] = true
	}

	return nil
}

// Config parameterizes the optimizer.
type Config struct {
	// Size is l, the number of sentinels per individual.
	Size           int     `yaml:"size" validate:"gt=0"`
	PopulationSize int     `yaml:"population_size" validate:"gt=0"`
	PCrossover     float64 `yaml:"pcrossover" validate:"gte=0,lte=1"`
	PMutation      float64 `yaml:"pmutation" validate:"gte=0,lte=1"`
	Simulations    int     `yaml:"num_simulations" validate:"gt=0"`
	MaxGenerations int     `yaml:"max_generations" validate:"gt=0"`
	StabilityLimit int     `yaml:"stability_limit" validate:"gt=0"`
}

// DefaultConfig returns the default parameters for sets of size l.
func DefaultConfig(l int) Config {
	return Config{
		Size:           l,
		PopulationSize: DefaultPopulationSize,
		PCrossover:     DefaultPCrossover,
		PMutation:      DefaultPMutation,
		Simulations:    DefaultSimulations,
		MaxGenerations: DefaultMaxGenerations,
		StabilityLimit: DefaultStabilityLimit,
	}
}

func (c Config) validate(nodes int) error {
	switch {
	case c.Size <= 0:
		return fmt.Errorf("size %d: %w", c.Size, ErrInvalidConfig)
	case c.Size > nodes:
		return fmt.Errorf("size %d over %d nodes: %w", c.Size, nodes, ErrInvalidIndividual)
	case c.PopulationSize <= 0:
		return fmt.Errorf("population size %d: %w", c.PopulationSize, ErrInvalidConfig)
	case c.PCrossover < 0 || c.PCrossover > 1 || c.PMutation < 0 || c.PMutation > 1:
		return fmt.Errorf("pcrossover %v pmutation %v: %w", c.PCrossover, c.PMutation, ErrInvalidConfig)
	case c.Simulations <= 0:
		return fmt.Errorf("simulations %d: %w", c.Simulations, ErrInvalidConfig)
	case c.MaxGenerations <= 0 || c.StabilityLimit <= 0:
		return fmt.Errorf("max generations %d stability %d: %w", c.MaxGenerations, c.StabilityLimit, ErrInvalidConfig)
	}

	return nil
}

// Fitness is the part of detection.Estimator the optimizer needs.
type Fitness interface {
	Nodes() []string
	EvaluateMany(ctx context.Context, sets [][]string, n int) ([]float64, error)
}

// Result is the outcome of a run.
type Result struct {
	Best    Individual
	Fitness float64
	// Generations is the number of evaluated generations.
	Generations int
	// History is the best-ever fitness after each generation.
	History []float64
	// Converged is true when the stability limit ended the run.
	Converged bool
}

// Observer is called after each generation is evaluated.
type Observer func(generation int, population []Individual, fitness []float64)
