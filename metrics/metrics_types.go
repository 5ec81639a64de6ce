// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors reported by the
// estimator, the selectors, the generator pipeline and the omission
// sampler. Every Record method is a no-op on a nil *Registry, so
// components take an optional registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all sentinel metrics on a private prometheus.Registry.
type Registry struct {
	// Estimator
	TrialsTotal       *prometheus.CounterVec
	EstimatesTotal    prometheus.Counter
	EstimateDuration  prometheus.Histogram
	EngineErrorsTotal prometheus.Counter

	// Selectors
	GreedyRoundsTotal   prometheus.Counter
	GreedyRoundGain     prometheus.Gauge
	GenerationsTotal    prometheus.Counter
	GABestFitness       prometheus.Gauge
	GAStabilityCount    prometheus.Gauge
	StrategySelectTotal *prometheus.CounterVec

	// Pipeline
	NetworksTotal      *prometheus.CounterVec
	DatasetRowsTotal   prometheus.Counter
	OmissionTriesTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initEstimatorMetrics()
	r.initSelectorMetrics()
	r.initPipelineMetrics()

	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
