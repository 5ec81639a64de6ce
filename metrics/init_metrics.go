// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEstimatorMetrics() {
	r.TrialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_trials_total",
			Help: "Total number of Monte Carlo outbreak simulations",
		},
		[]string{"status"},
	)

	r.EstimatesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_estimates_total",
			Help: "Total number of fitness estimates",
		},
	)

	r.EstimateDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_estimate_duration_seconds",
			Help:    "Duration of one trial batch in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
	)

	r.EngineErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_engine_errors_total",
			Help: "Total number of failed engine calls",
		},
	)
}

func (r *Registry) initSelectorMetrics() {
	r.GreedyRoundsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_greedy_rounds_total",
			Help: "Total number of completed greedy rounds",
		},
	)

	r.GreedyRoundGain = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_greedy_round_gain",
			Help: "Mean gain of the set chosen in the last greedy round",
		},
	)

	r.GenerationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_ga_generations_total",
			Help: "Total number of evaluated GA generations",
		},
	)

	r.GABestFitness = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_ga_best_fitness",
			Help: "Best-ever fitness of the running optimizer",
		},
	)

	r.GAStabilityCount = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_ga_stability_count",
			Help: "Generations without change of the best-ever individual",
		},
	)

	r.StrategySelectTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_strategy_selections_total",
			Help: "Total number of sentinel selections per strategy",
		},
		[]string{"strategy", "status"},
	)
}

func (r *Registry) initPipelineMetrics() {
	r.NetworksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_networks_total",
			Help: "Generated networks by outcome",
		},
		[]string{"outcome"},
	)

	r.DatasetRowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_dataset_rows_total",
			Help: "Total number of emitted dataset rows",
		},
	)

	r.OmissionTriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_omission_tries_total",
			Help: "Omission removal attempts by kind and result",
		},
		[]string{"kind", "result"},
	)
}
