// SPDX-License-Identifier: MIT

// Package sentinel selects sentinel nodes for early outbreak detection on
// synthetic modular networks.
//
// What is it?
//
//	A library and CLI that benchmarks surveillance placement:
//		• Generation: modular configuration-model networks with an exact
//		  degree-heterogeneity target (builder)
//		• Emergence: per-node outbreak-start probabilities coupled to node
//		  importance through a Gaussian copula (emergence)
//		• Estimation: Monte Carlo detection gain over an external epidemic
//		  engine (epidemic, detection)
//		• Selection: greedy ranking, a genetic optimizer and heuristic
//		  baselines (greedy, genetic, strategy)
//		• Robustness: scoring on networks with omitted edges or nodes (omission)
//		• Datasets: one descriptor row per node for ranking models
//		  (features, dataset)
//
// Layout:
//
//	core/         simple undirected Graph with deterministic node order
//	bfs/          traversal, components, giant component, hop distances
//	rng/          the single explicit random source and its derived streams
//	netview/      gonum view for betweenness, eigenvector, Louvain
//	builder/      modular network generator and fixed topologies
//	emergence/    probability assignment
//	epidemic/     engine contract, trace model, command adapter
//	detection/    gain and performance estimation
//	greedy/       incremental marginal-gain ranking
//	genetic/      set search by roulette selection, crossover, mutation
//	strategy/     Strategy interface, baselines and comparisons
//	omission/     incomplete network generation
//	features/     per-node descriptors
//	dataset/      training-row pipeline
//	config/       YAML configuration
//	metrics/      Prometheus registry
//	cmd/sentinel  CLI
//
// Data flow:
//
//	builder ─▶ emergence ─▶ greedy | genetic ─▶ detection ─▶ epidemic.Engine
//
//	go install github.com/katalvlaran/sentinel/cmd/sentinel@latest
package sentinel
