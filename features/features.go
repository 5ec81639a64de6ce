// SPDX-License-Identifier: MIT

// Package features computes the per-node descriptors handed to downstream
// ranking models: global probability and topology statistics, centralities,
// local structure, and monitoring context relative to nodes already chosen
// as sentinels.
//
// An Extractor precomputes everything that does not depend on the node or
// the selected set (all-pairs hop distances included), so Node is cheap
// and safe to call concurrently.
package features

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/netview"
)

// NoSelectionDistance is min_dist_to_selected when no selected node is
// reachable.
const NoSelectionDistance = 10

// Sentinel errors.
var (
	ErrUnknownNode = errors.New("features: node not in graph")
	ErrEmptyGraph  = errors.New("features: graph has no vertices")
)

// Global holds the network-level descriptors shared by every node.
type Global struct {
	ProbMean       Metric `json:"prob_mean"`
	ProbStd        Metric `json:"prob_std"`
	ProbSkewness   Metric `json:"prob_skewness"`
	ProbKurtosis   Metric `json:"prob_kurtosis"`
	NumNodes       int    `json:"num_nodes"`
	Density        Metric `json:"density"`
	AvgClustering  Metric `json:"avg_clustering"`
	AvgDegree      Metric `json:"avg_degree"`
	DegreeVariance Metric `json:"degree_variance"`
	DegreeSkewness Metric `json:"degree_skewness"`
	DegreeKurtosis Metric `json:"degree_kurtosis"`
	AvgPathLength  Metric `json:"avg_path_length"`
}

// Node holds the descriptors of one node.
type Node struct {
	Degree      int    `json:"degree"`
	Probability Metric `json:"probability"`
	Global

	Betweenness          Metric `json:"betweenness_centrality"`
	Eigenvector          Metric `json:"eigenvector_centrality"`
	ProbWeightedDistance Metric `json:"prob_weighted_distance"`

	ClusteringCoeff        Metric `json:"clustering_coeff"`
	LocalDensity           Metric `json:"local_density"`
	AvgNeighborDegree      Metric `json:"avg_neighbor_degree"`
	AvgNeighborProb        Metric `json:"avg_neighbor_prob"`
	StdNeighborProb        Metric `json:"std_neighbor_prob"`
	ProbWeightedDegree     Metric `json:"prob_weighted_degree"`
	ProbWeightedClustering Metric `json:"prob_weighted_clustering"`
	DegreeCentrality       Metric `json:"degree_centrality"`

	Monitoring
}

// Monitoring describes a node relative to the already-selected sentinels.
type Monitoring struct {
	NeighborSelectedRatio Metric `json:"neighbor_selected_ratio"`
	SynergyScore          Metric `json:"synergy_score"`
	RedundancyScore       Metric `json:"redundancy_score"`
	NewCoverageRatio      Metric `json:"new_coverage_ratio"`
	OverlapCoverageRatio  Metric `json:"overlap_coverage_ratio"`
	MinDistToSelected     Metric `json:"min_dist_to_selected"`
}

// Extractor computes descriptors for the nodes of one graph.
type Extractor struct {
	g      *core.Graph
	prob   map[string]float64
	deg    map[string]int
	dist   map[string]map[string]int
	global Global

	betweenness map[string]float64
	eigen       map[string]float64
	eigenErr    error
	closeness   map[string]float64
	clustering  map[string]float64
}

// NewExtractor precomputes the shared descriptors of g under assignment a.
func NewExtractor(g *core.Graph, a *emergence.Assignment) (*Extractor, error) {
	ids := g.Vertices()
	if len(ids) == 0 {
		return nil, fmt.Errorf("NewExtractor: %w", ErrEmptyGraph)
	}
	x := &Extractor{
		g:    g,
		prob: make(map[string]float64, len(ids)),
		deg:  g.Degrees(),
		dist: make(map[string]map[string]int, len(ids)),
	}
	probs := make([]float64, len(ids))
	degs := make([]float64, len(ids))
	for i, id := range ids {
		p, ok := a.Of(id)
		if !ok {
			return nil, fmt.Errorf("NewExtractor: %q: %w", id, emergence.ErrUnknownNode)
		}
		x.prob[id] = p
		probs[i] = p
		degs[i] = float64(x.deg[id])

		d, err := bfs.Distances(g, id)
		if err != nil {
			return nil, fmt.Errorf("NewExtractor: %w", err)
		}
		x.dist[id] = d
	}

	x.clustering = make(map[string]float64, len(ids))
	clust := make([]float64, len(ids))
	for i, id := range ids {
		c := x.localClustering(id)
		x.clustering[id] = c
		clust[i] = c
	}

	view := netview.New(g)
	x.betweenness = view.Betweenness()
	x.eigen, x.eigenErr = view.Eigenvector()
	x.closeness = x.weightedCloseness(ids)

	n := len(ids)
	x.global = Global{
		ProbMean:       OK(stat.Mean(probs, nil)),
		ProbStd:        OK(stat.PopStdDev(probs, nil)),
		ProbSkewness:   popSkew(probs),
		ProbKurtosis:   popExKurtosis(probs),
		NumNodes:       n,
		Density:        OK(density(n, g.EdgeCount())),
		AvgClustering:  OK(stat.Mean(clust, nil)),
		AvgDegree:      OK(stat.Mean(degs, nil)),
		DegreeVariance: OK(stat.PopVariance(degs, nil)),
		DegreeSkewness: popSkew(degs),
		DegreeKurtosis: popExKurtosis(degs),
		AvgPathLength:  x.avgPathLength(),
	}

	return x, nil
}

// Global returns the network-level descriptors.
func (x *Extractor) Global() Global { return x.global }

// Distance returns the hop distance between a and b.
func (x *Extractor) Distance(a, b string) (int, bool) {
	d, ok := x.dist[a][b]

	return d, ok
}

// Node computes the descriptors of id given the sentinels selected before it.
func (x *Extractor) Node(id string, selected []string) (*Node, error) {
	if !x.g.HasVertex(id) {
		return nil, fmt.Errorf("Node: %q: %w", id, ErrUnknownNode)
	}
	nb, err := x.g.NeighborIDs(id)
	if err != nil {
		return nil, fmt.Errorf("Node: %w", err)
	}
	deg := x.deg[id]
	p := x.prob[id]
	clust := x.clustering[id]

	nbDeg := make([]float64, len(nb))
	nbProb := make([]float64, len(nb))
	for i, v := range nb {
		nbDeg[i] = float64(x.deg[v])
		nbProb[i] = x.prob[v]
	}

	out := &Node{
		Degree:      deg,
		Probability: OK(p),
		Global:      x.global,

		Betweenness:          OK(x.betweenness[id]),
		ProbWeightedDistance: OK(x.closeness[id]),

		ClusteringCoeff:        OK(clust),
		LocalDensity:           OK(x.localDensity(id, nb)),
		AvgNeighborDegree:      OK(meanOrZero(nbDeg)),
		AvgNeighborProb:        OK(meanOrZero(nbProb)),
		StdNeighborProb:        OK(popStdOrZero(nbProb)),
		ProbWeightedDegree:     OK(float64(deg) * p),
		ProbWeightedClustering: OK(clust * p),
		DegreeCentrality:       OK(0),

		Monitoring: x.monitoring(id, nb, selected),
	}
	if x.eigenErr != nil {
		out.Eigenvector = Failed(x.eigenErr)
	} else {
		out.Eigenvector = OK(x.eigen[id])
	}
	if n := x.global.NumNodes; n > 1 {
		out.DegreeCentrality = OK(float64(deg) / float64(n-1))
	}

	return out, nil
}

func density(n, m int) float64 {
	if n < 2 {
		return 0
	}

	return 2 * float64(m) / (float64(n) * float64(n-1))
}

// localClustering is the fraction of neighbor pairs that are adjacent.
func (x *Extractor) localClustering(id string) float64 {
	nb, _ := x.g.NeighborIDs(id)
	k := len(nb)
	if k < 2 {
		return 0
	}
	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if x.g.HasEdge(nb[i], nb[j]) {
				links++
			}
		}
	}

	return 2 * float64(links) / float64(k*(k-1))
}

// localDensity is the density of the subgraph induced by id and its
// neighbors; 0 for an isolated node.
func (x *Extractor) localDensity(id string, nb []string) float64 {
	if len(nb) == 0 {
		return 0
	}
	// id is adjacent to all of nb
	links := len(nb)
	for i := 0; i < len(nb); i++ {
		for j := i + 1; j < len(nb); j++ {
			if x.g.HasEdge(nb[i], nb[j]) {
				links++
			}
		}
	}

	return density(len(nb)+1, links)
}

// weightedCloseness is Σ p_t/(d+1) / Σ p_t over reachable t ≠ node.
func (x *Extractor) weightedCloseness(ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		var num, den float64
		for t, d := range x.dist[id] {
			if t == id {
				continue
			}
			w := x.prob[t]
			num += w / float64(d+1)
			den += w
		}
		if den > 0 {
			out[id] = num / den
		}
	}

	return out
}

// avgPathLength is the mean hop distance over ordered pairs of the giant
// component.
func (x *Extractor) avgPathLength() Metric {
	giant, err := bfs.GiantComponent(x.g)
	if err != nil {
		return Failed(err)
	}
	n := len(giant)
	if n < 2 {
		return OK(0)
	}
	sum := 0
	for _, a := range giant {
		for _, d := range x.dist[a] {
			sum += d
		}
	}

	return OK(float64(sum) / float64(n*(n-1)))
}

func (x *Extractor) monitoring(id string, nb, selected []string) Monitoring {
	if len(selected) == 0 {
		return Monitoring{
			NeighborSelectedRatio: OK(0),
			SynergyScore:          OK(0),
			RedundancyScore:       OK(0),
			NewCoverageRatio:      OK(1),
			OverlapCoverageRatio:  OK(0),
			MinDistToSelected:     OK(NoSelectionDistance),
		}
	}

	isNeighbor := make(map[string]bool, len(nb))
	for _, v := range nb {
		isNeighbor[v] = true
	}

	var synergy, redundancy float64
	var nSyn, nRed, nbSelected int
	minDist := -1
	existing := make(map[string]bool)
	for _, s := range selected {
		if isNeighbor[s] {
			nbSelected++
		}
		existing[s] = true
		snb, _ := x.g.NeighborIDs(s)
		for _, v := range snb {
			existing[v] = true
		}

		d, ok := x.dist[id][s]
		if !ok || d == 0 {
			continue
		}
		if d > 2 {
			synergy += 1 / float64(d)
			nSyn++
		} else {
			redundancy += 1 / float64(d)
			nRed++
		}
		if minDist < 0 || d < minDist {
			minDist = d
		}
	}

	coverage := append([]string{id}, nb...)
	overlap := 0
	for _, v := range coverage {
		if existing[v] {
			overlap++
		}
	}

	m := Monitoring{
		NeighborSelectedRatio: OK(0),
		SynergyScore:          OK(0),
		RedundancyScore:       OK(0),
		NewCoverageRatio:      OK(float64(len(coverage)-overlap) / float64(len(coverage))),
		OverlapCoverageRatio:  OK(float64(overlap) / float64(len(coverage))),
		MinDistToSelected:     OK(NoSelectionDistance),
	}
	if len(nb) > 0 {
		m.NeighborSelectedRatio = OK(float64(nbSelected) / float64(len(nb)))
	}
	if nSyn > 0 {
		m.SynergyScore = OK(synergy / float64(nSyn))
	}
	if nRed > 0 {
		m.RedundancyScore = OK(redundancy / float64(nRed))
	}
	if minDist >= 0 {
		m.MinDistToSelected = OK(float64(minDist))
	}

	return m
}
