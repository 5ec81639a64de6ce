// SPDX-License-Identifier: MIT

package emergence

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/sentinel/core"
)

// Assignment maps every node to its emergence probability. Nodes and
// Probabilities are aligned and follow the graph's node order.
type Assignment struct {
	Nodes         []string  `json:"nodes"`
	Probabilities []float64 `json:"probabilities"`

	index map[string]int
}

func newAssignment(nodes []string, probs []float64) *Assignment {
	a := &Assignment{Nodes: nodes, Probabilities: probs, index: make(map[string]int, len(nodes))}
	for i, id := range nodes {
		a.index[id] = i
	}

	return a
}

// FromMap builds an Assignment over nodes (in that order) from a lookup.
func FromMap(nodes []string, probs map[string]float64) (*Assignment, error) {
	out := make([]float64, len(nodes))
	for i, id := range nodes {
		v, ok := probs[id]
		if !ok {
			return nil, fmt.Errorf("FromMap: %q: %w", id, ErrUnknownNode)
		}
		out[i] = v
	}

	return newAssignment(slices.Clone(nodes), out), nil
}

// Len returns the number of assigned nodes.
func (a *Assignment) Len() int { return len(a.Nodes) }

// Of returns the probability of id. An Assignment decoded from JSON has
// no index and falls back to a linear scan.
func (a *Assignment) Of(id string) (float64, bool) {
	i, ok := a.index[id]
	if a.index == nil {
		i = slices.Index(a.Nodes, id)
		ok = i >= 0 && i < len(a.Probabilities)
	}
	if !ok {
		return 0, false
	}

	return a.Probabilities[i], true
}

// Map returns the assignment as a map.
func (a *Assignment) Map() map[string]float64 {
	out := make(map[string]float64, len(a.Nodes))
	for i, id := range a.Nodes {
		out[id] = a.Probabilities[i]
	}

	return out
}

// Restrict projects a onto the vertices of g (e.g. an omission network),
// in g's node order. Every vertex of g must be assigned.
func (a *Assignment) Restrict(g *core.Graph) (*Assignment, error) {
	nodes := g.Vertices()
	probs := make([]float64, len(nodes))
	for i, id := range nodes {
		p, ok := a.Of(id)
		if !ok {
			return nil, fmt.Errorf("Restrict: %q: %w", id, ErrUnknownNode)
		}
		probs[i] = p
	}

	return newAssignment(nodes, probs), nil
}

// MeanStd returns the population mean and standard deviation of the
// assigned probabilities.
func (a *Assignment) MeanStd() (mean, std float64) {
	return stat.PopMeanStdDev(a.Probabilities, nil)
}
