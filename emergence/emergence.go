// SPDX-License-Identifier: MIT

// Package emergence assigns every node an emergence probability (the
// likelihood that an outbreak starts there) coupled to a node-importance
// ranking through a Gaussian copula.
//
// Model:
//   - s = |V| values are drawn from Beta(Alpha, Beta): the probability pool.
//   - s pairs are drawn from a standard bivariate normal with correlation Corr.
//   - Nodes are ranked by importance (ascending, stable in node order).
//   - For importance rank i: take the x-value at sorted position i, find its
//     paired y, find that y's rank among all y's, and hand out the pool
//     value at that rank.
//
// Every pool value is used exactly once, so the result is a bijection
// between nodes and pool values; the Spearman correlation between
// importance and probability tends to the rank correlation of the copula.
package emergence

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/sentinel/core"
)

const methodAssign = "Assign"

// Sentinel errors.
var (
	// ErrInvalidParams indicates Alpha/Beta not positive or Corr outside [-1,1].
	ErrInvalidParams = errors.New("emergence: invalid parameters")

	// ErrEmptyGraph indicates a graph without vertices.
	ErrEmptyGraph = errors.New("emergence: graph has no vertices")

	// ErrNeedRandSource indicates a nil RNG.
	ErrNeedRandSource = errors.New("emergence: rng is required")

	// ErrUnknownNode indicates a node missing from an Assignment.
	ErrUnknownNode = errors.New("emergence: node not in assignment")

	// ErrImportance indicates the importance measure failed or returned
	// an incomplete map.
	ErrImportance = errors.New("emergence: importance measure failed")
)

// Params are the copula inputs.
type Params struct {
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	Corr  float64 `json:"corr" yaml:"corr"`
}

func (p Params) validate() error {
	if !(p.Alpha > 0) || !(p.Beta > 0) || math.IsInf(p.Alpha, 0) || math.IsInf(p.Beta, 0) {
		return fmt.Errorf("%s: alpha=%v beta=%v: %w", methodAssign, p.Alpha, p.Beta, ErrInvalidParams)
	}
	if math.IsNaN(p.Corr) || p.Corr < -1 || p.Corr > 1 {
		return fmt.Errorf("%s: corr=%v: %w", methodAssign, p.Corr, ErrInvalidParams)
	}

	return nil
}

// Option configures Assign.
type Option func(*options)

type options struct {
	importance Importance
}

// WithImportance replaces the default degree-centrality ranking.
// Panics on nil.
func WithImportance(fn Importance) Option {
	if fn == nil {
		panic("emergence: WithImportance(nil)")
	}

	return func(o *options) { o.importance = fn }
}

// Assign draws the probability pool and the copula sample from r and
// assigns one pool value to every vertex of g.
//
// RNG draw order: s Beta draws, then s bivariate normal pairs.
// Complexity: O(s log s) plus the importance measure.
func Assign(g *core.Graph, p Params, r *rand.Rand, opts ...Option) (*Assignment, error) {
	o := options{importance: DegreeCentrality}
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%s: %w", methodAssign, ErrNeedRandSource)
	}
	nodes := g.Vertices()
	s := len(nodes)
	if s == 0 {
		return nil, fmt.Errorf("%s: %w", methodAssign, ErrEmptyGraph)
	}

	imp, err := o.importance(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", methodAssign, ErrImportance, err)
	}
	importance := make([]float64, s)
	for i, id := range nodes {
		v, ok := imp[id]
		if !ok {
			return nil, fmt.Errorf("%s: no importance for %q: %w", methodAssign, id, ErrImportance)
		}
		importance[i] = v
	}

	pool := drawPool(p, s, r)
	xs, ys, err := drawPairs(p.Corr, s, r)
	if err != nil {
		return nil, err
	}

	return couple(nodes, importance, pool, xs, ys), nil
}

// couple applies the double rank transform.
func couple(nodes []string, importance, pool, xs, ys []float64) *Assignment {
	s := len(nodes)
	impRank := Ranks(importance)
	xOrder := argsort(xs)
	yRank := Ranks(ys)
	sortedPool := slices.Clone(pool)
	slices.Sort(sortedPool)

	probs := make([]float64, s)
	for j := 0; j < s; j++ {
		probs[j] = sortedPool[yRank[xOrder[impRank[j]]]]
	}

	return newAssignment(nodes, probs)
}

func drawPool(p Params, s int, r *rand.Rand) []float64 {
	b := distuv.Beta{Alpha: p.Alpha, Beta: p.Beta, Src: r}
	pool := make([]float64, s)
	for i := range pool {
		pool[i] = b.Rand()
	}

	return pool
}

// drawPairs samples s pairs from N(0, [[1,c],[c,1]]). The degenerate
// |c| = 1 case has no Cholesky factor and is sampled as y = ±x.
func drawPairs(c float64, s int, r *rand.Rand) (xs, ys []float64, err error) {
	xs = make([]float64, s)
	ys = make([]float64, s)
	if math.Abs(c) == 1 {
		unit := distuv.Normal{Mu: 0, Sigma: 1, Src: r}
		for i := 0; i < s; i++ {
			xs[i] = unit.Rand()
			ys[i] = c * xs[i]
		}

		return xs, ys, nil
	}

	cov := mat.NewSymDense(2, []float64{1, c, c, 1})
	norm, ok := distmv.NewNormal([]float64{0, 0}, cov, r)
	if !ok {
		return nil, nil, fmt.Errorf("%s: covariance for corr=%v is not positive definite: %w", methodAssign, c, ErrInvalidParams)
	}
	pair := make([]float64, 2)
	for i := 0; i < s; i++ {
		norm.Rand(pair)
		xs[i], ys[i] = pair[0], pair[1]
	}

	return xs, ys, nil
}

// Ranks returns the 0-based ascending rank of every element; ties keep
// their input order.
func Ranks(xs []float64) []int {
	order := argsort(xs)
	ranks := make([]int, len(xs))
	for rank, idx := range order {
		ranks[idx] = rank
	}

	return ranks
}

// argsort returns indices that stably sort xs ascending.
func argsort(xs []float64) []int {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case xs[a] < xs[b]:
			return -1
		case xs[a] > xs[b]:
			return 1
		}

		return 0
	})

	return idx
}

// Spearman returns the Spearman rank correlation of a and b (Pearson
// correlation of their stable ranks).
func Spearman(a, b []float64) float64 {
	ra, rb := Ranks(a), Ranks(b)
	fa := make([]float64, len(ra))
	fb := make([]float64, len(rb))
	for i := range ra {
		fa[i], fb[i] = float64(ra[i]), float64(rb[i])
	}

	return stat.Correlation(fa, fb, nil)
}
