// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// degree_sequence.go - heterogeneous degree sequence with a fixed degree sum.
//
// Model:
//   • All nodes start at meanDegree, so the sum is n·meanDegree.
//   • One move: pick a donor uniformly among nodes with degree > 1, pick a
//     recipient with probability ∝ current degree by a cumulative scan over
//     the fixed node order, move one unit donor→recipient.
//   • Stop as soon as the population standard deviation reaches the target.
//   • If the final sum is odd, the first highest-degree node loses one unit.
//
// Complexity:
//   • Each move is O(log n): the cumulative scan runs on a Fenwick tree and
//     the donor pool is an indexable set. The sum of squares is kept
//     incrementally so the stopping test is O(1).
//
// Determinism:
//   • Per move exactly one IntN (donor) and one Float64 (recipient) are drawn.

package builder

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// DegreeSequence is the generation-time degree of every node, in the fixed
// node order used by the recipient scan.
type DegreeSequence struct {
	IDs     []string
	Degrees []int
	// Moves is the number of donor→recipient unit moves performed.
	Moves int
	// ParityIndex is the position that lost one unit to make the sum even,
	// or -1 when the sum was already even.
	ParityIndex int
}

// ParityAdjusted reports whether the parity step removed a unit.
func (d DegreeSequence) ParityAdjusted() bool { return d.ParityIndex >= 0 }

// StoppingStdDev returns the standard deviation the heterogeneity loop
// stopped at, i.e. before the parity step.
func (d DegreeSequence) StoppingStdDev() float64 {
	if !d.ParityAdjusted() {
		return d.StdDev()
	}
	raw := DegreeSequence{Degrees: append([]int(nil), d.Degrees...), ParityIndex: -1}
	raw.Degrees[d.ParityIndex]++

	return raw.StdDev()
}

// Sum returns the total degree (number of stubs).
func (d DegreeSequence) Sum() int {
	s := 0
	for _, k := range d.Degrees {
		s += k
	}

	return s
}

// StdDev returns the population standard deviation of the degrees.
func (d DegreeSequence) StdDev() float64 {
	xs := make([]float64, len(d.Degrees))
	for i, k := range d.Degrees {
		xs[i] = float64(k)
	}

	return stat.PopStdDev(xs, nil)
}

// Degree returns the degree of id, or 0 if id is unknown.
func (d DegreeSequence) Degree(id string) int {
	for i, v := range d.IDs {
		if v == id {
			return d.Degrees[i]
		}
	}

	return 0
}

// NewDegreeSequence builds a degree sequence over ids whose population
// standard deviation is at least heterogeneity.
//
// Errors: ErrTooFewVertices (no ids, meanDegree < 1), ErrOptionViolation
// (negative or NaN heterogeneity, maxMoves < 1), ErrNeedRandSource,
// ErrGenerationStalled (no donor left, or maxMoves exceeded).
func NewDegreeSequence(ids []string, meanDegree int, heterogeneity float64, r *rand.Rand, maxMoves int) (DegreeSequence, error) {
	n := len(ids)
	switch {
	case n < 1:
		return DegreeSequence{}, fmt.Errorf("%s: no nodes: %w", MethodDegreeSequence, ErrTooFewVertices)
	case meanDegree < MinMeanDegree:
		return DegreeSequence{}, fmt.Errorf("%s: meanDegree=%d < min=%d: %w", MethodDegreeSequence, meanDegree, MinMeanDegree, ErrTooFewVertices)
	case math.IsNaN(heterogeneity) || heterogeneity < 0:
		return DegreeSequence{}, fmt.Errorf("%s: heterogeneity=%v: %w", MethodDegreeSequence, heterogeneity, ErrOptionViolation)
	case maxMoves < 1:
		return DegreeSequence{}, fmt.Errorf("%s: maxMoves=%d: %w", MethodDegreeSequence, maxMoves, ErrOptionViolation)
	case r == nil:
		return DegreeSequence{}, fmt.Errorf("%s: %w", MethodDegreeSequence, ErrNeedRandSource)
	}

	deg := make([]int, n)
	for i := range deg {
		deg[i] = meanDegree
	}
	total := n * meanDegree
	mean := float64(meanDegree)
	sumSq := int64(n) * int64(meanDegree) * int64(meanDegree)
	std := func() float64 {
		v := float64(sumSq)/float64(n) - mean*mean
		if v < 0 {
			return 0
		}

		return math.Sqrt(v)
	}

	fw := newFenwick(deg)
	donors := newIndexSet(n)
	if meanDegree > 1 {
		for i := 0; i < n; i++ {
			donors.add(i)
		}
	}

	moves := 0
	for std() < heterogeneity {
		if donors.len() == 0 {
			return DegreeSequence{}, fmt.Errorf("%s: no donor with degree > 1 after %d moves (std=%.4f, target=%.4f): %w",
				MethodDegreeSequence, moves, std(), heterogeneity, ErrGenerationStalled)
		}
		if moves >= maxMoves {
			return DegreeSequence{}, fmt.Errorf("%s: move budget %d exhausted (std=%.4f, target=%.4f): %w",
				MethodDegreeSequence, maxMoves, std(), heterogeneity, ErrGenerationStalled)
		}
		d := donors.at(r.IntN(donors.len()))
		t := fw.search(r.Float64() * float64(total))
		moves++
		if d == t {
			continue
		}

		sumSq += int64(2*(deg[t]-deg[d]) + 2)
		deg[d]--
		deg[t]++
		fw.add(d, -1)
		fw.add(t, 1)
		if deg[d] <= 1 {
			donors.remove(d)
		}
		if deg[t] > 1 {
			donors.add(t)
		}
	}

	seq := DegreeSequence{IDs: append([]string(nil), ids...), Degrees: deg, Moves: moves, ParityIndex: -1}
	if total%2 != 0 {
		maxAt := 0
		for i := 1; i < n; i++ {
			if deg[i] > deg[maxAt] {
				maxAt = i
			}
		}
		deg[maxAt]--
		seq.ParityIndex = maxAt
	}

	return seq, nil
}

// fenwick is a binary indexed tree over non-negative integer weights.
type fenwick struct {
	tree []int
	top  int
}

func newFenwick(vals []int) *fenwick {
	n := len(vals)
	f := &fenwick{tree: make([]int, n+1)}
	if n > 0 {
		f.top = 1 << (bits.Len(uint(n)) - 1)
	}
	for i, v := range vals {
		f.tree[i+1] += v
		if j := (i + 1) + ((i + 1) & -(i + 1)); j <= n {
			f.tree[j] += f.tree[i+1]
		}
	}

	return f
}

func (f *fenwick) add(i, delta int) {
	for j := i + 1; j < len(f.tree); j += j & -j {
		f.tree[j] += delta
	}
}

// search returns the 0-based index of the first element whose cumulative
// weight is >= x (the first node reached by sliding up to x).
func (f *fenwick) search(x float64) int {
	n := len(f.tree) - 1
	pos, acc := 0, 0
	for step := f.top; step > 0; step >>= 1 {
		next := pos + step
		if next <= n && float64(acc+f.tree[next]) < x {
			pos = next
			acc += f.tree[next]
		}
	}
	if pos >= n {
		return n - 1
	}

	return pos
}

// indexSet is a set of small ints with O(1) add, remove and uniform access.
type indexSet struct {
	items []int
	pos   []int
}

func newIndexSet(n int) *indexSet {
	s := &indexSet{items: make([]int, 0, n), pos: make([]int, n)}
	for i := range s.pos {
		s.pos[i] = -1
	}

	return s
}

func (s *indexSet) len() int     { return len(s.items) }
func (s *indexSet) at(k int) int { return s.items[k] }

func (s *indexSet) add(i int) {
	if s.pos[i] >= 0 {
		return
	}
	s.pos[i] = len(s.items)
	s.items = append(s.items, i)
}

func (s *indexSet) remove(i int) {
	k := s.pos[i]
	if k < 0 {
		return
	}
	last := s.items[len(s.items)-1]
	s.items[k] = last
	s.pos[last] = k
	s.items = s.items[:len(s.items)-1]
	s.pos[i] = -1
}
