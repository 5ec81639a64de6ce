// SPDX-License-Identifier: MIT
// Package: sentinel/builder
//
// stubs.go - configuration-model stub pairing over a bounded FIFO.
//
// Contract:
//   • The pool is shuffled once with the supplied RNG.
//   • Pop a source, then pop targets: a target that would form a self-loop
//     or an existing edge is requeued at the back; the first valid target
//     commits an edge.
//   • Matching stops when fewer than 2 stubs remain; leftovers are discarded.
//   • Requeues are capped at poolSize² per pool; exceeding the cap is
//     ErrStubMatchingExhausted. With discardUnmatched, a source that has been
//     tried against every remaining stub is dropped instead.
//
// Complexity: O(poolSize + requeues) queue operations, O(1) each.

package builder

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/sentinel/core"
)

// MatchStats counts the outcome of one or more MatchStubs calls.
type MatchStats struct {
	Edges     int
	Requeues  int
	Discarded int
}

func (m *MatchStats) merge(o MatchStats) {
	m.Edges += o.Edges
	m.Requeues += o.Requeues
	m.Discarded += o.Discarded
}

// stubQueue is a fixed-capacity ring buffer. Requeued stubs were popped
// first, so the queue never grows past its initial size.
type stubQueue struct {
	buf  []string
	head int
	size int
}

func newStubQueue(stubs []string) *stubQueue {
	buf := make([]string, len(stubs))
	copy(buf, stubs)

	return &stubQueue{buf: buf, size: len(stubs)}
}

func (q *stubQueue) len() int { return q.size }

func (q *stubQueue) pop() string {
	s := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	return s
}

func (q *stubQueue) push(s string) {
	q.buf[(q.head+q.size)%len(q.buf)] = s
	q.size++
}

// MatchStubs pairs the stub pool into edges of g. stubs holds one entry per
// edge endpoint (a node ID repeated degree times). The slice is not modified.
func MatchStubs(g *core.Graph, stubs []string, r *rand.Rand, discardUnmatched bool) (MatchStats, error) {
	var st MatchStats
	if r == nil {
		return st, fmt.Errorf("%s: %w", MethodMatchStubs, ErrNeedRandSource)
	}
	pool := len(stubs)
	if pool < 2 {
		st.Discarded = pool

		return st, nil
	}

	shuffled := append([]string(nil), stubs...)
	r.Shuffle(pool, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	q := newStubQueue(shuffled)
	limit := pool * pool

	for q.len() >= 2 {
		src := q.pop()
		tried := 0
		for {
			tgt := q.pop()
			if tgt != src && !g.HasEdge(src, tgt) {
				if _, err := g.AddEdge(src, tgt); err != nil {
					return st, fmt.Errorf("%s: AddEdge(%s, %s): %w", MethodMatchStubs, src, tgt, err)
				}
				st.Edges++

				break
			}
			q.push(tgt)
			st.Requeues++
			tried++
			if st.Requeues > limit {
				return st, fmt.Errorf("%s: %d requeues over a pool of %d stubs (%d left): %w",
					MethodMatchStubs, st.Requeues, pool, q.len()+1, ErrStubMatchingExhausted)
			}
			if discardUnmatched && tried >= q.len() {
				st.Discarded++

				break
			}
		}
	}
	st.Discarded += q.len()

	return st, nil
}
