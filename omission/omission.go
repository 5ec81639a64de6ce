// SPDX-License-Identifier: MIT

// Package omission derives incomplete versions of a connected network by
// removing a percentage of its edges or nodes while keeping it connected.
//
// Removal picks uniformly among the original edges (or nodes); a pick that
// is already gone or whose removal would disconnect the graph is rejected.
// Every pick counts as a try and tries are bounded: if the target cannot
// be reached the structural limit has been hit and ErrLimitReached is
// returned.
package omission

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/sentinel/bfs"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/metrics"
	"github.com/katalvlaran/sentinel/rng"
)

// Kind selects what is removed.
type Kind string

// Kinds.
const (
	Edges Kind = "edges"
	Nodes Kind = "nodes"
)

// DefaultMaxTries bounds the picks per network.
const DefaultMaxTries = 100000

// Sentinel errors.
var (
	ErrLimitReached      = errors.New("omission: removal target unreachable without disconnecting")
	ErrInvalidPercent    = errors.New("omission: percentage must be within [0, 100]")
	ErrUnknownKind       = errors.New("omission: unknown kind")
	ErrDisconnectedInput = errors.New("omission: input graph is not connected")
	ErrNeedRandSource    = errors.New("omission: random source is nil")
)

type config struct {
	maxTries int
	logger   *slog.Logger
	metrics  *metrics.Registry
}

// Option customizes removal.
type Option func(*config)

// WithMaxTries bounds the picks per network. Panics if n < 1.
func WithMaxTries(n int) Option {
	if n < 1 {
		panic("omission: WithMaxTries requires n >= 1")
	}

	return func(c *config) { c.maxTries = n }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("omission: WithLogger(nil)")
	}

	return func(c *config) { c.logger = l }
}

// WithMetrics counts removal attempts in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *config) { c.metrics = m }
}

func newConfig(opts []Option) config {
	c := config{maxTries: DefaultMaxTries, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Target returns how many items a pct removal of total takes: ⌊total·pct/100⌋.
func Target(total int, pct float64) int {
	return int(math.Floor(float64(total) * pct / 100))
}

// Remove returns a copy of g with pct percent of its kind removed.
func Remove(g *core.Graph, kind Kind, pct float64, r *rand.Rand, opts ...Option) (*core.Graph, error) {
	if pct < 0 || pct > 100 || math.IsNaN(pct) {
		return nil, fmt.Errorf("Remove: %v: %w", pct, ErrInvalidPercent)
	}
	if r == nil {
		return nil, fmt.Errorf("Remove: %w", ErrNeedRandSource)
	}
	if ok, err := bfs.IsConnected(g); err != nil {
		return nil, fmt.Errorf("Remove: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("Remove: %w", ErrDisconnectedInput)
	}
	cfg := newConfig(opts)

	switch kind {
	case Edges:
		return removeEdges(g, pct, r, cfg)
	case Nodes:
		return removeNodes(g, pct, r, cfg)
	default:
		return nil, fmt.Errorf("Remove: %q: %w", kind, ErrUnknownKind)
	}
}

// Instances derives n independent omission networks, each from its own
// stream of r.
func Instances(g *core.Graph, kind Kind, pct float64, n int, r *rand.Rand, opts ...Option) ([]*core.Graph, error) {
	if r == nil {
		return nil, fmt.Errorf("Instances: %w", ErrNeedRandSource)
	}
	out := make([]*core.Graph, 0, n)
	for i := 0; i < n; i++ {
		h, err := Remove(g, kind, pct, rng.Derive(r), opts...)
		if err != nil {
			return nil, fmt.Errorf("Instances: %s %v%% instance %d: %w", kind, pct, i+1, err)
		}
		out = append(out, h)
	}

	return out, nil
}

func removeEdges(g *core.Graph, pct float64, r *rand.Rand, cfg config) (*core.Graph, error) {
	out := g.Clone()
	all := g.Edges()
	target := Target(len(all), pct)

	removed := 0
	for tries := 0; removed < target && tries < cfg.maxTries; tries++ {
		e := all[r.IntN(len(all))]
		if !out.HasEdge(e.From, e.To) {
			continue
		}
		ok, err := bfs.IsConnected(out, bfs.WithFilterNeighbor(func(a, b string) bool {
			return !(a == e.From && b == e.To || a == e.To && b == e.From)
		}))
		if err != nil {
			return nil, err
		}
		cfg.metrics.RecordOmission(string(Edges), ok)
		if !ok {
			continue
		}
		if err = out.RemoveEdge(e.From, e.To); err != nil {
			return nil, err
		}
		removed++
	}
	if removed < target {
		return nil, fmt.Errorf("%s: removed %d of %d: %w", Edges, removed, target, ErrLimitReached)
	}
	cfg.logger.Debug("omission network", "kind", Edges, "pct", pct, "removed", removed,
		"nodes", out.VertexCount(), "edges", out.EdgeCount())

	return out, nil
}

func removeNodes(g *core.Graph, pct float64, r *rand.Rand, cfg config) (*core.Graph, error) {
	out := g.Clone()
	all := g.Vertices()
	target := Target(len(all), pct)

	removed := 0
	for tries := 0; removed < target && tries < cfg.maxTries; tries++ {
		v := all[r.IntN(len(all))]
		if !out.HasVertex(v) {
			continue
		}
		ok, err := connectedWithout(out, v)
		if err != nil {
			return nil, err
		}
		cfg.metrics.RecordOmission(string(Nodes), ok)
		if !ok {
			continue
		}
		if err = out.RemoveVertex(v); err != nil {
			return nil, err
		}
		removed++
	}
	if removed < target {
		return nil, fmt.Errorf("%s: removed %d of %d: %w", Nodes, removed, target, ErrLimitReached)
	}
	cfg.logger.Debug("omission network", "kind", Nodes, "pct", pct, "removed", removed,
		"nodes", out.VertexCount(), "edges", out.EdgeCount())

	return out, nil
}

// connectedWithout reports whether g minus v is connected. Removing the
// last vertex leaves an empty, non-connected graph.
func connectedWithout(g *core.Graph, v string) (bool, error) {
	start := ""
	for _, id := range g.Vertices() {
		if id != v {
			start = id

			break
		}
	}
	if start == "" {
		return false, nil
	}
	res, err := bfs.BFS(g, start, bfs.WithFilterNeighbor(func(_, b string) bool { return b != v }))
	if err != nil {
		return false, err
	}

	return len(res.Order) == g.VertexCount()-1, nil
}
