// SPDX-License-Identifier: MIT

package epidemic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os/exec"
	"strings"

	"github.com/katalvlaran/sentinel/core"
)

// Request is the JSON document a CommandEngine writes to the engine's stdin.
type Request struct {
	Nodes    []string    `json:"nodes"`
	Edges    [][2]string `json:"edges"`
	Tau      float64     `json:"tau"`
	Gamma    float64     `json:"gamma"`
	SeedNode string      `json:"seed_node"`
	RNGSeed  uint64      `json:"rng_seed"`
}

// CommandEngine runs an external engine program once per simulation. The
// program reads a Request from stdin and writes a Trace as JSON to stdout.
// A non-zero exit status, an undecodable reply or an invalid trace is an
// ErrEngine.
type CommandEngine struct {
	Path string
	Args []string
	// Env, if non-nil, replaces the child environment.
	Env []string
}

// NewCommandEngine returns an engine running path with args.
func NewCommandEngine(path string, args ...string) *CommandEngine {
	return &CommandEngine{Path: path, Args: args}
}

// Simulate implements Engine. The engine's own RNG is seeded with one
// Uint64 drawn from r.
func (e *CommandEngine) Simulate(ctx context.Context, g *core.Graph, p Params, seed string, r *rand.Rand) (*Trace, error) {
	snap := g.Export()
	req := Request{
		Nodes:    make([]string, len(snap.Nodes)),
		Edges:    snap.Edges,
		Tau:      p.Tau,
		Gamma:    p.Gamma,
		SeedNode: seed,
		RNGSeed:  r.Uint64(),
	}
	for i, n := range snap.Nodes {
		req.Nodes[i] = n.ID
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("CommandEngine: encode request: %w: %w", ErrEngine, err)
	}

	cmd := exec.CommandContext(ctx, e.Path, e.Args...)
	if e.Env != nil {
		cmd.Env = e.Env
	}
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("CommandEngine: %w", ctx.Err())
		}

		return nil, fmt.Errorf("CommandEngine: %s: %w: %w (%s)", e.Path, ErrEngine, err, strings.TrimSpace(stderr.String()))
	}

	var tr Trace
	if err = json.Unmarshal(stdout.Bytes(), &tr); err != nil {
		return nil, fmt.Errorf("CommandEngine: decode trace: %w: %w", ErrMalformedTrace, err)
	}
	if err = tr.Validate(); err != nil {
		return nil, fmt.Errorf("CommandEngine: %w", err)
	}

	return &tr, nil
}
