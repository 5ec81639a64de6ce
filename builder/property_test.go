// SPDX-License-Identifier: MIT

package builder_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/katalvlaran/sentinel/builder"
)

// TestModularInvariants checks the structural guarantees of every
// generated network over random parameters.
func TestModularInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60

	properties := gopter.NewProperties(parameters)
	var runs, built int

	properties.Property("simple graph, stub accounting and heterogeneity", prop.ForAll(
		func(size, modules, mean int, p, het float64, seed int64) bool {
			params := builder.ModularParams{ModuleSize: size, ModuleCount: modules, P: p, Heterogeneity: het, MeanDegree: mean}
			net, err := builder.GenerateModular(params, builder.WithSeed(seed))
			runs++
			if err != nil {
				// resampling failures are legitimate outcomes of one attempt
				return errors.Is(err, builder.ErrStubMatchingExhausted) || errors.Is(err, builder.ErrGenerationStalled)
			}
			built++
			g := net.Graph
			if g.VertexCount() != size*modules {
				return false
			}

			seen := make(map[[2]string]bool, g.EdgeCount())
			for _, e := range g.Edges() {
				if e.From == e.To {
					return false
				}
				key := [2]string{e.From, e.To}
				if e.To < e.From {
					key = [2]string{e.To, e.From}
				}
				if seen[key] {
					return false
				}
				seen[key] = true
			}

			if 2*g.EdgeCount()+net.Matching.Discarded != net.Degrees.Sum() {
				return false
			}
			if g.EdgeCount() > net.TargetEdges {
				return false
			}
			if net.Degrees.Sum()%2 != 0 {
				return false
			}

			return net.Degrees.StoppingStdDev() >= het-1e-9
		},
		gen.IntRange(6, 12),
		gen.IntRange(1, 4),
		gen.IntRange(1, 3),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1.5),
		gen.Int64(),
	))

	properties.TestingRun(t)
	// sparse modules of at least six nodes rarely exhaust their pools
	if built*2 < runs {
		t.Errorf("only %d of %d generations succeeded", built, runs)
	}
}
