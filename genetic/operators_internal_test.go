// SPDX-License-Identifier: MIT

package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sentinel/rng"
)

func TestRepair(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e"}
	r := rng.New(1)

	out, err := repair(Individual{"b", "a", "b"}, nodes, 3, r)
	require.NoError(t, err)
	assert.Equal(t, Individual{"b", "a"}, out[:2])
	assert.Contains(t, []string{"c", "d", "e"}, out[2])

	_, err = repair(Individual{"a", "a", "a"}, []string{"a", "b"}, 3, r)
	assert.ErrorIs(t, err, ErrInvalidIndividual)
}

func TestRouletteWeights(t *testing.T) {
	w := rouletteWeights([]float64{-2, 0, 3})
	assert.InDeltaSlice(t, []float64{epsilon, 2 + epsilon, 5 + epsilon}, w, 1e-15)

	w = rouletteWeights([]float64{1, 2})
	assert.InDeltaSlice(t, []float64{1 + epsilon, 2 + epsilon}, w, 1e-15)

	w = rouletteWeights([]float64{0, 0})
	assert.Equal(t, []float64{epsilon, epsilon}, w)
}

func TestMutateAndSample(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	r := rng.New(2)
	universe := map[string]bool{"a": true, "b": true, "c": true, "d": true}

	for i := 0; i < 200; i++ {
		ind := sample(nodes, 3, r)
		require.NoError(t, ind.Validate(3, universe))

		m := mutate(ind, nodes, 1, r)
		require.NoError(t, m.Validate(3, universe))
		assert.False(t, m.SameSet(ind), "pm=1 must change one gene")
	}

	full := Individual{"a", "b", "c", "d"}
	assert.True(t, mutate(full, nodes, 1, r).SameSet(full))
}

func TestCrossoverKeepsSize(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e", "f"}
	universe := map[string]bool{}
	for _, n := range nodes {
		universe[n] = true
	}
	r := rng.New(3)
	for i := 0; i < 200; i++ {
		c1, c2, err := crossover(Individual{"a", "b", "c"}, Individual{"c", "a", "d"}, nodes, r)
		require.NoError(t, err)
		require.NoError(t, c1.Validate(3, universe))
		require.NoError(t, c2.Validate(3, universe))
	}
}
