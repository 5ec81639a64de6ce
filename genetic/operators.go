// SPDX-License-Identifier: MIT

package genetic

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

// sample draws l distinct nodes uniformly without replacement.
func sample(nodes []string, l int, r *rand.Rand) Individual {
	pool := slices.Clone(nodes)
	for i := 0; i < l; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return Individual(pool[:l:l])
}

// repair keeps the first occurrence of each gene and backfills missing
// slots with uniformly chosen unused nodes.
func repair(ind Individual, nodes []string, l int, r *rand.Rand) (Individual, error) {
	seen := make(map[string]bool, l)
	out := make(Individual, 0, l)
	for _, id := range ind {
		if !seen[id] && len(out) < l {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == l {
		return out, nil
	}

	unused := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if !seen[id] {
			unused = append(unused, id)
		}
	}
	for len(out) < l {
		if len(unused) == 0 {
			return nil, fmt.Errorf("%s: %d distinct nodes, need %d: %w", MethodRepair, len(out), l, ErrInvalidIndividual)
		}
		k := r.IntN(len(unused))
		out = append(out, unused[k])
		unused[k] = unused[len(unused)-1]
		unused = unused[:len(unused)-1]
	}

	return out, nil
}

// crossover builds two offspring by choosing each position's allele from
// either parent with probability 0.5.
func crossover(p1, p2 Individual, nodes []string, r *rand.Rand) (Individual, Individual, error) {
	l := len(p1)
	c1, c2 := make(Individual, l), make(Individual, l)
	for i := 0; i < l; i++ {
		if r.Float64() < 0.5 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	c1, err := repair(c1, nodes, l, r)
	if err != nil {
		return nil, nil, err
	}
	c2, err = repair(c2, nodes, l, r)
	if err != nil {
		return nil, nil, err
	}

	return c1, c2, nil
}

// mutate replaces, with probability pm, one uniformly chosen gene by a
// uniformly chosen node not already present.
func mutate(ind Individual, nodes []string, pm float64, r *rand.Rand) Individual {
	out := slices.Clone(ind)
	if r.Float64() >= pm {
		return out
	}
	idx := r.IntN(len(out))
	present := make(map[string]bool, len(out))
	for _, id := range out {
		present[id] = true
	}
	avail := make([]string, 0, len(nodes)-len(out))
	for _, id := range nodes {
		if !present[id] {
			avail = append(avail, id)
		}
	}
	if len(avail) > 0 {
		out[idx] = avail[r.IntN(len(avail))]
	}

	return out
}

// rouletteWeights shifts fitness values so every weight is positive.
func rouletteWeights(fitness []float64) []float64 {
	lo := slices.Min(fitness)
	shift := epsilon
	if lo <= 0 {
		shift = -lo + epsilon
	}
	w := make([]float64, len(fitness))
	for i, f := range fitness {
		w[i] = f + shift
	}

	return w
}

// selectRoulette draws n individuals with replacement, proportionally to
// their shifted fitness.
func selectRoulette(pop []Individual, fitness []float64, n int, r *rand.Rand) []Individual {
	cat := distuv.NewCategorical(rouletteWeights(fitness), r)
	out := make([]Individual, n)
	for i := range out {
		out[i] = slices.Clone(pop[int(cat.Rand())])
	}

	return out
}
