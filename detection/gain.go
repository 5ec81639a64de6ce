// SPDX-License-Identifier: MIT

package detection

import (
	"fmt"

	"github.com/katalvlaran/sentinel/epidemic"
)

// NodeGain returns the cases a single sentinel is credited with on tr:
//
//	history length 1 (never reached): 0
//	history length 2 (outbreak seed): final - Cumulative[0]
//	history length 3 (infected):      final - Cumulative at the infection time
//
// A node absent from tr.Histories contributes 0. Any other history length,
// an infection time that is not one of tr.Times, or a cumulative curve too
// short for the lookup, is ErrMalformedTrace.
func NodeGain(tr *epidemic.Trace, id string) (int, error) {
	h, ok := tr.Histories[id]
	if !ok {
		return 0, nil
	}
	final := tr.Final()
	switch len(h.Times) {
	case 1:
		return 0, nil
	case 2:
		if len(tr.Cumulative) == 0 {
			return 0, fmt.Errorf("%s: seed %q with empty cumulative curve: %w",
				MethodGain, id, epidemic.ErrMalformedTrace)
		}

		return final - tr.Cumulative[0], nil
	case 3:
		i, found := tr.IndexOf(h.Times[1])
		if !found || i >= len(tr.Cumulative) {
			return 0, fmt.Errorf("%s: infection time %v of %q not in trace: %w",
				MethodGain, h.Times[1], id, epidemic.ErrMalformedTrace)
		}

		return final - tr.Cumulative[i], nil
	default:
		return 0, fmt.Errorf("%s: history of %q has %d events: %w",
			MethodGain, id, len(h.Times), epidemic.ErrMalformedTrace)
	}
}

// Gain is the detection gain of a sentinel set on one trace: the maximum
// NodeGain over its members, 0 for an empty set.
//
// The set is credited with its most informative sentinel, not the one that
// fires first.
func Gain(tr *epidemic.Trace, sentinels []string) (int, error) {
	best := 0
	for _, s := range sentinels {
		g, err := NodeGain(tr, s)
		if err != nil {
			return 0, err
		}
		if g > best {
			best = g
		}
	}

	return best, nil
}

// Performance is the mean detection gain of sentinels over traces,
// expressed as a percentage of a network of total nodes.
func Performance(traces []*epidemic.Trace, sentinels []string, total int) (float64, error) {
	if len(traces) == 0 {
		return 0, fmt.Errorf("%s: %w", MethodPerformance, ErrNoTrials)
	}
	if total <= 0 {
		return 0, fmt.Errorf("%s: total %d: %w", MethodPerformance, total, ErrInvalidTotal)
	}
	sum := 0
	for _, tr := range traces {
		g, err := Gain(tr, sentinels)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", MethodPerformance, err)
		}
		sum += g
	}

	return 100 * float64(sum) / float64(len(traces)) / float64(total), nil
}
