// SPDX-License-Identifier: MIT

package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// Status labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Network outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// RecordTrials records a finished trial batch.
func (r *Registry) RecordTrials(ok, failed int, duration time.Duration) {
	if r == nil {
		return
	}
	r.TrialsTotal.WithLabelValues(StatusOK).Add(float64(ok))
	if failed > 0 {
		r.TrialsTotal.WithLabelValues(StatusError).Add(float64(failed))
		r.EngineErrorsTotal.Add(float64(failed))
	}
	r.EstimateDuration.Observe(duration.Seconds())
}

// RecordEstimate counts one fitness estimate.
func (r *Registry) RecordEstimate() {
	if r == nil {
		return
	}
	r.EstimatesTotal.Inc()
}

// RecordGreedyRound records a completed greedy round.
func (r *Registry) RecordGreedyRound(gain float64) {
	if r == nil {
		return
	}
	r.GreedyRoundsTotal.Inc()
	r.GreedyRoundGain.Set(gain)
}

// RecordGeneration records an evaluated GA generation.
func (r *Registry) RecordGeneration(bestFitness float64, stability int) {
	if r == nil {
		return
	}
	r.GenerationsTotal.Inc()
	r.GABestFitness.Set(bestFitness)
	r.GAStabilityCount.Set(float64(stability))
}

// RecordSelection records one strategy selection.
func (r *Registry) RecordSelection(strategy string, err error) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.StrategySelectTotal.WithLabelValues(strategy, status).Inc()
}

// RecordNetwork records a generated network outcome.
func (r *Registry) RecordNetwork(outcome string) {
	if r == nil {
		return
	}
	r.NetworksTotal.WithLabelValues(outcome).Inc()
}

// RecordRows adds n emitted dataset rows.
func (r *Registry) RecordRows(n int) {
	if r == nil {
		return
	}
	r.DatasetRowsTotal.Add(float64(n))
}

// RecordOmission records one removal attempt of kind ("edges"/"nodes").
func (r *Registry) RecordOmission(kind string, kept bool) {
	if r == nil {
		return
	}
	result := "removed"
	if !kept {
		result = "reverted"
	}
	r.OmissionTriesTotal.WithLabelValues(kind, result).Inc()
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
