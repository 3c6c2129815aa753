// Package safety applies the single, strict safety rule that this
// orchestrator exists to enforce: a tilt delta greater than the
// configured threshold is a fault, evaluated only while a lift is
// actively in progress.
package safety

import (
	"time"

	"github.com/nmxmxh/tandemsync/align"
)

// Timestamps records when a fault's threshold crossing was first observed
// and when the resulting halt command was issued, for latency auditing
// against the processing-window budget.
type Timestamps struct {
	ThresholdCrossedNs int64
	HaltIssuedNs       int64
}

// ProcessingLatency returns HaltIssuedNs - ThresholdCrossedNs.
func (t Timestamps) ProcessingLatency() time.Duration {
	return time.Duration(t.HaltIssuedNs - t.ThresholdCrossedNs)
}

// Evaluator applies the tilt-delta fault rule.
type Evaluator struct {
	thresholdMm float64
}

// New returns an Evaluator that faults on any tilt delta strictly greater
// than thresholdMm. A delta equal to the threshold is safe.
func New(thresholdMm float64) *Evaluator {
	return &Evaluator{thresholdMm: thresholdMm}
}

// Evaluate reports whether pair's tilt delta is a fault. liftInProgress
// must reflect whether the lift state machine is currently in LIFTING:
// the rule is only evaluated during an active lift, per the orchestrator's
// state model.
func (e *Evaluator) Evaluate(pair align.Pair, liftInProgress bool) bool {
	if !liftInProgress {
		return false
	}
	return pair.TiltDeltaMm() > e.thresholdMm
}

// ThresholdMm returns the configured fault threshold.
func (e *Evaluator) ThresholdMm() float64 {
	return e.thresholdMm
}
