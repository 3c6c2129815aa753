// Package clocksync maps crane B's source timebase onto crane A's so that
// the aligner can compare timestamps produced by two independently clocked
// devices.
package clocksync

import (
	"sync/atomic"

	"github.com/nmxmxh/tandemsync/telemetry"
)

// Calibrator holds the additive offset that maps a crane B source
// timestamp onto crane A's timebase: adjustedB = rawB + offsetNs. It is
// safe for concurrent use; the offset is stored behind an atomic so that
// Adjust never blocks on a calibration in progress.
type Calibrator struct {
	offsetNs    atomic.Int64
	calibrated  atomic.Bool
}

// New returns an uncalibrated Calibrator. Adjust is the identity function
// until Calibrate or Recalibrate succeeds at least once.
func New() *Calibrator {
	return &Calibrator{}
}

// Calibrate derives the offset from a single matched pair of timestamps
// believed to represent the same physical instant: aTsNs on crane A's
// clock, bTsNs on crane B's clock. It is a no-op once the calibrator is
// already calibrated; use Recalibrate to replace an existing offset.
func (c *Calibrator) Calibrate(aTsNs, bTsNs int64) {
	if c.calibrated.Load() {
		return
	}
	c.offsetNs.Store(aTsNs - bTsNs)
	c.calibrated.Store(true)
}

// Recalibrate unconditionally replaces the current offset, including when
// the calibrator was already calibrated. A LiftStateMachine reset() does
// not itself invalidate a prior calibration: clock skew between two cranes
// is a property of their hardware, not of any one lift cycle, so the
// offset stays sticky across reset() and only Recalibrate changes it.
func (c *Calibrator) Recalibrate(aTsNs, bTsNs int64) {
	c.offsetNs.Store(aTsNs - bTsNs)
	c.calibrated.Store(true)
}

// Calibrated reports whether an offset has ever been established.
func (c *Calibrator) Calibrated() bool {
	return c.calibrated.Load()
}

// OffsetNs returns the current additive offset, zero if uncalibrated.
func (c *Calibrator) OffsetNs() int64 {
	return c.offsetNs.Load()
}

// Adjust maps p onto crane A's timebase. Pulses already on crane A's
// timebase pass through unchanged; crane B pulses have the current offset
// added to SourceTsNs. Until the calibrator is calibrated, crane B pulses
// pass through unchanged as well, since an offset of zero is the only
// assumption that can be made without a reference pair.
func (c *Calibrator) Adjust(p telemetry.Pulse) telemetry.Pulse {
	if p.CraneID != telemetry.CraneB {
		return p
	}
	adjusted := p
	adjusted.SourceTsNs = p.SourceTsNs + c.offsetNs.Load()
	return adjusted
}

// AdjustTs maps a raw crane B source timestamp onto crane A's timebase.
func (c *Calibrator) AdjustTs(craneID telemetry.CraneID, sourceTsNs int64) int64 {
	if craneID != telemetry.CraneB {
		return sourceTsNs
	}
	return sourceTsNs + c.offsetNs.Load()
}
