// Package align selects the closest cross-crane pair of pulses, on a
// common timebase, to feed the safety evaluator.
package align

import (
	"github.com/nmxmxh/tandemsync/clocksync"
	"github.com/nmxmxh/tandemsync/telemetry"
)

// Pair is a matched cross-crane observation taken close together in time.
type Pair struct {
	A telemetry.Pulse
	B telemetry.Pulse
	// DeltaNs is the absolute gap between the two pulses' adjusted source
	// timestamps.
	DeltaNs int64
}

// TiltDeltaMm is the absolute vertical separation between the two cranes'
// hook positions for this pair.
func (p Pair) TiltDeltaMm() float64 {
	delta := p.A.ZAxisMm - p.B.ZAxisMm
	if delta < 0 {
		delta = -delta
	}
	return delta
}

// Result classifies the outcome of an alignment attempt.
type Result int

const (
	// ResultEmpty means the other crane's buffer has no pulses at all; no
	// candidate exists to compare against.
	ResultEmpty Result = iota
	// ResultStale means a candidate exists but its adjusted timestamp is
	// farther from latestA than the alignment window allows.
	ResultStale
	// ResultAligned means the closest candidate falls within the
	// alignment window and Pair is a usable observation.
	ResultAligned
)

func (r Result) String() string {
	switch r {
	case ResultEmpty:
		return "EMPTY"
	case ResultStale:
		return "STALE"
	case ResultAligned:
		return "ALIGNED"
	default:
		return "UNKNOWN"
	}
}

// Aligner finds the closest-in-time pair of pulses across crane A's and
// crane B's buffers, rejecting pairs whose adjusted timestamps are farther
// apart than maxWindowNs.
type Aligner struct {
	calibrator  *clocksync.Calibrator
	maxWindowNs int64
}

// New returns an Aligner that rejects pairs farther apart than maxWindowNs
// on the adjusted timebase.
func New(calibrator *clocksync.Calibrator, maxWindowNs int64) *Aligner {
	return &Aligner{calibrator: calibrator, maxWindowNs: maxWindowNs}
}

// Align finds the pulse in bufB whose adjusted source timestamp is closest
// to the adjusted source timestamp of latestA. latestA is the current
// latest pulse of either crane and bufB is the other crane's buffer; the
// returned Pair always holds crane A's pulse in A and crane B's in B. It
// reports ResultEmpty if bufB holds no pulses at all, ResultStale if the
// closest candidate lies outside the alignment window, and ResultAligned
// otherwise.
func (a *Aligner) Align(latestA telemetry.Pulse, bufB *telemetry.Buffer) (Pair, Result) {
	adjustedLatestA := a.calibrator.AdjustTs(latestA.CraneID, latestA.SourceTsNs)

	candidates := bufB.Snapshot()
	if len(candidates) == 0 {
		return Pair{}, ResultEmpty
	}

	best := candidates[0]
	bestDelta := absDelta(adjustedLatestA, a.calibrator.AdjustTs(best.CraneID, best.SourceTsNs))
	for _, cand := range candidates[1:] {
		d := absDelta(adjustedLatestA, a.calibrator.AdjustTs(cand.CraneID, cand.SourceTsNs))
		// Prefer the strictly closer candidate; on an exact tie, prefer
		// the one with the greater source timestamp, i.e. the more
		// recent observation.
		if d < bestDelta || (d == bestDelta && cand.SourceTsNs > best.SourceTsNs) {
			best = cand
			bestDelta = d
		}
	}

	if bestDelta > a.maxWindowNs {
		return Pair{}, ResultStale
	}

	if latestA.CraneID == telemetry.CraneB {
		return Pair{A: best, B: latestA, DeltaNs: bestDelta}, ResultAligned
	}
	return Pair{A: latestA, B: best, DeltaNs: bestDelta}, ResultAligned
}

func absDelta(a, b int64) int64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
