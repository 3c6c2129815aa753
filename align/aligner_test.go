package align_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/align"
	"github.com/nmxmxh/tandemsync/clocksync"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignPicksClosestCandidate(t *testing.T) {
	cal := clocksync.New()
	a := align.New(cal, 50)

	bufB := telemetry.NewBuffer(64)
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 900, ZAxisMm: 1})
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 1010, ZAxisMm: 2})
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 1100, ZAxisMm: 3})

	latestA := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 1000, ZAxisMm: 5}

	pair, result := a.Align(latestA, bufB)
	require.Equal(t, align.ResultAligned, result)
	assert.Equal(t, int64(1010), pair.B.SourceTsNs)
	assert.Equal(t, int64(10), pair.DeltaNs)
}

func TestAlignRejectsOutOfWindowPair(t *testing.T) {
	cal := clocksync.New()
	a := align.New(cal, 10)

	bufB := telemetry.NewBuffer(64)
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 1100})

	latestA := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 1000}

	_, result := a.Align(latestA, bufB)
	assert.Equal(t, align.ResultStale, result)
}

func TestAlignEmptyBufferIsEmpty(t *testing.T) {
	cal := clocksync.New()
	a := align.New(cal, 1000)
	bufB := telemetry.NewBuffer(64)

	_, result := a.Align(telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 0}, bufB)
	assert.Equal(t, align.ResultEmpty, result)
}

func TestAlignAppliesClockOffset(t *testing.T) {
	cal := clocksync.New()
	cal.Calibrate(1000, 800) // crane B reads 200ns behind crane A

	a := align.New(cal, 5)

	bufB := telemetry.NewBuffer(64)
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 800, ZAxisMm: 1})

	latestA := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 1000}

	pair, result := a.Align(latestA, bufB)
	require.Equal(t, align.ResultAligned, result)
	assert.Equal(t, int64(0), pair.DeltaNs)
}

func TestPairTiltDeltaMm(t *testing.T) {
	pair := align.Pair{
		A: telemetry.Pulse{ZAxisMm: 120},
		B: telemetry.Pulse{ZAxisMm: 5},
	}
	assert.Equal(t, 115.0, pair.TiltDeltaMm())
}

func TestAlignTieBreaksTowardMoreRecentSourceTs(t *testing.T) {
	cal := clocksync.New()
	a := align.New(cal, 100)

	bufB := telemetry.NewBuffer(64)
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 950, ZAxisMm: 1})
	bufB.Insert(telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 1050, ZAxisMm: 2})

	latestA := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 1000}

	pair, result := a.Align(latestA, bufB)
	require.Equal(t, align.ResultAligned, result)
	assert.Equal(t, int64(1050), pair.B.SourceTsNs)
}
