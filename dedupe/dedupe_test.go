package dedupe_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/dedupe"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestSeenFirstTimeReturnsFalse(t *testing.T) {
	f := dedupe.New(1000, 0.001)
	p := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 100}
	assert.False(t, f.Seen(p))
}

func TestSeenSecondTimeReturnsTrue(t *testing.T) {
	f := dedupe.New(1000, 0.001)
	p := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 100}
	f.Seen(p)
	assert.True(t, f.Seen(p))
}

func TestSeenDistinguishesCranes(t *testing.T) {
	f := dedupe.New(1000, 0.001)
	a := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 100}
	b := telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 100}
	f.Seen(a)
	assert.False(t, f.Seen(b))
}

func TestResetClearsState(t *testing.T) {
	f := dedupe.New(1000, 0.001)
	p := telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 100}
	f.Seen(p)
	f.Reset(1000, 0.001)
	assert.False(t, f.Seen(p))
}
