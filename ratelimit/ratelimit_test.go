package ratelimit_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/ratelimit"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurstSucceeds(t *testing.T) {
	l := ratelimit.New(5, 3)
	assert.True(t, l.Allow(telemetry.CraneA))
	assert.True(t, l.Allow(telemetry.CraneA))
	assert.True(t, l.Allow(telemetry.CraneA))
}

func TestAllowBeyondBurstIsRejected(t *testing.T) {
	l := ratelimit.New(1, 1)
	assert.True(t, l.Allow(telemetry.CraneA))
	assert.False(t, l.Allow(telemetry.CraneA))
}

func TestCranesAreIndependentlyBudgeted(t *testing.T) {
	l := ratelimit.New(1, 1)
	assert.True(t, l.Allow(telemetry.CraneA))
	assert.True(t, l.Allow(telemetry.CraneB))
}
