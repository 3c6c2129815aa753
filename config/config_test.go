package config_test

import (
	"testing"
	"time"

	"github.com/nmxmxh/tandemsync/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	base := config.Default()

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero tilt threshold", func(c *config.Config) { c.TiltThresholdMm = 0 }},
		{"negative tilt threshold", func(c *config.Config) { c.TiltThresholdMm = -1 }},
		{"zero alignment window", func(c *config.Config) { c.MaxAlignmentWindow = 0 }},
		{"zero liveness timeout", func(c *config.Config) { c.LivenessTimeout = 0 }},
		{"zero processing window", func(c *config.Config) { c.ProcessingWindow = 0 }},
		{"undersized buffer", func(c *config.Config) { c.BufferCapacity = 63 }},
		{"zero watchdog interval", func(c *config.Config) { c.WatchdogCheckInterval = 0 }},
		{"zero rate limit", func(c *config.Config) { c.CommandRateLimit.RatePerSecond = 0 }},
		{"zero burst", func(c *config.Config) { c.CommandRateLimit.Burst = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestBufferCapacityExactlyMinimumIsValid(t *testing.T) {
	cfg := config.Default()
	cfg.BufferCapacity = 64
	assert.NoError(t, cfg.Validate())
}

func TestIngestModeDefaultIsInline(t *testing.T) {
	assert.Equal(t, config.IngestModeInline, config.Default().IngestMode)
}

func TestDefaultDurationsMatchSpec(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 100.0, cfg.TiltThresholdMm)
	assert.Equal(t, 100*time.Millisecond, cfg.MaxAlignmentWindow)
	assert.Equal(t, 150*time.Millisecond, cfg.LivenessTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.ProcessingWindow)
	assert.Equal(t, 10*time.Millisecond, cfg.WatchdogCheckInterval)
}
