// Package config defines the construction-time configuration for the tandem
// crane synchronization orchestrator, in a defaults-then-validate shape.
package config

import (
	"errors"
	"time"
)

// IngestMode selects which goroutine runs the safety pipeline for calls to
// Service.Ingest. See the ingest-regime design note for the tradeoffs.
type IngestMode int

const (
	// IngestModeInline runs the full pipeline synchronously on the
	// caller's goroutine. This is the default: it gives deterministic
	// worst-case latency for the threshold-crossing-to-halt budget even
	// under adversarial scheduling.
	IngestModeInline IngestMode = iota
	// IngestModeDispatched hands the pulse to an internal dispatcher
	// goroutine over a bounded channel and returns immediately. Worst
	// case latency depends on dispatcher scheduling, not just transport.
	IngestModeDispatched
)

// RateLimit configures a per-crane token bucket.
type RateLimit struct {
	// RatePerSecond is the steady-state number of commands admitted per
	// second, per crane.
	RatePerSecond int
	// Burst is the maximum number of commands admitted instantaneously.
	Burst int
}

// Config holds every tunable named in the orchestrator's external
// interfaces. A Config is immutable once Validate succeeds; callers should
// treat it as a value to pass to Service constructors, not mutate later.
type Config struct {
	// TiltThresholdMm is the strict tilt bound: values greater than this
	// fault, values equal to or below it are safe.
	TiltThresholdMm float64
	// MaxAlignmentWindow bounds how far apart two pulses' adjusted
	// timestamps may be before the pair is considered stale.
	MaxAlignmentWindow time.Duration
	// LivenessTimeout is the per-crane silence duration that trips the
	// watchdog.
	LivenessTimeout time.Duration
	// ProcessingWindow is the end-to-end budget from threshold crossing
	// to halt dispatch.
	ProcessingWindow time.Duration
	// BufferCapacity is the ring size of each crane's PulseBuffer.
	BufferCapacity int
	// WatchdogCheckInterval is how often the liveness timer scans for
	// silence.
	WatchdogCheckInterval time.Duration
	// IngestMode selects the ingest execution regime.
	IngestMode IngestMode
	// CommandRateLimit throttles MOVE admission only; HALT_ALL is never
	// subject to this limit.
	CommandRateLimit RateLimit
}

// Default returns the specification's recommended defaults.
func Default() Config {
	return Config{
		TiltThresholdMm:       100.0,
		MaxAlignmentWindow:    100 * time.Millisecond,
		LivenessTimeout:       150 * time.Millisecond,
		ProcessingWindow:      10 * time.Millisecond,
		BufferCapacity:        64,
		WatchdogCheckInterval: 10 * time.Millisecond,
		IngestMode:            IngestModeInline,
		CommandRateLimit:      RateLimit{RatePerSecond: 50, Burst: 10},
	}
}

// ErrInvalidConfig is wrapped by Validate's returned error.
var ErrInvalidConfig = errors.New("tandemsync: invalid configuration")

// Validate fails fast on any construction-time misconfiguration, per the
// "construction-time validation" error handling policy: there is no
// recovery path for a malformed Config at runtime.
func (c Config) Validate() error {
	switch {
	case c.TiltThresholdMm <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("tilt threshold must be positive"))
	case c.MaxAlignmentWindow <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("max alignment window must be positive"))
	case c.LivenessTimeout <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("liveness timeout must be positive"))
	case c.ProcessingWindow <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("processing window must be positive"))
	case c.BufferCapacity < 64:
		return errors.Join(ErrInvalidConfig, errors.New("buffer capacity must be at least 64"))
	case c.WatchdogCheckInterval <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("watchdog check interval must be positive"))
	case c.CommandRateLimit.RatePerSecond <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("command rate limit rate must be positive"))
	case c.CommandRateLimit.Burst <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("command rate limit burst must be positive"))
	}
	return nil
}
