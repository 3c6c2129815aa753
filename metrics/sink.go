// Package metrics defines the narrow observability surface the
// orchestrator emits through. Concrete sinks live in subpackages so that
// the core module never has to import a metrics backend directly.
package metrics

import "time"

// Sink receives the orchestrator's operational signals. Every method must
// be safe to call from the hot ingest and halt paths: implementations
// should never block on I/O.
type Sink interface {
	IncPulsesIngested(craneID string)
	IncPulsesDeduplicated(craneID string)
	IncAlignmentStale()
	IncSafetyFault()
	ObserveHaltLatency(d time.Duration)
	SetLiftState(state string)
	IncCommandRateLimited(craneID string)
}

// NoopSink discards every signal. It is the default when no sink is
// configured.
type NoopSink struct{}

func (NoopSink) IncPulsesIngested(string)       {}
func (NoopSink) IncPulsesDeduplicated(string)   {}
func (NoopSink) IncAlignmentStale()             {}
func (NoopSink) IncSafetyFault()                {}
func (NoopSink) ObserveHaltLatency(time.Duration) {}
func (NoopSink) SetLiftState(string)            {}
func (NoopSink) IncCommandRateLimited(string)   {}

var _ Sink = NoopSink{}
