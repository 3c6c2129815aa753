// Package liftstate implements the orchestrator's lift lifecycle, guarded
// by atomic compare-and-swap the same way this codebase's other
// supervisory state flags are, so reads from the hot ingest path never
// block on a mutex held by a state transition.
package liftstate

import "sync/atomic"

// State is one of the three lift lifecycle states.
type State uint32

const (
	Idle State = iota
	Lifting
	Fault
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Lifting:
		return "LIFTING"
	case Fault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Machine is the atomic lift state holder. The zero value starts in Idle.
type Machine struct {
	state atomic.Uint32
}

// New returns a Machine in the Idle state.
func New() *Machine {
	return &Machine{}
}

// Current returns the current state.
func (m *Machine) Current() State {
	return State(m.state.Load())
}

// StartLift transitions IDLE -> LIFTING. It fails if the machine is not
// currently IDLE, including when it is FAULT: a FAULT state is terminal
// until an explicit Reset.
func (m *Machine) StartLift() bool {
	return m.state.CompareAndSwap(uint32(Idle), uint32(Lifting))
}

// CompleteLift transitions LIFTING -> IDLE, for a lift that finished
// without a safety fault.
func (m *Machine) CompleteLift() bool {
	return m.state.CompareAndSwap(uint32(Lifting), uint32(Idle))
}

// RaiseFault transitions LIFTING -> FAULT. It is a no-op, reported as
// false, if the machine is not currently LIFTING: a fault can only be
// raised against an active lift.
func (m *Machine) RaiseFault() bool {
	return m.state.CompareAndSwap(uint32(Lifting), uint32(Fault))
}

// Reset unconditionally returns the machine to IDLE from any state,
// including FAULT. This is the only way out of FAULT.
func (m *Machine) Reset() {
	m.state.Store(uint32(Idle))
}

// CanAdmitMove reports whether a MOVE command should be admitted: the
// machine must be LIFTING. HALT_ALL is never gated by this check.
func (m *Machine) CanAdmitMove() bool {
	return m.Current() == Lifting
}
