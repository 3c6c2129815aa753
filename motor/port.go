// Package motor defines the boundary between the orchestrator and each
// crane's motor controller, plus two concrete transports: a WebSocket
// reference implementation and a circuit-breaker decorator that protects
// the halt path from a wedged or slow transport.
package motor

import (
	"context"
	"errors"

	"github.com/nmxmxh/tandemsync/telemetry"
)

// ErrPortDisconnected is returned by SendCommand when the underlying
// transport has no live connection.
var ErrPortDisconnected = errors.New("tandemsync: motor port disconnected")

// CommandKind discriminates the two command shapes a motor controller
// accepts. HALT_ALL carries no payload; MOVE carries a signed delta.
type CommandKind int

const (
	HaltAll CommandKind = iota
	Move
)

// Command is sent to exactly one crane's motor controller.
type Command struct {
	Kind    CommandKind
	CraneID telemetry.CraneID
	DeltaMm float64
}

// Port is the boundary the orchestrator dispatches commands through. Any
// transport - WebSocket, breaker-wrapped, or a test double - implements
// this interface.
type Port interface {
	// SendCommand delivers cmd to the crane this port is bound to. It
	// must return promptly: the dispatcher's halt path has a hard
	// processing-window budget and cannot tolerate a slow or blocking
	// implementation.
	SendCommand(ctx context.Context, cmd Command) error
	// IsConnected reports whether the transport currently believes it
	// has a live connection. It is advisory: SendCommand is the
	// authoritative failure signal.
	IsConnected() bool
	// CraneID reports which crane this port is bound to.
	CraneID() telemetry.CraneID
}
