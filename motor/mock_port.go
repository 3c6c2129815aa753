package motor

import (
	"context"
	"sync"

	"github.com/nmxmxh/tandemsync/telemetry"
)

// MockPort is an in-memory Port test double that records every command it
// receives.
type MockPort struct {
	craneID telemetry.CraneID

	mu        sync.Mutex
	connected bool
	sendErr   error
	commands  []Command
}

// NewMockPort returns a connected MockPort for craneID.
func NewMockPort(craneID telemetry.CraneID) *MockPort {
	return &MockPort{craneID: craneID, connected: true}
}

func (p *MockPort) CraneID() telemetry.CraneID { return p.craneID }

func (p *MockPort) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// SetConnected lets tests simulate a transport drop.
func (p *MockPort) SetConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = connected
}

// SetSendError makes every subsequent SendCommand fail with err.
func (p *MockPort) SetSendError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendErr = err
}

func (p *MockPort) SendCommand(ctx context.Context, cmd Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	if !p.connected {
		return ErrPortDisconnected
	}
	p.commands = append(p.commands, cmd)
	return nil
}

// Commands returns every command accepted so far.
func (p *MockPort) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Command, len(p.commands))
	copy(out, p.commands)
	return out
}
