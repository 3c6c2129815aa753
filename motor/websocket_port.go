package motor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nmxmxh/tandemsync/telemetry"
)

// wireCommand is the JSON frame sent over the WebSocket connection to a
// crane's motor controller.
type wireCommand struct {
	Kind    string  `json:"kind"`
	DeltaMm float64 `json:"delta_mm,omitempty"`
}

// WebSocketPort is the reference Port implementation: one persistent
// WebSocket connection per crane's motor controller.
type WebSocketPort struct {
	craneID telemetry.CraneID

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool

	writeTimeout time.Duration
}

// NewWebSocketPort wraps an already-dialed connection. Dialing and
// reconnection policy live in the caller (typically the cmd/tandemsyncd
// entrypoint), since reconnect backoff is an operational concern, not a
// safety one.
func NewWebSocketPort(craneID telemetry.CraneID, conn *websocket.Conn, writeTimeout time.Duration) *WebSocketPort {
	p := &WebSocketPort{craneID: craneID, conn: conn, writeTimeout: writeTimeout}
	p.connected.Store(conn != nil)
	return p
}

// CraneID implements Port.
func (p *WebSocketPort) CraneID() telemetry.CraneID { return p.craneID }

// IsConnected implements Port.
func (p *WebSocketPort) IsConnected() bool { return p.connected.Load() }

// SendCommand implements Port by writing a single JSON text frame.
func (p *WebSocketPort) SendCommand(ctx context.Context, cmd Command) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()

	if conn == nil {
		return ErrPortDisconnected
	}

	wc := wireCommand{Kind: "MOVE"}
	if cmd.Kind == HaltAll {
		wc.Kind = "HALT_ALL"
	} else {
		wc.DeltaMm = cmd.DeltaMm
	}

	payload, err := json.Marshal(wc)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(p.writeTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		p.connected.Store(false)
		return fmt.Errorf("%w: %v", ErrPortDisconnected, err)
	}
	return nil
}

// Reconnect replaces the underlying connection, e.g. after the caller's
// reconnect loop re-dials.
func (p *WebSocketPort) Reconnect(conn *websocket.Conn) {
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	p.connected.Store(conn != nil)
}

// Close closes the underlying connection.
func (p *WebSocketPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected.Store(false)
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
