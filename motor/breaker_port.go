package motor

import (
	"context"
	"time"

	"github.com/nmxmxh/tandemsync/obslog"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/sony/gobreaker"
)

// BreakerPort wraps another Port with a circuit breaker so that a wedged
// or slow-failing transport cannot silently eat the halt path's
// processing-window budget on every call: once the breaker trips, calls
// fail fast with gobreaker.ErrOpenState instead of blocking on the
// underlying transport.
type BreakerPort struct {
	inner Port
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerPort wraps inner with a breaker that trips after
// consecutiveFailures failures in a row and probes again after
// openDuration.
func NewBreakerPort(inner Port, consecutiveFailures uint32, openDuration time.Duration, log *obslog.Logger) *BreakerPort {
	if log == nil {
		log = obslog.Discard()
	}
	settings := gobreaker.Settings{
		Name:        "motor-port-" + inner.CraneID().String(),
		MaxRequests: 1,
		Timeout:     openDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("motor port breaker state change", obslog.String("breaker", name), obslog.String("from", from.String()), obslog.String("to", to.String()))
		},
	}
	return &BreakerPort{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// CraneID implements Port.
func (p *BreakerPort) CraneID() telemetry.CraneID { return p.inner.CraneID() }

// IsConnected implements Port, additionally reporting disconnected while
// the breaker is not closed (open or half-open).
func (p *BreakerPort) IsConnected() bool {
	return p.cb.State() == gobreaker.StateClosed && p.inner.IsConnected()
}

// SendCommand implements Port through the breaker.
func (p *BreakerPort) SendCommand(ctx context.Context, cmd Command) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.inner.SendCommand(ctx, cmd)
	})
	return err
}
