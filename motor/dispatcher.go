package motor

import (
	"context"
	"sync"
	"time"

	"github.com/nmxmxh/tandemsync/obslog"
	"github.com/nmxmxh/tandemsync/safety"
	"github.com/nmxmxh/tandemsync/telemetry"
)

// Dispatcher delivers commands to both cranes' motor ports. Its defining
// job is DispatchHaltAll: a HALT_ALL must reach both ports, concurrently,
// inside the configured processing window, and it is never subject to the
// command rate limiter that MOVE commands go through.
type Dispatcher struct {
	ports            [2]Port
	processingWindow time.Duration
	log              *obslog.Logger
}

// New returns a Dispatcher bound to exactly two ports, one per crane.
func New(portA, portB Port, processingWindow time.Duration, log *obslog.Logger) *Dispatcher {
	if log == nil {
		log = obslog.Discard()
	}
	return &Dispatcher{ports: [2]Port{portA, portB}, processingWindow: processingWindow, log: log}
}

// DispatchHaltAll stamps ts.HaltIssuedNs at the moment it begins sending,
// then delivers a HALT_ALL command to both ports concurrently, bounded by
// the dispatcher's processing window. It returns the per-port errors; a
// nil entry means that port accepted the command.
func (d *Dispatcher) DispatchHaltAll(ctx context.Context, ts *safety.Timestamps) [2]error {
	ts.HaltIssuedNs = time.Now().UnixNano()

	ctx, cancel := context.WithTimeout(ctx, d.processingWindow)
	defer cancel()

	var wg sync.WaitGroup
	var errs [2]error
	for i, p := range d.ports {
		wg.Add(1)
		go func(i int, p Port) {
			defer wg.Done()
			errs[i] = p.SendCommand(ctx, Command{Kind: HaltAll, CraneID: p.CraneID()})
			if errs[i] != nil {
				d.log.Error("halt dispatch failed", obslog.String("crane", p.CraneID().String()), obslog.Err(errs[i]))
			}
		}(i, p)
	}
	wg.Wait()

	return errs
}

// DispatchMove delivers a MOVE command to a single crane's port. Callers
// are responsible for admission checks (lift state, rate limiting) before
// calling this; Dispatcher itself applies none.
func (d *Dispatcher) DispatchMove(ctx context.Context, craneID telemetry.CraneID, deltaMm float64) error {
	port := d.portFor(craneID)
	if port == nil {
		return ErrPortDisconnected
	}
	return port.SendCommand(ctx, Command{Kind: Move, CraneID: craneID, DeltaMm: deltaMm})
}

func (d *Dispatcher) portFor(id telemetry.CraneID) Port {
	for _, p := range d.ports {
		if p != nil && p.CraneID() == id {
			return p
		}
	}
	return nil
}
