// Package lifecycle coordinates orderly shutdown of the independently
// owned components cmd/tandemsyncd wires together (the orchestrator
// service, motor transport connections, an optional metrics server).
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nmxmxh/tandemsync/obslog"
)

// GracefulShutdown runs a set of registered shutdown functions
// concurrently, launched in reverse registration order, bounded by an
// overall timeout.
type GracefulShutdown struct {
	mu         sync.Mutex
	shutdownFn []func() error
	timeout    time.Duration
	log        *obslog.Logger
}

// New creates a GracefulShutdown bounded by timeout.
func New(timeout time.Duration, log *obslog.Logger) *GracefulShutdown {
	if log == nil {
		log = obslog.Default("shutdown")
	}
	return &GracefulShutdown{timeout: timeout, log: log}
}

// Register adds fn to the set of functions run on Shutdown. Functions are
// launched in LIFO order but then run concurrently, so their completion
// order is not defined.
func (g *GracefulShutdown) Register(fn func() error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shutdownFn = append(g.shutdownFn, fn)
}

// Shutdown runs every registered function concurrently and waits for all
// of them or the timeout, whichever comes first.
func (g *GracefulShutdown) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	fns := make([]func() error, len(g.shutdownFn))
	copy(fns, g.shutdownFn)
	g.mu.Unlock()

	g.log.Info("starting graceful shutdown", obslog.Int("components", len(fns)))

	shutdownCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(fns))
	for i := len(fns) - 1; i >= 0; i-- {
		wg.Add(1)
		fn := fns[i]
		go func(idx int, shutdownFn func() error) {
			defer wg.Done()
			if err := shutdownFn(); err != nil {
				g.log.Error("shutdown function failed", obslog.Int("index", idx), obslog.Err(err))
				errCh <- err
			}
		}(i, fn)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errCh)
		var errs []error
		for err := range errCh {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		g.log.Info("graceful shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		g.log.Warn("graceful shutdown timed out")
		return errors.New("lifecycle: shutdown timeout")
	}
}
