// Package tandemsync wires every other package into the orchestrating
// service that a crane operator's control room actually talks to:
// ingesting telemetry, aligning it across cranes, evaluating the tilt
// safety rule, and dispatching HALT_ALL the moment it trips.
package tandemsync

import (
	"context"
	"sync"
	"time"

	"github.com/nmxmxh/tandemsync/align"
	"github.com/nmxmxh/tandemsync/clocksync"
	"github.com/nmxmxh/tandemsync/config"
	"github.com/nmxmxh/tandemsync/dedupe"
	"github.com/nmxmxh/tandemsync/liftstate"
	"github.com/nmxmxh/tandemsync/metrics"
	"github.com/nmxmxh/tandemsync/motor"
	"github.com/nmxmxh/tandemsync/obslog"
	"github.com/nmxmxh/tandemsync/ratelimit"
	"github.com/nmxmxh/tandemsync/safety"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/nmxmxh/tandemsync/watchdog"
)

// Service is the tandem crane synchronization orchestrator. One Service
// supervises exactly two cranes.
type Service struct {
	cfg config.Config
	log *obslog.Logger

	buffers    [2]*telemetry.Buffer
	calibrator *clocksync.Calibrator
	aligner    *align.Aligner
	evaluator  *safety.Evaluator
	lift       *liftstate.Machine
	dispatcher *motor.Dispatcher
	watchdog   *watchdog.Watchdog
	dedupe     *dedupe.Filter
	limiter    *ratelimit.Limiter
	sink       metrics.Sink

	ingestCh chan telemetry.Pulse

	mu              sync.Mutex
	lastFaultTs     safety.Timestamps
	lastPair        align.Pair
	lastAlignResult align.Result
	hasAlignment    bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New constructs a Service. portA and portB may be passed in either
// order; each must report its own correct CraneID.
func New(cfg config.Config, portA, portB motor.Port, log *obslog.Logger, sink metrics.Sink) *Service {
	if log == nil {
		log = obslog.Discard()
	}
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	calibrator := clocksync.New()

	s := &Service{
		cfg:        cfg,
		log:        log,
		buffers:    [2]*telemetry.Buffer{telemetry.NewBuffer(cfg.BufferCapacity), telemetry.NewBuffer(cfg.BufferCapacity)},
		calibrator: calibrator,
		aligner:    align.New(calibrator, int64(cfg.MaxAlignmentWindow)),
		evaluator:  safety.New(cfg.TiltThresholdMm),
		lift:       liftstate.New(),
		dispatcher: motor.New(portA, portB, cfg.ProcessingWindow, log),
		dedupe:     dedupe.New(4096, 0.001),
		limiter:    ratelimit.New(cfg.CommandRateLimit.RatePerSecond, cfg.CommandRateLimit.Burst),
		sink:       sink,
	}
	if cfg.IngestMode == config.IngestModeDispatched {
		s.ingestCh = make(chan telemetry.Pulse, 256)
	}

	s.watchdog = watchdog.New(2, cfg.LivenessTimeout, cfg.WatchdogCheckInterval, s.onLivenessTimeout)

	return s
}

// Start launches the watchdog and, in dispatched ingest mode, the
// internal dispatcher goroutine. Start must be called before Ingest.
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.watchdog.Start(ctx)

	if s.cfg.IngestMode == config.IngestModeDispatched {
		s.wg.Add(1)
		go s.runDispatchLoop(ctx)
	}
}

func (s *Service) runDispatchLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-s.ingestCh:
			s.process(p)
		}
	}
}

// Shutdown stops the watchdog and any dispatcher goroutine, waiting until
// they exit or ctx is done, whichever comes first.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.watchdog.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ingest accepts one telemetry pulse. In IngestModeInline it runs the
// full safety pipeline synchronously before returning; in
// IngestModeDispatched it hands off to the internal dispatcher goroutine
// and returns immediately.
func (s *Service) Ingest(p telemetry.Pulse) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if s.cfg.IngestMode == config.IngestModeDispatched {
		select {
		case s.ingestCh <- p:
		default:
			s.log.Warn("ingest channel full, dropping pulse", obslog.String("crane", p.CraneID.String()))
		}
		return nil
	}

	s.process(p)
	return nil
}

// IngestSync is identical to Ingest in IngestModeInline, and in
// IngestModeDispatched additionally blocks until this pulse has been
// processed. It exists for tests and operational tooling that need a
// synchronous round trip regardless of the configured ingest mode.
func (s *Service) IngestSync(p telemetry.Pulse) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.process(p)
	return nil
}

func (s *Service) process(p telemetry.Pulse) {
	if s.dedupe.Seen(p) {
		s.sink.IncPulsesDeduplicated(p.CraneID.String())
		return
	}
	s.sink.IncPulsesIngested(p.CraneID.String())

	buf := s.bufferFor(p.CraneID)
	buf.Insert(p)
	s.watchdog.RecordUpdate(int(p.CraneID), p.ArrivalTsNs)

	latest, ok := buf.Latest()
	if !ok || latest.SourceTsNs != p.SourceTsNs {
		// Some other pulse is already the monotonic latest for this
		// crane; no new alignment work follows from this arrival.
		return
	}

	other := s.otherBuffer(p.CraneID)
	pair, result := s.aligner.Align(latest, other)

	s.mu.Lock()
	s.lastPair = pair
	s.lastAlignResult = result
	s.hasAlignment = true
	s.mu.Unlock()

	if result == align.ResultStale {
		s.sink.IncAlignmentStale()
	}
	if result != align.ResultAligned {
		return
	}

	if s.lift.Current() != liftstate.Lifting {
		return
	}

	if !s.evaluator.Evaluate(pair, true) {
		return
	}

	s.sink.IncSafetyFault()
	s.triggerFault(pair)
}

func (s *Service) triggerFault(pair align.Pair) {
	if !s.lift.RaiseFault() {
		return
	}

	ts := safety.Timestamps{ThresholdCrossedNs: time.Now().UnixNano()}
	errs := s.dispatcher.DispatchHaltAll(context.Background(), &ts)

	s.mu.Lock()
	s.lastFaultTs = ts
	s.mu.Unlock()

	s.sink.ObserveHaltLatency(ts.ProcessingLatency())
	s.sink.SetLiftState(s.lift.Current().String())

	for i, err := range errs {
		if err != nil {
			s.log.Error("halt delivery failed", obslog.Int("crane_index", i), obslog.Err(err))
		}
	}
}

func (s *Service) onLivenessTimeout(craneIndex int, reason string) {
	s.log.Warn("crane liveness timeout", obslog.Int("crane_index", craneIndex), obslog.String("reason", reason))
	if s.lift.RaiseFault() {
		ts := safety.Timestamps{ThresholdCrossedNs: time.Now().UnixNano()}
		s.dispatcher.DispatchHaltAll(context.Background(), &ts)

		s.mu.Lock()
		s.lastFaultTs = ts
		s.mu.Unlock()

		s.sink.SetLiftState(s.lift.Current().String())
	}
}

func (s *Service) bufferFor(id telemetry.CraneID) *telemetry.Buffer {
	return s.buffers[id]
}

func (s *Service) otherBuffer(id telemetry.CraneID) *telemetry.Buffer {
	if id == telemetry.CraneA {
		return s.buffers[telemetry.CraneB]
	}
	return s.buffers[telemetry.CraneA]
}

// StartLift transitions the lift state machine IDLE -> LIFTING. Any
// alignment evidence from a prior lift cycle is discarded: a MOVE command
// must be authorized by pulses ingested during this lift, never by data
// left over from before it. The watchdog is re-armed so a long IDLE period
// before StartLift can never count against the new lift's liveness budget.
func (s *Service) StartLift() bool {
	ok := s.lift.StartLift()
	if ok {
		s.mu.Lock()
		s.hasAlignment = false
		s.lastAlignResult = align.ResultEmpty
		s.lastPair = align.Pair{}
		s.mu.Unlock()

		s.watchdog.Reset()
		s.sink.SetLiftState(s.lift.Current().String())
	}
	return ok
}

// CompleteLift transitions LIFTING -> IDLE.
func (s *Service) CompleteLift() bool {
	ok := s.lift.CompleteLift()
	if ok {
		s.sink.SetLiftState(s.lift.Current().String())
	}
	return ok
}

// Reset returns the lift state machine to IDLE from any state, including
// FAULT, and clears both pulse buffers and the duplicate filter. It does
// not reset the clock offset calibration, which is sticky across lift
// cycles, and it does not refill the MOVE rate-limit buckets.
func (s *Service) Reset() {
	s.lift.Reset()
	s.watchdog.Reset()
	s.buffers[telemetry.CraneA].Reset()
	s.buffers[telemetry.CraneB].Reset()
	s.dedupe.Reset(4096, 0.001)

	s.mu.Lock()
	s.hasAlignment = false
	s.lastAlignResult = align.ResultEmpty
	s.lastPair = align.Pair{}
	s.mu.Unlock()

	s.sink.SetLiftState(s.lift.Current().String())
}

// LiftState returns the current lift lifecycle state.
func (s *Service) LiftState() liftstate.State {
	return s.lift.Current()
}

// CalibrateClockOffset establishes crane B's clock offset from a single
// reference pair, if one has not already been established.
func (s *Service) CalibrateClockOffset(aTsNs, bTsNs int64) {
	s.calibrator.Calibrate(aTsNs, bTsNs)
}

// Recalibrate unconditionally replaces the current clock offset.
func (s *Service) Recalibrate(aTsNs, bTsNs int64) {
	s.calibrator.Recalibrate(aTsNs, bTsNs)
}

// ExecuteCommand admits and dispatches a MOVE command for craneID, subject
// to lift-state admission, alignment freshness, and per-crane rate
// limiting. HALT_ALL is never issued through this path; it is only ever
// raised internally by a safety fault or liveness timeout.
//
// The bool return reports successful delivery: false with a nil error
// means the command was rejected for an ordinary reason (not lifting, no
// fresh non-stale alignment yet, rate limited). False with a non-nil error
// means the command was admitted but the underlying transport failed to
// deliver it.
func (s *Service) ExecuteCommand(ctx context.Context, craneID telemetry.CraneID, deltaMm float64) (bool, error) {
	if !s.lift.CanAdmitMove() {
		return false, nil
	}
	if !s.hasFreshAlignment() {
		return false, nil
	}
	if !s.limiter.Allow(craneID) {
		s.sink.IncCommandRateLimited(craneID.String())
		return false, nil
	}
	if err := s.dispatcher.DispatchMove(ctx, craneID, deltaMm); err != nil {
		return false, err
	}
	return true, nil
}

// hasFreshAlignment reports whether the most recent alignment attempt, in
// the current lift cycle, produced an in-window pair. It is the gate MOVE
// admission consults for the spec's non-stale, both-pulses-fresh
// requirement.
func (s *Service) hasFreshAlignment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAlignment && s.lastAlignResult == align.ResultAligned
}

// LastFaultTimestamps returns the threshold-crossing and halt-issued
// timestamps of the most recent fault, for latency auditing.
func (s *Service) LastFaultTimestamps() safety.Timestamps {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFaultTs
}

// BufferLen reports how many pulses are currently recorded for craneID.
func (s *Service) BufferLen(craneID telemetry.CraneID) int {
	return s.bufferFor(craneID).Len()
}

// LatestPulse returns craneID's most recently ingested pulse, and true if
// one has been recorded.
func (s *Service) LatestPulse(craneID telemetry.CraneID) (telemetry.Pulse, bool) {
	return s.bufferFor(craneID).Latest()
}

// AlignedPair returns the most recent alignment result and true only if
// that result was within the alignment window. A stale or empty result
// reports false, with the zero Pair.
func (s *Service) AlignedPair() (align.Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasAlignment || s.lastAlignResult != align.ResultAligned {
		return align.Pair{}, false
	}
	return s.lastPair, true
}

// IsStaleDataDetected reports whether the most recent alignment attempt in
// the current lift cycle found a candidate pair outside the alignment
// window.
func (s *Service) IsStaleDataDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAlignment && s.lastAlignResult == align.ResultStale
}

// ThresholdCrossedTs returns the threshold-crossing timestamp of the most
// recent fault, zero if none has occurred.
func (s *Service) ThresholdCrossedTs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFaultTs.ThresholdCrossedNs
}

// HaltIssuedTs returns the halt-issued timestamp of the most recent fault,
// zero if none has occurred.
func (s *Service) HaltIssuedTs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFaultTs.HaltIssuedNs
}

// ProcessingTimeNs returns HaltIssuedTs - ThresholdCrossedTs for the most
// recent fault.
func (s *Service) ProcessingTimeNs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.lastFaultTs.ProcessingLatency())
}

// WasProcessingWithinWindow reports whether the most recent fault's halt
// was dispatched within the configured processing window. It requires
// both the threshold-crossing and halt-issued timestamps to have been
// recorded; a fault that has not yet dispatched a halt reports false.
func (s *Service) WasProcessingWithinWindow() bool {
	s.mu.Lock()
	ts := s.lastFaultTs
	s.mu.Unlock()

	if ts.ThresholdCrossedNs == 0 || ts.HaltIssuedNs == 0 {
		return false
	}
	return ts.ProcessingLatency() <= s.cfg.ProcessingWindow
}

// IsClockOffsetCalibrated reports whether crane B's clock offset has ever
// been established.
func (s *Service) IsClockOffsetCalibrated() bool {
	return s.calibrator.Calibrated()
}

// ClockOffsetNs returns the current additive clock offset, zero if
// uncalibrated.
func (s *Service) ClockOffsetNs() int64 {
	return s.calibrator.OffsetNs()
}

// AdjustedTimestamp maps p's source timestamp onto crane A's timebase.
func (s *Service) AdjustedTimestamp(p telemetry.Pulse) int64 {
	return s.calibrator.AdjustTs(p.CraneID, p.SourceTsNs)
}
