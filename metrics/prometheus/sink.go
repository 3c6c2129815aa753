// Package prometheus adapts metrics.Sink onto client_golang collectors.
package prometheus

import (
	"time"

	"github.com/nmxmxh/tandemsync/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Sink is a metrics.Sink backed by Prometheus collectors. New registers
// its collectors with the given prometheus.Registerer.
type Sink struct {
	pulsesIngested      *prometheus.CounterVec
	pulsesDeduplicated  *prometheus.CounterVec
	alignmentStale      prometheus.Counter
	safetyFaults        prometheus.Counter
	haltLatency         prometheus.Histogram
	liftState           *prometheus.GaugeVec
	commandRateLimited  *prometheus.CounterVec
}

// New creates and registers a Sink's collectors against reg.
func New(reg prometheus.Registerer) *Sink {
	s := &Sink{
		pulsesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tandemsync_pulses_ingested_total",
			Help: "Telemetry pulses accepted per crane.",
		}, []string{"crane"}),
		pulsesDeduplicated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tandemsync_pulses_deduplicated_total",
			Help: "Telemetry pulses dropped as duplicates per crane.",
		}, []string{"crane"}),
		alignmentStale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tandemsync_alignment_stale_total",
			Help: "Alignment attempts that found no pair within the window.",
		}),
		safetyFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tandemsync_safety_faults_total",
			Help: "Tilt threshold crossings that raised a fault.",
		}),
		haltLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tandemsync_halt_latency_seconds",
			Help:    "Latency from threshold crossing to halt dispatch.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		liftState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tandemsync_lift_state",
			Help: "1 for the currently active lift state, 0 otherwise.",
		}, []string{"state"}),
		commandRateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tandemsync_command_rate_limited_total",
			Help: "MOVE commands rejected by the per-crane rate limiter.",
		}, []string{"crane"}),
	}

	reg.MustRegister(
		s.pulsesIngested,
		s.pulsesDeduplicated,
		s.alignmentStale,
		s.safetyFaults,
		s.haltLatency,
		s.liftState,
		s.commandRateLimited,
	)
	return s
}

func (s *Sink) IncPulsesIngested(craneID string)     { s.pulsesIngested.WithLabelValues(craneID).Inc() }
func (s *Sink) IncPulsesDeduplicated(craneID string) { s.pulsesDeduplicated.WithLabelValues(craneID).Inc() }
func (s *Sink) IncAlignmentStale()                   { s.alignmentStale.Inc() }
func (s *Sink) IncSafetyFault()                      { s.safetyFaults.Inc() }
func (s *Sink) ObserveHaltLatency(d time.Duration)   { s.haltLatency.Observe(d.Seconds()) }
func (s *Sink) IncCommandRateLimited(craneID string) { s.commandRateLimited.WithLabelValues(craneID).Inc() }

// SetLiftState zeroes every known state gauge and sets the active one to
// 1, so a dashboard can graph state as a step function.
func (s *Sink) SetLiftState(state string) {
	for _, name := range []string{"IDLE", "LIFTING", "FAULT"} {
		v := 0.0
		if name == state {
			v = 1.0
		}
		s.liftState.WithLabelValues(name).Set(v)
	}
}

var _ metrics.Sink = (*Sink)(nil)
