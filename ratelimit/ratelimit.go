// Package ratelimit throttles MOVE command admission, per crane. HALT_ALL
// is a safety command and must never be routed through this package.
package ratelimit

import (
	"time"

	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"
)

// Limiter admits or rejects MOVE commands with an independent token
// bucket per crane.
type Limiter struct {
	buckets map[telemetry.CraneID]*limiter.TokenBucket
}

// New returns a Limiter allowing ratePerSecond steady-state admissions
// with burst headroom, independently for crane A and crane B.
func New(ratePerSecond, burst int) *Limiter {
	l := &Limiter{buckets: make(map[telemetry.CraneID]*limiter.TokenBucket, 2)}
	for _, id := range []telemetry.CraneID{telemetry.CraneA, telemetry.CraneB} {
		s := store.NewMemoryStore(time.Minute)
		l.buckets[id] = limiter.NewTokenBucket(limiter.Config{
			Rate:     ratePerSecond,
			Duration: time.Second,
			Burst:    burst,
		}, s)
	}
	return l
}

// Allow reports whether a MOVE command for craneID should be admitted
// right now, consuming a token if so.
func (l *Limiter) Allow(craneID telemetry.CraneID) bool {
	b, ok := l.buckets[craneID]
	if !ok {
		return false
	}
	allowed, err := b.Allow(craneID.String())
	if err != nil {
		return false
	}
	return allowed
}
