// Package dedupe guards ingest against the same pulse being delivered
// more than once by an upstream transport, using a Bloom filter as a
// probabilistic membership structure.
package dedupe

import (
	"encoding/binary"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/nmxmxh/tandemsync/telemetry"
)

// Filter deduplicates pulses keyed on (craneID, sourceTsNs). A false
// positive causes a genuine pulse to be dropped; n and fpRate should be
// sized so that risk stays negligible at the expected ingest volume
// between resets.
type Filter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// New returns a Filter sized for roughly n expected pulses per reset
// window at false-positive rate fpRate.
func New(n uint, fpRate float64) *Filter {
	return &Filter{filter: bloom.NewWithEstimates(n, fpRate)}
}

// Seen reports whether a pulse with this key has already been observed,
// and records it as seen if not.
func (f *Filter) Seen(p telemetry.Pulse) bool {
	key := encodeKey(p)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.filter.Test(key) {
		return true
	}
	f.filter.Add(key)
	return false
}

// Reset discards all recorded keys. Call periodically to bound the
// filter's false-positive rate as more distinct pulses are observed than
// it was sized for.
func (f *Filter) Reset(n uint, fpRate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = bloom.NewWithEstimates(n, fpRate)
}

func encodeKey(p telemetry.Pulse) []byte {
	key := make([]byte, 9)
	key[0] = byte(p.CraneID)
	binary.BigEndian.PutUint64(key[1:], uint64(p.SourceTsNs))
	return key
}
