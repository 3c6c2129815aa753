// Code generated in the style of capnpc-go from pulse.capnp. Hand
// maintained here in lieu of a schema compiler step; keep the field
// offsets in sync with the comment block below if you add fields.
//
// struct Pulse {
//   sourceTsNs  @0 :Int64;   # offset 0,  8 bytes
//   arrivalTsNs @1 :Int64;   # offset 8,  8 bytes
//   zAxisMm     @2 :Float64; # offset 16, 8 bytes
//   craneId     @3 :UInt8;   # offset 24, 1 byte
// }
package telemetryv1

import (
	capnp "zombiezen.com/go/capnproto2"
)

const pulseDataWords = 4 // 32 bytes, rounded up to a whole number of words

// Pulse wraps a capnp.Struct laid out per the schema comment above.
type Pulse capnp.Struct

// NewRootPulse allocates a new Pulse as the root object of seg.
func NewRootPulse(seg *capnp.Segment) (Pulse, error) {
	st, err := capnp.NewRootStruct(seg, capnp.ObjectSize{DataSize: pulseDataWords * 8})
	return Pulse(st), err
}

// NewPulse allocates a new, non-root Pulse in seg.
func NewPulse(seg *capnp.Segment) (Pulse, error) {
	st, err := capnp.NewStruct(seg, capnp.ObjectSize{DataSize: pulseDataWords * 8})
	return Pulse(st), err
}

// ReadRootPulse reads the root object of msg as a Pulse.
func ReadRootPulse(msg *capnp.Message) (Pulse, error) {
	root, err := msg.RootPtr()
	if err != nil {
		return Pulse{}, err
	}
	return Pulse(root.Struct()), nil
}

func (p Pulse) Struct() capnp.Struct { return capnp.Struct(p) }

func (p Pulse) SourceTsNs() int64 { return int64(capnp.Struct(p).Uint64(0)) }
func (p Pulse) SetSourceTsNs(v int64) { capnp.Struct(p).SetUint64(0, uint64(v)) }

func (p Pulse) ArrivalTsNs() int64 { return int64(capnp.Struct(p).Uint64(8)) }
func (p Pulse) SetArrivalTsNs(v int64) { capnp.Struct(p).SetUint64(8, uint64(v)) }

func (p Pulse) ZAxisMm() float64 { return capnp.Struct(p).Float64(16) }
func (p Pulse) SetZAxisMm(v float64) { capnp.Struct(p).SetFloat64(16, v) }

func (p Pulse) CraneID() uint8 { return capnp.Struct(p).Uint8(24) }
func (p Pulse) SetCraneID(v uint8) { capnp.Struct(p).SetUint8(24, v) }

// ToBytes marshals the message containing p's struct.
func (p Pulse) ToBytes() ([]byte, error) {
	return capnp.Struct(p).Message().Marshal()
}
