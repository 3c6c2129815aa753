// Package codec provides the wire encoding used by out-of-process pulse
// producers: a Cap'n Proto envelope around telemetry.Pulse. The in-process
// ingest path never needs this
// package; it exists for the producer harness at the network boundary.
package codec

import (
	capnp "zombiezen.com/go/capnproto2"

	telemetryv1 "github.com/nmxmxh/tandemsync/codec/gen/telemetryv1"
	"github.com/nmxmxh/tandemsync/telemetry"
)

// EncodePulse marshals p into a single-segment Cap'n Proto message.
func EncodePulse(p telemetry.Pulse) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, err
	}

	wire, err := telemetryv1.NewRootPulse(seg)
	if err != nil {
		return nil, err
	}
	wire.SetCraneID(uint8(p.CraneID))
	wire.SetZAxisMm(p.ZAxisMm)
	wire.SetSourceTsNs(p.SourceTsNs)
	wire.SetArrivalTsNs(p.ArrivalTsNs)

	return msg.Marshal()
}

// DecodePulse unmarshals a Cap'n Proto message produced by EncodePulse.
func DecodePulse(data []byte) (telemetry.Pulse, error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return telemetry.Pulse{}, err
	}

	wire, err := telemetryv1.ReadRootPulse(msg)
	if err != nil {
		return telemetry.Pulse{}, err
	}

	return telemetry.Pulse{
		CraneID:     telemetry.CraneID(wire.CraneID()),
		ZAxisMm:     wire.ZAxisMm(),
		SourceTsNs:  wire.SourceTsNs(),
		ArrivalTsNs: wire.ArrivalTsNs(),
	}, nil
}
