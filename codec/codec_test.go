package codec_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/codec"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := telemetry.Pulse{
		CraneID:     telemetry.CraneB,
		ZAxisMm:     123.456,
		SourceTsNs:  1_700_000_000,
		ArrivalTsNs: 1_700_000_050,
	}

	data, err := codec.EncodePulse(p)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := codec.DecodePulse(data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := codec.DecodePulse([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}
