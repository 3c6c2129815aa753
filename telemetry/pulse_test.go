package telemetry_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestCraneIDString(t *testing.T) {
	assert.Equal(t, "A", telemetry.CraneA.String())
	assert.Equal(t, "B", telemetry.CraneB.String())
	assert.Equal(t, "unknown", telemetry.CraneID(7).String())
}

func TestCraneIDValid(t *testing.T) {
	assert.True(t, telemetry.CraneA.Valid())
	assert.True(t, telemetry.CraneB.Valid())
	assert.False(t, telemetry.CraneID(2).Valid())
}

func TestPulseValidate(t *testing.T) {
	cases := []struct {
		name    string
		pulse   telemetry.Pulse
		wantErr bool
	}{
		{"valid", telemetry.Pulse{CraneID: telemetry.CraneA, SourceTsNs: 1, ArrivalTsNs: 2}, false},
		{"unknown crane", telemetry.Pulse{CraneID: telemetry.CraneID(9), SourceTsNs: 1, ArrivalTsNs: 2}, true},
		{"negative source ts", telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: -1, ArrivalTsNs: 2}, true},
		{"negative arrival ts", telemetry.Pulse{CraneID: telemetry.CraneB, SourceTsNs: 1, ArrivalTsNs: -2}, true},
		{"zero timestamps are valid", telemetry.Pulse{CraneID: telemetry.CraneA}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pulse.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
