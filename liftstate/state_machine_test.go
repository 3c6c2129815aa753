package liftstate_test

import (
	"testing"

	"github.com/nmxmxh/tandemsync/liftstate"
	"github.com/stretchr/testify/assert"
)

func TestInitialStateIsIdle(t *testing.T) {
	m := liftstate.New()
	assert.Equal(t, liftstate.Idle, m.Current())
}

func TestStartLiftFromIdleSucceeds(t *testing.T) {
	m := liftstate.New()
	assert.True(t, m.StartLift())
	assert.Equal(t, liftstate.Lifting, m.Current())
}

func TestStartLiftFromLiftingFails(t *testing.T) {
	m := liftstate.New()
	m.StartLift()
	assert.False(t, m.StartLift())
}

func TestStartLiftFromFaultFails(t *testing.T) {
	m := liftstate.New()
	m.StartLift()
	m.RaiseFault()
	assert.False(t, m.StartLift())
	assert.Equal(t, liftstate.Fault, m.Current())
}

func TestCompleteLiftReturnsToIdle(t *testing.T) {
	m := liftstate.New()
	m.StartLift()
	assert.True(t, m.CompleteLift())
	assert.Equal(t, liftstate.Idle, m.Current())
}

func TestRaiseFaultOnlyFromLifting(t *testing.T) {
	m := liftstate.New()
	assert.False(t, m.RaiseFault())
	assert.Equal(t, liftstate.Idle, m.Current())

	m.StartLift()
	assert.True(t, m.RaiseFault())
	assert.Equal(t, liftstate.Fault, m.Current())
}

func TestFaultIsTerminalUntilReset(t *testing.T) {
	m := liftstate.New()
	m.StartLift()
	m.RaiseFault()

	assert.False(t, m.CompleteLift())
	assert.False(t, m.StartLift())

	m.Reset()
	assert.Equal(t, liftstate.Idle, m.Current())
	assert.True(t, m.StartLift())
}

func TestCanAdmitMoveOnlyWhileLifting(t *testing.T) {
	m := liftstate.New()
	assert.False(t, m.CanAdmitMove())
	m.StartLift()
	assert.True(t, m.CanAdmitMove())
	m.RaiseFault()
	assert.False(t, m.CanAdmitMove())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", liftstate.Idle.String())
	assert.Equal(t, "LIFTING", liftstate.Lifting.String())
	assert.Equal(t, "FAULT", liftstate.Fault.String())
}
