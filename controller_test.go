package rtsignal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/rtsignal/clock"
)

func TestController_PollWindows(t *testing.T) {
	rig := NewTestRig()
	line := MustLine(TestRouteLeft)

	rig.Tick(line)
	assert.Equal(t, 0, rig.Tracker.Misses(line))

	rig.RunUntil(ms(1950), tick)
	assert.Equal(t, 0, rig.Tracker.Misses(line), "first window had a hit")

	rig.Advance(tick)
	assert.Equal(t, 1, rig.Tracker.Misses(line))
}

func TestController_MarksCandidateSignaled(t *testing.T) {
	rig := NewTestRig()
	line := MustLine(TestRouteLeft)

	rig.Tick(line)
	assert.Equal(t, NoLine, rig.Tracker.Candidate())
	assert.True(t, rig.Tracker.IsPresent(line))
}

func TestController_RejectedCandidateNotRetried(t *testing.T) {
	rig := NewTestRig()
	unknown := newLine(999, TestFrom, TestTo, nil)

	rig.Tick(unknown)
	rig.RunUntil(ms(2000), tick, unknown)

	require.Len(t, rig.Observer.Errors, 1)
	assert.ErrorIs(t, rig.Observer.Errors[0], ErrInvalidLine)
	assert.Equal(t, S0Idle, rig.State())
	assert.Equal(t, NoLine, rig.Tracker.Candidate())
	assert.Empty(t, rig.Observer.EnteredAt(S1Wait))

	line := MustLine(TestRouteForward)
	rig.Advance(tick, unknown, line)
	assert.Equal(t, []time.Duration{ms(2050)}, rig.Observer.EnteredAt(S1Wait))
	assert.Len(t, rig.Observer.Errors, 1)
}

func TestController_Options(t *testing.T) {
	rig := NewTestRig()
	c := NewController(clock.NewManual(ms(500)), rig.Poller, rig.Tracker, rig.Automaton,
		WithTickInterval(10*time.Millisecond), WithPollInterval(0))

	assert.Equal(t, 10*time.Millisecond, c.tickInterval)
	assert.Equal(t, DefaultPollInterval, c.pollInterval)
	assert.Equal(t, ms(500), c.lastPoll)
	assert.Equal(t, ms(500), c.Context().Entered)
	assert.Same(t, rig.Tracker, c.Tracker())
}

func TestController_RunClearsOutputsOnExit(t *testing.T) {
	rig := NewTestRig()
	line := MustLine(TestRouteUniversal)
	rig.Tick(line)
	rig.RunUntil(ms(5000), tick, line)
	require.Equal(t, S15LeftForwardRight, rig.State())
	require.NotEqual(t, PatternOff, rig.Bank.Pattern())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rig.Controller.Run(ctx))

	AssertPattern(t, rig.Bank, PatternOff)
}

func TestController_RunTicks(t *testing.T) {
	rig := NewTestRig()
	ctrl := NewController(rig.Clock, rig.Poller, rig.Tracker, rig.Automaton, WithTickInterval(time.Millisecond))
	rig.Poller.Push(MustLine(TestRouteForward))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, ctrl.Run(ctx))

	assert.Equal(t, S2BlinkingOn, ctrl.Context().State)
	AssertPattern(t, rig.Bank, PatternOff)
}

func TestController_WithLineReader(t *testing.T) {
	rig := NewTestRig()
	lr := NewLineReader(rig.Registry)
	ctrl := NewController(rig.Clock, lr, rig.Tracker, rig.Automaton)

	lr.Feed("20;Pole_St_Lazare;Montjovis")
	res := ctrl.Tick()
	assert.True(t, res.Accepted)
	assert.Equal(t, S2BlinkingOn, res.Current)
}
