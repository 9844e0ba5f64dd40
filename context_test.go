package rtsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomatonContext_Defaults(t *testing.T) {
	ctx := NewAutomatonContext()

	AssertState(t, ctx, S0Idle)
	assert.Equal(t, NoLine, ctx.HeldLine())
	_, ok := ctx.CurrentPhase()
	assert.False(t, ok)
}

func TestAutomatonContext_HeldLineFollowsPromotion(t *testing.T) {
	rig := NewTestRig()
	ctx := NewAutomatonContext()
	line := MustLine(TestRouteLeftForwardRight)
	rig.Tracker.Detect(line)

	rig.Automaton.Run(ctx, 0, line)
	assert.Equal(t, line, ctx.Tracked)
	assert.Equal(t, NoLine, ctx.Candidate)
	assert.Equal(t, line, ctx.HeldLine())
	assert.Equal(t, ModeLeftForwardAndRight, ctx.Info.Mode)
	assert.Equal(t, 5, ctx.Plan.Len())

	rig.Automaton.Run(ctx, ms(23500), NoLine)
	phase, ok := ctx.CurrentPhase()
	assert.True(t, ok)
	assert.Equal(t, S7Forward, phase.State)
	assert.Equal(t, 2, ctx.Step)
	assert.Equal(t, ms(500), ctx.Elapsed())
	assert.Contains(t, ctx.String(), "S7_FORWARD")
}

func TestAutomatonContext_HeldDuringWait(t *testing.T) {
	timing := DefaultTiming()
	timing.Wait = ms(300)
	rig := NewTestRigWithTiming(timing)
	line := MustLine(TestRouteLeft)

	rig.Tick(line)
	ctx := rig.Controller.Context()
	AssertState(t, ctx, S1Wait)
	assert.Equal(t, line, ctx.Candidate)
	assert.Equal(t, line, ctx.HeldLine())

	rig.Advance(ms(300), line)
	AssertState(t, ctx, S2BlinkingOn)
	assert.Equal(t, ms(300), ctx.BlinkStarted)
}
