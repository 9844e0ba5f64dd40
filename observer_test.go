package rtsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_BasicInterface(t *testing.T) {
	observer := NewTestObserver()

	var _ Observer = observer

	var _ ExtendedObserver = observer

	var _ ExtendedObserver = &BaseObserver{}
}

func TestObserver_StateTransitions(t *testing.T) {
	rig := NewTestRig()
	line := MustLine(TestRouteLeft)

	rig.Tick(line)

	if rig.Observer.TransitionCount() != 2 {
		t.Errorf("Expected 2 transitions, got %d", rig.Observer.TransitionCount())
	}

	lastTransition := rig.Observer.LastTransition()
	if lastTransition == nil {
		t.Fatal("Expected last transition to be recorded")
	}
	if lastTransition.From != S1Wait {
		t.Errorf("Expected transition from S1_WAIT, got %s", lastTransition.From)
	}
	if lastTransition.To != S2BlinkingOn {
		t.Errorf("Expected transition to S2_BLINKING_ON, got %s", lastTransition.To)
	}

	AssertObserverCalled(t, rig.Observer, 2, 2, 2)
	assert.Equal(t, []Hyperstate{HyperIdle, HyperWait}, rig.Observer.HyperstateLeaves)
}

func TestObserver_BlinkTogglesStayInHyperstate(t *testing.T) {
	rig := NewTestRig()
	line := MustLine(TestRouteLeft)

	rig.Tick(line)
	rig.Observer.Reset()
	rig.RunUntil(ms(3500), tick, line)

	assert.Equal(t, 7, rig.Observer.TransitionCount())
	assert.Empty(t, rig.Observer.HyperstateLeaves)

	rig.RunUntil(ms(4000), tick, line)
	assert.Equal(t, []Hyperstate{HyperBlinking}, rig.Observer.HyperstateLeaves)
}

type panickingObserver struct {
	BaseObserver
	errors []error
}

func (o *panickingObserver) OnTransition(from State, to State, ctx *AutomatonContext) {
	panic("observer bug")
}

func (o *panickingObserver) OnError(err error, ctx *AutomatonContext) {
	o.errors = append(o.errors, err)
}

func TestObserverManager_RecoversPanics(t *testing.T) {
	rig := NewTestRig()
	bad := &panickingObserver{}
	rig.Automaton.AddObserver(bad)

	rig.Tick(MustLine(TestRouteUniversal))

	assert.Equal(t, S2BlinkingOn, rig.State())
	assert.Equal(t, 2, rig.Observer.TransitionCount(), "other observers still notified")
	require.Len(t, bad.errors, 2)
	assert.Contains(t, bad.errors[0].Error(), "observer panic in OnTransition")
}

func TestObserverManager_AddRemove(t *testing.T) {
	om := NewObserverManager()
	a := NewTestObserver()
	b := NewTestObserver()

	om.AddObserver(a)
	om.AddObserver(b)
	assert.Equal(t, 2, om.Len())

	om.RemoveObserver(a)
	assert.Equal(t, 1, om.Len())

	ctx := NewAutomatonContext()
	om.NotifyTransition(S0Idle, S1Wait, ctx)
	om.NotifyDeparture(MustLine(TestRouteLeft), ctx)
	assert.Equal(t, 0, a.TransitionCount())
	assert.Equal(t, 1, b.TransitionCount())
	assert.Len(t, b.Departures, 1)
}

type minimalObserver struct {
	enters int
}

func (o *minimalObserver) OnTransition(from State, to State, ctx *AutomatonContext) {}

func (o *minimalObserver) OnStateEnter(state State, ctx *AutomatonContext) { o.enters++ }

func TestObserverManager_RequiredMethodsOnly(t *testing.T) {
	rig := NewTestRig()
	obs := &minimalObserver{}
	rig.Automaton.AddObserver(obs)

	line := MustLine(TestRouteForward)
	rig.Tick(line)
	rig.RunUntil(ms(1000), tick, line)

	assert.Equal(t, 4, obs.enters)
}
