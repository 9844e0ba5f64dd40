package rtsignal

import (
	"errors"
	"testing"
	"time"
)

func TestTestHelpers_Functions(t *testing.T) {
	t.Run("TestObserver Basic Functionality", func(t *testing.T) {
		observer := NewTestObserver()

		// Test initial state
		if observer.TransitionCount() != 0 {
			t.Errorf("Expected 0 transitions initially, got %d", observer.TransitionCount())
		}
		if observer.LastTransition() != nil {
			t.Error("Expected no last transition initially")
		}

		ctx := NewAutomatonContext()
		ctx.Entered = 3 * time.Second
		ctx.Now = 3 * time.Second

		observer.OnTransition(S1Wait, S2BlinkingOn, ctx)
		observer.OnStateEnter(S2BlinkingOn, ctx)
		observer.OnStateExit(S1Wait, ctx)
		observer.OnHyperstateLeave(HyperWait, ctx)
		observer.OnFault(errors.New("fault"), ctx)
		observer.OnError(errors.New("error"), ctx)

		AssertObserverCalled(t, observer, 1, 1, 1)
		AssertEnteredSequence(t, observer, S2BlinkingOn)

		if at := observer.EnteredAt(S2BlinkingOn); len(at) != 1 || at[0] != 3*time.Second {
			t.Errorf("Expected S2 entered at 3s, got %v", at)
		}
		if len(observer.Faults) != 1 || len(observer.Errors) != 1 || len(observer.HyperstateLeaves) != 1 {
			t.Error("Expected one fault, one error and one hyperstate leave")
		}

		observer.Reset()
		AssertObserverCalled(t, observer, 0, 0, 0)
	})

	t.Run("QueuePoller Drains", func(t *testing.T) {
		p := &QueuePoller{}
		p.Push(MustLine(TestRouteLeft), MustLine(TestRouteRight))

		if got := len(p.Poll()); got != 2 {
			t.Errorf("Expected 2 detections, got %d", got)
		}
		if got := p.Poll(); got != nil {
			t.Errorf("Expected empty poll, got %v", got)
		}
	})

	t.Run("TestRig RunUntil Lands Exactly", func(t *testing.T) {
		rig := NewTestRig()
		rig.RunUntil(ms(1030), ms(100))

		if rig.Clock.Now() != ms(1030) {
			t.Errorf("Expected clock at 1.03s, got %s", rig.Clock.Now())
		}
		AssertState(t, rig.Controller.Context(), S0Idle)
		AssertPattern(t, rig.Bank, PatternOff)
	})
}
