package rtsignal

import (
	"sync"
	"testing"
	"time"

	"github.com/anggasct/rtsignal/clock"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex            sync.RWMutex
	Transitions      []TransitionEvent
	StateEnters      []StateEvent
	StateExits       []StateEvent
	HyperstateLeaves []Hyperstate
	Departures       []Line
	Faults           []error
	Errors           []error
}

// TransitionEvent records one OnTransition call
type TransitionEvent struct {
	From State
	To   State
	// At is the entry time of To
	At time.Duration
}

// StateEvent records one OnStateEnter or OnStateExit call
type StateEvent struct {
	State State
	At    time.Duration
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

// Observer interface implementations
func (o *TestObserver) OnTransition(from State, to State, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, TransitionEvent{From: from, To: to, At: ctx.Entered})
}

func (o *TestObserver) OnStateEnter(state State, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateEnters = append(o.StateEnters, StateEvent{State: state, At: ctx.Entered})
}

// ExtendedObserver interface implementations
func (o *TestObserver) OnStateExit(state State, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateExits = append(o.StateExits, StateEvent{State: state, At: ctx.Now})
}

func (o *TestObserver) OnHyperstateLeave(hyperstate Hyperstate, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.HyperstateLeaves = append(o.HyperstateLeaves, hyperstate)
}

func (o *TestObserver) OnDeparture(line Line, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Departures = append(o.Departures, line)
}

func (o *TestObserver) OnFault(err error, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Faults = append(o.Faults, err)
}

func (o *TestObserver) OnError(err error, ctx *AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// Helper methods for test assertions
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = nil
	o.StateEnters = nil
	o.StateExits = nil
	o.HyperstateLeaves = nil
	o.Departures = nil
	o.Faults = nil
	o.Errors = nil
}

func (o *TestObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

func (o *TestObserver) StateEnterCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateEnters)
}

func (o *TestObserver) StateExitCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateExits)
}

func (o *TestObserver) LastTransition() *TransitionEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return nil
	}
	return &o.Transitions[len(o.Transitions)-1]
}

// Entered returns the entered states in order
func (o *TestObserver) Entered() []State {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	states := make([]State, len(o.StateEnters))
	for i, e := range o.StateEnters {
		states[i] = e.State
	}
	return states
}

// EnteredAt returns the entry times of state
func (o *TestObserver) EnteredAt(state State) []time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	var at []time.Duration
	for _, e := range o.StateEnters {
		if e.State == state {
			at = append(at, e.At)
		}
	}
	return at
}

// QueuePoller is a Poller fed by the test
type QueuePoller struct {
	mutex   sync.Mutex
	pending []Detection
}

// Push queues one detection per line for the next Poll
func (p *QueuePoller) Push(lines ...Line) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, l := range lines {
		p.pending = append(p.pending, Detection{Line: l, Raw: l.Key()})
	}
}

// Poll implements Poller
func (p *QueuePoller) Poll() []Detection {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := p.pending
	p.pending = nil
	return out
}

// Test fixtures

// Test termini, routes and deviations used across the package tests
const (
	TestFrom Terminus = "Pole_St_Lazare"
	TestTo   Terminus = "Montjovis"

	TestRouteLeftForwardRight uint16 = 1
	TestRouteLeft             uint16 = 4
	TestRouteForward          uint16 = 5
	TestRouteRight            uint16 = 6
	TestRouteForwardRightLeft uint16 = 10
	TestRouteLeftRightForward uint16 = 12
	TestRouteUniversal        uint16 = 20
	TestRouteSpecial          uint16 = 66

	// extends the right leg by the default
	TestDevRight Deviation = "Coyol"
	// extends the left leg by 3s
	TestDevLeft Deviation = "ENSIL"
	// extends the left leg by 5s
	TestDevLeftLong Deviation = "P_Morand"
	// extends the forward leg by the default
	TestDevForward Deviation = "Ocealim"
	// no direction, never extends
	TestDevPlain Deviation = "Villagory"
)

// CreateTestRegistry returns a registry covering every mode
func CreateTestRegistry() *Registry {
	reg, err := NewRegistry(
		[]RouteSpec{
			{Route: TestRouteLeftForwardRight, Mode: ModeLeftForwardAndRight},
			{Route: TestRouteLeft, Mode: ModeIndividual, Direction: DirectionLeft},
			{Route: TestRouteForward, Mode: ModeIndividual, Direction: DirectionForward},
			{Route: TestRouteRight, Mode: ModeIndividual, Direction: DirectionRight},
			{Route: TestRouteForwardRightLeft, Mode: ModeForwardRightAndLeft},
			{Route: TestRouteLeftRightForward, Mode: ModeLeftRightAndForward},
			{Route: TestRouteUniversal, Mode: ModeUniversal},
			{Route: TestRouteSpecial, Name: "d1", Mode: ModeIndividual, Direction: DirectionForward},
		},
		[]Terminus{TestFrom, TestTo, "La_Cornue", "DEPOT"},
		[]DeviationSpec{
			{Name: TestDevRight, Direction: DirectionRight},
			{Name: TestDevLeft, Direction: DirectionLeft, Extension: 3 * time.Second},
			{Name: TestDevLeftLong, Direction: DirectionLeft, Extension: 5 * time.Second},
			{Name: TestDevForward, Direction: DirectionForward},
			{Name: TestDevPlain},
		},
	)
	if err != nil {
		panic(err)
	}
	return reg
}

// MustLine builds a line from the test registry or panics
func MustLine(route uint16, deviations ...Deviation) Line {
	line, err := CreateTestRegistry().MakeLine(route, TestFrom, TestTo, deviations...)
	if err != nil {
		panic(err)
	}
	return line
}

// TestRig wires a controller to a manual clock, a queue poller and an LED bank
type TestRig struct {
	Clock      *clock.Manual
	Poller     *QueuePoller
	Bank       *LEDBank
	Registry   *Registry
	Tracker    *Tracker
	Automaton  *Automaton
	Controller *Controller
	Observer   *TestObserver
}

// NewTestRig creates a rig with default timing, a 1s poll window and 3 departure polls
func NewTestRig() *TestRig {
	return NewTestRigWithTiming(DefaultTiming())
}

// NewTestRigWithTiming creates a rig with the given timing
func NewTestRigWithTiming(timing Timing) *TestRig {
	r := &TestRig{
		Clock:    clock.NewManual(0),
		Poller:   &QueuePoller{},
		Bank:     NewLEDBank(),
		Registry: CreateTestRegistry(),
		Tracker:  NewTracker(DefaultTrackerCapacity, DefaultDeparturePolls),
		Observer: NewTestObserver(),
	}
	r.Automaton = NewAutomaton(r.Registry, r.Tracker, r.Bank, timing)
	r.Automaton.AddObserver(r.Observer)
	r.Controller = NewController(r.Clock, r.Poller, r.Tracker, r.Automaton, WithPollInterval(time.Second))
	return r
}

// Tick detects lines and runs one tick at the current time
func (r *TestRig) Tick(lines ...Line) RunResult {
	r.Poller.Push(lines...)
	return r.Controller.Tick()
}

// Advance moves the clock by d, then ticks
func (r *TestRig) Advance(d time.Duration, lines ...Line) RunResult {
	r.Clock.Advance(d)
	return r.Tick(lines...)
}

// RunUntil ticks every step until the clock reaches until, detecting lines on every tick
func (r *TestRig) RunUntil(until, step time.Duration, lines ...Line) {
	for r.Clock.Now() < until {
		d := step
		if rest := until - r.Clock.Now(); rest < d {
			d = rest
		}
		r.Advance(d, lines...)
	}
}

// State returns the current automaton state
func (r *TestRig) State() State {
	return r.Controller.Context().State
}

// Test assertions and utilities

// AssertState checks if the automaton is in expected state
func AssertState(t *testing.T, ctx *AutomatonContext, expected State) {
	t.Helper()
	if ctx.State != expected {
		t.Errorf("Expected state %s, got %s", expected, ctx.State)
	}
}

// AssertPattern checks the lit outputs of a bank
func AssertPattern(t *testing.T, bank *LEDBank, expected Pattern) {
	t.Helper()
	if got := bank.Pattern(); got != expected {
		t.Errorf("Expected outputs %s, got %s", expected, got)
	}
}

// AssertObserverCalled checks if observer methods were called expected number of times
func AssertObserverCalled(t *testing.T, observer *TestObserver, transitions, enters, exits int) {
	t.Helper()
	if observer.TransitionCount() != transitions {
		t.Errorf("Expected %d transitions, got %d", transitions, observer.TransitionCount())
	}
	if observer.StateEnterCount() != enters {
		t.Errorf("Expected %d state enters, got %d", enters, observer.StateEnterCount())
	}
	if observer.StateExitCount() != exits {
		t.Errorf("Expected %d state exits, got %d", exits, observer.StateExitCount())
	}
}

// AssertEnteredSequence checks the exact order of entered states
func AssertEnteredSequence(t *testing.T, observer *TestObserver, expected ...State) {
	t.Helper()
	got := observer.Entered()
	if len(got) != len(expected) {
		t.Errorf("Expected sequence %v, got %v", expected, got)
		return
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected sequence %v, got %v (first difference at %d)", expected, got, i)
			return
		}
	}
}
