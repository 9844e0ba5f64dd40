package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/rtsignal"
)

// ValidationObserver checks every observed transition against the automaton graph
// and records the states that were never reached.
type ValidationObserver struct {
	expectedStates     map[rtsignal.State]bool
	visitedStates      map[rtsignal.State]bool
	allowedTransitions map[rtsignal.State]map[rtsignal.State]bool
	faulted            bool
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a validation observer allowing the edges of rtsignal.Graph
func NewValidationObserver() *ValidationObserver {
	o := &ValidationObserver{
		expectedStates:     make(map[rtsignal.State]bool),
		visitedStates:      make(map[rtsignal.State]bool),
		allowedTransitions: make(map[rtsignal.State]map[rtsignal.State]bool),
		violations:         make([]string, 0),
	}
	for _, e := range rtsignal.Graph() {
		o.AddAllowedTransition(e.From, e.To)
	}
	return o
}

// AddExpectedState adds a state that must be visited
func (o *ValidationObserver) AddExpectedState(states ...rtsignal.State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for _, s := range states {
		o.expectedStates[s] = true
	}
}

// AddAllowedTransition adds an allowed transition
func (o *ValidationObserver) AddAllowedTransition(from, to rtsignal.State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[rtsignal.State]bool)
	}
	o.allowedTransitions[from][to] = true
}

// OnStateEnter marks the state visited and checks that inhibit states stay dark
func (o *ValidationObserver) OnStateEnter(state rtsignal.State, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates[state] = true
	if state.IsInhibit() && state.Pattern() != rtsignal.PatternOff {
		o.violations = append(o.violations, fmt.Sprintf("inhibit state %s drives %s", state, state.Pattern()))
	}
}

// OnStateExit is a no-op
func (o *ValidationObserver) OnStateExit(state rtsignal.State, ctx *rtsignal.AutomatonContext) {}

// OnTransition validates transitions. A reset to S0 right after a fault is always allowed.
func (o *ValidationObserver) OnTransition(from, to rtsignal.State, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.faulted && to == rtsignal.S0Idle {
		o.faulted = false
		return
	}
	if !o.allowedTransitions[from][to] {
		o.violations = append(o.violations, fmt.Sprintf("Invalid transition from '%s' to '%s'", from, to))
	}
}

// OnHyperstateLeave is a no-op
func (o *ValidationObserver) OnHyperstateLeave(h rtsignal.Hyperstate, ctx *rtsignal.AutomatonContext) {}

// OnDeparture is a no-op, departure edges are part of the graph
func (o *ValidationObserver) OnDeparture(line rtsignal.Line, ctx *rtsignal.AutomatonContext) {}

// OnFault allows the following reset
func (o *ValidationObserver) OnFault(err error, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.faulted = true
}

// OnError is a no-op, recoverable errors are not violations
func (o *ValidationObserver) OnError(err error, ctx *rtsignal.AutomatonContext) {}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns states that were expected but not visited
func (o *ValidationObserver) GetUnvisitedStates() []rtsignal.State {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []rtsignal.State
	for _, state := range rtsignal.AllStates() {
		if o.expectedStates[state] && !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}
	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[rtsignal.State]bool)
	o.violations = make([]string, 0)
	o.faulted = false
}
