package rtsignal

import "fmt"

// Observer represents an entity that observes the automaton
type Observer interface {
	// Required methods

	// OnTransition is called after the automaton moved from one state to another
	OnTransition(from State, to State, ctx *AutomatonContext)

	// OnStateEnter is called when entering a new state
	OnStateEnter(state State, ctx *AutomatonContext)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStateExit is called when exiting a state
	OnStateExit(state State, ctx *AutomatonContext)

	// OnHyperstateLeave is called after the outputs were cleared on leaving a hyperstate
	OnHyperstateLeave(hyperstate Hyperstate, ctx *AutomatonContext)

	// OnDeparture is called when the held line left the detection zone
	OnDeparture(line Line, ctx *AutomatonContext)

	// OnFault is called when a logic fault forced a reset
	OnFault(err error, ctx *AutomatonContext)

	// OnError is called for recoverable errors (driver writes, rejected lines)
	OnError(err error, ctx *AutomatonContext)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(from State, to State, ctx *AutomatonContext) {}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(state State, ctx *AutomatonContext) {}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(state State, ctx *AutomatonContext) {}

// OnHyperstateLeave implements the optional ExtendedObserver method
func (o *BaseObserver) OnHyperstateLeave(hyperstate Hyperstate, ctx *AutomatonContext) {}

// OnDeparture implements the optional ExtendedObserver method
func (o *BaseObserver) OnDeparture(line Line, ctx *AutomatonContext) {}

// OnFault implements the optional ExtendedObserver method
func (o *BaseObserver) OnFault(err error, ctx *AutomatonContext) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error, ctx *AutomatonContext) {}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// each calls fn for every observer. A panicking observer is reported to its own
// OnError when it has one and never reaches the caller.
func (om *ObserverManager) each(method string, ctx *AutomatonContext, fn func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Warnf("observer panic in %s: %v", method, r)
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { recover() }()
							extObs.OnError(fmt.Errorf("observer panic in %s: %v", method, r), ctx)
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

// eachExtended is each restricted to ExtendedObserver implementations
func (om *ObserverManager) eachExtended(method string, ctx *AutomatonContext, fn func(ExtendedObserver)) {
	om.each(method, ctx, func(observer Observer) {
		if extObs, ok := observer.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyTransition notifies all observers of a state transition
func (om *ObserverManager) NotifyTransition(from State, to State, ctx *AutomatonContext) {
	om.each("OnTransition", ctx, func(o Observer) { o.OnTransition(from, to, ctx) })
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(state State, ctx *AutomatonContext) {
	om.each("OnStateEnter", ctx, func(o Observer) { o.OnStateEnter(state, ctx) })
}

// NotifyStateExit notifies all observers of state exit
func (om *ObserverManager) NotifyStateExit(state State, ctx *AutomatonContext) {
	om.eachExtended("OnStateExit", ctx, func(o ExtendedObserver) { o.OnStateExit(state, ctx) })
}

// NotifyHyperstateLeave notifies all observers that a hyperstate was left
func (om *ObserverManager) NotifyHyperstateLeave(hyperstate Hyperstate, ctx *AutomatonContext) {
	om.eachExtended("OnHyperstateLeave", ctx, func(o ExtendedObserver) { o.OnHyperstateLeave(hyperstate, ctx) })
}

// NotifyDeparture notifies all observers of a line departure
func (om *ObserverManager) NotifyDeparture(line Line, ctx *AutomatonContext) {
	om.eachExtended("OnDeparture", ctx, func(o ExtendedObserver) { o.OnDeparture(line, ctx) })
}

// NotifyFault notifies all observers of a logic fault
func (om *ObserverManager) NotifyFault(err error, ctx *AutomatonContext) {
	om.eachExtended("OnFault", ctx, func(o ExtendedObserver) { o.OnFault(err, ctx) })
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(err error, ctx *AutomatonContext) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(err, ctx)
			}()
		}
	}
}
