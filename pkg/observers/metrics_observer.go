package observers

import (
	"sync"
	"time"

	"github.com/anggasct/rtsignal"
)

// MetricsObserver collects counters about automaton execution. Durations are
// measured on the automaton clock, so catch-up transitions are accounted exactly.
type MetricsObserver struct {
	stateVisits      map[rtsignal.State]int
	stateTimeSpent   map[rtsignal.State]time.Duration
	transitionCounts map[string]int
	sequences        int
	departures       int
	faults           int
	errorCount       int
	lastEntered      time.Duration
	hasEntered       bool
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		stateVisits:      make(map[rtsignal.State]int),
		stateTimeSpent:   make(map[rtsignal.State]time.Duration),
		transitionCounts: make(map[string]int),
	}
}

// OnStateEnter records state entry metrics
func (o *MetricsObserver) OnStateEnter(state rtsignal.State, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits[state]++
	o.lastEntered = ctx.Entered
	o.hasEntered = true
}

// OnStateExit is a no-op, dwell time is accounted on the transition
func (o *MetricsObserver) OnStateExit(state rtsignal.State, ctx *rtsignal.AutomatonContext) {}

// OnTransition records transition metrics
func (o *MetricsObserver) OnTransition(from, to rtsignal.State, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.hasEntered {
		o.stateTimeSpent[from] += ctx.Entered - o.lastEntered
	}
	o.transitionCounts[from.String()+"->"+to.String()]++
	if from == rtsignal.S1Wait && to == rtsignal.S2BlinkingOn {
		o.sequences++
	}
}

// OnHyperstateLeave is a no-op
func (o *MetricsObserver) OnHyperstateLeave(h rtsignal.Hyperstate, ctx *rtsignal.AutomatonContext) {}

// OnDeparture counts departures
func (o *MetricsObserver) OnDeparture(line rtsignal.Line, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.departures++
}

// OnFault counts logic faults
func (o *MetricsObserver) OnFault(err error, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.faults++
}

// OnError counts recoverable errors
func (o *MetricsObserver) OnError(err error, ctx *rtsignal.AutomatonContext) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCount++
}

// GetStateVisitCounts returns the number of times each state was entered
func (o *MetricsObserver) GetStateVisitCounts() map[rtsignal.State]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[rtsignal.State]int, len(o.stateVisits))
	for state, count := range o.stateVisits {
		result[state] = count
	}
	return result
}

// GetStateTimeSpent returns the time spent in each state that was left at least once
func (o *MetricsObserver) GetStateTimeSpent() map[rtsignal.State]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[rtsignal.State]time.Duration, len(o.stateTimeSpent))
	for state, d := range o.stateTimeSpent {
		result[state] = d
	}
	return result
}

// GetTransitionCounts returns the number of times each transition occurred, keyed "FROM->TO"
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int, len(o.transitionCounts))
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GetSequenceCount returns the number of signaling sequences started
func (o *MetricsObserver) GetSequenceCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.sequences
}

// GetDepartureCount returns the number of departures seen
func (o *MetricsObserver) GetDepartureCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.departures
}

// GetFaultCount returns the number of logic faults
func (o *MetricsObserver) GetFaultCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.faults
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits = make(map[rtsignal.State]int)
	o.stateTimeSpent = make(map[rtsignal.State]time.Duration)
	o.transitionCounts = make(map[string]int)
	o.sequences = 0
	o.departures = 0
	o.faults = 0
	o.errorCount = 0
	o.hasEntered = false
}
