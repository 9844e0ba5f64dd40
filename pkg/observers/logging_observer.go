// Package observers provides observers for monitoring the signal automaton
package observers

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/anggasct/rtsignal"
)

// LoggingObserver logs automaton events through logrus
type LoggingObserver struct {
	entry *logrus.Entry
	level logrus.Level
	mutex sync.RWMutex
}

// NewLoggingObserver creates a new logging observer. Transitions and state changes
// are logged at level; departures at info, errors at warn and faults at error.
func NewLoggingObserver(entry *logrus.Entry, level logrus.Level) *LoggingObserver {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LoggingObserver{
		entry: entry,
		level: level,
	}
}

// SetLevel sets the level used for transitions
func (o *LoggingObserver) SetLevel(level logrus.Level) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.level = level
}

func (o *LoggingObserver) with(ctx *rtsignal.AutomatonContext) (*logrus.Entry, logrus.Level) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	entry := o.entry
	if ctx != nil {
		entry = entry.WithField("at", ctx.Entered)
		if line := ctx.HeldLine(); line.IsValid() {
			entry = entry.WithField("line", line.String())
		}
	}
	return entry, o.level
}

// OnTransition logs transitions
func (o *LoggingObserver) OnTransition(from, to rtsignal.State, ctx *rtsignal.AutomatonContext) {
	entry, level := o.with(ctx)
	entry.Logf(level, "Transition: %s -> %s", from, to)
}

// OnStateEnter logs state entry with the pattern it drives
func (o *LoggingObserver) OnStateEnter(state rtsignal.State, ctx *rtsignal.AutomatonContext) {
	entry, _ := o.with(ctx)
	entry.Tracef("Entering state: %s (%s)", state, state.Pattern())
}

// OnStateExit logs state exit
func (o *LoggingObserver) OnStateExit(state rtsignal.State, ctx *rtsignal.AutomatonContext) {
	entry, _ := o.with(ctx)
	entry.Tracef("Exiting state: %s", state)
}

// OnHyperstateLeave logs the output clear between hyperstates
func (o *LoggingObserver) OnHyperstateLeave(h rtsignal.Hyperstate, ctx *rtsignal.AutomatonContext) {
	entry, level := o.with(ctx)
	entry.Logf(level, "Leaving %s, outputs cleared", h)
}

// OnDeparture logs departures
func (o *LoggingObserver) OnDeparture(line rtsignal.Line, ctx *rtsignal.AutomatonContext) {
	entry, _ := o.with(ctx)
	entry.Infof("Line %s departed", line)
}

// OnFault logs logic faults
func (o *LoggingObserver) OnFault(err error, ctx *rtsignal.AutomatonContext) {
	entry, _ := o.with(ctx)
	entry.WithError(err).Error("Logic fault, automaton reset")
}

// OnError logs recoverable errors
func (o *LoggingObserver) OnError(err error, ctx *rtsignal.AutomatonContext) {
	entry, _ := o.with(ctx)
	entry.WithError(err).Warn("Error")
}
