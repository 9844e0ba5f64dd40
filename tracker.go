package rtsignal

import (
	"github.com/samber/lo"
)

const (
	// DefaultTrackerCapacity bounds the active line set
	DefaultTrackerCapacity = 8
	// DefaultDeparturePolls is the number of empty poll windows before a line departs
	DefaultDeparturePolls = 3
)

type trackedEntry struct {
	line     Line
	misses   int
	hit      bool
	signaled bool
}

// Tracker keeps the set of lines currently in the detection zone. A line leaves the
// set once DeparturePolls consecutive poll windows closed without detecting it, so a
// short detection gap never resets the signal.
type Tracker struct {
	entries        []*trackedEntry
	capacity       int
	departurePolls int
	held           Line
}

// NewTracker creates a tracker. Non-positive arguments select the defaults.
func NewTracker(capacity, departurePolls int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultTrackerCapacity
	}
	if departurePolls <= 0 {
		departurePolls = DefaultDeparturePolls
	}
	return &Tracker{
		entries:        make([]*trackedEntry, 0, capacity),
		capacity:       capacity,
		departurePolls: departurePolls,
	}
}

func (t *Tracker) find(line Line) (*trackedEntry, int) {
	for i, e := range t.entries {
		if e.line == line {
			return e, i
		}
	}
	return nil, -1
}

// Detect records a detection of line in the current poll window. When the set is
// full and every entry is protected, the new line is dropped; it is inserted on a
// later detection once room is made.
func (t *Tracker) Detect(line Line) {
	if !line.IsValid() {
		return
	}
	if e, _ := t.find(line); e != nil {
		e.hit = true
		e.misses = 0
		return
	}
	if len(t.entries) >= t.capacity && !t.evict() {
		log.Warnf("tracker full, dropping detection of %s", line)
		return
	}
	t.entries = append(t.entries, &trackedEntry{line: line, hit: true})
}

// Hold protects line from eviction while the automaton animates it. NoLine releases it.
func (t *Tracker) Hold(line Line) {
	t.held = line
}

// evict drops the oldest signaled entry, or else the oldest entry, among those not
// detected in the current poll window and not held. It reports whether room was made.
func (t *Tracker) evict() bool {
	evictable := func(e *trackedEntry) bool {
		return !e.hit && !(t.held.IsValid() && e.line == t.held)
	}
	_, idx, ok := lo.FindIndexOf(t.entries, func(e *trackedEntry) bool { return evictable(e) && e.signaled })
	if !ok {
		_, idx, ok = lo.FindIndexOf(t.entries, evictable)
	}
	if !ok {
		return false
	}
	log.Debugf("tracker full, evicting %s", t.entries[idx].line)
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	return true
}

// ClosePoll ends the current poll window and returns the lines that departed
func (t *Tracker) ClosePoll() []Line {
	var departed []Line
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.hit {
			e.hit = false
			e.misses = 0
		} else {
			e.misses++
		}
		if e.misses >= t.departurePolls {
			departed = append(departed, e.line)
			continue
		}
		kept = append(kept, e)
	}
	t.entries = kept
	return departed
}

// IsPresent reports whether line is in the active set
func (t *Tracker) IsPresent(line Line) bool {
	e, _ := t.find(line)
	return e != nil
}

// CheckDeparture reports whether a real line is no longer present
func (t *Tracker) CheckDeparture(line Line) bool {
	return line.IsValid() && !t.IsPresent(line)
}

// Candidate returns the most recently inserted line not yet signaled
func (t *Tracker) Candidate() Line {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if !t.entries[i].signaled {
			return t.entries[i].line
		}
	}
	return NoLine
}

// MarkSignaled records that line got its sequence. It stays tracked until it departs.
func (t *Tracker) MarkSignaled(line Line) {
	if e, _ := t.find(line); e != nil {
		e.signaled = true
	}
}

// Misses returns the consecutive empty poll windows of line, or -1 if not tracked
func (t *Tracker) Misses(line Line) int {
	if e, _ := t.find(line); e != nil {
		return e.misses
	}
	return -1
}

// Active returns the tracked lines in insertion order
func (t *Tracker) Active() []Line {
	return lo.Map(t.entries, func(e *trackedEntry, _ int) Line { return e.line })
}

// Len returns the number of tracked lines
func (t *Tracker) Len() int {
	return len(t.entries)
}
