package rtsignal

import (
	"fmt"
	"time"
)

// AutomatonContext is the mutable state of one signal head. The polling loop owns it
// and passes it to Automaton.Run on every tick; nothing else may mutate it.
type AutomatonContext struct {
	State State
	// Entered is the deadline-based entry time of State
	Entered time.Duration
	// BlinkStarted is when S2 was first entered for the current line
	BlinkStarted time.Duration
	// Now is the tick time of the last Run
	Now time.Duration

	// Candidate is the line accepted in S0 and held during S1
	Candidate Line
	// Tracked is the line being animated, set on leaving S1
	Tracked Line
	Info    LineInfo
	Plan    Plan
	Step    int
}

// NewAutomatonContext creates a context idling at time zero
func NewAutomatonContext() *AutomatonContext {
	return &AutomatonContext{
		State:     S0Idle,
		Candidate: NoLine,
		Tracked:   NoLine,
	}
}

// HeldLine returns the line the current state is held for, or NoLine
func (c *AutomatonContext) HeldLine() Line {
	if c.Tracked.IsValid() {
		return c.Tracked
	}
	return c.Candidate
}

// Elapsed returns the time spent in the current state
func (c *AutomatonContext) Elapsed() time.Duration {
	return c.Now - c.Entered
}

// CurrentPhase returns the plan phase being shown. The bool is false outside the
// directional hyperstate.
func (c *AutomatonContext) CurrentPhase() (Phase, bool) {
	if !c.State.IsDirectional() || c.Step < 0 || c.Step >= c.Plan.Len() {
		return Phase{}, false
	}
	return c.Plan.Phases[c.Step], true
}

func (c *AutomatonContext) clearLine() {
	c.Candidate = NoLine
	c.Tracked = NoLine
	c.Info = LineInfo{}
	c.Plan = Plan{}
	c.Step = 0
}

func (c *AutomatonContext) String() string {
	return fmt.Sprintf("%s since %s (line %s, step %d)", c.State, c.Entered, c.HeldLine(), c.Step)
}
