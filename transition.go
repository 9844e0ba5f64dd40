package rtsignal

import (
	"fmt"
	"time"
)

// Input is everything Decide looks at
type Input struct {
	State        State
	Now          time.Duration
	Entered      time.Duration
	BlinkStarted time.Duration
	Plan         Plan
	Step         int
	// Departed is true when the held line is no longer present
	Departed bool
	// Candidate is true when an accepted line waits in S0
	Candidate bool
	// Conflict is true when a newer line of another mode waits behind the held one
	Conflict bool
}

// Decision is the outcome of one Decide step
type Decision struct {
	Next State
	Step int
	// At is the entry time of Next. For timed transitions it is the deadline, not Now.
	At      time.Duration
	Changed bool
	// Reset marks a departure-triggered return to S0
	Reset bool
	Fault error
}

// Decide is the transition function of the automaton. It is pure: the same input
// always yields the same decision, and it never touches outputs.
func Decide(in Input, timing Timing) Decision {
	stay := Decision{Next: in.State, Step: in.Step, At: in.Entered}

	if !in.State.IsValid() {
		return fault(in, "unknown state")
	}

	if in.Departed && in.State != S0Idle {
		return Decision{Next: S0Idle, At: in.Now, Changed: true, Reset: true}
	}

	switch in.State {
	case S0Idle:
		if in.Candidate {
			return Decision{Next: S1Wait, At: in.Now, Changed: true}
		}

	case S1Wait:
		if end := in.Entered + timing.Wait; in.Now >= end {
			return Decision{Next: S2BlinkingOn, At: end, Changed: true}
		}

	case S2BlinkingOn, S3BlinkingOff:
		blinkEnd := in.BlinkStarted + timing.Blinking
		nextToggle := in.Entered + timing.BlinkHalfPeriod
		if in.Now >= blinkEnd && blinkEnd <= nextToggle {
			if in.Plan.IsEmpty() {
				return fault(in, "blinking ended without a plan")
			}
			return Decision{Next: in.Plan.Phases[0].State, Step: 0, At: blinkEnd, Changed: true}
		}
		if in.Now >= nextToggle {
			next := S3BlinkingOff
			if in.State == S3BlinkingOff {
				next = S2BlinkingOn
			}
			return Decision{Next: next, At: nextToggle, Changed: true}
		}

	case S13Inhibit, S14InhibitAllMode:
		dwell := timing.Inhibit
		if in.State == S14InhibitAllMode {
			dwell = timing.InhibitAllMode
		}
		if end := in.Entered + dwell; in.Now >= end {
			return Decision{Next: S0Idle, At: end, Changed: true}
		}

	default:
		if in.Step < 0 || in.Step >= in.Plan.Len() {
			return fault(in, fmt.Sprintf("plan step %d out of range", in.Step))
		}
		phase := in.Plan.Phases[in.Step]
		if phase.State != in.State {
			return fault(in, fmt.Sprintf("plan step %d is %s", in.Step, phase.State))
		}
		end := in.Entered + phase.Dwell
		if in.Now < end {
			break
		}
		if in.Step+1 < in.Plan.Len() {
			return Decision{Next: in.Plan.Phases[in.Step+1].State, Step: in.Step + 1, At: end, Changed: true}
		}
		if in.Plan.Inhibit == S14InhibitAllMode || in.Conflict {
			return Decision{Next: in.Plan.Inhibit, Step: in.Plan.Len(), At: end, Changed: true}
		}
		return Decision{Next: S0Idle, At: end, Changed: true}
	}

	return stay
}

func fault(in Input, reason string) Decision {
	return Decision{
		Next:    S0Idle,
		At:      in.Now,
		Changed: true,
		Fault:   NewLogicFaultError(in.State, reason),
	}
}

// Edge is one arc of the automaton graph
type Edge struct {
	From  State
	To    State
	Label string
}

// Graph lists every transition the automaton can take
func Graph() []Edge {
	edges := []Edge{
		{S0Idle, S1Wait, "line detected"},
		{S1Wait, S2BlinkingOn, "wait"},
		{S2BlinkingOn, S3BlinkingOff, "blink half period"},
		{S3BlinkingOff, S2BlinkingOn, "blink half period"},
	}

	seen := make(map[[2]State]bool)
	add := func(from, to State, label string) {
		key := [2]State{from, to}
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, Edge{from, to, label})
	}

	timing := DefaultTiming()
	for _, mode := range []Mode{ModeIndividual, ModeLeftForwardAndRight, ModeForwardRightAndLeft, ModeLeftRightAndForward, ModeUniversal} {
		for _, info := range graphInfos(mode) {
			plan, err := PlanFor(info, timing)
			if err != nil {
				continue
			}
			add(S2BlinkingOn, plan.Phases[0].State, "blinking over")
			add(S3BlinkingOff, plan.Phases[0].State, "blinking over")
			for i := 0; i+1 < plan.Len(); i++ {
				add(plan.Phases[i].State, plan.Phases[i+1].State, mode.String())
			}
			add(plan.Phases[plan.Len()-1].State, plan.Inhibit, "plan done")
		}
	}
	add(S13Inhibit, S0Idle, "inhibit over")
	add(S14InhibitAllMode, S0Idle, "inhibit over")

	for _, s := range AllStates() {
		if s.RequiresLine() || s == S1Wait {
			add(s, S0Idle, "departure")
		}
	}
	return edges
}

// graphInfos enumerates the simple and extended variants of a mode
func graphInfos(mode Mode) []LineInfo {
	var infos []LineInfo
	dirs := []Direction{DirectionLeft, DirectionForward, DirectionRight}
	for _, extended := range []bool{false, true} {
		var devs []DeviationSpec
		if extended {
			for _, d := range dirs {
				devs = append(devs, DeviationSpec{Name: Deviation(d.String()), Direction: d})
			}
		}
		if mode == ModeIndividual {
			for _, d := range dirs {
				infos = append(infos, LineInfo{Mode: mode, Direction: d, Deviations: devs})
			}
			continue
		}
		infos = append(infos, LineInfo{Mode: mode, Deviations: devs})
	}
	return infos
}
