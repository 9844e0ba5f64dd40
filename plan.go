package rtsignal

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one directional state of a plan and how long it is held
type Phase struct {
	State State
	Dwell time.Duration
}

// Plan is the directional sequence derived for a tracked line
type Plan struct {
	Mode    Mode
	Phases  []Phase
	// Inhibit is entered when the plan ends: always for universal, otherwise only
	// when a line of another mode waits.
	Inhibit State
}

// Len returns the number of phases
func (p Plan) Len() int {
	return len(p.Phases)
}

// IsEmpty reports whether the plan has no phase
func (p Plan) IsEmpty() bool {
	return len(p.Phases) == 0
}

// InhibitDwell returns the dwell of the plan's inhibit state
func (p Plan) InhibitDwell(timing Timing) time.Duration {
	if p.Inhibit == S14InhibitAllMode {
		return timing.InhibitAllMode
	}
	return timing.Inhibit
}

// Duration is the total directional time of the plan
func (p Plan) Duration() time.Duration {
	var total time.Duration
	for _, ph := range p.Phases {
		total += ph.Dwell
	}
	return total
}

func (p Plan) String() string {
	parts := make([]string, len(p.Phases))
	for i, ph := range p.Phases {
		parts[i] = fmt.Sprintf("%s(%s)", ph.State, ph.Dwell)
	}
	return fmt.Sprintf("%s: %s -> %s", p.Mode, strings.Join(parts, " -> "), p.Inhibit)
}

// leg is one simple direction of a sweep
type leg struct {
	dir Direction
}

// overlap is the combined state shown between two legs
type overlap struct {
	state State
}

var sweeps = map[Mode][]interface{}{
	ModeLeftForwardAndRight: {
		leg{DirectionLeft}, overlap{S6LeftForward},
		leg{DirectionForward}, overlap{S9ForwardRight},
		leg{DirectionRight},
	},
	ModeForwardRightAndLeft: {
		leg{DirectionForward}, overlap{S9ForwardRight},
		leg{DirectionRight}, overlap{S12LeftRight},
		leg{DirectionLeft},
	},
	ModeLeftRightAndForward: {
		leg{DirectionLeft}, overlap{S12LeftRight},
		leg{DirectionRight}, overlap{S9ForwardRight},
		leg{DirectionForward},
	},
}

// PlanFor derives the directional plan of a line from its mode, direction and
// deviations.
func PlanFor(info LineInfo, timing Timing) (Plan, error) {
	plan := Plan{Mode: info.Mode, Inhibit: S13Inhibit}

	switch info.Mode {
	case ModeIndividual:
		if info.Direction == NoDirection {
			return Plan{}, NewLogicFaultError(S0Idle, fmt.Sprintf("individual line %s has no direction", info.Line))
		}
		plan.Phases = []Phase{legPhase(info, info.Direction, timing)}
	case ModeUniversal:
		plan.Phases = []Phase{{State: S15LeftForwardRight, Dwell: timing.AllDirectionsPhase}}
		plan.Inhibit = S14InhibitAllMode
	case ModeLeftForwardAndRight, ModeForwardRightAndLeft, ModeLeftRightAndForward:
		for _, step := range sweeps[info.Mode] {
			switch s := step.(type) {
			case leg:
				plan.Phases = append(plan.Phases, legPhase(info, s.dir, timing))
			case overlap:
				plan.Phases = append(plan.Phases, Phase{State: s.state, Dwell: timing.OverlapPhase})
			}
		}
	default:
		return Plan{}, NewLogicFaultError(S0Idle, fmt.Sprintf("no plan for mode %s", info.Mode))
	}

	return plan, nil
}

// legPhase returns the simple or extended phase for dir
func legPhase(info LineInfo, dir Direction, timing Timing) Phase {
	var simple, extended State
	var base, defaultExtra time.Duration
	switch dir {
	case DirectionLeft:
		simple, extended = S4Left, S5ExtendedLeft
		base, defaultExtra = timing.TurnPhase, timing.ExtendedTurn
	case DirectionForward:
		simple, extended = S7Forward, S8ExtendedForward
		base, defaultExtra = timing.ForwardPhase, timing.ExtendedForward
	default:
		simple, extended = S10Right, S11ExtendedRight
		base, defaultExtra = timing.TurnPhase, timing.ExtendedTurn
	}

	extra, ok := info.Extension(dir, defaultExtra)
	if !ok {
		return Phase{State: simple, Dwell: base}
	}
	return Phase{State: extended, Dwell: base + extra}
}
