package rtsignal

import "fmt"

// State is one of the 16 automaton states
type State int

const (
	S0Idle State = iota
	S1Wait
	S2BlinkingOn
	S3BlinkingOff
	S4Left
	S5ExtendedLeft
	S6LeftForward
	S7Forward
	S8ExtendedForward
	S9ForwardRight
	S10Right
	S11ExtendedRight
	S12LeftRight
	S13Inhibit
	S14InhibitAllMode
	S15LeftForwardRight

	stateCount
)

var stateNames = [stateCount]string{
	"S0_IDLE",
	"S1_WAIT",
	"S2_BLINKING_ON",
	"S3_BLINKING_OFF",
	"S4_LEFT",
	"S5_EXTENDED_LEFT",
	"S6_LEFT_FORWARD",
	"S7_FORWARD",
	"S8_EXTENDED_FORWARD",
	"S9_FORWARD_RIGHT",
	"S10_RIGHT",
	"S11_EXTENDED_RIGHT",
	"S12_LEFT_RIGHT",
	"S13_INHIBIT",
	"S14_INHIBIT_ALL_MODE",
	"S15_LEFT_FORWARD_RIGHT",
}

func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsValid reports whether s is a known state
func (s State) IsValid() bool {
	return s >= S0Idle && s < stateCount
}

// AllStates lists every state in declaration order
func AllStates() []State {
	states := make([]State, 0, stateCount)
	for s := S0Idle; s < stateCount; s++ {
		states = append(states, s)
	}
	return states
}

// Hyperstate groups states that share the same exit cleanup
type Hyperstate int

const (
	HyperIdle Hyperstate = iota
	HyperWait
	HyperBlinking
	HyperDirectional
	HyperInhibit
	HyperUnknown
)

var hyperstateNames = map[Hyperstate]string{
	HyperIdle:        "idle",
	HyperWait:        "wait",
	HyperBlinking:    "blinking",
	HyperDirectional: "directional",
	HyperInhibit:     "inhibit",
	HyperUnknown:     "unknown",
}

func (h Hyperstate) String() string {
	return hyperstateNames[h]
}

// Hyperstate returns the group s belongs to
func (s State) Hyperstate() Hyperstate {
	switch s {
	case S0Idle:
		return HyperIdle
	case S1Wait:
		return HyperWait
	case S2BlinkingOn, S3BlinkingOff:
		return HyperBlinking
	case S4Left, S5ExtendedLeft, S6LeftForward, S7Forward, S8ExtendedForward,
		S9ForwardRight, S10Right, S11ExtendedRight, S12LeftRight, S15LeftForwardRight:
		return HyperDirectional
	case S13Inhibit, S14InhibitAllMode:
		return HyperInhibit
	default:
		return HyperUnknown
	}
}

// IsDirectional reports whether s lights a direction
func (s State) IsDirectional() bool {
	return s.Hyperstate() == HyperDirectional
}

// IsInhibit reports whether s is S13 or S14
func (s State) IsInhibit() bool {
	return s.Hyperstate() == HyperInhibit
}

// IsCombined reports whether s lights more than one direction
func (s State) IsCombined() bool {
	switch s {
	case S6LeftForward, S9ForwardRight, S12LeftRight, S15LeftForwardRight:
		return true
	}
	return false
}

// RequiresLine reports whether s can only be held while a line is tracked
func (s State) RequiresLine() bool {
	return s != S0Idle && s != S1Wait
}
