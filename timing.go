package rtsignal

import "time"

// Timing holds every dwell of the automaton
type Timing struct {
	// settle dwell in S1
	Wait time.Duration `yaml:"wait"`
	// S2 <-> S3 toggle period
	BlinkHalfPeriod time.Duration `yaml:"blink_half_period"`
	// total blinking time, measured from the first S2 entry
	Blinking        time.Duration `yaml:"blinking"`
	ForwardPhase    time.Duration `yaml:"forward_phase"`
	ExtendedForward time.Duration `yaml:"extended_forward_phase"`
	TurnPhase       time.Duration `yaml:"turn_phase"`
	ExtendedTurn    time.Duration `yaml:"extended_turn_phase"`
	// S6, S9 and S12 between two legs
	OverlapPhase       time.Duration `yaml:"overlap_phase"`
	AllDirectionsPhase time.Duration `yaml:"all_directions_phase"`
	Inhibit            time.Duration `yaml:"inhibit"`
	InhibitAllMode     time.Duration `yaml:"inhibit_all_mode"`
}

// DefaultTiming returns the factory dwells
func DefaultTiming() Timing {
	return Timing{
		Wait:               0,
		BlinkHalfPeriod:    500 * time.Millisecond,
		Blinking:           4000 * time.Millisecond,
		ForwardPhase:       12000 * time.Millisecond,
		ExtendedForward:    7000 * time.Millisecond,
		TurnPhase:          18000 * time.Millisecond,
		ExtendedTurn:       9000 * time.Millisecond,
		OverlapPhase:       1000 * time.Millisecond,
		AllDirectionsPhase: 25000 * time.Millisecond,
		Inhibit:            30000 * time.Millisecond,
		InhibitAllMode:     35000 * time.Millisecond,
	}
}

// Merge returns t with every zero field taken from defaults
func (t Timing) Merge(defaults Timing) Timing {
	pick := func(v, d time.Duration) time.Duration {
		if v == 0 {
			return d
		}
		return v
	}
	return Timing{
		Wait:               t.Wait,
		BlinkHalfPeriod:    pick(t.BlinkHalfPeriod, defaults.BlinkHalfPeriod),
		Blinking:           pick(t.Blinking, defaults.Blinking),
		ForwardPhase:       pick(t.ForwardPhase, defaults.ForwardPhase),
		ExtendedForward:    pick(t.ExtendedForward, defaults.ExtendedForward),
		TurnPhase:          pick(t.TurnPhase, defaults.TurnPhase),
		ExtendedTurn:       pick(t.ExtendedTurn, defaults.ExtendedTurn),
		OverlapPhase:       pick(t.OverlapPhase, defaults.OverlapPhase),
		AllDirectionsPhase: pick(t.AllDirectionsPhase, defaults.AllDirectionsPhase),
		Inhibit:            pick(t.Inhibit, defaults.Inhibit),
		InhibitAllMode:     pick(t.InhibitAllMode, defaults.InhibitAllMode),
	}
}

// Validate checks that every dwell can make progress
func (t Timing) Validate() error {
	if t.Wait < 0 {
		return NewConfigurationError("timing", "wait must not be negative")
	}
	if t.BlinkHalfPeriod <= 0 {
		return NewConfigurationError("timing", "blink_half_period must be positive")
	}
	if t.Blinking < t.BlinkHalfPeriod {
		return NewConfigurationError("timing", "blinking must last at least one half period")
	}
	for name, d := range map[string]time.Duration{
		"forward_phase":          t.ForwardPhase,
		"extended_forward_phase": t.ExtendedForward,
		"turn_phase":             t.TurnPhase,
		"extended_turn_phase":    t.ExtendedTurn,
		"overlap_phase":          t.OverlapPhase,
		"all_directions_phase":   t.AllDirectionsPhase,
		"inhibit":                t.Inhibit,
		"inhibit_all_mode":       t.InhibitAllMode,
	} {
		if d <= 0 {
			return NewConfigurationError("timing", name+" must be positive")
		}
	}
	return nil
}
