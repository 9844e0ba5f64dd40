package rtsignal

import (
	"fmt"
	"strings"
)

// Mode classifies how a line's directional signal is animated
type Mode int

const (
	// ModeIndividual lights a single direction
	ModeIndividual Mode = iota
	// ModeLeftForwardAndRight sweeps left, forward, right
	ModeLeftForwardAndRight
	// ModeForwardRightAndLeft sweeps forward, right, left
	ModeForwardRightAndLeft
	// ModeLeftRightAndForward sweeps left, right, forward
	ModeLeftRightAndForward
	// ModeUniversal lights every direction together
	ModeUniversal
)

var modeNames = map[Mode]string{
	ModeIndividual:          "individual",
	ModeLeftForwardAndRight: "left_forward_and_right",
	ModeForwardRightAndLeft: "forward_right_and_left",
	ModeLeftRightAndForward: "left_right_and_forward",
	ModeUniversal:           "universal",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// IsValid reports whether m is one of the five modes
func (m Mode) IsValid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode parses a mode name as written in site files
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// UnmarshalYAML decodes a mode from its name
func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML encodes a mode as its name
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Direction is one leg of the signal head
type Direction int

const (
	// NoDirection is used by routes whose mode does not need one
	NoDirection Direction = iota
	DirectionLeft
	DirectionForward
	DirectionRight
)

var directionNames = map[Direction]string{
	NoDirection:      "",
	DirectionLeft:    "left",
	DirectionForward: "forward",
	DirectionRight:   "right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		if name == "" {
			return "none"
		}
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses left, forward or right. An empty string yields NoDirection.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return NoDirection, fmt.Errorf("unknown direction %q", s)
}

// UnmarshalYAML decodes a direction from its name
func (d *Direction) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes a direction as its name
func (d Direction) MarshalYAML() (interface{}, error) {
	return directionNames[d], nil
}
