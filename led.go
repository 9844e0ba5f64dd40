package rtsignal

import (
	"fmt"
	"strings"
	"sync"
)

// Output is one of the five lamps of the signal head
type Output int

const (
	OutputLeft Output = iota
	OutputMiddle
	OutputRight
	OutputBottom
	OutputAux

	outputCount
)

var outputNames = [outputCount]string{"LEFT", "MIDDLE", "RIGHT", "BOTTOM", "AUX"}

func (o Output) String() string {
	if o >= 0 && o < outputCount {
		return outputNames[o]
	}
	return fmt.Sprintf("Output(%d)", int(o))
}

// AllOutputs lists the outputs in pin order
func AllOutputs() []Output {
	return []Output{OutputLeft, OutputMiddle, OutputRight, OutputBottom, OutputAux}
}

// Pattern is a bitmask of lit outputs
type Pattern uint8

// PatternOff has every output dark
const PatternOff Pattern = 0

// PatternOf builds a pattern lighting the given outputs
func PatternOf(outputs ...Output) Pattern {
	var p Pattern
	for _, o := range outputs {
		p |= 1 << uint(o)
	}
	return p
}

// Has reports whether o is lit in p
func (p Pattern) Has(o Output) bool {
	return p&(1<<uint(o)) != 0
}

// Outputs returns the lit outputs in pin order
func (p Pattern) Outputs() []Output {
	var lit []Output
	for _, o := range AllOutputs() {
		if p.Has(o) {
			lit = append(lit, o)
		}
	}
	return lit
}

func (p Pattern) String() string {
	lit := p.Outputs()
	if len(lit) == 0 {
		return "off"
	}
	names := make([]string, len(lit))
	for i, o := range lit {
		names[i] = o.String()
	}
	return strings.Join(names, "+")
}

var statePatterns = map[State]Pattern{
	S0Idle:              PatternOff,
	S1Wait:              PatternOff,
	S2BlinkingOn:        PatternOf(OutputMiddle),
	S3BlinkingOff:       PatternOff,
	S4Left:              PatternOf(OutputLeft, OutputBottom),
	S5ExtendedLeft:      PatternOf(OutputLeft, OutputBottom, OutputAux),
	S6LeftForward:       PatternOf(OutputLeft, OutputMiddle, OutputBottom),
	S7Forward:           PatternOf(OutputMiddle, OutputBottom),
	S8ExtendedForward:   PatternOf(OutputMiddle, OutputBottom, OutputAux),
	S9ForwardRight:      PatternOf(OutputMiddle, OutputRight, OutputBottom),
	S10Right:            PatternOf(OutputRight, OutputBottom),
	S11ExtendedRight:    PatternOf(OutputRight, OutputBottom, OutputAux),
	S12LeftRight:        PatternOf(OutputLeft, OutputRight, OutputBottom),
	S13Inhibit:          PatternOff,
	S14InhibitAllMode:   PatternOff,
	S15LeftForwardRight: PatternOf(OutputLeft, OutputMiddle, OutputRight, OutputBottom),
}

// Pattern returns the outputs lit while in s. Unknown states are dark.
func (s State) Pattern() Pattern {
	return statePatterns[s]
}

// LEDDriver sets physical output levels
type LEDDriver interface {
	Set(output Output, on bool) error
}

// PinWrite records one call to LEDBank.Set
type PinWrite struct {
	Output Output
	On     bool
}

// LEDBank is an in-memory LEDDriver. It records every write, which makes it the
// driver of choice for tests and dry runs.
type LEDBank struct {
	mutex  sync.RWMutex
	levels [outputCount]bool
	writes []PinWrite
	fail   map[Output]error
}

// NewLEDBank creates a bank with every output off
func NewLEDBank() *LEDBank {
	return &LEDBank{
		writes: make([]PinWrite, 0),
		fail:   make(map[Output]error),
	}
}

// Set implements LEDDriver
func (b *LEDBank) Set(output Output, on bool) error {
	if output < 0 || output >= outputCount {
		return fmt.Errorf("unknown output %d", int(output))
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.fail[output]; err != nil {
		return err
	}
	b.levels[output] = on
	b.writes = append(b.writes, PinWrite{Output: output, On: on})
	return nil
}

// FailOn makes every later write to output return err. A nil err clears it.
func (b *LEDBank) FailOn(output Output, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err == nil {
		delete(b.fail, output)
		return
	}
	b.fail[output] = err
}

// IsOn returns the current level of output
func (b *LEDBank) IsOn(output Output) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.levels[output]
}

// Pattern returns the current levels as a pattern
func (b *LEDBank) Pattern() Pattern {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	var p Pattern
	for o, on := range b.levels {
		if on {
			p |= 1 << uint(o)
		}
	}
	return p
}

// Writes returns a copy of the write log
func (b *LEDBank) Writes() []PinWrite {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	out := make([]PinWrite, len(b.writes))
	copy(out, b.writes)
	return out
}

// ResetWrites clears the write log, keeping levels
func (b *LEDBank) ResetWrites() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writes = b.writes[:0]
}

// applyPattern drives every output to its level in p. All outputs are written even
// when one fails; the first error is returned.
func applyPattern(driver LEDDriver, p Pattern) error {
	var first error
	for _, o := range AllOutputs() {
		if err := driver.Set(o, p.Has(o)); err != nil && first == nil {
			first = NewDriverError(o, err)
		}
	}
	return first
}
