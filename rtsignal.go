// Package rtsignal implements the control logic of a transit-priority dynamic signal:
// a timed automaton that animates a five-lamp head (left, middle, right, bottom, aux)
// for the bus or tram line currently detected by a roadside receiver.
//
// The package is organised around a single-threaded tick:
//
//	detections -> Tracker -> candidate line -> Automaton.Run -> LEDDriver
//
// Registry maps route numbers to a directional Mode, Tracker debounces presence and
// reports departures, Automaton sequences the 16 signal states and Controller wires
// them to a clock and a frame reader.
package rtsignal

import (
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "rtsignal")

// Milliseconds converts an integer to a time.Duration
func Milliseconds(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
