// Package clock provides the monotonic time source of the signal controller.
//
// Times are durations since the clock started; the automaton only ever compares
// them, so the epoch is irrelevant.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock returns the time elapsed since it started
type Clock interface {
	Now() time.Duration
}

// Monotonic reads the process monotonic clock
type Monotonic struct {
	start time.Time
}

// NewMonotonic creates a clock starting now
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// Now implements Clock
func (c *Monotonic) Now() time.Duration {
	return time.Since(c.start)
}

func (c *Monotonic) String() string {
	return format(c.Now())
}

// Manual only moves when told to. Tests and replays use it.
type Manual struct {
	mutex sync.RWMutex
	t     time.Duration
}

// NewManual creates a manual clock at start
func NewManual(start time.Duration) *Manual {
	return &Manual{t: start}
}

// Now implements Clock
func (c *Manual) Now() time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.t
}

// Advance moves the clock forward by d and returns the new time
func (c *Manual) Advance(d time.Duration) time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if d > 0 {
		c.t += d
	}
	return c.t
}

// Set moves the clock to t. Going backwards is ignored.
func (c *Manual) Set(t time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if t > c.t {
		c.t = t
	}
}

// String formats the current time as HH:MM:SS.mmm
func (c *Manual) String() string {
	return format(c.Now())
}

func format(d time.Duration) string {
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, int(d/time.Millisecond))
}
