package rtsignal

import (
	"context"
	"time"

	"github.com/anggasct/rtsignal/clock"
)

const (
	// DefaultTickInterval is the polling loop period
	DefaultTickInterval = 50 * time.Millisecond
	// DefaultPollInterval is the length of one detection poll window
	DefaultPollInterval = time.Second
)

// Poller returns the detections received since the previous call without blocking.
// *LineReader implements it.
type Poller interface {
	Poll() []Detection
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithTickInterval sets the Run loop period
func WithTickInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithPollInterval sets the length of a detection poll window
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Controller is the single-threaded polling loop. It owns the tracker and the
// automaton context; nothing else mutates them.
type Controller struct {
	clock     clock.Clock
	reader    Poller
	tracker   *Tracker
	automaton *Automaton
	ctx       *AutomatonContext

	tickInterval time.Duration
	pollInterval time.Duration
	lastPoll     time.Duration
}

// NewController wires a controller
func NewController(clk clock.Clock, reader Poller, tracker *Tracker, automaton *Automaton, opts ...ControllerOption) *Controller {
	c := &Controller{
		clock:        clk,
		reader:       reader,
		tracker:      tracker,
		automaton:    automaton,
		ctx:          NewAutomatonContext(),
		tickInterval: DefaultTickInterval,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastPoll = clk.Now()
	c.ctx.Entered = c.lastPoll
	c.ctx.Now = c.lastPoll
	return c
}

// Context returns the automaton context. It must only be read between ticks.
func (c *Controller) Context() *AutomatonContext {
	return c.ctx
}

// Tracker returns the departure tracker
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// Tick runs one iteration of the loop
func (c *Controller) Tick() RunResult {
	now := c.clock.Now()

	c.handleDetections(c.reader.Poll())

	if now-c.lastPoll >= c.pollInterval {
		for _, line := range c.tracker.ClosePoll() {
			log.Debugf("line %s left the detection zone", line)
		}
		c.lastPoll = now
	}

	candidate := NoLine
	if c.ctx.State == S0Idle {
		candidate = c.tracker.Candidate()
	}

	result := c.automaton.Run(c.ctx, now, candidate)

	// a rejected candidate is marked too, so it is not retried every tick
	if candidate.IsValid() {
		c.tracker.MarkSignaled(candidate)
	}
	c.tracker.Hold(c.ctx.HeldLine())
	return result
}

func (c *Controller) handleDetections(detections []Detection) {
	for _, d := range detections {
		c.tracker.Detect(d.Line)
	}
}

// Run ticks until ctx is cancelled, then switches every output off
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	defer c.automaton.Clear(c.ctx)

	log.Infof("controller running (tick %s, poll window %s)", c.tickInterval, c.pollInterval)
	for {
		select {
		case <-ticker.C:
			c.Tick()
		case <-ctx.Done():
			log.Info("controller stopped")
			return nil
		}
	}
}
