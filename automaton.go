package rtsignal

import (
	"time"
)

// maxCatchUpSteps bounds the transitions one Run may take. A full cycle is well
// under this, so only a stalled clock source can hit it.
const maxCatchUpSteps = 64

// Describer resolves a line to its mode and deviations. *Registry implements it.
type Describer interface {
	Describe(line Line) (LineInfo, error)
}

// Presence answers whether a line is still in the detection zone and which line
// would be served next. *Tracker implements it.
type Presence interface {
	CheckDeparture(line Line) bool
	Candidate() Line
}

// RunResult reports what one Run did
type RunResult struct {
	Previous    State
	Current     State
	Transitions int
	// Accepted is true when the candidate line started a sequence
	Accepted bool
	Departed bool
	Fault    error
}

// Automaton sequences the signal states for one head
type Automaton struct {
	describer Describer
	presence  Presence
	driver    LEDDriver
	timing    Timing
	observers *ObserverManager
}

// NewAutomaton creates an automaton. timing is used as is; callers validate it.
func NewAutomaton(describer Describer, presence Presence, driver LEDDriver, timing Timing) *Automaton {
	return &Automaton{
		describer: describer,
		presence:  presence,
		driver:    driver,
		timing:    timing,
		observers: NewObserverManager(),
	}
}

// AddObserver adds an observer to the automaton
func (a *Automaton) AddObserver(observer Observer) {
	a.observers.AddObserver(observer)
}

// RemoveObserver removes an observer from the automaton
func (a *Automaton) RemoveObserver(observer Observer) {
	a.observers.RemoveObserver(observer)
}

// Timing returns the dwells in use
func (a *Automaton) Timing() Timing {
	return a.timing
}

// Run advances ctx to now. line is the candidate derived by the caller, or NoLine;
// it is only considered in S0. Run never blocks.
func (a *Automaton) Run(ctx *AutomatonContext, now time.Duration, line Line) RunResult {
	ctx.Now = now
	result := RunResult{Previous: ctx.State}

	if ctx.State == S0Idle && line.IsValid() {
		if err := a.accept(ctx, line); err != nil {
			log.WithError(err).Warnf("ignoring line %s", line)
			a.observers.NotifyError(err, ctx)
		} else {
			result.Accepted = true
		}
	}

	departed := false
	if held := ctx.HeldLine(); ctx.State != S0Idle && held.IsValid() && a.presence.CheckDeparture(held) {
		departed = true
		result.Departed = true
		log.Infof("line %s departed in %s", held, ctx.State)
		a.observers.NotifyDeparture(held, ctx)
	}

	for i := 0; ; i++ {
		if i == maxCatchUpSteps {
			log.Warnf("catch-up stopped after %d transitions in %s", i, ctx.State)
			break
		}
		d := Decide(Input{
			State:        ctx.State,
			Now:          now,
			Entered:      ctx.Entered,
			BlinkStarted: ctx.BlinkStarted,
			Plan:         ctx.Plan,
			Step:         ctx.Step,
			Departed:     departed && ctx.State != S0Idle,
			Candidate:    ctx.State == S0Idle && ctx.Candidate.IsValid(),
			Conflict:     ctx.State.IsDirectional() && a.conflicting(ctx),
		}, a.timing)
		if d.Fault != nil {
			a.fault(ctx, d.Fault)
			result.Fault = d.Fault
			result.Transitions++
			break
		}
		if !d.Changed {
			break
		}
		a.transition(ctx, d)
		result.Transitions++
	}

	result.Current = ctx.State
	return result
}

// accept prepares ctx for a new sequence on line
func (a *Automaton) accept(ctx *AutomatonContext, line Line) error {
	info, err := a.describer.Describe(line)
	if err != nil {
		return err
	}
	plan, err := PlanFor(info, a.timing)
	if err != nil {
		return err
	}
	ctx.Candidate = line
	ctx.Info = info
	ctx.Plan = plan
	ctx.Step = 0
	log.Debugf("line %s accepted, plan %s", line, plan)
	return nil
}

// conflicting reports whether the next line waiting in the zone belongs to another
// mode than the one being served.
func (a *Automaton) conflicting(ctx *AutomatonContext) bool {
	pending := a.presence.Candidate()
	if !pending.IsValid() || pending == ctx.HeldLine() {
		return false
	}
	info, err := a.describer.Describe(pending)
	if err != nil {
		return false
	}
	return info.Mode != ctx.Info.Mode
}

func (a *Automaton) transition(ctx *AutomatonContext, d Decision) {
	from := ctx.State
	a.observers.NotifyStateExit(from, ctx)

	if from.Hyperstate() != d.Next.Hyperstate() {
		a.leaveHyperstate(ctx, from)
	}

	ctx.State = d.Next
	ctx.Entered = d.At
	ctx.Step = d.Step

	switch {
	case d.Next == S0Idle:
		ctx.clearLine()
	case from == S1Wait && d.Next == S2BlinkingOn:
		ctx.BlinkStarted = d.At
		ctx.Tracked = ctx.Candidate
		ctx.Candidate = NoLine
	}

	a.apply(ctx, d.Next.Pattern())

	log.Tracef("%s -> %s at %s", from, d.Next, d.At)
	a.observers.NotifyTransition(from, d.Next, ctx)
	a.observers.NotifyStateEnter(d.Next, ctx)
}

// leaveHyperstate clears every output before the first state of another hyperstate
// is applied.
func (a *Automaton) leaveHyperstate(ctx *AutomatonContext, from State) {
	a.apply(ctx, PatternOff)
	a.observers.NotifyHyperstateLeave(from.Hyperstate(), ctx)
}

// fault forces S0 with every output off
func (a *Automaton) fault(ctx *AutomatonContext, err error) {
	from := ctx.State
	log.WithError(err).Errorf("logic fault in %s, resetting", from)

	a.apply(ctx, PatternOff)
	ctx.State = S0Idle
	ctx.Entered = ctx.Now
	ctx.clearLine()

	a.observers.NotifyFault(err, ctx)
	a.observers.NotifyTransition(from, S0Idle, ctx)
	a.observers.NotifyStateEnter(S0Idle, ctx)
}

func (a *Automaton) apply(ctx *AutomatonContext, p Pattern) {
	if err := applyPattern(a.driver, p); err != nil {
		log.WithError(err).Errorf("applying %s in %s", p, ctx.State)
		a.observers.NotifyError(err, ctx)
	}
}

// Clear switches every output off without touching ctx
func (a *Automaton) Clear(ctx *AutomatonContext) {
	a.apply(ctx, PatternOff)
}
