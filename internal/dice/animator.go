// Package dice drives the dice-roll animation: an ambient shuffle while idle,
// a fast roll that commits to one option, and a short settle before the
// ambient shuffle resumes.
package dice

import (
	"errors"
	"sync"

	"tokini/internal/options"
	"tokini/pkg/realtime"
)

// ErrRollInProgress rejects a roll while another one is rolling or settling.
var ErrRollInProgress = errors.New("a roll is already in progress")

// Picker is the part of the option list the animator depends on.
type Picker interface {
	Count() int
	PickRandom() (string, error)
}

// Config wires an Animator. Zero values fall back to DefaultTiming, the wall
// clock, options.DefaultRand and a sink that drops events.
type Config struct {
	Timing    Timing
	Scheduler realtime.Scheduler
	Rand      options.Rand
	Sink      Sink
}

type rollSession struct {
	token  uint64
	option string
}

// Animator owns the roll state machine. At most one repeating tick (ambient or
// rolling) and at most one pending delay exist at any time; every transition
// stops the current timers before arming new ones.
type Animator struct {
	mu     sync.Mutex
	timing Timing
	sched  realtime.Scheduler
	picker Picker
	rnd    options.Rand
	sink   Sink

	state   State
	tick    realtime.Timer
	delay   realtime.Timer
	gen     uint64
	roll    *rollSession
	tokens  uint64
	face    string
	result  string
	enabled bool
}

// New creates an idle animator.
func New(picker Picker, cfg Config) *Animator {
	a := &Animator{
		timing:  cfg.Timing.withDefaults(),
		sched:   cfg.Scheduler,
		picker:  picker,
		rnd:     cfg.Rand,
		sink:    cfg.Sink,
		state:   Idle,
		face:    DefaultFace,
		enabled: true,
	}
	if a.sched == nil {
		a.sched = realtime.SystemScheduler{}
	}
	if a.rnd == nil {
		a.rnd = options.DefaultRand
	}
	if a.sink == nil {
		a.sink = SinkFunc(func(Event) {})
	}
	return a
}

// Timing returns the cadence in use.
func (a *Animator) Timing() Timing {
	return a.timing
}

// StartAmbientShuffle begins the slow decorative face cycle. It only acts
// from Idle.
func (a *Animator) StartAmbientShuffle() {
	a.mu.Lock()
	events := a.startAmbientLocked()
	a.mu.Unlock()
	a.emit(events...)
}

// RequestRoll commits to a new roll and returns its session token.
func (a *Animator) RequestRoll() (uint64, error) {
	a.mu.Lock()
	if a.state == Rolling || a.state == Settling {
		a.mu.Unlock()
		return 0, ErrRollInProgress
	}
	if a.picker.Count() < 2 {
		a.mu.Unlock()
		return 0, options.ErrInsufficientOptions
	}

	a.stopTimersLocked()
	a.tokens++
	a.roll = &rollSession{token: a.tokens}
	a.state = Rolling
	a.enabled = false
	gen := a.gen
	a.tick = a.sched.Every(a.timing.RollTick, func() { a.onTick(gen, Rolling) })
	a.delay = a.sched.AfterFunc(a.timing.RollDuration, func() { a.finishRoll(gen) })
	token := a.tokens
	events := []Event{a.eventLocked(EventState), a.eventLocked(EventTrigger)}
	a.mu.Unlock()

	a.emit(events...)
	return token, nil
}

// Cancel stops every pending tick and delay and returns to Idle without
// emitting a result.
func (a *Animator) Cancel() {
	a.mu.Lock()
	a.stopTimersLocked()
	a.roll = nil
	var events []Event
	if a.state != Idle {
		a.state = Idle
		events = append(events, a.eventLocked(EventState))
	}
	if !a.enabled {
		a.enabled = true
		events = append(events, a.eventLocked(EventTrigger))
	}
	a.mu.Unlock()
	a.emit(events...)
}

// ClearResult hides the displayed result. An in-flight roll keeps going.
func (a *Animator) ClearResult() {
	a.mu.Lock()
	if a.result == "" {
		a.mu.Unlock()
		return
	}
	a.result = ""
	ev := a.eventLocked(EventResultCleared)
	a.mu.Unlock()
	a.emit(ev)
}

// Snapshot returns the current render data.
func (a *Animator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		State:          a.state,
		Face:           a.face,
		Result:         a.result,
		TriggerEnabled: a.enabled,
		Token:          a.tokenLocked(),
	}
}

func (a *Animator) startAmbientLocked() []Event {
	if a.state != Idle {
		return nil
	}
	a.stopTimersLocked()
	a.state = Shuffling
	gen := a.gen
	a.tick = a.sched.Every(a.timing.AmbientTick, func() { a.onTick(gen, Shuffling) })
	return []Event{a.eventLocked(EventState)}
}

func (a *Animator) onTick(gen uint64, want State) {
	a.mu.Lock()
	if a.gen != gen || a.state != want {
		a.mu.Unlock()
		return
	}
	a.face = RandomFace(a.rnd)
	ev := a.eventLocked(EventFace)
	a.mu.Unlock()
	a.emit(ev)
}

func (a *Animator) finishRoll(gen uint64) {
	a.mu.Lock()
	if a.gen != gen || a.state != Rolling {
		a.mu.Unlock()
		return
	}

	option, err := a.picker.PickRandom()
	if err != nil {
		aborted := a.eventLocked(EventAborted)
		aborted.Err = err
		a.stopTimersLocked()
		a.roll = nil
		a.state = Idle
		a.enabled = true
		events := []Event{aborted, a.eventLocked(EventTrigger)}
		events = append(events, a.startAmbientLocked()...)
		a.mu.Unlock()
		a.emit(events...)
		return
	}

	a.stopTimersLocked()
	a.roll.option = option
	a.state = Settling
	a.result = option
	// The final face is cosmetic and unrelated to the chosen option.
	a.face = RandomFace(a.rnd)
	settleGen := a.gen
	a.delay = a.sched.AfterFunc(a.timing.SettleDuration, func() { a.finishSettle(settleGen) })
	events := []Event{a.eventLocked(EventState), a.eventLocked(EventResult), a.eventLocked(EventFace)}
	a.mu.Unlock()
	a.emit(events...)
}

func (a *Animator) finishSettle(gen uint64) {
	a.mu.Lock()
	if a.gen != gen || a.state != Settling {
		a.mu.Unlock()
		return
	}
	a.stopTimersLocked()
	a.roll = nil
	a.state = Idle
	a.enabled = true
	events := []Event{a.eventLocked(EventTrigger)}
	events = append(events, a.startAmbientLocked()...)
	a.mu.Unlock()
	a.emit(events...)
}

// stopTimersLocked stops both timer slots and invalidates any callback that
// was already on its way in.
func (a *Animator) stopTimersLocked() {
	if a.tick != nil {
		a.tick.Stop()
		a.tick = nil
	}
	if a.delay != nil {
		a.delay.Stop()
		a.delay = nil
	}
	a.gen++
}

func (a *Animator) tokenLocked() uint64 {
	if a.roll == nil {
		return 0
	}
	return a.roll.token
}

func (a *Animator) eventLocked(kind EventKind) Event {
	return Event{
		Kind:           kind,
		State:          a.state,
		Face:           a.face,
		Result:         a.result,
		TriggerEnabled: a.enabled,
		Token:          a.tokenLocked(),
	}
}

func (a *Animator) emit(events ...Event) {
	for _, e := range events {
		a.sink.Emit(e)
	}
}
