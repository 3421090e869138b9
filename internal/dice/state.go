package dice

import "time"

// State is the animator's position in the roll lifecycle.
type State int

const (
	Idle State = iota
	Shuffling
	Rolling
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Shuffling:
		return "shuffling"
	case Rolling:
		return "rolling"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Timing controls the animation cadence. The defaults match the CSS animation
// the page ships with.
type Timing struct {
	AmbientTick    time.Duration
	RollTick       time.Duration
	RollDuration   time.Duration
	SettleDuration time.Duration
}

// DefaultTiming returns 800ms ambient ticks, 100ms rolling ticks, a 2s roll and
// a 600ms settle.
func DefaultTiming() Timing {
	return Timing{
		AmbientTick:    800 * time.Millisecond,
		RollTick:       100 * time.Millisecond,
		RollDuration:   2 * time.Second,
		SettleDuration: 600 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.AmbientTick <= 0 {
		t.AmbientTick = d.AmbientTick
	}
	if t.RollTick <= 0 {
		t.RollTick = d.RollTick
	}
	if t.RollDuration <= 0 {
		t.RollDuration = d.RollDuration
	}
	if t.SettleDuration <= 0 {
		t.SettleDuration = d.SettleDuration
	}
	return t
}

// EventKind identifies what changed.
type EventKind int

const (
	EventFace EventKind = iota
	EventState
	EventTrigger
	EventResult
	EventResultCleared
	EventAborted
)

// Event is emitted to the Sink after every visible change.
type Event struct {
	Kind           EventKind
	State          State
	Face           string
	Result         string
	TriggerEnabled bool
	Token          uint64
	Err            error
}

// Sink receives animator events. Emit is never called with the animator's
// lock held, so a sink may read the animator's snapshot.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Snapshot is the render-ready view of the animator.
type Snapshot struct {
	State          State
	Face           string
	Result         string
	TriggerEnabled bool
	Token          uint64
}
