// Package notify keeps transient notices and the update-available prompt.
package notify

import (
	"slices"
	"sync"
	"time"

	"tokini/pkg/realtime"
)

// Severity controls how a notice is styled.
type Severity string

const (
	Info  Severity = "info"
	Error Severity = "error"
)

// UpdateMessage is the text of the update prompt.
const UpdateMessage = "New version available!"

// Timing controls how long notices stay on screen.
type Timing struct {
	NoticeTTL       time.Duration
	NoticeFade      time.Duration
	UpdatePromptTTL time.Duration
}

// DefaultTiming shows notices for 3s with a 300ms fade, and the update prompt for 10s.
func DefaultTiming() Timing {
	return Timing{
		NoticeTTL:       3 * time.Second,
		NoticeFade:      300 * time.Millisecond,
		UpdatePromptTTL: 10 * time.Second,
	}
}

// Notice is one transient message.
type Notice struct {
	ID       uint64
	Text     string
	Severity Severity
	Fading   bool
}

// Board holds the notices currently on screen. Every change calls onChange
// outside the board's lock.
type Board struct {
	mu       sync.Mutex
	timing   Timing
	sched    realtime.Scheduler
	onChange func()

	seq     uint64
	notices []Notice
	timers  map[uint64]realtime.Timer

	update      bool
	updateGen   uint64
	updateTimer realtime.Timer
	closed      bool
}

// NewBoard creates an empty board. Zero timing fields use DefaultTiming.
func NewBoard(sched realtime.Scheduler, timing Timing, onChange func()) *Board {
	d := DefaultTiming()
	if timing.NoticeTTL <= 0 {
		timing.NoticeTTL = d.NoticeTTL
	}
	if timing.NoticeFade <= 0 {
		timing.NoticeFade = d.NoticeFade
	}
	if timing.UpdatePromptTTL <= 0 {
		timing.UpdatePromptTTL = d.UpdatePromptTTL
	}
	if sched == nil {
		sched = realtime.SystemScheduler{}
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Board{
		timing:   timing,
		sched:    sched,
		onChange: onChange,
		timers:   make(map[uint64]realtime.Timer),
	}
}

// Show adds a notice that fades after NoticeTTL and disappears NoticeFade later.
func (b *Board) Show(text string, severity Severity) Notice {
	if severity != Error {
		severity = Info
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Notice{}
	}
	b.seq++
	n := Notice{ID: b.seq, Text: text, Severity: severity}
	b.notices = append(b.notices, n)
	id := n.ID
	b.timers[id] = b.sched.AfterFunc(b.timing.NoticeTTL, func() { b.fade(id) })
	b.mu.Unlock()

	b.onChange()
	return n
}

// Active returns the notices currently on screen, oldest first.
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.notices)
}

// ShowUpdatePrompt displays the reload prompt. Calling it again restarts the
// auto-dismiss timer.
func (b *Board) ShowUpdatePrompt() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.updateTimer != nil {
		b.updateTimer.Stop()
	}
	b.update = true
	b.updateGen++
	gen := b.updateGen
	b.updateTimer = b.sched.AfterFunc(b.timing.UpdatePromptTTL, func() { b.expireUpdate(gen) })
	b.mu.Unlock()

	b.onChange()
}

// DismissUpdate hides the reload prompt.
func (b *Board) DismissUpdate() {
	b.mu.Lock()
	if !b.update {
		b.mu.Unlock()
		return
	}
	if b.updateTimer != nil {
		b.updateTimer.Stop()
		b.updateTimer = nil
	}
	b.update = false
	b.updateGen++
	b.mu.Unlock()

	b.onChange()
}

// UpdateVisible reports whether the reload prompt is on screen.
func (b *Board) UpdateVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.update
}

// Close stops every timer. Later calls to Show and ShowUpdatePrompt are ignored.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	if b.updateTimer != nil {
		b.updateTimer.Stop()
		b.updateTimer = nil
	}
}

func (b *Board) fade(id uint64) {
	b.mu.Lock()
	i := b.indexLocked(id)
	if b.closed || i < 0 {
		b.mu.Unlock()
		return
	}
	b.notices[i].Fading = true
	b.timers[id] = b.sched.AfterFunc(b.timing.NoticeFade, func() { b.remove(id) })
	b.mu.Unlock()

	b.onChange()
}

func (b *Board) remove(id uint64) {
	b.mu.Lock()
	i := b.indexLocked(id)
	if b.closed || i < 0 {
		b.mu.Unlock()
		return
	}
	b.notices = slices.Delete(b.notices, i, i+1)
	delete(b.timers, id)
	b.mu.Unlock()

	b.onChange()
}

func (b *Board) expireUpdate(gen uint64) {
	b.mu.Lock()
	if b.closed || b.updateGen != gen {
		b.mu.Unlock()
		return
	}
	b.update = false
	b.updateTimer = nil
	b.mu.Unlock()

	b.onChange()
}

func (b *Board) indexLocked(id uint64) int {
	return slices.IndexFunc(b.notices, func(n Notice) bool { return n.ID == id })
}
