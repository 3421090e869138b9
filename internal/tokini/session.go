package tokini

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"tokini/internal/dice"
	"tokini/internal/notify"
	"tokini/internal/options"
	"tokini/internal/theme"
	"tokini/pkg/realtime"
)

// Broadcast event names. Each one names the fragment that must be re-rendered.
const (
	EventDice    = "dice"
	EventResult  = "result"
	EventOptions = "options"
	EventNotices = "notices"
	EventTheme   = "theme"
)

// Key is a keyboard gesture forwarded by the page.
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

// Session is one visitor's widget. Every input handler goes through it.
type Session struct {
	ID        string
	CreatedAt time.Time
	Options   *options.List
	Dice      *dice.Animator
	Notices   *notify.Board
	Theme     *theme.Preference
	hub       *realtime.Broadcaster
	lastSeen  atomic.Int64
}

func newSession(id string, hub *realtime.Broadcaster, pref *theme.Preference, deps Deps) *Session {
	now := deps.Scheduler.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		Options:   options.NewList(deps.Rand),
		Theme:     pref,
		hub:       hub,
	}
	s.Notices = notify.NewBoard(deps.Scheduler, deps.NoticeTiming, func() { s.hub.Publish(EventNotices) })
	s.Dice = dice.New(s.Options, dice.Config{
		Timing:    deps.DiceTiming,
		Scheduler: deps.Scheduler,
		Rand:      deps.Rand,
		Sink:      dice.SinkFunc(s.onDiceEvent),
	})
	s.touch(now)
	return s
}

// LastSeen returns when the visitor last reached the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Broadcaster returns the session's event fan-out.
func (s *Session) Broadcaster() *realtime.Broadcaster {
	return s.hub
}

// AddOption adds text to the list. Rejections are shown as an error notice
// and returned.
func (s *Session) AddOption(text string) error {
	if err := s.Options.Add(text); err != nil {
		s.reject("add option", err)
		return err
	}
	s.Dice.ClearResult()
	s.hub.Publish(EventOptions)
	return nil
}

// RemoveOption deletes the option at index.
func (s *Session) RemoveOption(index int) error {
	if err := s.Options.RemoveAt(index); err != nil {
		s.reject("remove option", err)
		return err
	}
	s.Dice.ClearResult()
	s.hub.Publish(EventOptions)
	return nil
}

// Roll starts a dice roll.
func (s *Session) Roll() error {
	token, err := s.Dice.RequestRoll()
	if err != nil {
		s.reject("roll", err)
		return err
	}
	log.WithFields(log.Fields{
		"session": s.ID,
		"token":   token,
		"options": s.Options.Count(),
	}).Debug("Roll started")
	return nil
}

// ClearResult hides the displayed result.
func (s *Session) ClearResult() {
	s.Dice.ClearResult()
}

// InputChanged is called while the visitor types a new option.
func (s *Session) InputChanged() {
	s.Dice.ClearResult()
}

// HandleKey runs the keyboard shortcuts: Ctrl/Cmd+Enter rolls when there are
// enough options, Escape clears the result. It reports whether k was a shortcut.
func (s *Session) HandleKey(k Key) bool {
	switch {
	case k.Name == "Enter" && (k.Ctrl || k.Meta):
		if s.Options.Count() >= 2 {
			_ = s.Roll()
		}
		return true
	case k.Name == "Escape":
		s.ClearResult()
		return true
	default:
		return false
	}
}

// ToggleTheme flips and persists the theme.
func (s *Session) ToggleTheme(ctx context.Context) theme.Theme {
	t := s.Theme.Toggle(ctx)
	s.hub.Publish(EventTheme)
	return t
}

// UpdateAvailable shows the reload prompt.
func (s *Session) UpdateAvailable() {
	s.Notices.ShowUpdatePrompt()
}

// DismissUpdate hides the reload prompt.
func (s *Session) DismissUpdate() {
	s.Notices.DismissUpdate()
}

// Snapshot is the render data for a session.
type Snapshot struct {
	ID           string
	Options      []string
	Dice         dice.Snapshot
	Theme        theme.Theme
	Notices      []notify.Notice
	UpdatePrompt bool
}

// Snapshot returns a consistent view for rendering.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID,
		Options:      s.Options.Items(),
		Dice:         s.Dice.Snapshot(),
		Theme:        s.Theme.Current(),
		Notices:      s.Notices.Active(),
		UpdatePrompt: s.Notices.UpdateVisible(),
	}
}

func (s *Session) close() {
	s.Dice.Cancel()
	s.Notices.Close()
}

func (s *Session) onDiceEvent(e dice.Event) {
	switch e.Kind {
	case dice.EventResult, dice.EventResultCleared:
		s.hub.Publish(EventResult)
	case dice.EventAborted:
		s.reject("roll", e.Err)
		s.hub.Publish(EventDice)
	default:
		s.hub.Publish(EventDice)
	}
}

func (s *Session) reject(action string, err error) {
	log.WithFields(log.Fields{
		"session": s.ID,
		"action":  action,
		"reason":  err,
	}).Debug("Rejected user input")
	s.Notices.Show(Message(err), notify.Error)
}
