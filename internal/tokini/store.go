// Package tokini holds visitor sessions: one option list, dice animator,
// notice board and theme preference per visitor.
package tokini

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"tokini/internal/dice"
	"tokini/internal/notify"
	"tokini/internal/options"
	"tokini/internal/storage"
	"tokini/internal/theme"
	"tokini/pkg/realtime"
)

// Deps are shared by every session a Store creates.
type Deps struct {
	Scheduler    realtime.Scheduler
	Prefs        storage.Preferences
	Rand         options.Rand
	DiceTiming   dice.Timing
	NoticeTiming notify.Timing

	// IdleTTL is how long a session without stream subscribers survives
	// after its last request. Zero disables the reaper.
	IdleTTL time.Duration
	// SweepInterval is how often the reaper looks for idle sessions.
	// It defaults to IdleTTL.
	SweepInterval time.Duration
}

// Store holds sessions and delegates to realtime.RoomStore for lookup and broadcast.
type Store struct {
	r      *realtime.RoomStore[*Session]
	deps   Deps
	reaper realtime.Timer
}

// NewStore creates an empty session store and starts the idle reaper.
func NewStore(deps Deps) *Store {
	if deps.Scheduler == nil {
		deps.Scheduler = realtime.SystemScheduler{}
	}
	if deps.Rand == nil {
		deps.Rand = options.DefaultRand
	}
	if deps.SweepInterval <= 0 {
		deps.SweepInterval = deps.IdleTTL
	}
	s := &Store{r: realtime.NewRoomStore[*Session](), deps: deps}
	if deps.IdleTTL > 0 {
		s.reaper = deps.Scheduler.Every(deps.SweepInterval, s.reap)
	}
	return s
}

// Open returns the visitor's session, creating it on first use. A new session
// reads its theme once and starts the ambient shuffle.
func (s *Store) Open(ctx context.Context, id string, prefersDark bool) *Session {
	if room, ok := s.r.Get(id); ok {
		room.State.touch(s.deps.Scheduler.Now())
		return room.State
	}
	pref := theme.Load(ctx, s.deps.Prefs, id, prefersDark)
	room, created := s.r.GetOrCreate(id, func(hub *realtime.Broadcaster) *Session {
		return newSession(id, hub, pref, s.deps)
	})
	if created {
		room.State.Dice.StartAmbientShuffle()
		log.WithFields(log.Fields{
			"session": id,
			"theme":   pref.Current(),
		}).Info("Session opened")
	}
	return room.State
}

// Get returns a session by ID if it exists.
func (s *Store) Get(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Subscribe opens the visitor's session and registers a stream subscriber on
// it. A session released between the two steps is reopened, so the returned
// subscription always belongs to the live session.
func (s *Store) Subscribe(ctx context.Context, id string, prefersDark bool) (*Session, *realtime.Subscription) {
	for {
		session := s.Open(ctx, id, prefersDark)
		sub := session.hub.Subscribe()
		if room, ok := s.r.Get(id); ok && room.State == session {
			return session, sub
		}
		session.hub.Unsubscribe(sub)
	}
}

// Unsubscribe drops a stream subscriber. The last one leaving tears the
// session down, the way a page loses its state on navigation. It reports
// whether the session was removed.
func (s *Store) Unsubscribe(session *Session, sub *realtime.Subscription) bool {
	session.hub.Unsubscribe(sub)
	session.touch(s.deps.Scheduler.Now())
	room, ok := s.r.DeleteIf(session.ID, func(r *realtime.Room[*Session]) bool {
		return r.State == session && r.Broadcaster().Subscribers() == 0
	})
	if !ok {
		return false
	}
	room.State.close()
	log.WithField("session", session.ID).Info("Session released")
	return true
}

// reap tears down sessions nobody streams that have seen no request for IdleTTL.
func (s *Store) reap() {
	now := s.deps.Scheduler.Now()
	idle := s.r.Sweep(func(r *realtime.Room[*Session]) bool {
		return r.Broadcaster().Subscribers() == 0 && now.Sub(r.State.LastSeen()) >= s.deps.IdleTTL
	})
	for _, room := range idle {
		room.State.close()
		log.WithFields(log.Fields{
			"session": room.ID,
			"age":     now.Sub(room.State.CreatedAt).Round(time.Second),
		}).Info("Idle session reaped")
	}
	if len(idle) > 0 {
		log.WithFields(log.Fields{
			"reaped": len(idle),
			"live":   s.r.Len(),
		}).Debug("Session sweep finished")
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Close stops the reaper and tears down every session.
func (s *Store) Close() {
	if s.reaper != nil {
		s.reaper.Stop()
	}
	for _, room := range s.r.Drain() {
		room.State.close()
	}
}
