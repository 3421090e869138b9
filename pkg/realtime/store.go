package realtime

import "sync"

// Room holds state and a broadcaster for one visitor session.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// Broadcaster returns the room's event fan-out.
func (r *Room[T]) Broadcaster() *Broadcaster {
	return r.hub
}

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
	}
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// GetOrCreate returns the room for id, building its state with create when the
// room does not exist yet. create receives the new room's broadcaster and runs
// under the store lock, so it must not call back into the store.
func (s *RoomStore[T]) GetOrCreate(id string, create func(hub *Broadcaster) T) (*Room[T], bool) {
	s.mu.RLock()
	r, ok := s.rooms[id]
	s.mu.RUnlock()
	if ok {
		return r, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r, false
	}
	hub := NewBroadcaster()
	r = &Room[T]{ID: id, State: create(hub), hub: hub}
	s.rooms[id] = r
	return r, true
}

// DeleteIf removes the room when remove reports true for it. remove runs under
// the store lock, so no GetOrCreate can hand the room out while it is judged.
func (s *RoomStore[T]) DeleteIf(id string, remove func(r *Room[T]) bool) (*Room[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok || !remove(r) {
		return nil, false
	}
	delete(s.rooms, id)
	return r, true
}

// Sweep removes every room remove reports true for and returns them.
func (s *RoomStore[T]) Sweep(remove func(r *Room[T]) bool) []*Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Room[T]
	for id, r := range s.rooms {
		if remove(r) {
			out = append(out, r)
			delete(s.rooms, id)
		}
	}
	return out
}

// Drain removes every room and returns them.
func (s *RoomStore[T]) Drain() []*Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room[T], 0, len(s.rooms))
	for id, r := range s.rooms {
		out = append(out, r)
		delete(s.rooms, id)
	}
	return out
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
