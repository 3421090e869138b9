package realtime

import (
	"slices"
	"sync"
)

// Broadcaster fans named change events out to SSE subscribers. Events are
// fragment names, so a subscriber that falls behind only needs each name once:
// repeats queued since its last Take collapse into one entry.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription is one subscriber's coalesced event queue.
type Subscription struct {
	ready  chan struct{}
	mu     sync.Mutex
	queued []string
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{ready: make(chan struct{}, 1)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber, closes its Ready channel and reports how
// many subscribers remain.
func (b *Broadcaster) Unsubscribe(sub *Subscription) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ready)
	}
	return len(b.subs)
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish queues an event for every subscriber without blocking.
func (b *Broadcaster) Publish(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		sub.push(event)
	}
}

// Ready receives a value when events are queued and is closed on Unsubscribe.
func (s *Subscription) Ready() <-chan struct{} {
	return s.ready
}

// Take returns the distinct events queued since the last call, in the order
// each was first published, and empties the queue.
func (s *Subscription) Take() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.queued
	s.queued = nil
	return events
}

func (s *Subscription) push(event string) {
	s.mu.Lock()
	if !slices.Contains(s.queued, event) {
		s.queued = append(s.queued, event)
	}
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
