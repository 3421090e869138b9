package realtime

import (
	"sync/atomic"
	"time"
)

// TrackedScheduler wraps a Scheduler and counts the timers armed through it
// that are still live. A one-shot timer stops being live when it fires or is
// stopped, a repeating one when it is stopped.
type TrackedScheduler struct {
	base   Scheduler
	once   atomic.Int64
	repeat atomic.Int64
}

// NewTrackedScheduler wraps base.
func NewTrackedScheduler(base Scheduler) *TrackedScheduler {
	return &TrackedScheduler{base: base}
}

func (s *TrackedScheduler) Now() time.Time {
	return s.base.Now()
}

func (s *TrackedScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &trackedTimer{live: &s.once}
	s.once.Add(1)
	t.inner = s.base.AfterFunc(d, func() {
		t.release()
		f()
	})
	return t
}

func (s *TrackedScheduler) Every(d time.Duration, f func()) Timer {
	t := &trackedTimer{live: &s.repeat}
	s.repeat.Add(1)
	t.inner = s.base.Every(d, f)
	return t
}

// Live returns the number of live timers of both kinds.
func (s *TrackedScheduler) Live() int {
	return int(s.once.Load() + s.repeat.Load())
}

// LiveRepeating returns the number of live repeating timers.
func (s *TrackedScheduler) LiveRepeating() int {
	return int(s.repeat.Load())
}

type trackedTimer struct {
	inner Timer
	live  *atomic.Int64
	done  atomic.Bool
}

func (t *trackedTimer) release() {
	if t.done.CompareAndSwap(false, true) {
		t.live.Add(-1)
	}
}

func (t *trackedTimer) Stop() bool {
	stopped := t.inner.Stop()
	t.release()
	return stopped
}
