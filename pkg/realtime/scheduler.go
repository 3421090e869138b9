package realtime

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents further firings and reports whether the timer was still live.
	// A callback that already started may still be running when Stop returns.
	Stop() bool
}

// Scheduler arms one-shot and repeating callbacks. Callbacks run on a
// goroutine owned by the scheduler, never on the caller's.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// SystemScheduler schedules against the wall clock.
type SystemScheduler struct{}

// Now returns the current time.
func (SystemScheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc calls f once after d.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every calls f every d until the returned timer is stopped.
func (SystemScheduler) Every(d time.Duration, f func()) Timer {
	t := &repeating{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				f()
			}
		}
	}()
	return t
}

type repeating struct {
	once sync.Once
	done chan struct{}
}

func (t *repeating) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.done)
		stopped = true
	})
	return stopped
}
