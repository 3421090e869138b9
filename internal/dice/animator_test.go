package dice

import (
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokini/internal/options"
	"tokini/pkg/realtime"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

type fixture struct {
	list  *options.List
	sched *realtime.TrackedScheduler
	sink  *recorder
	anim  *Animator
}

// newFixture must be called inside a synctest bubble. The caller cancels the
// animator before the bubble ends so no repeating tick outlives the test.
func newFixture(t *testing.T, opts ...string) *fixture {
	t.Helper()
	rnd := rand.New(rand.NewPCG(3, 5))
	f := &fixture{
		list:  options.NewList(rnd),
		sched: realtime.NewTrackedScheduler(realtime.SystemScheduler{}),
		sink:  &recorder{},
	}
	for _, o := range opts {
		require.NoError(t, f.list.Add(o))
	}
	f.anim = New(f.list, Config{Scheduler: f.sched, Rand: rnd, Sink: f.sink})
	return f
}

// advance lets d of bubble time pass and waits for the callbacks it fired.
func advance(d time.Duration) {
	time.Sleep(d)
	synctest.Wait()
}

func TestNew_StartsIdle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		defer f.anim.Cancel()
		snap := f.anim.Snapshot()
		assert.Equal(t, Idle, snap.State)
		assert.Equal(t, DefaultFace, snap.Face)
		assert.True(t, snap.TriggerEnabled)
		assert.Empty(t, snap.Result)
		assert.Equal(t, DefaultTiming(), f.anim.Timing())
		assert.Equal(t, 0, f.sched.Live())
	})
}

func TestStartAmbientShuffle_TicksEvery800ms(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		defer f.anim.Cancel()
		f.anim.StartAmbientShuffle()
		assert.Equal(t, Shuffling, f.anim.Snapshot().State)
		assert.Equal(t, 1, f.sched.LiveRepeating())

		advance(799 * time.Millisecond)
		assert.Equal(t, 0, f.sink.count(EventFace))
		advance(time.Millisecond)
		assert.Equal(t, 1, f.sink.count(EventFace))
		advance(1600 * time.Millisecond)
		assert.Equal(t, 3, f.sink.count(EventFace))

		ev, ok := f.sink.last(EventFace)
		require.True(t, ok)
		assert.Contains(t, Faces, ev.Face)
		assert.Equal(t, ev.Face, f.anim.Snapshot().Face)
	})
}

func TestStartAmbientShuffle_NoOpWhenActive(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		f.anim.StartAmbientShuffle()
		f.anim.StartAmbientShuffle()
		assert.Equal(t, 1, f.sched.LiveRepeating())

		_, err := f.anim.RequestRoll()
		require.NoError(t, err)
		f.anim.StartAmbientShuffle()
		assert.Equal(t, Rolling, f.anim.Snapshot().State)
		assert.Equal(t, 1, f.sched.LiveRepeating())
	})
}

func TestRequestRoll_RejectsWithFewerThanTwoOptions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "only")
		defer f.anim.Cancel()
		f.anim.StartAmbientShuffle()
		before := len(f.sink.events)

		_, err := f.anim.RequestRoll()
		assert.ErrorIs(t, err, options.ErrInsufficientOptions)
		assert.Equal(t, Shuffling, f.anim.Snapshot().State)
		assert.True(t, f.anim.Snapshot().TriggerEnabled)
		assert.Equal(t, 1, f.sched.Live())
		assert.Len(t, f.sink.events, before)
	})
}

func TestRoll_EndToEnd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "Pizza", "Sushi")
		defer f.anim.Cancel()
		require.Equal(t, 2, f.list.Count())
		f.anim.StartAmbientShuffle()

		token, err := f.anim.RequestRoll()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), token)

		snap := f.anim.Snapshot()
		assert.Equal(t, Rolling, snap.State)
		assert.False(t, snap.TriggerEnabled)
		assert.Equal(t, token, snap.Token)
		assert.Equal(t, 1, f.sched.LiveRepeating(), "ambient tick must be replaced by the rolling tick")
		assert.Equal(t, 2, f.sched.Live())

		advance(1999 * time.Millisecond)
		assert.Equal(t, 19, f.sink.count(EventFace))
		assert.Equal(t, 0, f.sink.count(EventResult))

		advance(time.Millisecond)
		result, ok := f.sink.last(EventResult)
		require.True(t, ok)
		assert.Contains(t, []string{"Pizza", "Sushi"}, result.Result)
		assert.Equal(t, token, result.Token)

		snap = f.anim.Snapshot()
		assert.Equal(t, Settling, snap.State)
		assert.Equal(t, result.Result, snap.Result)
		assert.Contains(t, Faces, snap.Face)
		assert.False(t, snap.TriggerEnabled)
		assert.Equal(t, 0, f.sched.LiveRepeating())
		assert.Equal(t, 1, f.sched.Live())

		advance(599 * time.Millisecond)
		assert.Equal(t, Settling, f.anim.Snapshot().State)

		advance(time.Millisecond)
		snap = f.anim.Snapshot()
		assert.Equal(t, Shuffling, snap.State)
		assert.True(t, snap.TriggerEnabled)
		assert.Equal(t, result.Result, snap.Result, "result stays displayed after settle")
		assert.Equal(t, uint64(0), snap.Token)
		assert.Equal(t, 1, f.sched.LiveRepeating())
		assert.Equal(t, 1, f.sched.Live())
	})
}

func TestRequestRoll_RejectedWhileRollingOrSettling(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)

		_, err = f.anim.RequestRoll()
		assert.ErrorIs(t, err, ErrRollInProgress)
		assert.Equal(t, 2, f.sched.Live())

		advance(2 * time.Second)
		require.Equal(t, Settling, f.anim.Snapshot().State)
		_, err = f.anim.RequestRoll()
		assert.ErrorIs(t, err, ErrRollInProgress)

		advance(10 * time.Second)
		assert.Equal(t, 1, f.sink.count(EventResult), "only one roll may produce a result")
	})
}

func TestRequestRoll_TokensIncrease(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		first, err := f.anim.RequestRoll()
		require.NoError(t, err)
		advance(2600 * time.Millisecond)

		second, err := f.anim.RequestRoll()
		require.NoError(t, err)
		assert.Greater(t, second, first)
	})
}

func TestCancel_StopsEverything(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		f.anim.StartAmbientShuffle()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)

		f.anim.Cancel()
		snap := f.anim.Snapshot()
		assert.Equal(t, Idle, snap.State)
		assert.True(t, snap.TriggerEnabled)
		assert.Equal(t, 0, f.sched.Live())

		advance(5 * time.Second)
		assert.Equal(t, 0, f.sink.count(EventResult))
		assert.Equal(t, Idle, f.anim.Snapshot().State)
	})
}

func TestCancel_FromSettlingKeepsResult(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)
		advance(2 * time.Second)
		result := f.anim.Snapshot().Result
		require.NotEmpty(t, result)

		f.anim.Cancel()
		assert.Equal(t, Idle, f.anim.Snapshot().State)
		assert.Equal(t, result, f.anim.Snapshot().Result)
		assert.Equal(t, 0, f.sched.Live())
	})
}

func TestCancel_IdleIsSilent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		defer f.anim.Cancel()
		f.anim.Cancel()
		assert.Empty(t, f.sink.events)
	})
}

func TestClearResult_DoesNotCancelRoll(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)
		advance(2 * time.Second)
		require.NotEmpty(t, f.anim.Snapshot().Result)

		f.anim.ClearResult()
		snap := f.anim.Snapshot()
		assert.Empty(t, snap.Result)
		assert.Equal(t, Settling, snap.State)
		assert.Equal(t, 1, f.sink.count(EventResultCleared))

		f.anim.ClearResult()
		assert.Equal(t, 1, f.sink.count(EventResultCleared), "clearing an empty result emits nothing")

		_, err = f.anim.RequestRoll()
		require.ErrorIs(t, err, ErrRollInProgress)
		f.anim.ClearResult()
		advance(600 * time.Millisecond)
		assert.Equal(t, Shuffling, f.anim.Snapshot().State)
	})
}

func TestClearResult_DuringRollingResultStillArrives(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)
		advance(time.Second)
		f.anim.ClearResult()
		advance(time.Second)
		assert.Equal(t, 1, f.sink.count(EventResult))
	})
}

func TestRoll_AbortsWhenOptionsRemovedMidRoll(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b")
		defer f.anim.Cancel()
		_, err := f.anim.RequestRoll()
		require.NoError(t, err)
		require.NoError(t, f.list.RemoveAt(0))

		advance(2 * time.Second)
		aborted, ok := f.sink.last(EventAborted)
		require.True(t, ok)
		assert.ErrorIs(t, aborted.Err, options.ErrInsufficientOptions)
		assert.Equal(t, uint64(1), aborted.Token)

		snap := f.anim.Snapshot()
		assert.Equal(t, Shuffling, snap.State)
		assert.True(t, snap.TriggerEnabled)
		assert.Empty(t, snap.Result)
		assert.Equal(t, 1, f.sched.LiveRepeating())
		assert.Equal(t, 0, f.sink.count(EventResult))
	})
}

func TestCustomTiming(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		list := options.NewList(nil)
		require.NoError(t, list.Add("a"))
		require.NoError(t, list.Add("b"))
		sink := &recorder{}
		anim := New(list, Config{
			Timing:    Timing{AmbientTick: time.Second, RollTick: 50 * time.Millisecond, RollDuration: 500 * time.Millisecond, SettleDuration: 100 * time.Millisecond},
			Scheduler: realtime.SystemScheduler{},
			Sink:      sink,
		})
		defer anim.Cancel()

		_, err := anim.RequestRoll()
		require.NoError(t, err)
		advance(499 * time.Millisecond)
		assert.Equal(t, 9, sink.count(EventFace))
		advance(time.Millisecond)
		assert.Equal(t, Settling, anim.Snapshot().State)
		advance(100 * time.Millisecond)
		assert.Equal(t, Shuffling, anim.Snapshot().State)
	})
}

func TestTiming_ZeroFallsBackToDefaults(t *testing.T) {
	anim := New(options.NewList(nil), Config{Scheduler: realtime.SystemScheduler{}})
	assert.Equal(t, DefaultTiming(), anim.Timing())
}

// captureScheduler hands back every callback so a test can fire it after the
// timer was stopped, as a wall-clock timer racing Stop would.
type captureScheduler struct {
	once   []func()
	repeat []func()
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (c *captureScheduler) Now() time.Time { return time.Time{} }

func (c *captureScheduler) AfterFunc(_ time.Duration, f func()) realtime.Timer {
	c.once = append(c.once, f)
	return noopTimer{}
}

func (c *captureScheduler) Every(_ time.Duration, f func()) realtime.Timer {
	c.repeat = append(c.repeat, f)
	return noopTimer{}
}

func TestStaleCallbacksAreIgnored(t *testing.T) {
	sched := &captureScheduler{}
	list := options.NewList(nil)
	require.NoError(t, list.Add("a"))
	require.NoError(t, list.Add("b"))
	sink := &recorder{}
	anim := New(list, Config{Scheduler: sched, Sink: sink})

	anim.StartAmbientShuffle()
	_, err := anim.RequestRoll()
	require.NoError(t, err)
	require.Len(t, sched.repeat, 2)
	require.Len(t, sched.once, 1)

	ambientTick := sched.repeat[0]
	ambientTick()
	assert.Equal(t, 0, sink.count(EventFace), "ambient tick fired after the roll replaced it")

	finish := sched.once[0]
	anim.Cancel()
	finish()
	assert.Equal(t, 0, sink.count(EventResult), "roll finished after Cancel")
	assert.Equal(t, Idle, anim.Snapshot().State)
}

func TestAtMostOneRepeatingTick(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "a", "b", "c")
		defer f.anim.Cancel()
		rnd := rand.New(rand.NewPCG(9, 9))
		steps := []time.Duration{0, 50 * time.Millisecond, 100 * time.Millisecond, 700 * time.Millisecond, 2 * time.Second}
		for i := 0; i < 400; i++ {
			switch rnd.IntN(5) {
			case 0:
				f.anim.StartAmbientShuffle()
			case 1:
				_, _ = f.anim.RequestRoll()
			case 2:
				f.anim.Cancel()
			case 3:
				f.anim.ClearResult()
			case 4:
				advance(steps[rnd.IntN(len(steps))])
			}
			require.LessOrEqual(t, f.sched.LiveRepeating(), 1)
			require.LessOrEqual(t, f.sched.Live(), 2)
			snap := f.anim.Snapshot()
			if snap.State == Rolling || snap.State == Settling {
				require.False(t, snap.TriggerEnabled)
			} else {
				require.True(t, snap.TriggerEnabled)
			}
		}
	})
}

func TestRandomFace(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 1))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		face := RandomFace(rnd)
		require.True(t, slices.Contains(Faces, face))
		seen[face] = true
	}
	assert.Len(t, seen, len(Faces))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "shuffling", Shuffling.String())
	assert.Equal(t, "rolling", Rolling.String())
	assert.Equal(t, "settling", Settling.String())
	assert.Equal(t, "unknown", State(42).String())
}
