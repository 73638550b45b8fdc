package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The public API never produces two tasks with exactly equal deadlines, so
// the FIFO tie-break is pinned down here against the sched directly.
func TestSchedEqualDeadlinesFIFO(t *testing.T) {
	r := require.New(t)
	s := newSched()

	at := time.Now()
	for i := 0; i < 10; i++ {
		_, ok := s.insert(at, 0, func() {})
		r.True(ok)
	}

	now := at.Add(time.Second)
	var ids []uint64
	for {
		task, _, idle := s.next(now)
		if idle {
			break
		}
		r.NotNil(task)
		ids = append(ids, task.id)
	}

	r.Len(ids, 10)
	for i := 1; i < len(ids); i++ {
		r.Less(ids[i-1], ids[i], "equal deadlines should pop in insertion order")
	}
}

func TestSchedOrdersByDeadline(t *testing.T) {
	r := require.New(t)
	s := newSched()

	base := time.Now()
	delays := []time.Duration{300, 100, 400, 200, 0}
	for _, d := range delays {
		_, ok := s.insert(base.Add(d*time.Millisecond), 0, func() {})
		r.True(ok)
	}

	now := base.Add(time.Second)
	var got []*task
	for {
		task, _, idle := s.next(now)
		if idle {
			break
		}
		got = append(got, task)
	}

	r.Len(got, len(delays))
	for i := 1; i < len(got); i++ {
		r.False(got[i].runAt.Before(got[i-1].runAt), "pop order should be non-decreasing in deadline")
	}
}

func TestSchedDiscardsCancelledHead(t *testing.T) {
	r := require.New(t)
	s := newSched()

	base := time.Now()
	first, ok := s.insert(base, 0, func() {})
	r.True(ok)
	second, ok := s.insert(base.Add(time.Millisecond), 0, func() {})
	r.True(ok)

	first.Cancel()

	task, _, idle := s.next(base.Add(time.Second))
	r.False(idle)
	r.Equal(second.ID(), task.id, "a cancelled head should be skipped, not returned")

	_, _, idle = s.next(base.Add(time.Second))
	r.True(idle, "the cancelled task should have been discarded for good")
}

func TestSchedFutureHeadReportsWait(t *testing.T) {
	r := require.New(t)
	s := newSched()

	now := time.Now()
	_, ok := s.insert(now.Add(time.Hour), 0, func() {})
	r.True(ok)

	task, wait, idle := s.next(now)
	r.Nil(task)
	r.False(idle)
	r.InDelta(time.Hour, wait, float64(time.Minute), "wait should cover the remaining delay")
	r.Equal(1, s.pending(), "a future task must stay on the heap")
}

func TestSchedInsertAfterStop(t *testing.T) {
	r := require.New(t)
	s := newSched()

	s.markStopped()
	s.markStopped() // idempotent

	g, ok := s.insert(time.Now(), 0, func() {})
	r.False(ok, "inserts after markStopped should be rejected")
	r.NotNil(g)
	r.True(s.isStopped())
	r.Zero(s.pending())
}

func TestSchedWakeOnNewEarliest(t *testing.T) {
	r := require.New(t)
	s := newSched()

	base := time.Now()
	_, ok := s.insert(base.Add(time.Hour), 0, func() {})
	r.True(ok)
	drain(s)

	// A later deadline must not wake the worker.
	_, ok = s.insert(base.Add(2*time.Hour), 0, func() {})
	r.True(ok)
	select {
	case <-s.wake:
		r.Fail("a non-earliest insert should not drop a wake token")
	default:
	}

	// An earlier one must.
	_, ok = s.insert(base.Add(time.Minute), 0, func() {})
	r.True(ok)
	select {
	case <-s.wake:
	default:
		r.Fail("an insert that becomes the new earliest must wake the worker")
	}
}

func drain(s *sched) {
	select {
	case <-s.wake:
	default:
	}
}
