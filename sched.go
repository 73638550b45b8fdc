package chrono

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
)

// sched holds the shared schedule state: the pending-task heap, the ID
// counter and the stopped flag, all guarded by one mutex. The mutex is held
// only for heap operations, never across a running job.
type sched struct {
	mu      sync.Mutex
	tasks   taskQueue
	nextID  uint64
	stopped bool
	wake    chan struct{}
}

func newSched() *sched {
	return &sched{
		wake: make(chan struct{}, 1),
	}
}

// insert pushes a new task and wakes the worker if it became the earliest.
// After markStopped it accepts nothing and returns false.
func (s *sched) insert(runAt time.Time, interval time.Duration, job Job) (*TaskGuard, bool) {
	cancelled := &atomic.Bool{}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return inertGuard(), false
	}
	s.nextID++
	t := &task{
		id:        s.nextID,
		runAt:     runAt,
		interval:  interval,
		job:       job,
		cancelled: cancelled,
	}
	heap.Push(&s.tasks, t)
	earliest := s.tasks[0] == t
	s.mu.Unlock()

	if earliest {
		s.notify()
	}
	return &TaskGuard{id: t.id, cancelled: cancelled}, true
}

// reinsert puts a repeating task back on the heap under its original ID.
// Stopped schedulers and cancelled tasks drop it instead.
func (s *sched) reinsert(t *task) {
	s.mu.Lock()
	if s.stopped || t.cancelled.Load() {
		s.mu.Unlock()
		return
	}
	heap.Push(&s.tasks, t)
	earliest := s.tasks[0] == t
	s.mu.Unlock()

	if earliest {
		s.notify()
	}
}

// next pops and returns the earliest due task, lazily discarding cancelled
// entries at the head. When nothing is due it reports how long the worker
// should sleep; idle means the heap is empty.
func (s *sched) next(now time.Time) (run *task, wait time.Duration, idle bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.tasks) > 0 {
		head := s.tasks[0]
		if head.cancelled.Load() {
			heap.Pop(&s.tasks)
			continue
		}
		if head.due(now) {
			heap.Pop(&s.tasks)
			return head, 0, false
		}
		return nil, head.runAt.Sub(now), false
	}
	return nil, 0, true
}

// markStopped rejects all future inserts, drops the pending tasks and wakes
// the worker so it can exit. Idempotent.
func (s *sched) markStopped() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.tasks = nil
	s.mu.Unlock()

	s.notify()
}

func (s *sched) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *sched) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// notify drops a wake token without blocking. One pending token is enough:
// the worker recomputes its sleep after every wake, so a stale token only
// costs one extra pass over the heap.
func (s *sched) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
