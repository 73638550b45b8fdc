// Package chrono implements a simple synchronous timer backed by a binary
// heap. Jobs are executed one at a time, in deadline order, on a single
// background goroutine. It is suitable for a reasonably large number of
// jobs; if you need millions of them, use a timing-wheel scheduler instead.
package chrono

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PanicHandler receives the value recovered from a job that panicked.
type PanicHandler func(recovered any)

// Timer schedules one-off and repeating jobs and runs them on its worker
// goroutine. Jobs never run on the caller's goroutine and never run
// concurrently with each other. Call Stop to shut the worker down.
type Timer struct {
	s        *sched
	done     chan struct{}
	stopOnce sync.Once
	onPanic  atomic.Pointer[PanicHandler]
	log      *zap.SugaredLogger
}

// New creates a Timer. Its worker goroutine is running by the time New
// returns, so the Timer is immediately ready to accept jobs.
func New() *Timer {
	t := &Timer{
		s:    newSched(),
		done: make(chan struct{}),
		log:  zap.L().Named("chrono").Sugar(),
	}
	go t.run()
	return t
}

// ScheduleIn schedules job to run once, after the given delay.
func (t *Timer) ScheduleIn(delay time.Duration, job Job) *TaskGuard {
	return t.schedule(time.Now().Add(delay), 0, job)
}

// ScheduleImmediately schedules job to run as soon as possible, ahead of
// every job whose deadline has not yet arrived. It goes through the same
// queue as everything else, so ordering and cancellation still apply.
func (t *Timer) ScheduleImmediately(job Job) *TaskGuard {
	return t.schedule(time.Now(), 0, job)
}

// ScheduleAt schedules job to run once, at a wall-clock time. The time is
// converted to a delay against the monotonic clock, so behavior around
// wall-clock jumps is only approximate. Times in the past run as soon as
// possible.
func (t *Timer) ScheduleAt(at time.Time, job Job) *TaskGuard {
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	return t.schedule(time.Now().Add(delay), 0, job)
}

// ScheduleEvery schedules job to run repeatedly: first after one interval,
// then every interval, measured from the start of the previous run. Cancel
// the returned guard to stop it. A job that panics is not rescheduled.
func (t *Timer) ScheduleEvery(interval time.Duration, job Job) *TaskGuard {
	if interval <= 0 {
		panic("chrono: non-positive interval for ScheduleEvery")
	}
	return t.schedule(time.Now().Add(interval), interval, job)
}

func (t *Timer) schedule(runAt time.Time, interval time.Duration, job Job) *TaskGuard {
	if job == nil {
		return inertGuard()
	}
	g, ok := t.s.insert(runAt, interval, job)
	if !ok {
		t.log.Debug("timer is stopped, job dropped")
	}
	return g
}

// SetPanicHandler installs fn to receive values recovered from panicking
// jobs, replacing the default error log. Passing nil restores the default.
func (t *Timer) SetPanicHandler(fn PanicHandler) {
	if fn == nil {
		t.onPanic.Store(nil)
		return
	}
	t.onPanic.Store(&fn)
}

// Pending returns the number of jobs waiting to run.
func (t *Timer) Pending() int {
	return t.s.pending()
}

// Stopped reports whether Stop has been called.
func (t *Timer) Stopped() bool {
	return t.s.isStopped()
}

// Stop shuts the Timer down and blocks until the worker goroutine has
// exited. Pending jobs are dropped; a job already running is allowed to
// finish first. Stop is idempotent, and scheduling on a stopped Timer is a
// no-op that returns an inert guard.
func (t *Timer) Stop() {
	t.stopOnce.Do(t.s.markStopped)
	<-t.done
}
