package chrono

import "sync/atomic"

// TaskGuard controls the cancellation of one scheduled job. Its terminal
// action is single-use: call Cancel to stop the job from running, or Detach
// to let it run unattended; whichever happens first wins. Go has no
// destructors, so forgetting both leaves the job eligible to run, the same
// as Detach.
type TaskGuard struct {
	id        uint64
	cancelled *atomic.Bool
	used      atomic.Bool
}

func inertGuard() *TaskGuard {
	g := &TaskGuard{cancelled: &atomic.Bool{}}
	g.used.Store(true)
	return g
}

// ID returns the ID of the underlying task, for debugging.
// Inert guards report ID 0.
func (g *TaskGuard) ID() uint64 {
	return g.id
}

// Cancel prevents the job from running if it has not started yet. A job the
// worker has already picked up still runs to completion; cancelling a
// repeating job stops its future runs.
func (g *TaskGuard) Cancel() {
	if !g.used.CompareAndSwap(false, true) {
		return
	}
	g.cancelled.Store(true)
}

// Detach severs the guard from the task so that a later Cancel no longer
// stops the job.
func (g *TaskGuard) Detach() {
	g.used.Store(true)
}
