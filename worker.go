package chrono

import "time"

// run is the worker loop. Each pass holds the sched mutex just long enough
// to find the next due task, then either executes it, sleeps until the
// earliest deadline, or parks until something is scheduled. Inserting an
// earlier deadline and Stop both drop a wake token, so the select below
// never sleeps past an event it should react to.
func (t *Timer) run() {
	defer close(t.done)

	for {
		if t.s.isStopped() {
			return
		}

		tk, wait, idle := t.s.next(time.Now())
		if tk != nil {
			t.exec(tk)
			continue
		}

		if idle {
			<-t.s.wake
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-t.s.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// exec runs one job with panic isolation. The next deadline of a repeating
// task is fixed before the job starts, and the task is only requeued after
// a normal return, so a panicking job never runs again.
func (t *Timer) exec(tk *task) {
	defer func() {
		if r := recover(); r != nil {
			t.reportPanic(tk.id, r)
		}
	}()

	if tk.interval > 0 {
		tk.runAt = time.Now().Add(tk.interval)
		tk.job()
		t.s.reinsert(tk)
		return
	}
	tk.job()
}

// reportPanic must itself survive a panicking handler, or one bad handler
// would take the whole worker down with it.
func (t *Timer) reportPanic(id uint64, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("panic handler for job %d panicked: %v", id, r)
		}
	}()

	if h := t.onPanic.Load(); h != nil {
		(*h)(recovered)
		return
	}
	t.log.Errorf("job %d panicked: %v", id, recovered)
}
