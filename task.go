package chrono

import (
	"sync/atomic"
	"time"
)

// Job is an opaque piece of work executed on the Timer's worker goroutine.
// Jobs run one at a time, so a long-running job delays every job behind it.
type Job func()

type task struct {
	id        uint64
	runAt     time.Time
	interval  time.Duration // 0 = one-shot, >0 = repeating
	job       Job
	cancelled *atomic.Bool // shared with the TaskGuard
}

func (t *task) due(now time.Time) bool {
	return !t.runAt.After(now)
}

// taskQueue is a min-heap of tasks ordered by run time, with insertion order
// breaking ties so that jobs scheduled for the same moment run FIFO.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].runAt.Equal(q[j].runAt) {
		return q[i].id < q[j].id
	}
	return q[i].runAt.Before(q[j].runAt)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *taskQueue) Push(x any) {
	*q = append(*q, x.(*task))
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
