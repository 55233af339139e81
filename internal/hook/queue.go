package hook

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Stats counts queue activity.
type Stats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

// Queue runs hook jobs one at a time on a background worker so a slow hook
// never blocks the caller.
type Queue struct {
	runner *Runner
	logger *logrus.Logger
	jobs   chan Job
	wg     sync.WaitGroup
	once   sync.Once

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewQueue starts a worker bound to ctx. size bounds pending jobs.
func NewQueue(ctx context.Context, runner *Runner, logger *logrus.Logger, size int) *Queue {
	if size <= 0 {
		size = 8
	}
	q := &Queue{runner: runner, logger: logger, jobs: make(chan Job, size)}
	q.wg.Add(1)
	go q.worker(ctx)
	return q
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			if err := q.runner.Run(ctx, job); err != nil {
				q.logger.Errorf("hook: %v", err)
				q.failed.Add(1)
				continue
			}
			q.sent.Add(1)
		}
	}
}

// Submit enqueues a job. It reports false when the hook is disabled or the
// queue is full.
func (q *Queue) Submit(job Job) bool {
	if !q.runner.Enabled() {
		return false
	}
	select {
	case q.jobs <- job:
		return true
	default:
		q.dropped.Add(1)
		q.logger.Warnf("hook queue full; dropped job for %s", job.Path)
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.jobs) })
	q.wg.Wait()
}

func (q *Queue) Stats() Stats {
	return Stats{Sent: q.sent.Load(), Failed: q.failed.Load(), Dropped: q.dropped.Load()}
}
