// Package worker owns the single consumer loop that drains the task queue
// and cooperatively interleaves periodic jobs while idle.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/model"
	"github.com/cgartco6/asset-engine/internal/queue"
)

// ErrShutdownTimeout reports that the loop did not exit within the bounded
// wait; callers should treat this as a forced shutdown.
var ErrShutdownTimeout = errors.New("worker: shutdown wait expired")

const (
	// DefaultPollInterval bounds the dequeue wait so due periodic jobs run
	// even when the queue is idle, and bounds shutdown latency.
	DefaultPollInterval = time.Second

	// DefaultStopTimeout is how long Stop waits for a clean exit.
	DefaultStopTimeout = 5 * time.Second
)

// dispatcher processes one task to completion.
type dispatcher interface {
	Process(ctx context.Context, task model.Task)
}

// Job is a periodic maintenance function run between tasks, never
// concurrently with one.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context)

	next time.Time
}

// Worker is the dedicated consumer of the task queue. Task processing is
// strictly sequential: a long-running generation blocks later tasks, which
// keeps resource use for video and audio synthesis bounded.
type Worker struct {
	queue      *queue.Queue
	dispatcher dispatcher
	poll       time.Duration

	mu      sync.Mutex
	jobs    []*Job
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a worker draining q through d.
func New(q *queue.Queue, d dispatcher, poll time.Duration) *Worker {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Worker{queue: q, dispatcher: d, poll: poll}
}

// AddJob registers a periodic job. The first run happens one full interval
// after Start.
func (w *Worker) AddJob(name string, every time.Duration, run func(ctx context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = append(w.jobs, &Job{Name: name, Every: every, Run: run})
}

// Start launches the loop goroutine.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("worker: already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	now := time.Now()
	for _, j := range w.jobs {
		j.next = now.Add(j.Every)
	}

	go w.run(runCtx)

	return nil
}

// Stop signals shutdown and waits up to timeout for the loop to exit. An
// in-flight generation is allowed to finish; an expired wait is reported as
// ErrShutdownTimeout with the exact state logged.
func (w *Worker) Stop(timeout time.Duration) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	done := w.done
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		zlog.Logger.Error().
			Int("queued_tasks", w.queue.Len()).
			Dur("waited", timeout).
			Msg("worker did not stop in time, forcing shutdown")
		return ErrShutdownTimeout
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	zlog.Logger.Info().Dur("poll_interval", w.poll).Msg("worker loop started")

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("worker loop stopped")
			return
		default:
		}

		task, ok := w.queue.DequeueWait(w.poll)
		if !ok {
			w.runDueJobs(ctx)
			continue
		}

		w.dispatcher.Process(ctx, task)
	}
}

// runDueJobs executes every job whose due time has passed. Jobs run
// cooperatively on the loop goroutine, never concurrently with a task.
func (w *Worker) runDueJobs(ctx context.Context) {
	w.mu.Lock()
	due := make([]*Job, 0, len(w.jobs))
	now := time.Now()
	for _, j := range w.jobs {
		if now.Before(j.next) {
			continue
		}
		j.next = now.Add(j.Every)
		due = append(due, j)
	}
	w.mu.Unlock()

	for _, j := range due {
		if ctx.Err() != nil {
			return
		}
		j.Run(ctx)
	}
}
