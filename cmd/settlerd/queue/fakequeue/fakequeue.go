package fakequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
)

// Queue is an in-memory job queue with the semantics of queue.Queue:
// jobs are deduplicated by id (forever), failed jobs are retried until their
// attempts are exhausted and lifecycle events are published on Events().
// Retries don't wait for any backoff.
type Queue struct {
	lk      sync.Mutex
	jobs    map[string]*queue.JobInfo
	waiting []string
	handler queue.Handler
	cancel  context.CancelFunc
	closed  bool
	// eventsClosed is set once the events channel is closed.
	eventsClosed bool
	notify       chan struct{}
	events       chan queue.Event

	runLk sync.Mutex
	wg    sync.WaitGroup
}

// New returns a new Queue.
func New() *Queue {
	return &Queue{
		jobs:   map[string]*queue.JobInfo{},
		notify: make(chan struct{}, 1),
		events: make(chan queue.Event, 1024),
	}
}

// Events implements the queue contract.
func (q *Queue) Events() <-chan queue.Event {
	return q.events
}

// Add implements the queue contract.
func (q *Queue) Add(ctx context.Context, jobID string, auctionID auction.AuctionID, attempts int) (bool, error) {
	if jobID == "" {
		return false, errors.New("job id is empty")
	}
	if attempts <= 0 {
		return false, errors.New("attempts must be greater than zero")
	}
	q.lk.Lock()
	defer q.lk.Unlock()
	if q.closed {
		return false, queue.ErrClosed
	}
	if _, ok := q.jobs[jobID]; ok {
		return false, nil
	}
	q.jobs[jobID] = &queue.JobInfo{
		ID:          jobID,
		AuctionID:   auctionID,
		State:       queue.StateWaiting,
		MaxAttempts: attempts,
	}
	q.waiting = append(q.waiting, jobID)
	q.signal()
	return true, nil
}

// Get implements the queue contract.
func (q *Queue) Get(_ context.Context, jobID string) (queue.JobInfo, error) {
	q.lk.Lock()
	defer q.lk.Unlock()
	j, ok := q.jobs[jobID]
	if !ok {
		return queue.JobInfo{}, queue.ErrJobNotFound
	}
	return *j, nil
}

// Process implements the queue contract.
func (q *Queue) Process(h queue.Handler) {
	q.lk.Lock()
	defer q.lk.Unlock()
	q.handler = h
}

// Resume starts a single worker.
func (q *Queue) Resume() error {
	q.lk.Lock()
	defer q.lk.Unlock()
	if q.closed {
		return queue.ErrClosed
	}
	if q.handler == nil {
		return queue.ErrNoHandler
	}
	if q.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.wg.Add(1)
	go q.worker(ctx)
	return nil
}

// Pause implements the queue contract.
func (q *Queue) Pause(ctx context.Context) error {
	q.lk.Lock()
	cancel := q.cancel
	q.cancel = nil
	q.lk.Unlock()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight jobs: %w", ctx.Err())
	}
}

// Close implements the queue contract.
func (q *Queue) Close() error {
	q.lk.Lock()
	if q.closed {
		q.lk.Unlock()
		return nil
	}
	q.closed = true
	q.lk.Unlock()

	if err := q.Pause(context.Background()); err != nil {
		return err
	}
	q.runLk.Lock()
	defer q.runLk.Unlock()
	q.lk.Lock()
	defer q.lk.Unlock()
	q.eventsClosed = true
	close(q.events)
	return nil
}

// Closed returns true if the queue was closed.
func (q *Queue) Closed() bool {
	q.lk.Lock()
	defer q.lk.Unlock()
	return q.closed
}

// Drain processes every waiting job in the caller goroutine, including
// retries, until none is left. It returns the number of processed attempts.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	q.lk.Lock()
	h := q.handler
	q.lk.Unlock()
	if h == nil {
		return 0, queue.ErrNoHandler
	}

	var n int
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		ok := q.step(ctx, h)
		if !ok {
			return n, nil
		}
		n++
	}
}

// Stall simulates a worker losing the lease of a waiting job: an attempt is
// consumed and a stalled event is published.
func (q *Queue) Stall(jobID string) error {
	q.lk.Lock()
	defer q.lk.Unlock()
	j, ok := q.jobs[jobID]
	if !ok {
		return queue.ErrJobNotFound
	}
	if j.State != queue.StateWaiting {
		return fmt.Errorf("job %s is %s", jobID, j.State)
	}
	j.AttemptsMade++
	j.LastError = "lease expired"
	exhausted := j.AttemptsMade >= j.MaxAttempts
	if exhausted {
		j.State = queue.StateFailed
		q.removeWaiting(jobID)
	}
	q.emit(queue.Event{
		Type:      queue.EventStalled,
		JobID:     jobID,
		AuctionID: j.AuctionID,
		Attempt:   j.AttemptsMade,
		Exhausted: exhausted,
	})
	return nil
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	var busy bool
	for {
		q.lk.Lock()
		h := q.handler
		q.lk.Unlock()
		if ctx.Err() != nil {
			return
		}
		if q.step(ctx, h) {
			busy = true
			continue
		}
		if busy {
			busy = false
			q.lk.Lock()
			q.emit(queue.Event{Type: queue.EventDrained})
			q.lk.Unlock()
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		}
	}
}

// step runs the next waiting job, if any.
func (q *Queue) step(ctx context.Context, h queue.Handler) bool {
	q.runLk.Lock()
	defer q.runLk.Unlock()

	q.lk.Lock()
	if len(q.waiting) == 0 {
		q.lk.Unlock()
		return false
	}
	id := q.waiting[0]
	q.waiting = q.waiting[1:]
	j := q.jobs[id]
	j.State = queue.StateActive
	j.AttemptsMade++
	job := queue.Job{ID: id, AuctionID: j.AuctionID, Attempt: j.AttemptsMade, MaxAttempts: j.MaxAttempts}
	q.lk.Unlock()

	err := handle(context.Background(), h, job)

	q.lk.Lock()
	defer q.lk.Unlock()
	if err == nil {
		j.State = queue.StateCompleted
		j.LastError = ""
		q.emit(queue.Event{Type: queue.EventCompleted, JobID: id, AuctionID: j.AuctionID, Attempt: job.Attempt})
		return true
	}
	j.LastError = err.Error()
	exhausted := j.AttemptsMade >= j.MaxAttempts
	if exhausted {
		j.State = queue.StateFailed
	} else {
		j.State = queue.StateWaiting
		q.waiting = append(q.waiting, id)
	}
	q.emit(queue.Event{
		Type:      queue.EventFailed,
		JobID:     id,
		AuctionID: j.AuctionID,
		Attempt:   job.Attempt,
		Exhausted: exhausted,
		Err:       err,
	})
	return true
}

func handle(ctx context.Context, h queue.Handler, job queue.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}

func (q *Queue) removeWaiting(id string) {
	for i, w := range q.waiting {
		if w == id {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// emit must be called with lk held.
func (q *Queue) emit(e queue.Event) {
	if q.eventsClosed {
		return
	}
	select {
	case q.events <- e:
	default:
	}
}
