package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/auction"
)

var (
	log = golog.Logger("settler/queue")

	// ErrClosed indicates the queue was closed.
	ErrClosed = errors.New("queue closed")

	// ErrNoHandler indicates the queue was resumed without a registered handler.
	ErrNoHandler = errors.New("no job handler registered")

	// ErrJobNotFound indicates the requested job doesn't exist or expired.
	ErrJobNotFound = errors.New("job not found")
)

// Queue is a durable job queue backed by Redis.
// Jobs are deduplicated by id, leased to workers, retried with exponential
// backoff until their attempts are exhausted, and requeued when a lease expires.
type Queue struct {
	conf   config
	client *redis.Client
	events chan Event

	lk      sync.Mutex
	handler Handler
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup

	busy atomic.Bool
}

// New returns a new Queue connected to redisURL.
func New(redisURL string, opts ...Option) (*Queue, error) {
	conf := defaultConfig
	for _, opt := range opts {
		if err := opt(&conf); err != nil {
			return nil, fmt.Errorf("applying option: %s", err)
		}
	}

	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %s", err)
	}
	client := redis.NewClient(ropts)

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return client.Ping(ctx).Err()
	}
	if err := backoff.Retry(ping, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %s", err)
	}

	return &Queue{
		conf:   conf,
		client: client,
		events: make(chan Event, conf.eventsBuffer),
	}, nil
}

// Events returns the lifecycle events channel. It's closed when the queue is closed.
func (q *Queue) Events() <-chan Event {
	return q.events
}

// Add enqueues a job for auctionID. It returns false without changes if a
// job with the same id already exists in any state.
func (q *Queue) Add(ctx context.Context, jobID string, auctionID auction.AuctionID, attempts int) (bool, error) {
	if jobID == "" {
		return false, errors.New("job id is empty")
	}
	if attempts <= 0 {
		return false, errors.New("attempts must be greater than zero")
	}
	added, err := addScript.Run(ctx, q.client,
		[]string{q.jobKey(jobID), q.waitKey()},
		jobID, string(auctionID), attempts, nowMillis()).Int()
	if err != nil {
		return false, fmt.Errorf("adding job %s: %s", jobID, err)
	}
	if added == 1 {
		log.Debugf("added job %s with %d attempts", jobID, attempts)
	}
	return added == 1, nil
}

// Get returns the stored state of a job.
func (q *Queue) Get(ctx context.Context, jobID string) (JobInfo, error) {
	vals, err := q.client.HGetAll(ctx, q.jobKey(jobID)).Result()
	if err != nil {
		return JobInfo{}, fmt.Errorf("getting job %s: %s", jobID, err)
	}
	if len(vals) == 0 {
		return JobInfo{}, ErrJobNotFound
	}
	attempts, _ := strconv.Atoi(vals["attempts"])
	max, _ := strconv.Atoi(vals["max"])
	return JobInfo{
		ID:           jobID,
		AuctionID:    auction.AuctionID(vals["auction"]),
		State:        State(vals["state"]),
		AttemptsMade: attempts,
		MaxAttempts:  max,
		LastError:    vals["error"],
	}, nil
}

// Process registers the job handler. It replaces a previously registered handler.
func (q *Queue) Process(h Handler) {
	q.lk.Lock()
	defer q.lk.Unlock()
	q.handler = h
}

// Resume starts the workers and the stalled jobs checker. It's a no-op if the
// queue is already running.
func (q *Queue) Resume() error {
	q.lk.Lock()
	defer q.lk.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.handler == nil {
		return ErrNoHandler
	}
	if q.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	for i := 0; i < q.conf.concurrency; i++ {
		q.wg.Add(1)
		go q.worker(ctx, q.handler)
	}
	q.wg.Add(1)
	go q.stalledChecker(ctx)
	log.Debugf("resumed with %d workers", q.conf.concurrency)

	return nil
}

// Pause stops leasing new jobs and waits for in-flight jobs to finish, or
// until ctx is done.
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
		log.Debug("paused")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight jobs: %w", ctx.Err())
	}
}

// Close pauses the queue, closes the events channel and the redis client.
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
	close(q.events)
	if err := q.client.Close(); err != nil {
		return fmt.Errorf("closing redis client: %s", err)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, h Handler) {
	defer q.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		job, owner, err := q.lease(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.emit(Event{Type: EventError, Err: fmt.Errorf("leasing job: %s", err)})
			q.sleep(ctx, q.conf.pollInterval)
			continue
		}
		if job == nil {
			if q.busy.CompareAndSwap(true, false) {
				q.emit(Event{Type: EventDrained})
			}
			q.sleep(ctx, q.conf.pollInterval)
			continue
		}
		q.busy.Store(true)
		q.run(h, *job, owner)
	}
}

func (q *Queue) lease(ctx context.Context) (*Job, string, error) {
	owner := uuid.New().String()
	now := time.Now()
	res, err := leaseScript.Run(ctx, q.client,
		[]string{q.waitKey(), q.activeKey()},
		toMillis(now), toMillis(now.Add(q.conf.leaseDuration)), owner, q.conf.prefix+"job:").StringSlice()
	if err == redis.Nil {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if len(res) != 4 {
		return nil, "", fmt.Errorf("unexpected lease reply %v", res)
	}
	attempt, err := strconv.Atoi(res[2])
	if err != nil {
		return nil, "", fmt.Errorf("parsing attempts: %s", err)
	}
	max, err := strconv.Atoi(res[3])
	if err != nil {
		return nil, "", fmt.Errorf("parsing max attempts: %s", err)
	}
	metricLeased.Add(ctx, 1)

	return &Job{
		ID:          res[0],
		AuctionID:   auction.AuctionID(res[1]),
		Attempt:     attempt,
		MaxAttempts: max,
	}, owner, nil
}

// run executes the handler while renewing the job lease, and records the
// outcome. Jobs run on their own context so pausing lets them finish.
func (q *Queue) run(h Handler, job Job, owner string) {
	ctx, cancel := context.WithCancel(context.Background())
	renewDone := make(chan struct{})
	go func() {
		defer close(renewDone)
		q.renew(ctx, cancel, job, owner)
	}()

	err := handle(ctx, h, job)
	cancel()
	<-renewDone

	fctx, fcancel := context.WithTimeout(context.Background(), time.Second*10)
	defer fcancel()
	if err == nil {
		q.complete(fctx, job, owner)
		return
	}
	q.fail(fctx, job, owner, err)
}

func handle(ctx context.Context, h Handler, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}

func (q *Queue) renew(ctx context.Context, cancel context.CancelFunc, job Job, owner string) {
	ticker := time.NewTicker(q.conf.leaseDuration / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := toMillis(time.Now().Add(q.conf.leaseDuration))
			ok, err := renewScript.Run(ctx, q.client,
				[]string{q.activeKey(), q.jobKey(job.ID)},
				job.ID, owner, deadline).Int()
			if err != nil {
				if ctx.Err() == nil {
					q.emit(Event{Type: EventError, JobID: job.ID, Err: fmt.Errorf("renewing lease: %s", err)})
				}
				continue
			}
			if ok == 0 {
				log.Warnf("lease of job %s lost, cancelling handler", job.ID)
				cancel()
				return
			}
		}
	}
}

func (q *Queue) complete(ctx context.Context, job Job, owner string) {
	ok, err := completeScript.Run(ctx, q.client,
		[]string{q.activeKey(), q.jobKey(job.ID)},
		job.ID, owner, q.conf.retention.Milliseconds()).Int()
	if err != nil {
		q.emit(Event{Type: EventError, JobID: job.ID, Err: fmt.Errorf("completing job: %s", err)})
		return
	}
	if ok == 0 {
		log.Warnf("job %s finished after its lease was lost", job.ID)
		return
	}
	metricFinished.Add(ctx, 1, attrCompleted)
	q.emit(Event{Type: EventCompleted, JobID: job.ID, AuctionID: job.AuctionID, Attempt: job.Attempt})
}

func (q *Queue) fail(ctx context.Context, job Job, owner string, cause error) {
	readyAt := toMillis(time.Now().Add(q.retryDelay(job.Attempt)))
	res, err := failScript.Run(ctx, q.client,
		[]string{q.activeKey(), q.waitKey(), q.jobKey(job.ID)},
		job.ID, owner, cause.Error(), readyAt, q.conf.retention.Milliseconds()).Int()
	if err != nil {
		q.emit(Event{Type: EventError, JobID: job.ID, Err: fmt.Errorf("failing job: %s", err)})
		return
	}
	if res == -1 {
		log.Warnf("job %s failed after its lease was lost: %s", job.ID, cause)
		return
	}
	metricFinished.Add(ctx, 1, attrFailed)
	q.emit(Event{
		Type:      EventFailed,
		JobID:     job.ID,
		AuctionID: job.AuctionID,
		Attempt:   job.Attempt,
		Exhausted: res == 1,
		Err:       cause,
	})
}

func (q *Queue) stalledChecker(ctx context.Context) {
	defer q.wg.Done()
	ticker := time.NewTicker(q.conf.stalledInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := q.checkStalled(ctx); err != nil && ctx.Err() == nil {
				q.emit(Event{Type: EventError, Err: fmt.Errorf("checking stalled jobs: %s", err)})
			}
		}
	}
}

func (q *Queue) checkStalled(ctx context.Context) error {
	res, err := stalledScript.Run(ctx, q.client,
		[]string{q.activeKey(), q.waitKey()},
		nowMillis(), q.conf.prefix+"job:", q.conf.retention.Milliseconds()).Slice()
	if err != nil {
		return err
	}
	for _, r := range res {
		vals, ok := r.([]interface{})
		if !ok || len(vals) != 4 {
			return fmt.Errorf("unexpected stalled reply %v", r)
		}
		id, _ := vals[0].(string)
		auctionID, _ := vals[1].(string)
		attemptStr, _ := vals[2].(string)
		exhausted, _ := vals[3].(int64)
		attempt, _ := strconv.Atoi(attemptStr)

		metricFinished.Add(ctx, 1, attrStalled)
		q.emit(Event{
			Type:      EventStalled,
			JobID:     id,
			AuctionID: auction.AuctionID(auctionID),
			Attempt:   attempt,
			Exhausted: exhausted == 1,
		})
	}
	return nil
}

// retryDelay returns the exponential backoff delay after the given attempt.
func (q *Queue) retryDelay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.conf.backoffInitial
	b.MaxInterval = q.conf.backoffMax
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	d := b.NextBackOff()
	for i := 1; i < attempt && d < q.conf.backoffMax; i++ {
		d = b.NextBackOff()
	}
	return d
}

func (q *Queue) emit(e Event) {
	if e.Type == EventError {
		log.Error(e.Err)
	}
	select {
	case q.events <- e:
	default:
		log.Warnf("events buffer full, dropping %s event of job %s", e.Type, e.JobID)
	}
}

func (q *Queue) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (q *Queue) jobKey(id string) string { return q.conf.prefix + "job:" + id }
func (q *Queue) waitKey() string         { return q.conf.prefix + "wait" }
func (q *Queue) activeKey() string       { return q.conf.prefix + "active" }

func toMillis(t time.Time) int64 { return t.UnixNano() / int64(time.Millisecond) }
func nowMillis() int64           { return toMillis(time.Now()) }
