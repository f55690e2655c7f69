package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/tests"
)

func init() {
	if err := golog.SetLogLevel("settler/queue", "debug"); err != nil {
		panic(err)
	}
}

func TestAddDedup(t *testing.T) {
	t.Parallel()
	q := newQueue(t)
	ctx := context.Background()

	added, err := q.Add(ctx, "auc-1", "1", 3)
	require.NoError(t, err)
	require.True(t, added)

	added, err = q.Add(ctx, "auc-1", "1", 3)
	require.NoError(t, err)
	require.False(t, added)

	info, err := q.Get(ctx, "auc-1")
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, info.State)
	assert.Equal(t, 0, info.AttemptsMade)
	assert.Equal(t, 3, info.MaxAttempts)

	_, err = q.Get(ctx, "auc-2")
	require.ErrorIs(t, err, ErrJobNotFound)

	_, err = q.Add(ctx, "auc-2", "2", 0)
	require.Error(t, err)
}

func TestProcessCompletes(t *testing.T) {
	t.Parallel()
	q := newQueue(t)
	ctx := context.Background()

	var lk sync.Mutex
	var handled []Job
	q.Process(func(ctx context.Context, job Job) error {
		lk.Lock()
		defer lk.Unlock()
		handled = append(handled, job)
		return nil
	})

	_, err := q.Add(ctx, "auc-1", "1", 5)
	require.NoError(t, err)
	require.NoError(t, q.Resume())
	require.NoError(t, q.Resume())

	e := waitEvent(t, q, EventCompleted)
	assert.Equal(t, "auc-1", e.JobID)
	assert.Equal(t, 1, e.Attempt)
	waitEvent(t, q, EventDrained)

	lk.Lock()
	require.Len(t, handled, 1)
	assert.Equal(t, "1", string(handled[0].AuctionID))
	assert.Equal(t, 5, handled[0].MaxAttempts)
	lk.Unlock()

	info, err := q.Get(ctx, "auc-1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, info.State)

	// Completed jobs are retained, so re-adding is a no-op.
	added, err := q.Add(ctx, "auc-1", "1", 5)
	require.NoError(t, err)
	require.False(t, added)
}

func TestRetryUntilExhausted(t *testing.T) {
	t.Parallel()
	q := newQueue(t, WithBackoff(time.Millisecond*10, time.Millisecond*50))
	ctx := context.Background()

	q.Process(func(ctx context.Context, job Job) error {
		return errors.New("store unavailable")
	})
	_, err := q.Add(ctx, "auc-1", "1", 2)
	require.NoError(t, err)
	require.NoError(t, q.Resume())

	e := waitEvent(t, q, EventFailed)
	assert.Equal(t, 1, e.Attempt)
	assert.False(t, e.Exhausted)
	assert.EqualError(t, e.Err, "store unavailable")

	e = waitEvent(t, q, EventFailed)
	assert.Equal(t, 2, e.Attempt)
	assert.True(t, e.Exhausted)

	info, err := q.Get(ctx, "auc-1")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, info.State)
	assert.Equal(t, 2, info.AttemptsMade)
	assert.Equal(t, "store unavailable", info.LastError)
}

func TestHandlerPanicFailsAttempt(t *testing.T) {
	t.Parallel()
	q := newQueue(t)
	ctx := context.Background()

	q.Process(func(ctx context.Context, job Job) error {
		panic("boom")
	})
	_, err := q.Add(ctx, "auc-1", "1", 1)
	require.NoError(t, err)
	require.NoError(t, q.Resume())

	e := waitEvent(t, q, EventFailed)
	assert.True(t, e.Exhausted)
	assert.Contains(t, e.Err.Error(), "boom")
}

func TestStalledJobIsRequeued(t *testing.T) {
	t.Parallel()
	q := newQueue(t, WithLeaseDuration(time.Millisecond*100), WithStalledInterval(time.Millisecond*50))
	ctx := context.Background()

	_, err := q.Add(ctx, "auc-1", "1", 2)
	require.NoError(t, err)

	// Lease the job without ever finishing it, like a crashed worker.
	job, _, err := q.lease(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, 1, job.Attempt)

	done := make(chan Job, 1)
	q.Process(func(ctx context.Context, job Job) error {
		done <- job
		return nil
	})
	require.NoError(t, q.Resume())

	e := waitEvent(t, q, EventStalled)
	assert.Equal(t, "auc-1", e.JobID)
	assert.False(t, e.Exhausted)

	select {
	case job := <-done:
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(time.Second * 5):
		t.Fatal("stalled job wasn't processed again")
	}
	waitEvent(t, q, EventCompleted)
}

func TestLeaseRenewal(t *testing.T) {
	t.Parallel()
	q := newQueue(t, WithLeaseDuration(time.Millisecond*200), WithStalledInterval(time.Millisecond*50))
	ctx := context.Background()

	q.Process(func(ctx context.Context, job Job) error {
		time.Sleep(time.Millisecond * 700)
		return nil
	})
	_, err := q.Add(ctx, "auc-1", "1", 1)
	require.NoError(t, err)
	require.NoError(t, q.Resume())

	e := waitEvent(t, q, EventCompleted)
	assert.Equal(t, 1, e.Attempt)
}

func TestPauseWaitsInFlight(t *testing.T) {
	t.Parallel()
	q := newQueue(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	q.Process(func(ctx context.Context, job Job) error {
		close(started)
		<-release
		return nil
	})
	_, err := q.Add(ctx, "auc-1", "1", 1)
	require.NoError(t, err)
	require.NoError(t, q.Resume())
	<-started

	short, cancel := context.WithTimeout(ctx, time.Millisecond*100)
	defer cancel()
	require.ErrorIs(t, q.Pause(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, q.Pause(ctx))
	waitEvent(t, q, EventCompleted)

	require.NoError(t, q.Close())
	require.ErrorIs(t, q.Resume(), ErrClosed)
	for range q.Events() {
	}
}

func TestResumeWithoutHandler(t *testing.T) {
	t.Parallel()
	q := newQueue(t)
	require.ErrorIs(t, q.Resume(), ErrNoHandler)
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()
	q := &Queue{conf: defaultConfig}
	assert.Equal(t, time.Second, q.retryDelay(1))
	assert.Equal(t, time.Second*2, q.retryDelay(2))
	assert.Equal(t, time.Second*4, q.retryDelay(3))
	assert.Equal(t, time.Minute, q.retryDelay(100))
}

func newQueue(t *testing.T, opts ...Option) *Queue {
	u, err := tests.RedisURL()
	require.NoError(t, err)
	opts = append([]Option{
		WithPrefix("test-" + uuid.New().String() + ":"),
		WithPollInterval(time.Millisecond * 20),
	}, opts...)
	q, err := New(u, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, q.Close())
	})
	return q
}

func waitEvent(t *testing.T, q *Queue, typ EventType) Event {
	t.Helper()
	timeout := time.After(time.Second * 10)
	for {
		select {
		case e := <-q.Events():
			if e.Type == typ {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", typ)
		}
	}
}
