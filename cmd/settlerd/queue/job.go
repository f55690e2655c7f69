package queue

import (
	"context"
	"fmt"

	"github.com/textileio/settlement-core/auction"
)

// Job is a leased settlement job.
type Job struct {
	ID        string
	AuctionID auction.AuctionID
	// Attempt is the number of the current attempt, starting at 1.
	Attempt     int
	MaxAttempts int
}

// Handler processes a leased job. Returning an error fails the attempt.
type Handler func(ctx context.Context, job Job) error

// State is the state of a job.
type State string

const (
	// StateWaiting is a job waiting for its ready time or a free worker.
	StateWaiting State = "wait"
	// StateActive is a leased job.
	StateActive State = "active"
	// StateCompleted is a job whose handler succeeded.
	StateCompleted State = "completed"
	// StateFailed is a job which ran out of attempts.
	StateFailed State = "failed"
)

// JobInfo describes the stored state of a job.
type JobInfo struct {
	ID           string
	AuctionID    auction.AuctionID
	State        State
	AttemptsMade int
	MaxAttempts  int
	LastError    string
}

// EventType is the type of a queue event.
type EventType int

const (
	// EventDrained is emitted when no jobs are ready after processing some.
	EventDrained EventType = iota
	// EventError is emitted on queue infrastructure errors.
	EventError
	// EventStalled is emitted when a job lease expired before the job finished.
	EventStalled
	// EventCompleted is emitted when a job handler succeeds.
	EventCompleted
	// EventFailed is emitted when a job attempt fails.
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventDrained:
		return "drained"
	case EventError:
		return "error"
	case EventStalled:
		return "stalled"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Event is a queue lifecycle event.
type Event struct {
	Type      EventType
	JobID     string
	AuctionID auction.AuctionID
	Attempt   int
	// Exhausted is set on failed and stalled events when the job won't be retried.
	Exhausted bool
	Err       error
}
