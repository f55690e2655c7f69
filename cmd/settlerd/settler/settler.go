package settler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/msgbroker"
	"go.opentelemetry.io/otel/attribute"
)

var (
	log = golog.Logger("settler")

	// ErrAlreadyRunning indicates Start was called on a running processor.
	ErrAlreadyRunning = errors.New("settlement processor is already running")

	// ErrNotRunning indicates Stop was called on a processor that isn't running.
	ErrNotRunning = errors.New("settlement processor is not running")

	// ErrStopping indicates Start was called while the processor drains.
	ErrStopping = errors.New("settlement processor is stopping")

	// ErrNotSettleable indicates a requested auction can't be settled yet, or
	// ever.
	ErrNotSettleable = errors.New("auction isn't settleable")
)

// Store is the auction store used during settlement.
type Store interface {
	GetAuction(ctx context.Context, id auction.AuctionID) (*auction.Auction, error)
	GetUser(ctx context.Context, id auction.UserID) (*auction.User, error)
	ListSettleableAuctionIDs(
		ctx context.Context,
		endedBefore time.Time,
		after auction.AuctionID,
		limit int,
	) ([]auction.AuctionID, error)
	ListAuctionBids(ctx context.Context, id auction.AuctionID) ([]auction.Bid, error)
	MarkBidAttempted(ctx context.Context, auctionID auction.AuctionID, bidID auction.BidID) error
	SetBidCharge(ctx context.Context, bidID auction.BidID, chargeID string) error
	SetBidChargeError(ctx context.Context, bidID auction.BidID, cause string) error
	MarkAuctionSettled(ctx context.Context, id auction.AuctionID) (bool, error)
}

// Queue is the durable job queue settlement jobs go through.
type Queue interface {
	Add(ctx context.Context, jobID string, auctionID auction.AuctionID, attempts int) (bool, error)
	Process(h queue.Handler)
	Resume() error
	Pause(ctx context.Context) error
	Close() error
	Events() <-chan queue.Event
}

// QueueFactory opens the queue of a processor run.
type QueueFactory func() (Queue, error)

// Context holds the handles shared by the scanner and the worker while the
// processor runs.
type Context struct {
	Store   Store
	Gateway gateway.Gateway
}

// State is the lifecycle state of a Processor.
type State int

const (
	// StateStopped is the state of a processor that isn't settling auctions.
	StateStopped State = iota
	// StateRunning is the state of a processor scanning and settling auctions.
	StateRunning
	// StateStopping is the state of a processor waiting for its in-flight
	// jobs before it's stopped.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Processor owns the lifecycle of the scanner and the settlement worker.
type Processor struct {
	conf     config
	newQueue QueueFactory
	mb       msgbroker.MsgBroker

	lk    sync.Mutex
	state State
	run   *run
}

// run holds everything owned by a running processor.
type run struct {
	cancel      context.CancelFunc
	queue       Queue
	scanner     *scanner
	eventsDone  chan struct{}
	scanDone    chan struct{}
	scanCancel  context.CancelFunc
	execContext Context
}

// New returns a new stopped Processor. mb may be nil, in which case no
// settlement events are published.
func New(newQueue QueueFactory, mb msgbroker.MsgBroker, opts ...Option) (*Processor, error) {
	if newQueue == nil {
		return nil, errors.New("queue factory is nil")
	}
	conf := defaultConfig
	for _, opt := range opts {
		if err := opt(&conf); err != nil {
			return nil, fmt.Errorf("applying option: %s", err)
		}
	}
	return &Processor{
		conf:     conf,
		newQueue: newQueue,
		mb:       mb,
	}, nil
}

// State returns the current state.
func (p *Processor) State() State {
	p.lk.Lock()
	defer p.lk.Unlock()
	return p.state
}

// Start starts scanning for settleable auctions after the start delay, and
// processing settlement jobs. The processor runs until Stop is called or ctx
// is canceled.
func (p *Processor) Start(ctx context.Context, c Context) error {
	if c.Store == nil || c.Gateway == nil {
		return errors.New("store and gateway are required")
	}

	p.lk.Lock()
	defer p.lk.Unlock()
	switch p.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateStopping:
		return ErrStopping
	}

	q, err := p.newQueue()
	if err != nil {
		return fmt.Errorf("opening queue: %s", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &run{
		cancel:      cancel,
		queue:       q,
		eventsDone:  make(chan struct{}),
		scanDone:    make(chan struct{}),
		execContext: c,
	}
	go p.handleEvents(q.Events(), r.eventsDone)

	w := newWorker(p.conf, c, p.mb)
	q.Process(func(jctx context.Context, job queue.Job) error {
		// The job is bound to both the run and its lease.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(jctx, cancel)
		defer stop()
		return w.settle(ctx, job)
	})
	if err := q.Resume(); err != nil {
		cancel()
		if cerr := q.Close(); cerr != nil {
			log.Errorf("closing queue: %s", cerr)
		}
		<-r.eventsDone
		return fmt.Errorf("resuming queue: %s", err)
	}

	var scanCtx context.Context
	scanCtx, r.scanCancel = context.WithCancel(ctx)
	r.scanner = newScanner(p.conf, c.Store, q)
	go func() {
		defer close(r.scanDone)
		r.scanner.run(scanCtx, p.conf.startDelay)
	}()

	p.run = r
	p.state = StateRunning
	log.Info("settlement processor started")
	return nil
}

// Stop stops the scanner, waits for in-flight jobs up to the drain timeout,
// and closes the queue. The processor is in StateStopping meanwhile.
func (p *Processor) Stop() error {
	p.lk.Lock()
	if p.state != StateRunning {
		p.lk.Unlock()
		return ErrNotRunning
	}
	r := p.run
	p.state = StateStopping
	p.lk.Unlock()

	r.scanCancel()
	<-r.scanDone

	ctx, cancel := context.WithTimeout(context.Background(), p.conf.drainTimeout)
	defer cancel()
	if err := r.queue.Pause(ctx); err != nil {
		log.Warnf("pausing queue: %s", err)
	}
	r.cancel()
	var err error
	if cerr := r.queue.Close(); cerr != nil {
		err = fmt.Errorf("closing queue: %s", cerr)
	}
	<-r.eventsDone

	p.lk.Lock()
	p.run = nil
	p.state = StateStopped
	p.lk.Unlock()
	log.Info("settlement processor stopped")
	return err
}

// RequestSettlement enqueues the settlement of an auction without waiting for
// the next scan. It returns ErrNotSettleable if the auction doesn't exist, is
// already settled, or hasn't ended plus the grace period. The returned bool
// is false if a job for the auction was already queued.
func (p *Processor) RequestSettlement(ctx context.Context, id auction.AuctionID) (bool, error) {
	p.lk.Lock()
	if p.state != StateRunning {
		p.lk.Unlock()
		return false, ErrNotRunning
	}
	sc := p.run.scanner
	p.lk.Unlock()

	return sc.enqueue(ctx, id)
}

// Close implements io.Closer. It stops the processor if running.
func (p *Processor) Close() error {
	if err := p.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return nil
}

func (p *Processor) handleEvents(events <-chan queue.Event, done chan struct{}) {
	defer close(done)
	for e := range events {
		metricQueueEvents.Add(context.Background(), 1, attribute.String("type", e.Type.String()))
		switch e.Type {
		case queue.EventDrained:
			log.Debug("queue drained")
		case queue.EventError:
			log.Errorf("queue error: %s", e.Err)
		case queue.EventStalled:
			log.Warnf("job %s stalled on attempt %d", e.JobID, e.Attempt)
			if e.Exhausted {
				metricJobs.Add(context.Background(), 1, attribute.String("result", "failed"))
				p.publishFailed(e, "lease expired")
			}
		case queue.EventCompleted:
			metricJobs.Add(context.Background(), 1, attribute.String("result", "completed"))
			log.Infof("job %s completed on attempt %d", e.JobID, e.Attempt)
		case queue.EventFailed:
			if !e.Exhausted {
				log.Warnf("job %s failed on attempt %d: %s", e.JobID, e.Attempt, e.Err)
				continue
			}
			metricJobs.Add(context.Background(), 1, attribute.String("result", "failed"))
			log.Errorf("job %s failed after %d attempts: %s", e.JobID, e.Attempt, e.Err)
			p.publishFailed(e, e.Err.Error())
		}
	}
}

func (p *Processor) publishFailed(e queue.Event, cause string) {
	if p.mb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := msgbroker.PublishMsgSettlementFailed(ctx, p.mb, msgbroker.SettlementFailed{
		AuctionID: e.AuctionID,
		JobID:     e.JobID,
		Attempts:  e.Attempt,
		Error:     cause,
	}); err != nil {
		log.Errorf("publishing settlement failed of job %s: %s", e.JobID, err)
	}
}
