package settler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/store"
	"github.com/textileio/settlement-core/metrics"
)

// scanner periodically enqueues a settlement job for every unsettled auction
// past its end plus the grace period.
type scanner struct {
	conf  config
	store Store
	queue Queue
	now   func() time.Time
}

func newScanner(conf config, store Store, q Queue) *scanner {
	return &scanner{
		conf:  conf,
		store: store,
		queue: q,
		now:   time.Now,
	}
}

// run scans after delay and then every tick interval after the previous scan
// finished, so scans never overlap. It returns when ctx is done.
func (s *scanner) run(ctx context.Context, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if _, err := s.scan(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("scanning settleable auctions: %s", err)
		}
		timer.Reset(s.conf.tickInterval)
	}
}

// scan enqueues jobs for all settleable auctions and returns how many jobs
// were new. Enqueue errors are logged and skipped.
func (s *scanner) scan(ctx context.Context) (added int, err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, metricScans) }()

	endedBefore := s.now().Add(-s.conf.gracePeriod)
	var after auction.AuctionID
	for {
		ids, err := s.store.ListSettleableAuctionIDs(ctx, endedBefore, after, s.conf.pageSize)
		if err != nil {
			return added, fmt.Errorf("listing settleable auctions: %s", err)
		}
		for _, id := range ids {
			ok, err := s.queue.Add(ctx, auction.JobID(id), id, s.conf.maxRetryCount)
			if err != nil {
				log.Errorf("enqueueing settlement of auction %s: %s", id, err)
				continue
			}
			if ok {
				added++
				metricEnqueued.Add(ctx, 1)
				log.Debugf("enqueued settlement of auction %s", id)
			}
		}
		if len(ids) < s.conf.pageSize {
			return added, nil
		}
		after = ids[len(ids)-1]
	}
}

// enqueue adds the settlement job of a single auction if the auction is
// settleable now. Canceled auctions don't wait for the grace period.
func (s *scanner) enqueue(ctx context.Context, id auction.AuctionID) (bool, error) {
	a, err := s.store.GetAuction(ctx, id)
	if errors.Is(err, store.ErrAuctionNotFound) {
		return false, fmt.Errorf("%w: auction %s not found", ErrNotSettleable, id)
	}
	if err != nil {
		return false, fmt.Errorf("getting auction: %s", err)
	}
	if a.IsSettled {
		return false, fmt.Errorf("%w: auction %s is already settled", ErrNotSettleable, id)
	}
	if !a.IsCanceled && a.EndsAt.After(s.now().Add(-s.conf.gracePeriod)) {
		return false, fmt.Errorf("%w: auction %s ends at %s", ErrNotSettleable, id, a.EndsAt)
	}

	ok, err := s.queue.Add(ctx, auction.JobID(id), id, s.conf.maxRetryCount)
	if err != nil {
		return false, fmt.Errorf("enqueueing settlement: %s", err)
	}
	if ok {
		metricEnqueued.Add(ctx, 1)
		log.Debugf("enqueued requested settlement of auction %s", id)
	}
	return ok, nil
}
