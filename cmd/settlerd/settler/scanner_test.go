package settler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/cmd/settlerd/queue/fakequeue"
)

func TestScanEnqueuesSettleableAuctions(t *testing.T) {
	t.Parallel()
	s := newFakeStore()
	now := time.Now()

	s.addAuction(gauction("ended-1", now.Add(-time.Minute)))
	s.addAuction(gauction("ended-2", now.Add(-time.Hour)))
	s.addAuction(gauction("ended-3", now.Add(-time.Second*21)))
	s.addAuction(gauction("in-grace", now.Add(-time.Second*10)))
	s.addAuction(gauction("open", now.Add(time.Hour)))
	settled := gauction("settled", now.Add(-time.Hour))
	settled.IsSettled = true
	s.addAuction(settled)

	conf := defaultConfig
	conf.pageSize = 2
	q := fakequeue.New()
	sc := newScanner(conf, s, q)
	sc.now = func() time.Time { return now }
	ctx := context.Background()

	added, err := sc.scan(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, added)

	for _, id := range []auction.AuctionID{"ended-1", "ended-2", "ended-3"} {
		info, err := q.Get(ctx, auction.JobID(id))
		require.NoError(t, err)
		assert.Equal(t, id, info.AuctionID)
		assert.Equal(t, 100, info.MaxAttempts)
		assert.Equal(t, queue.StateWaiting, info.State)
	}
	for _, id := range []auction.AuctionID{"in-grace", "open", "settled"} {
		_, err := q.Get(ctx, auction.JobID(id))
		require.ErrorIs(t, err, queue.ErrJobNotFound)
	}

	// Repeated ticks don't enqueue the same auction twice.
	for i := 0; i < 3; i++ {
		added, err = sc.scan(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, added)
	}
}

func TestScanSurvivesErrors(t *testing.T) {
	t.Parallel()
	s := newFakeStore()
	s.addAuction(gauction("ended", time.Now().Add(-time.Hour)))
	q := fakequeue.New()
	sc := newScanner(defaultConfig, s, q)
	ctx := context.Background()

	s.setErr("ListSettleableAuctionIDs", errors.New("store unavailable"))
	_, err := sc.scan(ctx)
	require.Error(t, err)

	s.setErr("ListSettleableAuctionIDs", nil)
	added, err := sc.scan(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, added)

	// Enqueue errors are skipped.
	require.NoError(t, q.Close())
	_, err = sc.scan(ctx)
	require.NoError(t, err)
}

func TestScannerRun(t *testing.T) {
	t.Parallel()
	s := newFakeStore()
	s.setErr("ListSettleableAuctionIDs", errors.New("store unavailable"))
	s.addAuction(gauction("ended", time.Now().Add(-time.Hour)))

	conf := defaultConfig
	conf.tickInterval = time.Millisecond * 10
	q := fakequeue.New()
	sc := newScanner(conf, s, q)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.run(ctx, 0)
	}()

	// Failing ticks don't stop the loop.
	time.Sleep(time.Millisecond * 50)
	s.setErr("ListSettleableAuctionIDs", nil)
	require.Eventually(t, func() bool {
		_, err := q.Get(context.Background(), auction.JobID("ended"))
		return err == nil
	}, time.Second*5, time.Millisecond*10)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("scanner didn't stop")
	}
}

func gauction(id auction.AuctionID, endsAt time.Time) auction.Auction {
	return auction.Auction{
		ID:          id,
		Rule:        auction.HighestBidWins{},
		WinnerCount: 1,
		EndsAt:      endsAt,
		CreatorID:   "creator",
		CreatedAt:   endsAt.Add(-time.Hour * 24),
	}
}
