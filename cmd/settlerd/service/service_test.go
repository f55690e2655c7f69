package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/cmd/settlerd/settler"
	"github.com/textileio/settlement-core/cmd/settlerd/store"
	"github.com/textileio/settlement-core/msgbroker"
	"github.com/textileio/settlement-core/msgbroker/fakemsgbroker"
	"github.com/textileio/settlement-core/tests"
)

type recordingGateway struct {
	lk      sync.Mutex
	charges map[string]string
}

func (g *recordingGateway) CreateCharge(_ context.Context, req gateway.ChargeRequest) (string, error) {
	g.lk.Lock()
	defer g.lk.Unlock()
	if err := req.Validate(); err != nil {
		return "", gateway.NewBillingError("invalid charge: %s", err)
	}
	if id, ok := g.charges[req.IdempotencyKey]; ok {
		return id, nil
	}
	id := fmt.Sprintf("ch_%d", len(g.charges))
	g.charges[req.IdempotencyKey] = id
	return id, nil
}

func TestSettleEndToEnd(t *testing.T) {
	t.Parallel()
	pgURL, err := tests.PostgresURL()
	require.NoError(t, err)
	redisURL, err := tests.RedisURL()
	require.NoError(t, err)

	gw := &recordingGateway{charges: map[string]string{}}
	mb := fakemsgbroker.New()
	s, err := New(Config{
		PostgresURI: pgURL,
		RedisURL:    redisURL,
		Gateway:     gw,
		QueueOptions: []queue.Option{
			queue.WithPrefix("test-" + uuid.New().String() + ":"),
			queue.WithPollInterval(time.Millisecond * 20),
		},
		SettlerOptions: []settler.Option{
			settler.WithStartDelay(0),
			settler.WithTickInterval(time.Millisecond * 50),
			settler.WithGracePeriod(time.Millisecond * 100),
		},
	}, mb)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	ctx := context.Background()
	st, err := store.New(pgURL)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	require.NoError(t, st.CreateUser(ctx, auction.User{ID: "creator", PayoutAccountID: "acct_creator"}))
	for i := 0; i < 3; i++ {
		id := auction.UserID(fmt.Sprintf("bidder%d", i))
		require.NoError(t, st.CreateUser(ctx, auction.User{ID: id, CustomerID: "cus_" + string(id)}))
	}

	a := auction.Auction{
		Rule:        auction.ClosestBidWins{Target: 50},
		WinnerCount: 1,
		EndsAt:      time.Now().Add(time.Second),
		CreatorID:   "creator",
	}
	require.NoError(t, st.CreateAuction(ctx, &a))
	var bids []auction.Bid
	for i, amount := range []int64{40, 55, 70} {
		b := auction.Bid{
			AuctionID:       a.ID,
			Amount:          amount,
			CreatorID:       auction.UserID(fmt.Sprintf("bidder%d", i)),
			PaymentMethodID: "pm_card",
		}
		require.NoError(t, st.CreateBid(ctx, &b))
		bids = append(bids, b)
	}

	require.NoError(t, s.Start(ctx))
	require.ErrorIs(t, s.Start(ctx), settler.ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		got, err := st.GetAuction(ctx, a.ID)
		return err == nil && got.IsSettled
	}, time.Second*20, time.Millisecond*100)

	settled, err := st.ListAuctionBids(ctx, a.ID)
	require.NoError(t, err)
	for _, b := range settled {
		if b.ID == bids[1].ID {
			assert.True(t, b.IsWinner)
			assert.NotEmpty(t, b.ChargeID)
			continue
		}
		assert.False(t, b.IsWinner)
	}
	require.Eventually(t, func() bool {
		return mb.TotalPublishedTopic(msgbroker.AuctionSettledTopic) == 1
	}, time.Second*5, time.Millisecond*50)

	require.NoError(t, s.Stop())
	require.ErrorIs(t, s.Stop(), settler.ErrNotRunning)
}

func TestNewFails(t *testing.T) {
	t.Parallel()
	_, err := New(Config{PostgresURI: "postgres://invalid"}, nil)
	require.Error(t, err)

	pgURL, err := tests.PostgresURL()
	require.NoError(t, err)
	_, err = New(Config{PostgresURI: pgURL, RedisURL: "redis://127.0.0.1:1/0"}, nil)
	require.Error(t, err)
}

func TestSettlementRequested(t *testing.T) {
	t.Parallel()
	pgURL, err := tests.PostgresURL()
	require.NoError(t, err)
	redisURL, err := tests.RedisURL()
	require.NoError(t, err)

	mb := fakemsgbroker.New()
	s, err := New(Config{
		PostgresURI: pgURL,
		RedisURL:    redisURL,
		Gateway:     &recordingGateway{charges: map[string]string{}},
		QueueOptions: []queue.Option{
			queue.WithPrefix("test-" + uuid.New().String() + ":"),
			queue.WithPollInterval(time.Millisecond * 20),
		},
		SettlerOptions: []settler.Option{
			// Only requested auctions are settled.
			settler.WithStartDelay(time.Hour),
			settler.WithGracePeriod(0),
		},
		MaxOutstandingRequests: 4,
	}, mb)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	ctx := context.Background()
	st, err := store.New(pgURL)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	require.NoError(t, st.CreateUser(ctx, auction.User{ID: "creator", PayoutAccountID: "acct_creator"}))
	ended := auction.Auction{
		Rule:        auction.HighestBidWins{},
		WinnerCount: 1,
		EndsAt:      time.Now().Add(-time.Minute),
		CreatorID:   "creator",
	}
	require.NoError(t, st.CreateAuction(ctx, &ended))
	open := auction.Auction{
		Rule:        auction.HighestBidWins{},
		WinnerCount: 1,
		EndsAt:      time.Now().Add(time.Hour),
		CreatorID:   "creator",
	}
	require.NoError(t, st.CreateAuction(ctx, &open))

	req := msgbroker.SettlementRequested{AuctionID: ended.ID, RequestedBy: "test"}
	// Not acked while the service is stopped, so the request is redelivered.
	require.Error(t, msgbroker.PublishMsgSettlementRequested(ctx, mb, req))

	require.NoError(t, s.Start(ctx))
	require.NoError(t, msgbroker.PublishMsgSettlementRequested(ctx, mb, req))
	// Acked and dropped.
	require.NoError(t, msgbroker.PublishMsgSettlementRequested(ctx, mb,
		msgbroker.SettlementRequested{AuctionID: open.ID, RequestedBy: "test"}))

	require.Eventually(t, func() bool {
		got, err := st.GetAuction(ctx, ended.ID)
		return err == nil && got.IsSettled
	}, time.Second*20, time.Millisecond*100)
	got, err := st.GetAuction(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSettled)
	assert.Equal(t, 1, mb.TotalPublishedTopic(msgbroker.AuctionSettledTopic))
}
