package settler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"github.com/textileio/settlement-core/cmd/settlerd/store"
)

// fakeStore is an in-memory Store following the semantics of store.Store.
type fakeStore struct {
	lk       sync.Mutex
	users    map[auction.UserID]auction.User
	auctions map[auction.AuctionID]auction.Auction
	bids     map[auction.BidID]auction.Bid
	// errs makes the named method fail.
	errs map[string]error
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		users:    map[auction.UserID]auction.User{},
		auctions: map[auction.AuctionID]auction.Auction{},
		bids:     map[auction.BidID]auction.Bid{},
		errs:     map[string]error{},
	}
	s.users["creator"] = auction.User{ID: "creator", CustomerID: "cus_creator", PayoutAccountID: "acct_creator"}
	for i := 0; i < 3; i++ {
		id := auction.UserID(fmt.Sprintf("bidder%d", i))
		s.users[id] = auction.User{ID: id, CustomerID: "cus_" + string(id)}
	}
	return s
}

func (s *fakeStore) setErr(method string, err error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.errs[method] = err
}

func (s *fakeStore) addAuction(a auction.Auction) {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.auctions[a.ID] = a
}

// addBids adds bids created one second apart in the given order.
func (s *fakeStore) addBids(auctionID auction.AuctionID, amounts ...int64) []auction.BidID {
	s.lk.Lock()
	defer s.lk.Unlock()
	start := time.Now().Add(-time.Hour)
	var ids []auction.BidID
	for i, amount := range amounts {
		id := auction.BidID(fmt.Sprintf("%s-bid-%d", auctionID, len(s.bids)))
		s.bids[id] = auction.Bid{
			ID:              id,
			AuctionID:       auctionID,
			Amount:          amount,
			CreatorID:       auction.UserID(fmt.Sprintf("bidder%d", i%3)),
			PaymentMethodID: "pm_card",
			CreatedAt:       start.Add(time.Duration(len(s.bids)) * time.Second),
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *fakeStore) updateBid(id auction.BidID, f func(*auction.Bid)) {
	s.lk.Lock()
	defer s.lk.Unlock()
	b := s.bids[id]
	f(&b)
	s.bids[id] = b
}

func (s *fakeStore) bid(id auction.BidID) auction.Bid {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.bids[id]
}

func (s *fakeStore) auction(id auction.AuctionID) auction.Auction {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.auctions[id]
}

func (s *fakeStore) GetAuction(_ context.Context, id auction.AuctionID) (*auction.Auction, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["GetAuction"]; err != nil {
		return nil, err
	}
	a, ok := s.auctions[id]
	if !ok {
		return nil, store.ErrAuctionNotFound
	}
	return &a, nil
}

func (s *fakeStore) GetUser(_ context.Context, id auction.UserID) (*auction.User, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["GetUser"]; err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *fakeStore) ListSettleableAuctionIDs(
	_ context.Context,
	endedBefore time.Time,
	after auction.AuctionID,
	limit int,
) ([]auction.AuctionID, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["ListSettleableAuctionIDs"]; err != nil {
		return nil, err
	}
	var ids []auction.AuctionID
	for _, a := range s.auctions {
		if a.EndsAt.Before(endedBefore) && !a.IsSettled && a.ID > after {
			ids = append(ids, a.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *fakeStore) ListAuctionBids(_ context.Context, id auction.AuctionID) ([]auction.Bid, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["ListAuctionBids"]; err != nil {
		return nil, err
	}
	var bids []auction.Bid
	for _, b := range s.bids {
		if b.AuctionID == id {
			bids = append(bids, b)
		}
	}
	sort.Slice(bids, func(i, j int) bool {
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.After(bids[j].CreatedAt)
		}
		return bids[i].ID > bids[j].ID
	})
	return bids, nil
}

func (s *fakeStore) MarkBidAttempted(_ context.Context, auctionID auction.AuctionID, bidID auction.BidID) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["MarkBidAttempted"]; err != nil {
		return err
	}
	a, ok := s.auctions[auctionID]
	if !ok {
		return store.ErrAuctionNotFound
	}
	if a.IsSettled {
		return store.ErrAuctionSettled
	}
	b, ok := s.bids[bidID]
	if !ok || b.AuctionID != auctionID {
		return store.ErrBidNotFound
	}
	if b.ChargeID != "" {
		return store.ErrBidCharged
	}
	b.IsWinner = true
	b.ChargeError = ""
	s.bids[bidID] = b
	return nil
}

func (s *fakeStore) SetBidCharge(_ context.Context, bidID auction.BidID, chargeID string) error {
	return s.updateUncharged(bidID, func(b *auction.Bid) {
		b.ChargeID = chargeID
		b.ChargeError = ""
	})
}

func (s *fakeStore) SetBidChargeError(_ context.Context, bidID auction.BidID, cause string) error {
	return s.updateUncharged(bidID, func(b *auction.Bid) {
		b.ChargeError = cause
	})
}

func (s *fakeStore) updateUncharged(bidID auction.BidID, f func(*auction.Bid)) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	b, ok := s.bids[bidID]
	if !ok {
		return store.ErrBidNotFound
	}
	if b.ChargeID != "" {
		return store.ErrBidCharged
	}
	if !b.IsWinner {
		return fmt.Errorf("bid %s was not marked as winner", bidID)
	}
	f(&b)
	s.bids[bidID] = b
	return nil
}

func (s *fakeStore) MarkAuctionSettled(_ context.Context, id auction.AuctionID) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if err := s.errs["MarkAuctionSettled"]; err != nil {
		return false, err
	}
	a, ok := s.auctions[id]
	if !ok {
		return false, store.ErrAuctionNotFound
	}
	if a.IsSettled {
		return false, nil
	}
	a.IsSettled = true
	s.auctions[id] = a
	return true, nil
}

// fakeGateway creates charges in memory, honoring idempotency keys.
type fakeGateway struct {
	lk       sync.Mutex
	requests []gateway.ChargeRequest
	charges  map[string]string
	// declines and failures are keyed by idempotency key.
	declines map[string]bool
	failures map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		charges:  map[string]string{},
		declines: map[string]bool{},
		failures: map[string]error{},
	}
}

func (g *fakeGateway) decline(bidID auction.BidID) {
	g.lk.Lock()
	defer g.lk.Unlock()
	g.declines["bid-"+string(bidID)] = true
}

func (g *fakeGateway) fail(bidID auction.BidID, err error) {
	g.lk.Lock()
	defer g.lk.Unlock()
	g.failures["bid-"+string(bidID)] = err
}

func (g *fakeGateway) CreateCharge(_ context.Context, req gateway.ChargeRequest) (string, error) {
	g.lk.Lock()
	defer g.lk.Unlock()
	g.requests = append(g.requests, req)
	if err := req.Validate(); err != nil {
		return "", gateway.NewBillingError("invalid charge: %s", err)
	}
	if g.declines[req.IdempotencyKey] {
		return "", &gateway.BillingError{Code: "card_declined", Msg: "Your card was declined."}
	}
	if err := g.failures[req.IdempotencyKey]; err != nil {
		return "", err
	}
	if id, ok := g.charges[req.IdempotencyKey]; ok {
		return id, nil
	}
	id := fmt.Sprintf("ch_%d", len(g.charges))
	g.charges[req.IdempotencyKey] = id
	return id, nil
}

func (g *fakeGateway) calls() []gateway.ChargeRequest {
	g.lk.Lock()
	defer g.lk.Unlock()
	return append([]gateway.ChargeRequest(nil), g.requests...)
}
