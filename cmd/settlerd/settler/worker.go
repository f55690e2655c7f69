package settler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/cmd/settlerd/store"
	"github.com/textileio/settlement-core/metrics"
	"github.com/textileio/settlement-core/msgbroker"
)

// worker settles one auction per job: it ranks the bids, charges winners in
// rank order until the winner count is met, and flags the auction settled.
type worker struct {
	conf    config
	store   Store
	gateway gateway.Gateway
	mb      msgbroker.MsgBroker
}

func newWorker(conf config, c Context, mb msgbroker.MsgBroker) *worker {
	return &worker{
		conf:    conf,
		store:   c.Store,
		gateway: c.Gateway,
		mb:      mb,
	}
}

// settle handles a settlement job. A returned error fails the attempt and
// leaves the auction unsettled; billing errors are recorded on bids instead.
func (w *worker) settle(ctx context.Context, job queue.Job) error {
	log.Debugf("settling auction %s (attempt %d/%d)", job.AuctionID, job.Attempt, job.MaxAttempts)

	a, err := w.store.GetAuction(ctx, job.AuctionID)
	if errors.Is(err, store.ErrAuctionNotFound) {
		log.Warnf("auction %s of job %s not found, skipping", job.AuctionID, job.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("getting auction: %w", err)
	}
	if a.IsSettled {
		log.Debugf("auction %s is already settled", a.ID)
		return nil
	}
	if a.IsCanceled {
		log.Infof("auction %s is canceled, settling without charges", a.ID)
		return w.markSettled(ctx, a, nil)
	}

	var payoutAccount string
	creator, err := w.store.GetUser(ctx, a.CreatorID)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		log.Warnf("creator %s of auction %s not found", a.CreatorID, a.ID)
	case err != nil:
		return fmt.Errorf("getting auction creator: %w", err)
	default:
		payoutAccount = creator.PayoutAccountID
	}

	bids, err := w.store.ListAuctionBids(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("listing bids: %w", err)
	}
	ranked, err := Rank(*a, bids)
	if err != nil {
		return fmt.Errorf("ranking bids: %w", err)
	}

	winners := w.seedWinners(bids)
	filled := len(winners)
	for i := range ranked {
		if filled >= a.WinnerCount {
			break
		}
		b := &ranked[i]
		if _, ok := winners[b.ID]; ok {
			continue
		}
		charged, err := w.charge(ctx, a, payoutAccount, b)
		if err != nil {
			return err
		}
		winners[b.ID] = struct{}{}
		if charged {
			filled++
		}
	}
	if filled < a.WinnerCount {
		log.Infof("auction %s settles with %d of %d winners", a.ID, filled, a.WinnerCount)
	}

	return w.markSettled(ctx, a, ranked)
}

// seedWinners returns the bids that already went through a charge attempt in
// a previous run and must not be charged again.
func (w *worker) seedWinners(bids []auction.Bid) map[auction.BidID]struct{} {
	winners := map[auction.BidID]struct{}{}
	for _, b := range bids {
		if !b.IsWinner {
			continue
		}
		if b.Failed() && w.conf.retryFailedCharges {
			continue
		}
		if b.InDoubt() && w.conf.retryInDoubtCharges {
			continue
		}
		winners[b.ID] = struct{}{}
	}
	return winners
}

// charge marks the bid attempted, charges it and records the outcome. It
// returns true if the bid holds a charge. Billing errors are recorded on the
// bid and aren't returned.
func (w *worker) charge(ctx context.Context, a *auction.Auction, payoutAccount string, b *auction.Bid) (bool, error) {
	if err := w.store.MarkBidAttempted(ctx, a.ID, b.ID); err != nil {
		if errors.Is(err, store.ErrBidCharged) {
			log.Warnf("bid %s was charged concurrently", b.ID)
			return true, nil
		}
		return false, fmt.Errorf("marking bid %s attempted: %w", b.ID, err)
	}
	b.IsWinner = true

	chargeID, err := w.createCharge(ctx, a, payoutAccount, *b)
	if err != nil {
		if !gateway.IsBillingError(err) {
			metrics.MetricIncrCounter(ctx, err, metricCharges)
			return false, fmt.Errorf("charging bid %s: %w", b.ID, err)
		}
		metricCharges.Add(ctx, 1, attrBilling)
		log.Warnf("charging bid %s of auction %s: %s", b.ID, a.ID, err)
		if err := w.store.SetBidChargeError(ctx, b.ID, err.Error()); err != nil {
			return false, fmt.Errorf("recording charge error of bid %s: %w", b.ID, err)
		}
		b.ChargeError = err.Error()
		w.publishCharge(ctx, a, *b)
		return false, nil
	}

	if err := w.store.SetBidCharge(ctx, b.ID, chargeID); err != nil {
		return false, fmt.Errorf("recording charge %s of bid %s: %w", chargeID, b.ID, err)
	}
	b.ChargeID = chargeID
	b.ChargeError = ""
	metrics.MetricIncrCounter(ctx, nil, metricCharges)
	metricChargedCent.Add(ctx, gateway.MinorUnits(b.Amount))
	log.Infof("charged bid %s of auction %s: %s %s (%s)",
		b.ID, a.ID, humanize.Comma(b.Amount), w.conf.currency, chargeID)
	w.publishCharge(ctx, a, *b)
	return true, nil
}

func (w *worker) createCharge(ctx context.Context, a *auction.Auction, payoutAccount string, b auction.Bid) (string, error) {
	if payoutAccount == "" {
		return "", gateway.NewBillingError("creator %s has no payout account", a.CreatorID)
	}
	bidder, err := w.store.GetUser(ctx, b.CreatorID)
	if errors.Is(err, store.ErrUserNotFound) {
		return "", gateway.NewBillingError("bidder %s not found", b.CreatorID)
	}
	if err != nil {
		return "", fmt.Errorf("getting bidder: %w", err)
	}
	if bidder.CustomerID == "" {
		return "", gateway.NewBillingError("bidder %s has no customer account", b.CreatorID)
	}

	return w.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		Amount:               gateway.MinorUnits(b.Amount),
		Currency:             w.conf.currency,
		Customer:             bidder.CustomerID,
		Source:               b.PaymentMethodID,
		ApplicationFeeAmount: gateway.ApplicationFee(b.Amount, w.conf.feeRate),
		OnBehalfOf:           payoutAccount,
		Destination:          payoutAccount,
		IdempotencyKey:       "bid-" + string(b.ID),
		Metadata: map[string]string{
			"auction_id": string(a.ID),
			"bid_id":     string(b.ID),
		},
	})
}

func (w *worker) markSettled(ctx context.Context, a *auction.Auction, ranked []auction.Bid) (err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, metricSettled) }()

	ok, err := w.store.MarkAuctionSettled(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("marking auction settled: %w", err)
	}
	if !ok {
		log.Warnf("auction %s was settled concurrently", a.ID)
		return nil
	}
	log.Infof("auction %s settled", a.ID)

	msg := msgbroker.AuctionSettled{
		AuctionID:   a.ID,
		WinnerCount: a.WinnerCount,
		Canceled:    a.IsCanceled,
	}
	for _, b := range ranked {
		if b.IsWinner {
			msg.Winners = append(msg.Winners, b.ID)
		}
		if b.Charged() {
			msg.Charged = append(msg.Charged, b.ID)
		}
	}
	w.publish(ctx, func(ctx context.Context) error {
		return msgbroker.PublishMsgAuctionSettled(ctx, w.mb, msg)
	})
	return nil
}

func (w *worker) publishCharge(ctx context.Context, a *auction.Auction, b auction.Bid) {
	w.publish(ctx, func(ctx context.Context) error {
		return msgbroker.PublishMsgBidCharged(ctx, w.mb, msgbroker.BidCharged{
			AuctionID:   a.ID,
			BidID:       b.ID,
			BidderID:    b.CreatorID,
			Amount:      b.Amount,
			ChargeID:    b.ChargeID,
			ChargeError: b.ChargeError,
		})
	})
}

// publish runs f if a message broker is configured. Publishing errors are
// logged since the store holds the source of truth.
func (w *worker) publish(ctx context.Context, f func(context.Context) error) {
	if w.mb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := f(ctx); err != nil {
		log.Errorf("publishing settlement event: %s", err)
	}
}
