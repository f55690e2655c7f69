package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/textileio/settlement-core/auction"
)

const (
	auctionColumns = `id, type, target_amount, winner_count, ends_at, creator_id,
		is_canceled, is_settled, created_at`
	bidColumns = `id, auction_id, amount, creator_id, payment_method_id, created_at,
		is_winner, charge_id, charge_error, refund_state, refund_reason, refund_updated_at`
)

type userRow struct {
	ID              string `db:"id"`
	CustomerID      string `db:"customer_id"`
	PayoutAccountID string `db:"payout_account_id"`
}

type auctionRow struct {
	ID           string        `db:"id"`
	Type         string        `db:"type"`
	TargetAmount sql.NullInt64 `db:"target_amount"`
	WinnerCount  int           `db:"winner_count"`
	EndsAt       time.Time     `db:"ends_at"`
	CreatorID    string        `db:"creator_id"`
	IsCanceled   bool          `db:"is_canceled"`
	IsSettled    bool          `db:"is_settled"`
	CreatedAt    time.Time     `db:"created_at"`
}

type bidRow struct {
	ID              string         `db:"id"`
	AuctionID       string         `db:"auction_id"`
	Amount          int64          `db:"amount"`
	CreatorID       string         `db:"creator_id"`
	PaymentMethodID string         `db:"payment_method_id"`
	CreatedAt       time.Time      `db:"created_at"`
	IsWinner        bool           `db:"is_winner"`
	ChargeID        sql.NullString `db:"charge_id"`
	ChargeError     sql.NullString `db:"charge_error"`
	RefundState     sql.NullString `db:"refund_state"`
	RefundReason    sql.NullString `db:"refund_reason"`
	RefundUpdatedAt sql.NullTime   `db:"refund_updated_at"`
}

func auctionFromRow(r auctionRow) (*auction.Auction, error) {
	var target *int64
	if r.TargetAmount.Valid {
		target = &r.TargetAmount.Int64
	}
	rule, err := auction.ParseRule(r.Type, target)
	if err != nil {
		return nil, fmt.Errorf("auction %s: %v", r.ID, err)
	}
	return &auction.Auction{
		ID:          auction.AuctionID(r.ID),
		Rule:        rule,
		WinnerCount: r.WinnerCount,
		EndsAt:      r.EndsAt,
		CreatorID:   auction.UserID(r.CreatorID),
		IsCanceled:  r.IsCanceled,
		IsSettled:   r.IsSettled,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func bidFromRow(r bidRow) auction.Bid {
	b := auction.Bid{
		ID:              auction.BidID(r.ID),
		AuctionID:       auction.AuctionID(r.AuctionID),
		Amount:          r.Amount,
		CreatorID:       auction.UserID(r.CreatorID),
		PaymentMethodID: r.PaymentMethodID,
		CreatedAt:       r.CreatedAt,
		IsWinner:        r.IsWinner,
		ChargeID:        r.ChargeID.String,
		ChargeError:     r.ChargeError.String,
	}
	if r.RefundState.Valid {
		b.Refund = &auction.Refund{
			State:     auction.RefundState(r.RefundState.String),
			Reason:    r.RefundReason.String,
			UpdatedAt: r.RefundUpdatedAt.Time,
		}
	}
	return b
}
