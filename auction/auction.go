package auction

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinWinnerCount is the minimum number of winners an auction can declare.
	MinWinnerCount = 1
	// MaxWinnerCount is the maximum number of winners an auction can declare.
	MaxWinnerCount = 10

	// ExtensionWindow is the window before the end of a highest-bid auction in which
	// a new bid pushes the end time forward.
	ExtensionWindow = time.Minute * 2

	jobIDPrefix = "auc-"
)

// AuctionID is the type used for auction identity.
type AuctionID string

// BidID is the type used for bid identity.
type BidID string

// UserID is the type used for user identity.
type UserID string

// JobID returns the settlement job id of an auction.
// There is at most one in-flight settlement job per auction id.
func JobID(id AuctionID) string {
	return jobIDPrefix + string(id)
}

// Auction defines the core auction model.
type Auction struct {
	ID          AuctionID
	Rule        Rule
	WinnerCount int
	EndsAt      time.Time
	CreatorID   UserID
	IsCanceled  bool
	IsSettled   bool
	CreatedAt   time.Time
}

// Validate returns an error if the auction can't be persisted or settled.
func (a Auction) Validate() error {
	if a.ID == "" {
		return errors.New("auction id is empty")
	}
	if a.CreatorID == "" {
		return errors.New("creator id is empty")
	}
	if a.WinnerCount < MinWinnerCount || a.WinnerCount > MaxWinnerCount {
		return fmt.Errorf("winner count must be between %d and %d", MinWinnerCount, MaxWinnerCount)
	}
	if a.EndsAt.IsZero() {
		return errors.New("ends at is zero")
	}
	switch r := a.Rule.(type) {
	case HighestBidWins:
	case ClosestBidWins:
		if r.Target < 0 {
			return errors.New("target amount is negative")
		}
	case nil:
		return errors.New("rule is empty")
	}
	return nil
}

// ExtendedEndsAt returns the end time of the auction after receiving a bid at bidAt.
// Highest-bid auctions that receive a bid in their last ExtensionWindow are extended
// to ExtensionWindow after the bid, so a last-second bid can always be answered.
func ExtendedEndsAt(a Auction, bidAt time.Time) time.Time {
	if _, ok := a.Rule.(HighestBidWins); !ok {
		return a.EndsAt
	}
	if bidAt.Before(a.EndsAt) && a.EndsAt.Sub(bidAt) <= ExtensionWindow {
		return bidAt.Add(ExtensionWindow)
	}
	return a.EndsAt
}

// RefundState is the state of a refund request.
type RefundState string

const (
	// RefundRequested indicates the bidder asked for a refund.
	RefundRequested RefundState = "REQUESTED"
	// RefundApproved indicates the auction creator accepted the refund.
	RefundApproved RefundState = "APPROVED"
	// RefundDenied indicates the auction creator rejected the refund.
	RefundDenied RefundState = "DENIED"
)

// Refund is a refund request attached to a charged bid.
type Refund struct {
	State     RefundState
	Reason    string
	UpdatedAt time.Time
}

// Bid defines the core bid model.
// Amounts are whole currency units.
type Bid struct {
	ID              BidID
	AuctionID       AuctionID
	Amount          int64
	CreatorID       UserID
	PaymentMethodID string
	CreatedAt       time.Time
	IsWinner        bool
	ChargeID        string
	ChargeError     string
	Refund          *Refund
}

// Validate returns an error if the bid can't be persisted.
func (b Bid) Validate() error {
	if b.ID == "" {
		return errors.New("bid id is empty")
	}
	if b.AuctionID == "" {
		return errors.New("auction id is empty")
	}
	if b.CreatorID == "" {
		return errors.New("creator id is empty")
	}
	if b.PaymentMethodID == "" {
		return errors.New("payment method id is empty")
	}
	if b.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

// Charged returns true if the bid holds a charge.
func (b Bid) Charged() bool {
	return b.ChargeID != ""
}

// Failed returns true if a charge attempt for the bid ended in a billing error.
func (b Bid) Failed() bool {
	return b.IsWinner && b.ChargeID == "" && b.ChargeError != ""
}

// InDoubt returns true if a charge attempt was started but its outcome was never recorded.
func (b Bid) InDoubt() bool {
	return b.IsWinner && b.ChargeID == "" && b.ChargeError == ""
}

// User holds the payment identities of a platform user.
type User struct {
	ID UserID
	// CustomerID is the gateway customer used when the user pays for a bid.
	CustomerID string
	// PayoutAccountID is the gateway account receiving the proceeds of the user's auctions.
	PayoutAccountID string
}
