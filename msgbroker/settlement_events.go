package msgbroker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/textileio/settlement-core/auction"
	pb "github.com/textileio/settlement-core/gen/settlement/v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// AuctionSettled is published once an auction is flagged as settled.
type AuctionSettled struct {
	Ts          time.Time
	AuctionID   auction.AuctionID
	WinnerCount int
	Winners     []auction.BidID
	Charged     []auction.BidID
	Canceled    bool
}

// BidCharged is published after every charge attempt of a winning bid.
// ChargeError is set when the attempt failed.
type BidCharged struct {
	Ts          time.Time
	AuctionID   auction.AuctionID
	BidID       auction.BidID
	BidderID    auction.UserID
	Amount      int64
	ChargeID    string
	ChargeError string
}

// SettlementFailed is published when a settlement job runs out of attempts.
type SettlementFailed struct {
	Ts        time.Time
	AuctionID auction.AuctionID
	JobID     string
	Attempts  int
	Error     string
}

// SettlementRequested asks for an auction to be settled without waiting for
// the next scan.
type SettlementRequested struct {
	Ts          time.Time
	AuctionID   auction.AuctionID
	RequestedBy string
}

// AuctionSettledListener is a handler for auction-settled topic.
type AuctionSettledListener interface {
	OnAuctionSettled(context.Context, AuctionSettled) error
}

// BidChargedListener is a handler for bid-charged topic.
type BidChargedListener interface {
	OnBidCharged(context.Context, BidCharged) error
}

// SettlementFailedListener is a handler for settlement-failed topic.
type SettlementFailedListener interface {
	OnSettlementFailed(context.Context, SettlementFailed) error
}

// SettlementRequestedListener is a handler for settlement-requested topic.
type SettlementRequestedListener interface {
	OnSettlementRequested(context.Context, SettlementRequested) error
}

// PublishMsgAuctionSettled publishes a message to the auction-settled topic.
func PublishMsgAuctionSettled(ctx context.Context, mb MsgBroker, msg AuctionSettled) error {
	if msg.AuctionID == "" {
		return errors.New("auction id is empty")
	}
	return marshalAndPublish(ctx, mb, AuctionSettledTopic, &pb.AuctionSettled{
		Ts:          timestampOrNow(msg.Ts),
		AuctionId:   string(msg.AuctionID),
		WinnerCount: int32(msg.WinnerCount),
		Winners:     bidIDsToStrings(msg.Winners),
		Charged:     bidIDsToStrings(msg.Charged),
		Canceled:    msg.Canceled,
	})
}

// PublishMsgBidCharged publishes a message to the bid-charged topic.
func PublishMsgBidCharged(ctx context.Context, mb MsgBroker, msg BidCharged) error {
	if msg.AuctionID == "" || msg.BidID == "" {
		return errors.New("auction id or bid id is empty")
	}
	if (msg.ChargeID == "") == (msg.ChargeError == "") {
		return errors.New("exactly one of charge id and charge error must be set")
	}
	return marshalAndPublish(ctx, mb, BidChargedTopic, &pb.BidCharged{
		Ts:          timestampOrNow(msg.Ts),
		AuctionId:   string(msg.AuctionID),
		BidId:       string(msg.BidID),
		BidderId:    string(msg.BidderID),
		Amount:      msg.Amount,
		ChargeId:    msg.ChargeID,
		ChargeError: msg.ChargeError,
	})
}

// PublishMsgSettlementFailed publishes a message to the settlement-failed topic.
func PublishMsgSettlementFailed(ctx context.Context, mb MsgBroker, msg SettlementFailed) error {
	if msg.JobID == "" {
		return errors.New("job id is empty")
	}
	return marshalAndPublish(ctx, mb, SettlementFailedTopic, &pb.SettlementFailed{
		Ts:        timestampOrNow(msg.Ts),
		AuctionId: string(msg.AuctionID),
		JobId:     msg.JobID,
		Attempts:  int32(msg.Attempts),
		Error:     msg.Error,
	})
}

// PublishMsgSettlementRequested publishes a message to the settlement-requested topic.
func PublishMsgSettlementRequested(ctx context.Context, mb MsgBroker, msg SettlementRequested) error {
	if msg.AuctionID == "" {
		return errors.New("auction id is empty")
	}
	return marshalAndPublish(ctx, mb, SettlementRequestedTopic, &pb.SettlementRequested{
		Ts:          timestampOrNow(msg.Ts),
		AuctionId:   string(msg.AuctionID),
		RequestedBy: msg.RequestedBy,
	})
}

func onAuctionSettledTopic(l AuctionSettledListener) TopicHandler {
	return func(ctx context.Context, data []byte) error {
		r := &pb.AuctionSettled{}
		if err := proto.Unmarshal(data, r); err != nil {
			return fmt.Errorf("unmarshal auction settled: %s", err)
		}
		if r.AuctionId == "" {
			return errors.New("auction id is empty")
		}
		msg := AuctionSettled{
			Ts:          r.Ts.AsTime(),
			AuctionID:   auction.AuctionID(r.AuctionId),
			WinnerCount: int(r.WinnerCount),
			Winners:     stringsToBidIDs(r.Winners),
			Charged:     stringsToBidIDs(r.Charged),
			Canceled:    r.Canceled,
		}
		if err := l.OnAuctionSettled(ctx, msg); err != nil {
			return fmt.Errorf("calling auction-settled handler: %s", err)
		}
		return nil
	}
}

func onBidChargedTopic(l BidChargedListener) TopicHandler {
	return func(ctx context.Context, data []byte) error {
		r := &pb.BidCharged{}
		if err := proto.Unmarshal(data, r); err != nil {
			return fmt.Errorf("unmarshal bid charged: %s", err)
		}
		if r.AuctionId == "" || r.BidId == "" {
			return errors.New("auction id or bid id is empty")
		}
		msg := BidCharged{
			Ts:          r.Ts.AsTime(),
			AuctionID:   auction.AuctionID(r.AuctionId),
			BidID:       auction.BidID(r.BidId),
			BidderID:    auction.UserID(r.BidderId),
			Amount:      r.Amount,
			ChargeID:    r.ChargeId,
			ChargeError: r.ChargeError,
		}
		if err := l.OnBidCharged(ctx, msg); err != nil {
			return fmt.Errorf("calling bid-charged handler: %s", err)
		}
		return nil
	}
}

func onSettlementFailedTopic(l SettlementFailedListener) TopicHandler {
	return func(ctx context.Context, data []byte) error {
		r := &pb.SettlementFailed{}
		if err := proto.Unmarshal(data, r); err != nil {
			return fmt.Errorf("unmarshal settlement failed: %s", err)
		}
		if r.JobId == "" {
			return errors.New("job id is empty")
		}
		msg := SettlementFailed{
			Ts:        r.Ts.AsTime(),
			AuctionID: auction.AuctionID(r.AuctionId),
			JobID:     r.JobId,
			Attempts:  int(r.Attempts),
			Error:     r.Error,
		}
		if err := l.OnSettlementFailed(ctx, msg); err != nil {
			return fmt.Errorf("calling settlement-failed handler: %s", err)
		}
		return nil
	}
}

func onSettlementRequestedTopic(l SettlementRequestedListener) TopicHandler {
	return func(ctx context.Context, data []byte) error {
		r := &pb.SettlementRequested{}
		if err := proto.Unmarshal(data, r); err != nil {
			return fmt.Errorf("unmarshal settlement requested: %s", err)
		}
		if r.AuctionId == "" {
			return errors.New("auction id is empty")
		}
		msg := SettlementRequested{
			Ts:          r.Ts.AsTime(),
			AuctionID:   auction.AuctionID(r.AuctionId),
			RequestedBy: r.RequestedBy,
		}
		if err := l.OnSettlementRequested(ctx, msg); err != nil {
			return fmt.Errorf("calling settlement-requested handler: %s", err)
		}
		return nil
	}
}

func timestampOrNow(ts time.Time) *timestamppb.Timestamp {
	if ts.IsZero() {
		return timestamppb.Now()
	}
	return timestamppb.New(ts)
}

func bidIDsToStrings(ids []auction.BidID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func stringsToBidIDs(ss []string) []auction.BidID {
	if len(ss) == 0 {
		return nil
	}
	out := make([]auction.BidID, len(ss))
	for i, s := range ss {
		out[i] = auction.BidID(s)
	}
	return out
}
