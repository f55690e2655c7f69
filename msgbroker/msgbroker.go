package msgbroker

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// TopicHandler is function that processes a received message.
// If no error is returned, the message will be automatically acked.
// If an error is returned, the message will be automatically nacked.
type TopicHandler func(context.Context, []byte) error

// MsgBroker is a message-broker for async message communication.
type MsgBroker interface {
	// RegisterTopicHandler registers a handler to a topic, with a defined
	// subscription defined by the underlying implementation. Is highly recommended
	// to register handlers in a type-safe way using RegisterHandlers().
	RegisterTopicHandler(topic TopicName, handler TopicHandler, opts ...Option) error

	// PublishMsg publishes a message to the desired topic.
	PublishMsg(ctx context.Context, topicName TopicName, data []byte) error
}

// TopicName is a topic name.
type TopicName string

const (
	// AuctionSettledTopic is the topic name for auction-settled messages.
	AuctionSettledTopic TopicName = "auction-settled"
	// BidChargedTopic is the topic name for bid-charged messages.
	BidChargedTopic TopicName = "bid-charged"
	// SettlementFailedTopic is the topic name for settlement-failed messages.
	SettlementFailedTopic TopicName = "settlement-failed"
	// SettlementRequestedTopic is the topic name for settlement-requested messages.
	SettlementRequestedTopic TopicName = "settlement-requested"
)

// RegisterHandlers automatically calls mb.RegisterTopicHandler in the methods that
// s might satisfy on known XXXListener interfaces. This allows to automatically wire
// s to receive messages from topics of implemented handlers.
func RegisterHandlers(mb MsgBroker, s interface{}, opts ...Option) error {
	var countRegistered int
	if l, ok := s.(AuctionSettledListener); ok {
		countRegistered++
		if err := mb.RegisterTopicHandler(AuctionSettledTopic, onAuctionSettledTopic(l), opts...); err != nil {
			return fmt.Errorf("registering handler in auction-settled topic: %s", err)
		}
	}
	if l, ok := s.(BidChargedListener); ok {
		countRegistered++
		if err := mb.RegisterTopicHandler(BidChargedTopic, onBidChargedTopic(l), opts...); err != nil {
			return fmt.Errorf("registering handler in bid-charged topic: %s", err)
		}
	}
	if l, ok := s.(SettlementFailedListener); ok {
		countRegistered++
		if err := mb.RegisterTopicHandler(SettlementFailedTopic, onSettlementFailedTopic(l), opts...); err != nil {
			return fmt.Errorf("registering handler in settlement-failed topic: %s", err)
		}
	}

	if l, ok := s.(SettlementRequestedListener); ok {
		countRegistered++
		if err := mb.RegisterTopicHandler(SettlementRequestedTopic, onSettlementRequestedTopic(l), opts...); err != nil {
			return fmt.Errorf("registering handler in settlement-requested topic: %s", err)
		}
	}

	if countRegistered == 0 {
		return errors.New("no handlers were registered")
	}

	return nil
}

func marshalAndPublish(ctx context.Context, mb MsgBroker, topic TopicName, msg proto.Message) error {
	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling %s message: %s", topic, err)
	}
	if err := mb.PublishMsg(ctx, topic, data); err != nil {
		return fmt.Errorf("publishing %s message: %s", topic, err)
	}
	return nil
}
