package gpubsub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	logger "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/msgbroker"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var log = logger.Logger("gpubsub")

// PubsubMsgBroker is an implementation of MsgBroker for Google PubSub.
type PubsubMsgBroker struct {
	subsName    string
	topicPrefix string

	client          *pubsub.Client
	clientCtx       context.Context
	clientCtxCancel context.CancelFunc
	receivers       sync.WaitGroup

	metrics brokerMetrics

	topicCacheLock sync.Mutex
	topicCache     map[msgbroker.TopicName]*pubsub.Topic
}

var _ msgbroker.MsgBroker = (*PubsubMsgBroker)(nil)

// New returns a new *PubsubMsgBroker. If PUBSUB_EMULATOR_HOST is set, the
// emulator is used and projectID and apiKey may be empty.
func New(projectID, apiKey, topicPrefix, subsName string) (*PubsubMsgBroker, error) {
	var opts []option.ClientOption
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		if projectID == "" {
			return nil, errors.New("project-id is empty")
		}
		if apiKey == "" {
			return nil, errors.New("api key is empty")
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(apiKey)))
	} else if projectID == "" {
		projectID = "emulator"
	}
	if subsName == "" {
		return nil, errors.New("subscription name is empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating pubsub client: %s", err)
	}

	p := &PubsubMsgBroker{
		subsName:        subsName,
		topicPrefix:     topicPrefix,
		client:          client,
		clientCtx:       ctx,
		clientCtxCancel: cancel,
		topicCache:      map[msgbroker.TopicName]*pubsub.Topic{},
	}
	p.initMetrics(metric.Must(global.Meter("gpubsub")))
	return p, nil
}

// RegisterTopicHandler registers a handler to a topic, with a subscription
// named after the topic and the broker subscription name.
func (p *PubsubMsgBroker) RegisterTopicHandler(
	topicName msgbroker.TopicName,
	handler msgbroker.TopicHandler,
	opts ...msgbroker.Option) error {
	config, err := msgbroker.ApplyHandlerOptions(opts...)
	if err != nil {
		return err
	}
	topic, err := p.getTopic(topicName)
	if err != nil {
		return fmt.Errorf("get topic: %s", err)
	}

	subName := p.topicPrefix + p.subsName + "-" + string(topicName)
	sub, err := p.getSubscription(topic, subName, config)
	if err != nil {
		return err
	}

	if config.MaxOutstanding > 0 {
		sub.ReceiveSettings.MaxOutstandingMessages = config.MaxOutstanding
	}

	p.receivers.Add(1)
	go func() {
		defer p.receivers.Done()
		err := sub.Receive(p.clientCtx, func(ctx context.Context, m *pubsub.Message) {
			start := time.Now()
			err := handler(ctx, m.Data)
			p.metrics.onHandle(ctx, string(topicName), time.Since(start), err)
			if err != nil {
				log.Errorf("handling message %s of topic %s: %s", m.ID, topicName, err)
				m.Nack()
				return
			}
			m.Ack()
		})
		if err != nil {
			log.Errorf("receive handler subscription %s, topic %s: %s", subName, topicName, err)
		}
	}()

	log.Debugf("registered handler for %s:%s", subName, topicName)
	return nil
}

// PublishMsg publishes a message to the desired topic.
func (p *PubsubMsgBroker) PublishMsg(ctx context.Context, topicName msgbroker.TopicName, data []byte) (err error) {
	defer func() { p.metrics.onPublish(ctx, string(topicName), err) }()

	topic, err := p.getTopic(topicName)
	if err != nil {
		return fmt.Errorf("get topic: %s", err)
	}
	pr := topic.Publish(ctx, &pubsub.Message{Data: data})

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if _, err := pr.Get(ctx); err != nil {
		return fmt.Errorf("publishing to pubsub: %s", err)
	}
	return nil
}

// Close closes the broker, waiting for running receivers.
func (p *PubsubMsgBroker) Close() error {
	p.clientCtxCancel()
	p.receivers.Wait()

	p.topicCacheLock.Lock()
	for _, t := range p.topicCache {
		t.Stop()
	}
	p.topicCacheLock.Unlock()

	return p.client.Close()
}

func (p *PubsubMsgBroker) getSubscription(
	topic *pubsub.Topic,
	name string,
	config msgbroker.HandlerConfig) (*pubsub.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	it := topic.Subscriptions(ctx)
	for {
		sub, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("looking for subscription: %s", err)
		}
		if sub.ID() == name {
			return sub, nil
		}
	}

	log.Warnf("creating subscription %s for topic %s", name, topic.ID())
	sub, err := p.client.CreateSubscription(ctx, name, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: config.AckDeadline,
	})
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %s", err)
	}
	return sub, nil
}

func (p *PubsubMsgBroker) getTopic(name msgbroker.TopicName) (*pubsub.Topic, error) {
	p.topicCacheLock.Lock()
	defer p.topicCacheLock.Unlock()
	topic, ok := p.topicCache[name]
	if ok {
		return topic, nil
	}

	topicName := p.topicPrefix + string(name)
	topic = p.client.Topic(topicName)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	exist, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic exists: %s", err)
	}
	if !exist {
		log.Warnf("creating topic %s", topicName)

		topic, err = p.client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, fmt.Errorf("creating topic %s: %s", topicName, err)
		}
	}
	p.topicCache[name] = topic

	return topic, nil
}
