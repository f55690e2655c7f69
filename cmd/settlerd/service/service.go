package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway/stripegw"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/cmd/settlerd/settler"
	"github.com/textileio/settlement-core/cmd/settlerd/store"
	"github.com/textileio/settlement-core/finalizer"
	"github.com/textileio/settlement-core/msgbroker"
)

var log = golog.Logger("settler/service")

// Config defines params for Service configuration.
type Config struct {
	PostgresURI string
	RedisURL    string

	// StripeSecretKey is used to create charges unless Gateway is set.
	StripeSecretKey string
	Gateway         gateway.Gateway

	QueueOptions   []queue.Option
	SettlerOptions []settler.Option

	// MaxOutstandingRequests bounds the settlement requests handled at once.
	MaxOutstandingRequests int
}

// Service wires the auction store, the payment gateway and the job queue
// into a settlement processor.
type Service struct {
	store     *store.Store
	gateway   gateway.Gateway
	processor *settler.Processor

	finalizer *finalizer.Finalizer
}

// New returns a new Service. mb may be nil to disable settlement events.
func New(conf Config, mb msgbroker.MsgBroker) (*Service, error) {
	if conf.RedisURL == "" {
		return nil, errors.New("redis url is empty")
	}
	fin := finalizer.NewFinalizer()

	s, err := store.New(conf.PostgresURI)
	if err != nil {
		return nil, fin.Cleanupf("creating store: %v", err)
	}
	fin.Add(s)

	gw := conf.Gateway
	if gw == nil {
		gw, err = stripegw.New(conf.StripeSecretKey)
		if err != nil {
			return nil, fin.Cleanupf("creating stripe gateway: %v", err)
		}
	}

	newQueue := func() (settler.Queue, error) {
		return queue.New(conf.RedisURL, conf.QueueOptions...)
	}
	// Fail early on a bad redis configuration.
	q, err := newQueue()
	if err != nil {
		return nil, fin.Cleanupf("connecting to queue: %v", err)
	}
	if err := q.Close(); err != nil {
		return nil, fin.Cleanupf("closing queue: %v", err)
	}

	p, err := settler.New(newQueue, mb, conf.SettlerOptions...)
	if err != nil {
		return nil, fin.Cleanupf("creating settlement processor: %v", err)
	}
	fin.Add(p)

	service := &Service{
		store:     s,
		gateway:   gw,
		processor: p,
		finalizer: fin,
	}
	if mb != nil {
		if err := msgbroker.RegisterHandlers(
			mb,
			service,
			msgbroker.WithACKDeadline(time.Minute),
			msgbroker.WithMaxOutstanding(conf.MaxOutstandingRequests),
		); err != nil {
			return nil, fin.Cleanupf("registering msgbroker handlers: %v", err)
		}
	}

	return service, nil
}

// Start starts settling auctions.
func (s *Service) Start(ctx context.Context) error {
	if err := s.processor.Start(ctx, settler.Context{Store: s.store, Gateway: s.gateway}); err != nil {
		return fmt.Errorf("starting settlement processor: %s", err)
	}
	log.Info("service started")
	return nil
}

// Stop stops settling auctions. The service can be started again.
func (s *Service) Stop() error {
	return s.processor.Stop()
}

// OnSettlementRequested enqueues the settlement of the requested auction.
// Requests for auctions that can't be settled are acked and dropped.
func (s *Service) OnSettlementRequested(ctx context.Context, req msgbroker.SettlementRequested) error {
	added, err := s.processor.RequestSettlement(ctx, req.AuctionID)
	if errors.Is(err, settler.ErrNotSettleable) {
		log.Warnf("dropping settlement request of %s: %s", req.RequestedBy, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("requesting settlement of auction %s: %s", req.AuctionID, err)
	}
	if !added {
		log.Debugf("settlement of auction %s is already queued", req.AuctionID)
	}
	return nil
}

// Close the service.
func (s *Service) Close() error {
	log.Info("service was shutdown")
	return s.finalizer.Cleanup(nil)
}
