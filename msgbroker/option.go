package msgbroker

import (
	"fmt"
	"time"
)

// Ack deadline bounds accepted by Google Pub/Sub subscriptions.
const (
	minAckDeadline = time.Second * 10
	maxAckDeadline = time.Minute * 10
)

// HandlerConfig holds the subscription settings of a registered topic handler.
type HandlerConfig struct {
	// AckDeadline is how long the broker waits for a handler before
	// redelivering the message.
	AckDeadline time.Duration
	// MaxOutstanding caps the number of messages handled concurrently.
	// Zero leaves the broker default.
	MaxOutstanding int
}

// Option configures a topic handler registration.
type Option func(*HandlerConfig) error

// WithACKDeadline configures the deadline for the message broker subscription.
func WithACKDeadline(deadline time.Duration) Option {
	return func(c *HandlerConfig) error {
		if deadline < minAckDeadline || deadline > maxAckDeadline {
			return fmt.Errorf("ack deadline %s out of range [%s, %s]", deadline, minAckDeadline, maxAckDeadline)
		}
		c.AckDeadline = deadline
		return nil
	}
}

// WithMaxOutstanding caps how many messages of the topic are handled at once.
func WithMaxOutstanding(n int) Option {
	return func(c *HandlerConfig) error {
		if n < 0 {
			return fmt.Errorf("max outstanding messages can't be negative")
		}
		c.MaxOutstanding = n
		return nil
	}
}

// ApplyHandlerOptions returns the default handler config modified by opts.
func ApplyHandlerOptions(opts ...Option) (HandlerConfig, error) {
	config := HandlerConfig{AckDeadline: minAckDeadline}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return HandlerConfig{}, fmt.Errorf("applying handler option: %s", err)
		}
	}
	return config, nil
}
