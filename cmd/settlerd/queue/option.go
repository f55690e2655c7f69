package queue

import (
	"errors"
	"time"
)

type config struct {
	prefix          string
	concurrency     int
	leaseDuration   time.Duration
	stalledInterval time.Duration
	pollInterval    time.Duration
	retention       time.Duration
	backoffInitial  time.Duration
	backoffMax      time.Duration
	eventsBuffer    int
}

var defaultConfig = config{
	prefix:          "settler:",
	concurrency:     1,
	leaseDuration:   time.Second * 30,
	stalledInterval: time.Second * 5,
	pollInterval:    time.Millisecond * 500,
	retention:       time.Hour * 24,
	backoffInitial:  time.Second,
	backoffMax:      time.Minute,
	eventsBuffer:    1024,
}

// Option applies a configuration change.
type Option func(*config) error

// WithPrefix sets the prefix of every key the queue writes.
func WithPrefix(prefix string) Option {
	return func(c *config) error {
		if prefix == "" {
			return errors.New("prefix is empty")
		}
		c.prefix = prefix
		return nil
	}
}

// WithConcurrency sets the number of jobs processed in parallel.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("concurrency must be greater than zero")
		}
		c.concurrency = n
		return nil
	}
}

// WithLeaseDuration sets how long a job lease lasts without renewal.
func WithLeaseDuration(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("lease duration must be positive")
		}
		c.leaseDuration = d
		return nil
	}
}

// WithStalledInterval sets the frequency of the expired leases check.
func WithStalledInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("stalled interval must be positive")
		}
		c.stalledInterval = d
		return nil
	}
}

// WithPollInterval sets how long an idle worker waits before looking for ready jobs again.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		c.pollInterval = d
		return nil
	}
}

// WithRetention sets how long completed and failed jobs are kept. While a job
// is retained, adding a job with the same id is a no-op.
func WithRetention(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("retention must be positive")
		}
		c.retention = d
		return nil
	}
}

// WithBackoff sets the exponential retry delay bounds of failed jobs.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *config) error {
		if initial <= 0 || max < initial {
			return errors.New("invalid backoff bounds")
		}
		c.backoffInitial = initial
		c.backoffMax = max
		return nil
	}
}

// WithEventsBuffer sets the capacity of the events channel.
func WithEventsBuffer(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("events buffer must be greater than zero")
		}
		c.eventsBuffer = n
		return nil
	}
}
