package settler

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type config struct {
	tickInterval        time.Duration
	startDelay          time.Duration
	gracePeriod         time.Duration
	maxRetryCount       int
	feeRate             decimal.Decimal
	currency            string
	pageSize            int
	drainTimeout        time.Duration
	retryFailedCharges  bool
	retryInDoubtCharges bool
}

var defaultConfig = config{
	tickInterval:  time.Second,
	startDelay:    time.Second,
	gracePeriod:   time.Second * 20,
	maxRetryCount: 100,
	feeRate:       decimal.RequireFromString("0.15"),
	currency:      "usd",
	pageSize:      100,
	drainTimeout:  time.Second * 30,
	// Charges carry a per-bid idempotency key, so retrying one whose outcome
	// was lost can't charge the bid twice.
	retryInDoubtCharges: true,
}

// Option applies a configuration change.
type Option func(*config) error

// WithTickInterval configures the delay between the end of a scan and the next one.
func WithTickInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("tick interval must be positive")
		}
		c.tickInterval = d
		return nil
	}
}

// WithStartDelay configures the delay before the first scan.
func WithStartDelay(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.New("start delay is negative")
		}
		c.startDelay = d
		return nil
	}
}

// WithGracePeriod configures how long after its end an auction becomes settleable.
func WithGracePeriod(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.New("grace period is negative")
		}
		c.gracePeriod = d
		return nil
	}
}

// WithMaxRetryCount configures the max attempts of a settlement job.
func WithMaxRetryCount(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("max retry count must be greater than zero")
		}
		c.maxRetryCount = n
		return nil
	}
}

// WithApplicationFeeRate configures the platform fee rate of every charge, e.g. 0.15.
func WithApplicationFeeRate(rate float64) Option {
	return func(c *config) error {
		if rate < 0 || rate > 1 {
			return errors.New("fee rate must be in [0, 1]")
		}
		c.feeRate = decimal.NewFromFloat(rate)
		return nil
	}
}

// WithCurrency configures the currency of charges.
func WithCurrency(currency string) Option {
	return func(c *config) error {
		if currency == "" {
			return errors.New("currency is empty")
		}
		c.currency = currency
		return nil
	}
}

// WithPageSize configures the page size used when scanning for settleable auctions.
func WithPageSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.New("page size must be greater than zero")
		}
		c.pageSize = n
		return nil
	}
}

// WithDrainTimeout configures how long Stop waits for in-flight jobs before
// cancelling them.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("drain timeout must be positive")
		}
		c.drainTimeout = d
		return nil
	}
}

// WithRetryFailedCharges makes bids whose charge was declined eligible again
// in later settlement attempts of the same auction.
func WithRetryFailedCharges(enabled bool) Option {
	return func(c *config) error {
		c.retryFailedCharges = enabled
		return nil
	}
}

// WithRetryInDoubtCharges makes bids whose charge outcome was never recorded
// eligible again in later settlement attempts. The retried charge reuses the
// idempotency key of the first one.
func WithRetryInDoubtCharges(enabled bool) Option {
	return func(c *config) error {
		c.retryInDoubtCharges = enabled
		return nil
	}
}
