package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeRequest describes a charge against a customer's stored payment source,
// split between the platform fee and a destination account.
type ChargeRequest struct {
	// Amount is in currency minor units.
	Amount   int64
	Currency string
	Customer string
	Source   string
	// ApplicationFeeAmount is the platform fee in currency minor units.
	ApplicationFeeAmount int64
	OnBehalfOf           string
	Destination          string
	IdempotencyKey       string
	Metadata             map[string]string
}

// Validate returns an error if the request can't be sent to a gateway.
func (r ChargeRequest) Validate() error {
	if r.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if r.ApplicationFeeAmount < 0 || r.ApplicationFeeAmount > r.Amount {
		return fmt.Errorf("application fee %d out of range", r.ApplicationFeeAmount)
	}
	if r.Currency == "" {
		return errors.New("currency is empty")
	}
	if r.Customer == "" {
		return errors.New("customer is empty")
	}
	if r.Source == "" {
		return errors.New("source is empty")
	}
	if r.Destination == "" {
		return errors.New("destination is empty")
	}
	return nil
}

// Gateway creates charges.
type Gateway interface {
	// CreateCharge creates a charge and returns its id. Declined or invalid
	// charges return a *BillingError; any other error is transient.
	CreateCharge(ctx context.Context, req ChargeRequest) (string, error)
}

// BillingError is a terminal error for a single charge.
type BillingError struct {
	Code string
	Msg  string
}

// Error implements error.
func (e *BillingError) Error() string {
	if e.Code == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Code)
}

// NewBillingError returns a new *BillingError.
func NewBillingError(format string, args ...interface{}) *BillingError {
	return &BillingError{Msg: fmt.Sprintf(format, args...)}
}

// IsBillingError returns true if err is or wraps a *BillingError.
func IsBillingError(err error) bool {
	var be *BillingError
	return errors.As(err, &be)
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a whole-unit amount to currency minor units.
func MinorUnits(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(hundred).IntPart()
}

// ApplicationFee returns the platform fee for a whole-unit amount at rate,
// in currency minor units, rounded half away from zero.
func ApplicationFee(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(hundred).Mul(rate).Round(0).IntPart()
}
