package gateway

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFees(t *testing.T) {
	t.Parallel()

	rate := decimal.RequireFromString("0.15")
	for _, tc := range []struct {
		amount int64
		minor  int64
		fee    int64
	}{
		{100, 10000, 1500},
		{1, 100, 15},
		{33, 3300, 495},
		{7, 700, 105},
	} {
		assert.Equal(t, tc.minor, MinorUnits(tc.amount))
		assert.Equal(t, tc.fee, ApplicationFee(tc.amount, rate))
	}

	// Half a minor unit rounds up.
	assert.Equal(t, int64(1), ApplicationFee(1, decimal.RequireFromString("0.005")))
}

func TestBillingError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("creating charge: %w", &BillingError{Code: "card_declined", Msg: "Your card was declined."})
	assert.True(t, IsBillingError(err))
	assert.Contains(t, err.Error(), "card_declined")
	assert.False(t, IsBillingError(fmt.Errorf("connection reset")))
	assert.True(t, IsBillingError(NewBillingError("creator %s has no payout account", "u1")))
}

func TestChargeRequestValidate(t *testing.T) {
	t.Parallel()

	valid := ChargeRequest{
		Amount:               10000,
		Currency:             "usd",
		Customer:             "cus_1",
		Source:               "pm_1",
		ApplicationFeeAmount: 1500,
		OnBehalfOf:           "acct_1",
		Destination:          "acct_1",
	}
	require.NoError(t, valid.Validate())

	r := valid
	r.Amount = 0
	require.Error(t, r.Validate())
	r = valid
	r.ApplicationFeeAmount = 10001
	require.Error(t, r.Validate())
	r = valid
	r.Customer = ""
	require.Error(t, r.Validate())
	r = valid
	r.Destination = ""
	require.Error(t, r.Validate())
}
