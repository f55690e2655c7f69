package stripegw

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
)

type fakeCharges struct {
	params *stripe.ChargeParams
	err    error
}

func (f *fakeCharges) New(params *stripe.ChargeParams) (*stripe.Charge, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.Charge{ID: "ch_123"}, nil
}

func TestCreateCharge(t *testing.T) {
	t.Parallel()

	fc := &fakeCharges{}
	g := &Gateway{charges: fc}

	id, err := g.CreateCharge(context.Background(), greq())
	require.NoError(t, err)
	assert.Equal(t, "ch_123", id)

	p := fc.params
	require.NotNil(t, p)
	assert.Equal(t, int64(10000), *p.Amount)
	assert.Equal(t, "usd", *p.Currency)
	assert.Equal(t, "cus_1", *p.Customer)
	assert.Equal(t, int64(1500), *p.ApplicationFeeAmount)
	assert.Equal(t, "acct_1", *p.OnBehalfOf)
	assert.Equal(t, "acct_1", *p.TransferData.Destination)
	assert.Equal(t, "bid-b1", *p.IdempotencyKey)
	assert.Equal(t, "a1", p.Metadata["auctionId"])
}

func TestCreateChargeErrors(t *testing.T) {
	t.Parallel()

	t.Run("declined", func(t *testing.T) {
		g := &Gateway{charges: &fakeCharges{err: &stripe.Error{
			Type: stripe.ErrorTypeCard,
			Code: stripe.ErrorCodeCardDeclined,
			Msg:  "Your card was declined.",
		}}}
		_, err := g.CreateCharge(context.Background(), greq())
		require.Error(t, err)
		assert.True(t, gateway.IsBillingError(err))
		assert.Contains(t, err.Error(), "declined")
	})

	t.Run("api error", func(t *testing.T) {
		g := &Gateway{charges: &fakeCharges{err: &stripe.Error{
			Type: stripe.ErrorTypeAPI,
			Msg:  "internal",
		}}}
		_, err := g.CreateCharge(context.Background(), greq())
		require.Error(t, err)
		assert.False(t, gateway.IsBillingError(err))
	})

	t.Run("connection", func(t *testing.T) {
		g := &Gateway{charges: &fakeCharges{err: errors.New("connection reset by peer")}}
		_, err := g.CreateCharge(context.Background(), greq())
		require.Error(t, err)
		assert.False(t, gateway.IsBillingError(err))
	})

	t.Run("invalid request", func(t *testing.T) {
		fc := &fakeCharges{}
		g := &Gateway{charges: fc}
		req := greq()
		req.Destination = ""
		_, err := g.CreateCharge(context.Background(), req)
		require.Error(t, err)
		assert.True(t, gateway.IsBillingError(err))
		assert.Nil(t, fc.params)
	})
}

func greq() gateway.ChargeRequest {
	return gateway.ChargeRequest{
		Amount:               10000,
		Currency:             "usd",
		Customer:             "cus_1",
		Source:               "pm_1",
		ApplicationFeeAmount: 1500,
		OnBehalfOf:           "acct_1",
		Destination:          "acct_1",
		IdempotencyKey:       "bid-b1",
		Metadata:             map[string]string{"auctionId": "a1", "bidId": "b1"},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New("")
	require.Error(t, err)

	g, err := New("sk_test_123")
	require.NoError(t, err)
	assert.NotNil(t, g.charges)
}
