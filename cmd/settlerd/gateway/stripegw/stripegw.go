package stripegw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/cmd/settlerd/gateway"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var log = golog.Logger("stripegw")

// requestTimeout bounds a single call to the Stripe API.
const requestTimeout = time.Second * 80

// chargeCreator is the subset of the Stripe charges client in use.
type chargeCreator interface {
	New(params *stripe.ChargeParams) (*stripe.Charge, error)
}

// Gateway creates charges through Stripe.
type Gateway struct {
	charges chargeCreator
}

var _ gateway.Gateway = (*Gateway)(nil)

// New returns a new Stripe gateway authenticated with secretKey.
func New(secretKey string) (*Gateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	httpClient := &http.Client{
		Timeout:   requestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	sc := client.New(secretKey, stripe.NewBackends(httpClient))
	return &Gateway{charges: sc.Charges}, nil
}

// CreateCharge implements gateway.Gateway.
func (g *Gateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", gateway.NewBillingError("invalid charge: %s", err)
	}
	params := &stripe.ChargeParams{
		Amount:               stripe.Int64(req.Amount),
		Currency:             stripe.String(req.Currency),
		Customer:             stripe.String(req.Customer),
		ApplicationFeeAmount: stripe.Int64(req.ApplicationFeeAmount),
		TransferData: &stripe.ChargeTransferDataParams{
			Destination: stripe.String(req.Destination),
		},
	}
	if req.OnBehalfOf != "" {
		params.OnBehalfOf = stripe.String(req.OnBehalfOf)
	}
	if err := params.SetSource(req.Source); err != nil {
		return "", gateway.NewBillingError("invalid source: %s", err)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	ch, err := g.charges.New(params)
	if err != nil {
		return "", classify(err)
	}
	log.Debugf("created charge %s (key %s)", ch.ID, req.IdempotencyKey)
	return ch.ID, nil
}

// classify maps declines and invalid requests to billing errors. API,
// rate-limit and connection errors stay transient.
func classify(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("calling stripe: %v", err)
	}
	switch se.Type {
	case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
		return &gateway.BillingError{Code: string(se.Code), Msg: se.Msg}
	default:
		return fmt.Errorf("stripe %s: %s", se.Type, se.Msg)
	}
}
