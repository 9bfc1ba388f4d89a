package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Processor is the payment collaborator.
type Processor interface {
	CreateCustomer(ctx context.Context, email, paymentToken string) (string, error)
	CreateCharge(ctx context.Context, amountCents int64, currency, customerID, description string) (string, error)
}

// StripeProcessor charges cards through the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor builds a processor bound to secretKey.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateCustomer(ctx context.Context, email, paymentToken string) (string, error) {
	params := &stripe.CustomerParams{
		Email:  stripe.String(email),
		Source: stripe.String(paymentToken),
	}
	params.Context = ctx
	cus, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cus.ID, nil
}

func (p *StripeProcessor) CreateCharge(ctx context.Context, amountCents int64, currency, customerID, description string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Customer:    stripe.String(customerID),
		Description: stripe.String(description),
	}
	params.Context = ctx
	ch, err := p.api.Charges.New(params)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}
	if !ch.Paid {
		return "", errors.New("charge not paid: " + ch.FailureMessage)
	}
	return ch.ID, nil
}
