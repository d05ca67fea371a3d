package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway implements Gateway against Stripe. The API key is set
// globally in main via stripe.Key.
type StripeGateway struct{}

// CreateIntent opens a Stripe PaymentIntent for the draft's total. The
// idempotency key is derived from the draft id so a retried call cannot open
// a second intent for the same draft.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, draftID string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.SetIdempotencyKey("draft-" + draftID)
	params.AddMetadata("draftId", draftID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe payment intent creation failed: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

// CancelIntent cancels a Stripe PaymentIntent.
func (g *StripeGateway) CancelIntent(ctx context.Context, providerIntentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := paymentintent.Cancel(providerIntentID, params); err != nil {
		return fmt.Errorf("stripe payment intent cancellation failed: %w", err)
	}
	return nil
}
