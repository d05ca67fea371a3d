package webhook

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
)

// SignatureError reports a webhook payload whose signature did not verify.
// Rejected with no state change; alertable.
type SignatureError struct {
	Cause error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid webhook signature: %v", e.Cause)
}

func (e *SignatureError) Unwrap() error { return e.Cause }

// Verifier authenticates a raw webhook delivery against the shared secret.
type Verifier interface {
	Verify(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeVerifier implements Verifier with Stripe's signed-event scheme.
type StripeVerifier struct {
	Secret string
}

func (v *StripeVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, sigHeader, v.Secret)
	if err != nil {
		return stripe.Event{}, &SignatureError{Cause: err}
	}
	return event, nil
}
