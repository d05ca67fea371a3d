package payment

import (
	"context"

	"coachbook/models"
)

// PaymentOrchestrator owns the PaymentIntent lifecycle. CreateIntent is
// idempotent by draft id; the Mark* transitions are invoked only by the
// webhook reconciler, since payment state is authoritative from the
// provider's side, never the client's.
type PaymentOrchestrator interface {
	CreateIntent(ctx context.Context, draft *models.BookingDraft) (*models.PaymentIntent, error)
	GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error)
	GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error)
	MarkSucceeded(ctx context.Context, intentID string) (bool, error)
	MarkFailed(ctx context.Context, intentID string) (bool, error)
	MarkCanceled(ctx context.Context, intentID string) (bool, error)
	// CancelIntent requests provider-side cancellation of a non-terminal
	// intent (customer cancel / TTL sweep paths).
	CancelIntent(ctx context.Context, intent *models.PaymentIntent) error
}

// Gateway is the boundary to the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, draftID string) (providerIntentID, clientSecret string, err error)
	CancelIntent(ctx context.Context, providerIntentID string) error
}
