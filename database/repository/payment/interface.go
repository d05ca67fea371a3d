package paymentRepo

import (
	"context"

	"coachbook/models"
)

// PaymentIntentRepository persists payment intents. One intent exists per
// draft; the unique draftId index backs the orchestrator's idempotency.
type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *models.PaymentIntent) error
	GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error)
	GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error)
	// TransitionState conditionally moves the intent between states and
	// reports whether the update applied.
	TransitionState(ctx context.Context, intentID string, fromStates []string, toState string) (bool, error)
}
