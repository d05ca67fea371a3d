package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "coachbook/database/repository/payment"
	"coachbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentOrchestrator implements PaymentOrchestrator.
type DefaultPaymentOrchestrator struct {
	Repo    paymentRepo.PaymentIntentRepository
	Gateway Gateway
	Logger  *zap.Logger
}

func NewPaymentOrchestrator(repo paymentRepo.PaymentIntentRepository, gateway Gateway, logger *zap.Logger) *DefaultPaymentOrchestrator {
	return &DefaultPaymentOrchestrator{Repo: repo, Gateway: gateway, Logger: logger}
}

// CreateIntent opens a payment intent for the draft's computed total. One
// intent per draft: re-invoking for a draft that already has a non-terminal
// intent returns the existing one rather than creating a duplicate.
func (o *DefaultPaymentOrchestrator) CreateIntent(ctx context.Context, draft *models.BookingDraft) (*models.PaymentIntent, error) {
	existing, err := o.Repo.GetByDraftID(ctx, draft.ID)
	if err == nil {
		if !existing.Terminal() {
			return existing, nil
		}
		return nil, fmt.Errorf("draft %s already has a terminal payment intent (%s)", draft.ID, existing.State)
	}
	if !errors.Is(err, paymentRepo.ErrIntentNotFound) {
		return nil, err
	}

	if draft.ComputedTotal <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %d", draft.ComputedTotal)
	}

	providerID, clientSecret, err := o.Gateway.CreateIntent(ctx, draft.ComputedTotal, draft.Currency, draft.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	intent := &models.PaymentIntent{
		ID:               uuid.New().String(),
		ProviderIntentID: providerID,
		DraftID:          draft.ID,
		Amount:           draft.ComputedTotal,
		Currency:         draft.Currency,
		State:            models.IntentStateCreated,
		ClientSecret:     clientSecret,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := o.Repo.Create(ctx, intent); err != nil {
		return nil, err
	}

	o.Logger.Info("payment intent created",
		zap.String("draftId", draft.ID),
		zap.String("providerIntentId", providerID),
		zap.Int64("amount", intent.Amount))
	return intent, nil
}

func (o *DefaultPaymentOrchestrator) GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error) {
	return o.Repo.GetByDraftID(ctx, draftID)
}

func (o *DefaultPaymentOrchestrator) GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error) {
	return o.Repo.GetByProviderIntentID(ctx, providerIntentID)
}

// MarkSucceeded records the provider's terminal success. Reports whether the
// transition applied (false means the intent was already terminal).
func (o *DefaultPaymentOrchestrator) MarkSucceeded(ctx context.Context, intentID string) (bool, error) {
	return o.Repo.TransitionState(ctx, intentID, []string{models.IntentStateCreated}, models.IntentStateSucceeded)
}

// MarkFailed records the provider's terminal failure.
func (o *DefaultPaymentOrchestrator) MarkFailed(ctx context.Context, intentID string) (bool, error) {
	return o.Repo.TransitionState(ctx, intentID, []string{models.IntentStateCreated}, models.IntentStateFailed)
}

// MarkCanceled records provider-side cancellation.
func (o *DefaultPaymentOrchestrator) MarkCanceled(ctx context.Context, intentID string) (bool, error) {
	return o.Repo.TransitionState(ctx, intentID, []string{models.IntentStateCreated}, models.IntentStateCanceled)
}

// CancelIntent requests cancellation from the provider. The authoritative
// CANCELED state lands later via the provider's webhook.
func (o *DefaultPaymentOrchestrator) CancelIntent(ctx context.Context, intent *models.PaymentIntent) error {
	if intent.Terminal() {
		return fmt.Errorf("intent %s is already terminal (%s)", intent.ID, intent.State)
	}
	return o.Gateway.CancelIntent(ctx, intent.ProviderIntentID)
}
