package booking

import (
	"context"
	"fmt"
	"time"

	"coachbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cancel is the customer-initiated exit. It races against an in-flight
// webhook confirming the same draft: whichever transition commits first wins,
// and a cancellation that lost to a just-confirmed payment is surfaced to the
// operator queue for a manual refund rather than silently discarded.
func (svc *DefaultBookingService) Cancel(ctx context.Context, customerID, draftID string) error {
	draft, err := svc.DraftRepo.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.CustomerID != customerID {
		return ErrNotDraftOwner
	}

	applied, err := svc.DraftRepo.TransitionState(ctx, draftID,
		[]string{models.DraftStateDraft, models.DraftStateAwaitingPayment}, models.DraftStateCanceled)
	if err != nil {
		return err
	}
	if !applied {
		return svc.cancelLost(ctx, draftID)
	}

	if draft.HoldSetID != "" {
		if err := svc.Ledger.Release(ctx, draft.HoldSetID); err != nil {
			svc.Logger.Error("failed to release holds on cancel",
				zap.String("draftId", draftID), zap.Error(err))
		}
	}

	intent, err := svc.Orchestrator.GetByDraftID(ctx, draftID)
	if err == nil && !intent.Terminal() {
		if err := svc.Orchestrator.CancelIntent(ctx, intent); err != nil {
			svc.Logger.Error("failed to cancel payment intent",
				zap.String("draftId", draftID),
				zap.String("intentId", intent.ID), zap.Error(err))
		}
	}

	if err := svc.DraftRepo.SoftDelete(ctx, draftID); err != nil {
		svc.Logger.Error("failed to soft-delete canceled draft",
			zap.String("draftId", draftID), zap.Error(err))
	}

	if err := svc.Notifier.Notify(ctx, models.NotificationPayload{
		DraftID:    draftID,
		CustomerID: draft.CustomerID,
		Template:   "booking_canceled",
	}); err != nil {
		svc.Logger.Error("failed to enqueue cancellation notification",
			zap.String("draftId", draftID), zap.Error(err))
	}

	svc.Logger.Info("booking draft canceled", zap.String("draftId", draftID))
	return nil
}

// cancelLost handles a cancel that found the draft already terminal.
func (svc *DefaultBookingService) cancelLost(ctx context.Context, draftID string) error {
	current, err := svc.DraftRepo.GetByID(ctx, draftID)
	if err != nil {
		return err
	}

	if current.State == models.DraftStateConfirmed {
		alert := &models.OperatorAlert{
			ID:        uuid.New().String(),
			DraftID:   draftID,
			Reason:    models.AlertCancelAfterConfirm,
			Detail:    "customer cancellation arrived after payment confirmation; manual refund required",
			CreatedAt: time.Now(),
		}
		if err := svc.Alerts.Create(ctx, alert); err != nil {
			svc.Logger.Error("failed to queue operator alert",
				zap.String("draftId", draftID), zap.Error(err))
		}
		svc.Logger.Error("cancellation lost race against confirmation",
			zap.String("draftId", draftID))
		return fmt.Errorf("draft %s was confirmed before cancellation; refund queued for an operator", draftID)
	}

	svc.Logger.Warn("cancel rejected for terminal draft",
		zap.String("draftId", draftID),
		zap.String("state", current.State))
	return &TransitionError{DraftID: draftID, From: current.State, To: models.DraftStateCanceled}
}
