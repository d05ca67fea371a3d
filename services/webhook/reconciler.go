package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	alertRepo "coachbook/database/repository/alert"
	draftRepo "coachbook/database/repository/draft"
	ledgerRepo "coachbook/database/repository/ledger"
	webhookRepo "coachbook/database/repository/webhook"
	"coachbook/models"
	"coachbook/services/calendar"
	"coachbook/services/notification"
	"coachbook/services/payment"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// Provider event types the reconciler dispatches on.
const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
	eventPaymentCanceled  = "payment_intent.canceled"
)

// Reconciler applies externally-delivered, signed payment events to internal
// state exactly once. The event row and the state transitions it drives
// commit in one transaction; side effects dispatch only after commit.
type Reconciler struct {
	Verifier Verifier
	Events   webhookRepo.WebhookEventRepository
	Intents  payment.PaymentOrchestrator
	Drafts   draftRepo.DraftRepository
	Ledger   ledgerRepo.ReservationLedger
	Alerts   alertRepo.OperatorAlertRepository
	Calendar calendar.Service
	Notifier notification.Service
	Logger   *zap.Logger
}

// outcome captures what a committed event application decided, so side
// effects can be dispatched after the transaction.
type outcome struct {
	confirmedDraft *models.BookingDraft
	failedDraft    *models.BookingDraft
	failTemplate   string
}

// HandleEvent verifies, records and applies one webhook delivery.
// A duplicate delivery returns success without reapplying anything;
// an unverifiable one is rejected with no state change.
func (r *Reconciler) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := r.Verifier.Verify(payload, sigHeader)
	if err != nil {
		r.Logger.Warn("webhook signature verification failed", zap.Error(err))
		return err
	}

	var out outcome
	err = r.Events.WithTransaction(ctx, func(txCtx context.Context) error {
		// Recording and applying share the transaction: a crash between the
		// two cannot leave the event marked processed but unapplied, or
		// applied but replayable.
		if err := r.Events.Record(txCtx, &models.WebhookEvent{
			ProviderEventID: event.ID,
			Type:            string(event.Type),
			ProcessedAt:     time.Now(),
		}); err != nil {
			return err
		}

		switch string(event.Type) {
		case eventPaymentSucceeded:
			return r.applySuccess(txCtx, &event, &out)
		case eventPaymentFailed:
			return r.applyFailure(txCtx, &event, models.IntentStateFailed, &out)
		case eventPaymentCanceled:
			return r.applyFailure(txCtx, &event, models.IntentStateCanceled, &out)
		default:
			// Recorded for idempotency bookkeeping, otherwise ignored.
			r.Logger.Debug("ignoring webhook event type", zap.String("type", string(event.Type)))
			return nil
		}
	})
	if errors.Is(err, webhookRepo.ErrDuplicateEvent) {
		r.Logger.Info("duplicate webhook delivery absorbed",
			zap.String("eventId", event.ID))
		return nil
	}
	if err != nil {
		return err
	}

	r.dispatchSideEffects(ctx, &out)
	return nil
}

// providerIntentIDOf pulls the payment intent id out of the event payload.
func providerIntentIDOf(event *stripe.Event) string {
	if event.Data == nil {
		return ""
	}
	id, _ := event.Data.Object["id"].(string)
	return id
}

// applySuccess drives intent -> SUCCEEDED and draft -> CONFIRMED, upgrading
// the hold set. All inside the caller's transaction.
func (r *Reconciler) applySuccess(ctx context.Context, event *stripe.Event, out *outcome) error {
	providerIntentID := providerIntentIDOf(event)
	if providerIntentID == "" {
		r.Logger.Warn("success event carries no payment intent id", zap.String("eventId", event.ID))
		return nil
	}

	intent, err := r.Intents.GetByProviderIntentID(ctx, providerIntentID)
	if err != nil {
		// Nothing of ours to update; keep the event recorded so a replay
		// stays a no-op.
		r.Logger.Warn("success event for unknown payment intent",
			zap.String("providerIntentId", providerIntentID))
		return nil
	}

	if _, err := r.Intents.MarkSucceeded(ctx, intent.ID); err != nil {
		return fmt.Errorf("mark intent succeeded: %w", err)
	}

	applied, err := r.Drafts.TransitionState(ctx, intent.DraftID,
		[]string{models.DraftStateAwaitingPayment}, models.DraftStateConfirmed)
	if err != nil {
		return err
	}
	if !applied {
		return r.confirmLost(ctx, intent.DraftID)
	}

	draft, err := r.Drafts.GetByID(ctx, intent.DraftID)
	if err != nil {
		return err
	}
	upgraded, err := r.Ledger.Confirm(ctx, draft.HoldSetID)
	if err != nil {
		return fmt.Errorf("confirm hold set: %w", err)
	}
	if upgraded == 0 {
		// The draft just left AWAITING_PAYMENT, so its set should have been
		// entirely HELD. Zero upgrades means the holds were released out
		// from under a live payment and the slots may have been resold:
		// keep the confirmation (the money moved) but route the booking to
		// an operator instead of scheduling sessions on lost slots.
		alert := &models.OperatorAlert{
			ID:        uuid.New().String(),
			DraftID:   draft.ID,
			Reason:    models.AlertConfirmedWithoutHolds,
			Detail:    "payment confirmed but no active holds remained for the booking; slots need manual reseating or a refund",
			CreatedAt: time.Now(),
		}
		if err := r.Alerts.Create(ctx, alert); err != nil {
			return fmt.Errorf("queue lost-holds alert: %w", err)
		}
		r.Logger.Error("payment confirmed with no active holds",
			zap.String("draftId", draft.ID),
			zap.String("holdSetId", draft.HoldSetID))
		return nil
	}

	out.confirmedDraft = draft
	return nil
}

// applyFailure drives intent -> FAILED/CANCELED and draft -> FAILED, freeing
// the held slots so the customer can restart selection.
func (r *Reconciler) applyFailure(ctx context.Context, event *stripe.Event, intentState string, out *outcome) error {
	providerIntentID := providerIntentIDOf(event)
	if providerIntentID == "" {
		r.Logger.Warn("failure event carries no payment intent id", zap.String("eventId", event.ID))
		return nil
	}

	intent, err := r.Intents.GetByProviderIntentID(ctx, providerIntentID)
	if err != nil {
		r.Logger.Warn("failure event for unknown payment intent",
			zap.String("providerIntentId", providerIntentID))
		return nil
	}

	switch intentState {
	case models.IntentStateCanceled:
		_, err = r.Intents.MarkCanceled(ctx, intent.ID)
	default:
		_, err = r.Intents.MarkFailed(ctx, intent.ID)
	}
	if err != nil {
		return fmt.Errorf("mark intent %s: %w", intentState, err)
	}

	applied, err := r.Drafts.TransitionState(ctx, intent.DraftID,
		[]string{models.DraftStateAwaitingPayment}, models.DraftStateFailed)
	if err != nil {
		return err
	}
	if !applied {
		// Terminal drafts never move again; a late failure event is
		// recorded and logged, never applied.
		current, getErr := r.Drafts.GetByID(ctx, intent.DraftID)
		if getErr == nil {
			r.Logger.Warn("failure event rejected for terminal draft",
				zap.String("draftId", intent.DraftID),
				zap.String("state", current.State))
		}
		return nil
	}

	draft, err := r.Drafts.GetByID(ctx, intent.DraftID)
	if err != nil {
		return err
	}
	if draft.HoldSetID != "" {
		if err := r.Ledger.Release(ctx, draft.HoldSetID); err != nil {
			return fmt.Errorf("release hold set: %w", err)
		}
	}

	out.failedDraft = draft
	out.failTemplate = "payment_failed"
	return nil
}

// confirmLost handles a success event whose draft is no longer
// AWAITING_PAYMENT. A confirm racing a committed cancel means the money has
// moved for a canceled booking: queue it for a manual refund.
func (r *Reconciler) confirmLost(ctx context.Context, draftID string) error {
	current, err := r.Drafts.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			// Soft-deleted by a cancel that won the race.
			return r.queueRefundAlert(ctx, draftID)
		}
		return err
	}

	switch current.State {
	case models.DraftStateConfirmed:
		// Replay of an already-applied confirmation; no-op.
		return nil
	case models.DraftStateCanceled:
		return r.queueRefundAlert(ctx, draftID)
	default:
		r.Logger.Error("success event rejected for draft in unexpected state",
			zap.String("draftId", draftID),
			zap.String("state", current.State))
		return nil
	}
}

func (r *Reconciler) queueRefundAlert(ctx context.Context, draftID string) error {
	alert := &models.OperatorAlert{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		Reason:    models.AlertConfirmAfterCancel,
		Detail:    "payment succeeded after the booking was canceled; manual refund required",
		CreatedAt: time.Now(),
	}
	if err := r.Alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("queue refund alert: %w", err)
	}
	r.Logger.Error("payment confirmation lost race against cancellation",
		zap.String("draftId", draftID))
	return nil
}

// dispatchSideEffects fires the calendar and notification capabilities for a
// committed transition. Failures here are logged and retried out-of-band by
// the worker; they never roll back the financial state.
func (r *Reconciler) dispatchSideEffects(ctx context.Context, out *outcome) {
	if out.confirmedDraft != nil {
		draft := out.confirmedDraft
		holds, err := r.Ledger.HoldsBySet(ctx, draft.HoldSetID)
		if err != nil {
			r.Logger.Error("failed to load holds for calendar sync",
				zap.String("draftId", draft.ID), zap.Error(err))
		} else if err := r.Calendar.ScheduleEvents(ctx, draft, holds); err != nil {
			r.Logger.Error("failed to schedule calendar events",
				zap.String("draftId", draft.ID), zap.Error(err))
		}
		if err := r.Notifier.Notify(ctx, models.NotificationPayload{
			DraftID:    draft.ID,
			CustomerID: draft.CustomerID,
			Template:   "booking_confirmed",
			Data:       map[string]string{"courseId": draft.CourseID},
		}); err != nil {
			r.Logger.Error("failed to enqueue confirmation notification",
				zap.String("draftId", draft.ID), zap.Error(err))
		}
	}

	if out.failedDraft != nil {
		draft := out.failedDraft
		if err := r.Notifier.Notify(ctx, models.NotificationPayload{
			DraftID:    draft.ID,
			CustomerID: draft.CustomerID,
			Template:   out.failTemplate,
		}); err != nil {
			r.Logger.Error("failed to enqueue failure notification",
				zap.String("draftId", draft.ID), zap.Error(err))
		}
	}
}
