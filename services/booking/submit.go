package booking

import (
	"context"
	"errors"
	"fmt"

	ledgerRepo "coachbook/database/repository/ledger"
	"coachbook/models"

	"go.uber.org/zap"
)

// Submit drives DRAFT -> AWAITING_PAYMENT. The requested slots are held
// all-or-nothing and a payment intent is opened for the server-computed
// total; if either step fails the draft stays in DRAFT and the caller sees
// the conflicting slots or the pricing error.
//
// clientTotal is what the customer was shown. Zero means "not supplied"; a
// non-zero value that disagrees with the server computation is rejected.
func (svc *DefaultBookingService) Submit(ctx context.Context, customerID, draftID string, clientTotal int64) (*SubmitResult, error) {
	draft, err := svc.editableDraft(ctx, customerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.PackageTier == "" || len(draft.RequestedSlots) == 0 {
		return nil, ErrDraftIncomplete
	}
	course, err := GetCourseByID(draft.CourseID)
	if err != nil {
		return nil, err
	}
	for _, q := range course.QualifyingQuestions {
		if draft.QualifyingAnswers[q] == "" {
			return nil, ErrAnswersIncomplete
		}
	}

	total, err := ComputeCourseTotal(draft.TrainingType, draft.CourseID, draft.PackageTier)
	if err != nil {
		return nil, fmt.Errorf("pricing failed: %w", err)
	}
	if clientTotal != 0 && clientTotal != total {
		return nil, &PricingMismatchError{Submitted: clientTotal, Computed: total}
	}

	holdSetID, err := svc.Ledger.Hold(ctx, draft.ID, draft.RequestedSlots, svc.HoldTTL)
	if err != nil {
		var capErr *ledgerRepo.CapacityError
		if errors.As(err, &capErr) {
			svc.Logger.Info("slot contention on submit",
				zap.String("draftId", draft.ID),
				zap.Strings("conflicts", capErr.Slots))
			return nil, err
		}
		return nil, fmt.Errorf("failed to hold slots: %w", err)
	}

	draft.ComputedTotal = total
	draft.HoldSetID = holdSetID
	intent, err := svc.Orchestrator.CreateIntent(ctx, draft)
	if err != nil {
		// No intent means no payment can arrive; free the holds so the
		// customer can retry without stale claims blocking them.
		svc.releaseAbandoned(ctx, draft.ID, holdSetID)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := svc.DraftRepo.Update(ctx, draft); err != nil {
		svc.releaseAbandoned(ctx, draft.ID, holdSetID)
		return nil, fmt.Errorf("failed to persist draft totals: %w", err)
	}
	applied, err := svc.DraftRepo.TransitionState(ctx, draft.ID,
		[]string{models.DraftStateDraft}, models.DraftStateAwaitingPayment)
	if err != nil {
		svc.releaseAbandoned(ctx, draft.ID, holdSetID)
		return nil, err
	}
	if !applied {
		// A concurrent submit or cancel moved the draft first. This call's
		// holds belong to no surviving submission, so free them.
		svc.releaseAbandoned(ctx, draft.ID, holdSetID)
		return nil, &TransitionError{DraftID: draft.ID, From: draft.State, To: models.DraftStateAwaitingPayment}
	}

	svc.Logger.Info("draft submitted for payment",
		zap.String("draftId", draft.ID),
		zap.String("intentId", intent.ID),
		zap.Int64("total", total))

	return &SubmitResult{
		DraftID:      draft.ID,
		Total:        total,
		Currency:     draft.Currency,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// releaseAbandoned frees a hold set whose submission did not reach
// AWAITING_PAYMENT. Failure here is logged; the sweep picks the set up later.
func (svc *DefaultBookingService) releaseAbandoned(ctx context.Context, draftID, holdSetID string) {
	if err := svc.Ledger.Release(ctx, holdSetID); err != nil {
		svc.Logger.Error("failed to release holds for abandoned submission",
			zap.String("draftId", draftID),
			zap.String("holdSetId", holdSetID), zap.Error(err))
	}
}
