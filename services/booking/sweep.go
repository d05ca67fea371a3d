package booking

import (
	"context"
	"errors"
	"time"

	draftRepo "coachbook/database/repository/draft"
	"coachbook/models"

	"go.uber.org/zap"
)

// ReleaseExpiredHolds frees expired HELD sets whose draft never reached
// AWAITING_PAYMENT. A set whose draft is awaiting payment is left alone: its
// payment may still land, and releasing it would resell capacity the success
// webhook then confirms on top of. Those sets fall to ExpireStale once the
// draft itself times out. Returns how many sets were released.
func (svc *DefaultBookingService) ReleaseExpiredHolds(ctx context.Context, now time.Time) (int, error) {
	sets, err := svc.Ledger.ExpiredHoldSets(ctx, now)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, set := range sets {
		draft, err := svc.DraftRepo.GetByID(ctx, set.DraftID)
		switch {
		case errors.Is(err, draftRepo.ErrDraftNotFound):
			// Soft-deleted owner; nothing can claim the set anymore.
		case err != nil:
			svc.Logger.Error("sweep: failed to resolve draft for expired hold set",
				zap.String("holdSetId", set.HoldSetID),
				zap.String("draftId", set.DraftID), zap.Error(err))
			continue
		case draft.State == models.DraftStateAwaitingPayment:
			svc.Logger.Info("sweep: keeping expired holds for draft awaiting payment",
				zap.String("holdSetId", set.HoldSetID),
				zap.String("draftId", set.DraftID))
			continue
		}

		if err := svc.Ledger.Release(ctx, set.HoldSetID); err != nil {
			svc.Logger.Error("sweep: failed to release expired hold set",
				zap.String("holdSetId", set.HoldSetID), zap.Error(err))
			continue
		}
		released++
	}
	return released, nil
}

// ExpireStale destroys drafts that sat in DRAFT or AWAITING_PAYMENT past the
// TTL without a terminal event: holds are released, a non-terminal payment
// intent is cancelled at the provider, and the draft is soft-deleted. Runs
// from the periodic sweep, never inline with requests.
// Returns how many drafts were expired.
func (svc *DefaultBookingService) ExpireStale(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := svc.DraftRepo.FindStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, draft := range stale {
		if draft.HoldSetID != "" {
			if err := svc.Ledger.Release(ctx, draft.HoldSetID); err != nil {
				svc.Logger.Error("sweep: failed to release holds",
					zap.String("draftId", draft.ID), zap.Error(err))
				continue
			}
		}

		intent, err := svc.Orchestrator.GetByDraftID(ctx, draft.ID)
		if err == nil && !intent.Terminal() {
			if err := svc.Orchestrator.CancelIntent(ctx, intent); err != nil {
				svc.Logger.Error("sweep: failed to cancel payment intent",
					zap.String("draftId", draft.ID),
					zap.String("intentId", intent.ID), zap.Error(err))
			}
		}

		if err := svc.DraftRepo.SoftDelete(ctx, draft.ID); err != nil {
			svc.Logger.Error("sweep: failed to soft-delete stale draft",
				zap.String("draftId", draft.ID), zap.Error(err))
			continue
		}
		expired++
		svc.Logger.Info("sweep: expired stale draft",
			zap.String("draftId", draft.ID),
			zap.String("state", draft.State))
	}
	return expired, nil
}
