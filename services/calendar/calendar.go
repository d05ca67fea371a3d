package calendar

import (
	"context"
	"errors"
	"fmt"

	"coachbook/models"
	"coachbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqCalendarService implements Service by enqueueing one calendar:sync
// task per confirmed slot. Delivery and retry are the worker's problem; a
// failure here is logged by the caller and never rolls back the booking.
type AsynqCalendarService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqCalendarService(client *asynq.Client, logger *zap.Logger) *AsynqCalendarService {
	return &AsynqCalendarService{Client: client, Logger: logger}
}

func (s *AsynqCalendarService) ScheduleEvents(ctx context.Context, draft *models.BookingDraft, holds []models.SlotHold) error {
	var firstErr error
	for _, h := range holds {
		payload := models.CalendarSyncPayload{
			DraftID:    draft.ID,
			CustomerID: draft.CustomerID,
			CourseID:   draft.CourseID,
			SlotID:     h.SlotID,
			Date:       h.Date,
			Start:      h.Start,
		}
		task, opts, err := tasks.NewCalendarSyncTask(payload)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
			// ErrTaskIDConflict means this (draft, slot) pair is already
			// queued; that is the idempotency working, not a failure.
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			s.Logger.Error("failed to enqueue calendar sync",
				zap.String("draftId", draft.ID),
				zap.String("slotId", h.SlotID), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("enqueue calendar sync for slot %s: %w", h.SlotID, err)
			}
		}
	}
	return firstErr
}
