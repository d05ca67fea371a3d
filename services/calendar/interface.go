package calendar

import (
	"context"

	"coachbook/models"
)

// Service schedules calendar-event creation for a confirmed booking: one
// event per confirmed slot, fire-and-forget with retry, never part of the
// financial transaction.
type Service interface {
	ScheduleEvents(ctx context.Context, draft *models.BookingDraft, holds []models.SlotHold) error
}

// Provider is the external calendar capability: create one event for a
// confirmed slot. Implementations must tolerate redelivery of the same
// (draftId, slotId) pair.
type Provider interface {
	CreateEvent(ctx context.Context, payload models.CalendarSyncPayload) error
}
