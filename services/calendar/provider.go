package calendar

import (
	"context"

	"coachbook/models"

	"go.uber.org/zap"
)

// LogProvider is the development Provider: it records the event it would
// create. Production wires the connected calendar account's client here.
type LogProvider struct {
	Logger *zap.Logger
}

func (p *LogProvider) CreateEvent(ctx context.Context, payload models.CalendarSyncPayload) error {
	p.Logger.Info("calendar event created",
		zap.String("draftId", payload.DraftID),
		zap.String("slotId", payload.SlotID),
		zap.String("date", payload.Date),
		zap.String("start", payload.Start))
	return nil
}
