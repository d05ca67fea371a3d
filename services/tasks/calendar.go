package tasks

import (
	"encoding/json"

	"coachbook/models"

	"github.com/hibiken/asynq"
)

const TypeCalendarSync = "calendar:sync"

// NewCalendarSyncTask builds the task that creates one calendar event for a
// confirmed slot. The task id is keyed by (draftId, slotId) so a retried
// enqueue cannot schedule the same event twice.
func NewCalendarSyncTask(payload models.CalendarSyncPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCalendarSync, b)
	opts := []asynq.Option{
		asynq.TaskID("calendar:" + payload.DraftID + ":" + payload.SlotID),
		asynq.MaxRetry(10),
	}
	return task, opts, nil
}
