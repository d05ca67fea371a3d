package tasks

import (
	"encoding/json"

	"coachbook/models"

	"github.com/hibiken/asynq"
)

const TypeNotifySend = "notify:send"

// NewNotificationTask builds the task that delivers a templated customer
// message.
func NewNotificationTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotifySend, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}
	return task, opts, nil
}
