package notification

import (
	"context"

	"coachbook/models"
	"coachbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqNotificationService implements Service by enqueueing notify:send
// tasks for the worker to deliver.
type AsynqNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotificationService(client *asynq.Client, logger *zap.Logger) *AsynqNotificationService {
	return &AsynqNotificationService{Client: client, Logger: logger}
}

func (s *AsynqNotificationService) Notify(ctx context.Context, payload models.NotificationPayload) error {
	task, opts, err := tasks.NewNotificationTask(payload)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		s.Logger.Error("failed to enqueue notification",
			zap.String("draftId", payload.DraftID),
			zap.String("template", payload.Template), zap.Error(err))
		return err
	}
	return nil
}

// LogMailer is the development Mailer: it records the message it would send.
// Production wires the transactional email provider here.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) SendTemplated(ctx context.Context, customerID, template string, data map[string]string) error {
	m.Logger.Info("notification sent",
		zap.String("customerId", customerID),
		zap.String("template", template),
		zap.Any("data", data))
	return nil
}
