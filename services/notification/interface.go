package notification

import (
	"context"

	"coachbook/models"
)

// Service queues templated confirmation/failure/cancellation messages keyed
// by draft id.
type Service interface {
	Notify(ctx context.Context, payload models.NotificationPayload) error
}

// Mailer is the external delivery capability.
type Mailer interface {
	SendTemplated(ctx context.Context, customerID, template string, data map[string]string) error
}
