package webhookRepo

import (
	"context"
	"fmt"

	"coachbook/models"
)

// ErrDuplicateEvent reports a provider event id that has already been
// recorded. Not a failure: redelivery is expected and absorbed.
var ErrDuplicateEvent = fmt.Errorf("webhook event already processed")

// WebhookEventRepository is the processed-event log. Record relies on the
// unique providerEventId index so a redelivered event fails the insert with
// ErrDuplicateEvent instead of being applied twice.
type WebhookEventRepository interface {
	Record(ctx context.Context, event *models.WebhookEvent) error
	// WithTransaction runs fn inside one mongo transaction so that
	// recording the event and applying its state transitions commit or
	// abort together.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
