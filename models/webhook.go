package models

import "time"

// WebhookEvent is the processed-event log row. The unique ProviderEventID
// index is the idempotency guard: a redelivered event whose id is already
// recorded is a no-op by construction.
type WebhookEvent struct {
	ProviderEventID string    `bson:"providerEventId" json:"providerEventId"`
	Type            string    `bson:"type" json:"type"`
	ProcessedAt     time.Time `bson:"processedAt" json:"processedAt"`
}
