package models

import "time"

// PaymentIntent states.
const (
	IntentStateCreated   = "CREATED"
	IntentStateSucceeded = "SUCCEEDED"
	IntentStateFailed    = "FAILED"
	IntentStateCanceled  = "CANCELED"
)

// PaymentIntent is the durable record of a payment opened against the
// provider for a draft's computed total. ProviderIntentID is the idempotency
// anchor for webhook correlation; one intent exists per draft.
type PaymentIntent struct {
	ID               string    `bson:"id" json:"id"`
	ProviderIntentID string    `bson:"providerIntentId" json:"providerIntentId"`
	DraftID          string    `bson:"draftId" json:"draftId"`
	Amount           int64     `bson:"amount" json:"amount"` // pence
	Currency         string    `bson:"currency" json:"currency"`
	State            string    `bson:"state" json:"state"`
	ClientSecret     string    `bson:"clientSecret,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Terminal reports whether the intent has reached a final provider state.
func (pi *PaymentIntent) Terminal() bool {
	switch pi.State {
	case IntentStateSucceeded, IntentStateFailed, IntentStateCanceled:
		return true
	}
	return false
}
