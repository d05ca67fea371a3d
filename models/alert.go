package models

import "time"

// Operator alert reasons.
const (
	AlertCancelAfterConfirm    = "cancel_after_confirm"
	AlertConfirmAfterCancel    = "confirm_after_cancel"
	AlertConfirmedWithoutHolds = "confirmed_without_holds"
)

// OperatorAlert surfaces a race loser (e.g. a cancellation that arrived just
// after a payment confirmed the same draft) to a manual queue for refund
// handling instead of silently discarding it.
type OperatorAlert struct {
	ID        string    `bson:"id" json:"id"`
	DraftID   string    `bson:"draftId" json:"draftId"`
	Reason    string    `bson:"reason" json:"reason"`
	Detail    string    `bson:"detail,omitempty" json:"detail,omitempty"`
	Resolved  bool      `bson:"resolved" json:"resolved"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
