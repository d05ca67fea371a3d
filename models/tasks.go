package models

// CalendarSyncPayload is the asynq payload for creating one calendar event
// per confirmed slot. Keyed by (draftId, slotId) so redelivered tasks are
// idempotent on the provider side.
type CalendarSyncPayload struct {
	DraftID    string `json:"draftId"`
	CustomerID string `json:"customerId"`
	CourseID   string `json:"courseId"`
	SlotID     string `json:"slotId"`
	Date       string `json:"date"`
	Start      string `json:"start"`
}

// NotificationPayload is the asynq payload for a templated customer message.
type NotificationPayload struct {
	DraftID    string            `json:"draftId"`
	CustomerID string            `json:"customerId"`
	Template   string            `json:"template"` // "booking_confirmed", "payment_failed", "booking_canceled"
	Data       map[string]string `json:"data,omitempty"`
}
