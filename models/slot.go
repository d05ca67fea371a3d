package models

import "time"

// TimeSlot represents a bookable weekly coaching window. Identity is
// (date, start); slots are generated from the schedule template and are not
// persisted until a hold is placed against them.
type TimeSlot struct {
	Date      string `bson:"date" json:"date"`           // "2006-01-02"
	Start     string `bson:"start" json:"start"`         // "15:04"
	Capacity  int    `bson:"capacity" json:"capacity"`   // concurrent occupants
	Remaining int    `bson:"remaining" json:"remaining"` // capacity - active holds, read-time only
}

// SlotID returns the canonical identity string for a slot.
func (ts TimeSlot) SlotID() string {
	return ts.Date + "T" + ts.Start
}

// Hold states. A hold counts against slot capacity while HELD or CONFIRMED.
const (
	HoldStateHeld      = "HELD"
	HoldStateConfirmed = "CONFIRMED"
	HoldStateReleased  = "RELEASED"
)

// SlotHold is a provisional or confirmed claim on a slot. Holds belonging to
// one draft submission share a HoldSetID so they can be confirmed or released
// as a unit.
type SlotHold struct {
	ID        string    `bson:"id" json:"id"`
	SlotID    string    `bson:"slotId" json:"slotId"`
	Date      string    `bson:"date" json:"date"`
	Start     string    `bson:"start" json:"start"`
	HoldSetID string    `bson:"holdSetId" json:"holdSetId"`
	DraftID   string    `bson:"draftId" json:"draftId"`
	State     string    `bson:"state" json:"state"`
	HeldAt    time.Time `bson:"heldAt" json:"heldAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// SkippedWeek reports a week the weekly expansion could not place because the
// generated slot had no remaining capacity.
type SkippedWeek struct {
	Week   int    `json:"week"` // 1-based index within the requested run
	SlotID string `json:"slotId"`
	Reason string `json:"reason"`
}

// WeeklyExpansion is the result of the auto-select-N-weeks convenience path.
type WeeklyExpansion struct {
	Slots   []TimeSlot    `json:"slots"`
	Skipped []SkippedWeek `json:"skipped,omitempty"`
}
