package ledgerRepo

import (
	"context"
	"time"

	"coachbook/models"
)

// ExpiredHoldSet identifies a hold set past its expiry together with the
// draft that owns it, so the sweeper can decide whether releasing is safe.
type ExpiredHoldSet struct {
	HoldSetID string
	DraftID   string
}

// ReservationLedger is the durable store of slot holds and the single source
// of truth for slot occupancy. Hold is all-or-nothing across the requested
// slots; Confirm and Release operate on whole hold sets and are idempotent.
type ReservationLedger interface {
	// Hold atomically claims every requested slot for the draft, or none of
	// them. Returns a CapacityError naming the conflicting slots when any
	// slot is full.
	Hold(ctx context.Context, draftID string, slots []models.TimeSlot, ttl time.Duration) (string, error)
	// Confirm transitions HELD holds in the set to CONFIRMED and returns how
	// many holds it upgraded. A set that is already CONFIRMED matches nothing
	// and reports zero; the caller decides whether zero is a replay or a
	// released set that should never have been confirmable.
	Confirm(ctx context.Context, holdSetID string) (int, error)
	// Release transitions HELD or CONFIRMED holds in the set to RELEASED,
	// freeing their capacity. Already-released sets are a no-op. Joins the
	// caller's mongo transaction when ctx carries a session.
	Release(ctx context.Context, holdSetID string) error
	// CountActive returns the HELD+CONFIRMED occupancy per slot id.
	CountActive(ctx context.Context, slotIDs []string) (map[string]int, error)
	// HoldsBySet returns all holds in a set.
	HoldsBySet(ctx context.Context, holdSetID string) ([]models.SlotHold, error)
	// ExpiredHoldSets returns the hold sets still HELD whose expiry has
	// passed, each paired with its owning draft id.
	ExpiredHoldSets(ctx context.Context, now time.Time) ([]ExpiredHoldSet, error)
}
