package booking

import (
	"context"
	"fmt"
	"time"

	ledgerRepo "coachbook/database/repository/ledger"
	"coachbook/models"
)

// SlotCatalog computes which weekly slots exist in a date range and how much
// capacity remains per slot. Pure read relative to the ledger; remaining
// numbers are advisory at read time and re-validated atomically at Hold time.
type SlotCatalog struct {
	Ledger ledgerRepo.ReservationLedger
}

// ListSlots returns the slots between rangeStart and rangeEnd (inclusive)
// with their current remaining capacity.
func (cat *SlotCatalog) ListSlots(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.TimeSlot, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("range end %s is before range start %s", rangeEnd.Format("2006-01-02"), rangeStart.Format("2006-01-02"))
	}

	var slots []models.TimeSlot
	for day := rangeStart; !day.After(rangeEnd); day = day.AddDate(0, 0, 1) {
		for _, tpl := range templatesFor(day.Weekday()) {
			slots = append(slots, models.TimeSlot{
				Date:     day.Format("2006-01-02"),
				Start:    tpl.Start,
				Capacity: tpl.Capacity,
			})
		}
	}
	if len(slots) == 0 {
		return slots, nil
	}

	if err := cat.fillRemaining(ctx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ExpandWeekly generates one slot per week for weeks consecutive weeks at the
// same weekday and start time. Weeks whose slot is full are reported in the
// result's Skipped list, never silently dropped or substituted.
func (cat *SlotCatalog) ExpandWeekly(ctx context.Context, startDate time.Time, start string, weeks int) (*models.WeeklyExpansion, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("weeks must be positive, got %d", weeks)
	}
	tpl, ok := templateFor(startDate.Weekday(), start)
	if !ok {
		return nil, fmt.Errorf("no %s session at %s on the schedule", startDate.Weekday(), start)
	}

	candidates := make([]models.TimeSlot, 0, weeks)
	for w := 0; w < weeks; w++ {
		day := startDate.AddDate(0, 0, 7*w)
		candidates = append(candidates, models.TimeSlot{
			Date:     day.Format("2006-01-02"),
			Start:    start,
			Capacity: tpl.Capacity,
		})
	}
	if err := cat.fillRemaining(ctx, candidates); err != nil {
		return nil, err
	}

	result := &models.WeeklyExpansion{}
	for i, slot := range candidates {
		if slot.Remaining <= 0 {
			result.Skipped = append(result.Skipped, models.SkippedWeek{
				Week:   i + 1,
				SlotID: slot.SlotID(),
				Reason: "no remaining capacity",
			})
			continue
		}
		result.Slots = append(result.Slots, slot)
	}
	return result, nil
}

// fillRemaining populates Remaining as capacity minus active holds.
func (cat *SlotCatalog) fillRemaining(ctx context.Context, slots []models.TimeSlot) error {
	slotIDs := make([]string, 0, len(slots))
	for _, s := range slots {
		slotIDs = append(slotIDs, s.SlotID())
	}
	counts, err := cat.Ledger.CountActive(ctx, slotIDs)
	if err != nil {
		return fmt.Errorf("failed to count active holds: %w", err)
	}
	for i := range slots {
		remaining := slots[i].Capacity - counts[slots[i].SlotID()]
		if remaining < 0 {
			remaining = 0
		}
		slots[i].Remaining = remaining
	}
	return nil
}
