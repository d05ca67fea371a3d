package booking

import (
	"context"
	"testing"
	"time"

	"coachbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mondayAfter returns the first Monday on or after 2026-09-07.
func mondayAfter() time.Time {
	return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
}

func TestListSlots_GeneratesScheduledSlots(t *testing.T) {
	ledger := newFakeLedger()
	cat := &SlotCatalog{Ledger: ledger}

	// One Monday: the schedule has three Monday sessions.
	day := mondayAfter()
	slots, err := cat.ListSlots(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, "2026-09-07", slots[0].Date)
	assert.Equal(t, "10:00", slots[0].Start)
	assert.Equal(t, 4, slots[0].Capacity)
	assert.Equal(t, 4, slots[0].Remaining)
}

func TestListSlots_SubtractsActiveHolds(t *testing.T) {
	ledger := newFakeLedger()
	cat := &SlotCatalog{Ledger: ledger}
	day := mondayAfter()

	slot := models.TimeSlot{Date: "2026-09-07", Start: "10:00", Capacity: 4}
	_, err := ledger.Hold(context.Background(), "draft-1", []models.TimeSlot{slot}, time.Hour)
	require.NoError(t, err)

	slots, err := cat.ListSlots(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, 3, slots[0].Remaining)
}

func TestListSlots_RejectsInvertedRange(t *testing.T) {
	cat := &SlotCatalog{Ledger: newFakeLedger()}
	day := mondayAfter()
	_, err := cat.ListSlots(context.Background(), day, day.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestExpandWeekly_EightConsecutiveWeeks(t *testing.T) {
	cat := &SlotCatalog{Ledger: newFakeLedger()}

	result, err := cat.ExpandWeekly(context.Background(), mondayAfter(), "10:00", 8)
	require.NoError(t, err)
	require.Len(t, result.Slots, 8)
	assert.Empty(t, result.Skipped)

	for i, slot := range result.Slots {
		expected := mondayAfter().AddDate(0, 0, 7*i).Format("2006-01-02")
		assert.Equal(t, expected, slot.Date)
		assert.Equal(t, "10:00", slot.Start)
	}
}

func TestExpandWeekly_ReportsFullWeeksAsSkipped(t *testing.T) {
	ledger := newFakeLedger()
	cat := &SlotCatalog{Ledger: ledger}
	ctx := context.Background()

	// Fill week 3's slot to capacity.
	week3 := mondayAfter().AddDate(0, 0, 14)
	full := models.TimeSlot{Date: week3.Format("2006-01-02"), Start: "10:00", Capacity: 4}
	for i := 0; i < 4; i++ {
		_, err := ledger.Hold(ctx, "other", []models.TimeSlot{full}, time.Hour)
		require.NoError(t, err)
	}

	result, err := cat.ExpandWeekly(ctx, mondayAfter(), "10:00", 8)
	require.NoError(t, err)
	assert.Len(t, result.Slots, 7)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Week)
	assert.Equal(t, full.SlotID(), result.Skipped[0].SlotID)
	assert.Equal(t, "no remaining capacity", result.Skipped[0].Reason)
}

func TestExpandWeekly_RejectsUnscheduledTime(t *testing.T) {
	cat := &SlotCatalog{Ledger: newFakeLedger()}
	_, err := cat.ExpandWeekly(context.Background(), mondayAfter(), "03:00", 8)
	assert.Error(t, err)

	_, err = cat.ExpandWeekly(context.Background(), mondayAfter(), "10:00", 0)
	assert.Error(t, err)
}
