package booking

import (
	"context"
	"testing"

	"coachbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDraft(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)
	assert.Equal(t, models.DraftStateDraft, draft.State)
	assert.Equal(t, "cust-1", draft.CustomerID)
	assert.Equal(t, "gbp", draft.Currency)
	assert.NotEmpty(t, draft.ID)
}

func TestStartDraft_RejectsInvalidInputs(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.StartDraft(ctx, "cust-1", "trio", "foundation")
	assert.Error(t, err)

	_, err = svc.StartDraft(ctx, "cust-1", models.TrainingGroup, "no-such-course")
	assert.Error(t, err)
}

func TestSelectPackage(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)

	updated, err := svc.SelectPackage(ctx, "cust-1", draft.ID, models.TierTrainingSISW)
	require.NoError(t, err)
	assert.Equal(t, models.TierTrainingSISW, updated.PackageTier)

	_, err = svc.SelectPackage(ctx, "cust-1", draft.ID, "gold")
	assert.Error(t, err)
}

func TestSelectPackage_OwnershipEnforced(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)

	_, err = svc.SelectPackage(ctx, "cust-2", draft.ID, models.TierTraining)
	assert.ErrorIs(t, err, ErrNotDraftOwner)
}

func TestSubmitAnswers_RequiresEveryQuestion(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)

	_, err = svc.SubmitAnswers(ctx, "cust-1", draft.ID, map[string]string{
		"What is your current experience level?": "Beginner",
	})
	assert.ErrorIs(t, err, ErrAnswersIncomplete)

	// Whitespace-only answers do not count.
	_, err = svc.SubmitAnswers(ctx, "cust-1", draft.ID, map[string]string{
		"What is your current experience level?":  "Beginner",
		"What do you want to achieve in 8 weeks?": "   ",
	})
	assert.ErrorIs(t, err, ErrAnswersIncomplete)

	updated, err := svc.SubmitAnswers(ctx, "cust-1", draft.ID, map[string]string{
		"What is your current experience level?":  "Beginner",
		"What do you want to achieve in 8 weeks?": "Run a 10k",
	})
	require.NoError(t, err)
	assert.Len(t, updated.QualifyingAnswers, 2)
}

func TestSelectSlots_NormalizesCapacityFromSchedule(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)
	_, err = svc.SelectPackage(ctx, "cust-1", draft.ID, models.TierTraining)
	require.NoError(t, err)

	// Client claims capacity 100; the schedule says 4.
	updated, err := svc.SelectSlots(ctx, "cust-1", draft.ID, []models.TimeSlot{
		{Date: "2026-09-07", Start: "10:00", Capacity: 100},
	}, false)
	require.NoError(t, err)
	require.Len(t, updated.RequestedSlots, 1)
	assert.Equal(t, 4, updated.RequestedSlots[0].Capacity)
}

func TestSelectSlots_RequiresPackageFirst(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)

	_, err = svc.SelectSlots(ctx, "cust-1", draft.ID, []models.TimeSlot{
		{Date: "2026-09-07", Start: "10:00"},
	}, false)
	assert.ErrorIs(t, err, ErrPackageRequired)
}

func TestSelectSlots_RejectsUnscheduledSlot(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.StartDraft(ctx, "cust-1", models.TrainingOneToOne, "foundation")
	require.NoError(t, err)
	_, err = svc.SelectPackage(ctx, "cust-1", draft.ID, models.TierTraining)
	require.NoError(t, err)

	// Sunday is not on the schedule.
	_, err = svc.SelectSlots(ctx, "cust-1", draft.ID, []models.TimeSlot{
		{Date: "2026-09-06", Start: "10:00"},
	}, false)
	assert.ErrorIs(t, err, ErrSlotNotInSchedule)

	_, err = svc.SelectSlots(ctx, "cust-1", draft.ID, nil, false)
	assert.ErrorIs(t, err, ErrNoSlotsRequested)
}
