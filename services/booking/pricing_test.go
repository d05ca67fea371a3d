package booking

import (
	"testing"

	"coachbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal_BaseTier(t *testing.T) {
	total, err := ComputeTotal(models.TrainingOneToOne, 40000, models.TierTraining)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), total)
}

func TestComputeTotal_SISWAddsFlatSurcharge(t *testing.T) {
	total, err := ComputeTotal(models.TrainingOneToOne, 40000, models.TierTrainingSISW)
	require.NoError(t, err)
	assert.Equal(t, int64(44000), total)
}

func TestComputeTotal_TAVDoublesAfterSurcharge(t *testing.T) {
	// £400 base + £40 surcharge, then doubled: £880.
	total, err := ComputeTotal(models.TrainingOneToOne, 40000, models.TierTrainingSISWTAV)
	require.NoError(t, err)
	assert.Equal(t, int64(88000), total)
}

func TestComputeTotal_GroupTraining(t *testing.T) {
	total, err := ComputeTotal(models.TrainingGroup, 22000, models.TierTrainingSISWTAV)
	require.NoError(t, err)
	assert.Equal(t, int64(52000), total)
}

func TestComputeTotal_Deterministic(t *testing.T) {
	first, err := ComputeTotal(models.TrainingGroup, 30000, models.TierTrainingSISW)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ComputeTotal(models.TrainingGroup, 30000, models.TierTrainingSISW)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeTotal_RejectsUnknownInputs(t *testing.T) {
	_, err := ComputeTotal("duo", 40000, models.TierTraining)
	assert.Error(t, err)

	_, err = ComputeTotal(models.TrainingOneToOne, 40000, "platinum")
	assert.Error(t, err)

	_, err = ComputeTotal(models.TrainingOneToOne, 0, models.TierTraining)
	assert.Error(t, err)

	_, err = ComputeTotal(models.TrainingOneToOne, -100, models.TierTraining)
	assert.Error(t, err)
}

func TestComputeCourseTotal(t *testing.T) {
	total, err := ComputeCourseTotal(models.TrainingOneToOne, "foundation", models.TierTrainingSISWTAV)
	require.NoError(t, err)
	assert.Equal(t, int64(88000), total)

	total, err = ComputeCourseTotal(models.TrainingGroup, "masterclass", models.TierTraining)
	require.NoError(t, err)
	assert.Equal(t, int64(38000), total)

	_, err = ComputeCourseTotal(models.TrainingOneToOne, "no-such-course", models.TierTraining)
	assert.Error(t, err)
}
