package booking

import (
	"fmt"

	"coachbook/models"
)

// siswSurchargePence is the flat add-on for package tiers that include SISW.
const siswSurchargePence int64 = 4000

// ComputeTotal maps (training type, course base price, package tier) to a
// total in pence. Rules apply in order: start from the course's per-training-
// type base price; a tier that includes SISW adds the flat surcharge; a tier
// that includes TAV doubles the running total. The doubling is deliberate
// business policy, not an additive surcharge.
//
// Pure and deterministic: the payment amount is always re-derived here
// server-side, never trusted from client input.
func ComputeTotal(trainingType string, basePence int64, tier string) (int64, error) {
	if !models.ValidTrainingType(trainingType) {
		return 0, fmt.Errorf("unknown training type: %s", trainingType)
	}
	if basePence <= 0 {
		return 0, fmt.Errorf("invalid base price: %d", basePence)
	}

	total := basePence
	switch tier {
	case models.TierTraining:
	case models.TierTrainingSISW:
		total += siswSurchargePence
	case models.TierTrainingSISWTAV:
		total += siswSurchargePence
		total *= 2
	default:
		return 0, fmt.Errorf("unknown package tier: %s", tier)
	}
	return total, nil
}

// ComputeCourseTotal resolves the course base price for the training type and
// delegates to ComputeTotal.
func ComputeCourseTotal(trainingType, courseID, tier string) (int64, error) {
	course, err := GetCourseByID(courseID)
	if err != nil {
		return 0, err
	}
	base, ok := course.BasePriceFor(trainingType)
	if !ok {
		return 0, fmt.Errorf("course %s has no %s price", courseID, trainingType)
	}
	return ComputeTotal(trainingType, base, tier)
}
