package models

import "time"

// Training types.
const (
	TrainingOneToOne = "1v1"
	TrainingGroup    = "group"
)

// Package tiers. The tier controls pricing add-ons: SISW adds a flat
// surcharge, TAV doubles the running total.
const (
	TierTraining        = "training"
	TierTrainingSISW    = "training-sisw"
	TierTrainingSISWTAV = "training-sisw-tav"
)

// BookingDraft states.
const (
	DraftStateDraft           = "DRAFT"
	DraftStateAwaitingPayment = "AWAITING_PAYMENT"
	DraftStateConfirmed       = "CONFIRMED"
	DraftStateFailed          = "FAILED"
	DraftStateCanceled        = "CANCELED"
)

// BookingDraft accumulates wizard selections into a single intent. It is
// mutable only by the owning customer while in DRAFT; once it enters
// AWAITING_PAYMENT only webhook-driven transitions may touch it.
type BookingDraft struct {
	ID                    string            `bson:"id" json:"id"`
	CustomerID            string            `bson:"customerId" json:"customerId"`
	TrainingType          string            `bson:"trainingType" json:"trainingType"`
	CourseID              string            `bson:"courseId" json:"courseId"`
	PackageTier           string            `bson:"packageTier,omitempty" json:"packageTier,omitempty"`
	QualifyingAnswers     map[string]string `bson:"qualifyingAnswers,omitempty" json:"qualifyingAnswers,omitempty"`
	RequestedSlots        []TimeSlot        `bson:"requestedSlots,omitempty" json:"requestedSlots,omitempty"`
	ConsultationRequested bool              `bson:"consultationRequested" json:"consultationRequested"`
	ComputedTotal         int64             `bson:"computedTotal,omitempty" json:"computedTotal,omitempty"` // pence
	Currency              string            `bson:"currency" json:"currency"`
	State                 string            `bson:"state" json:"state"`
	HoldSetID             string            `bson:"holdSetId,omitempty" json:"holdSetId,omitempty"`
	CreatedAt             time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time         `bson:"updatedAt" json:"updatedAt"`
	DeletedAt             *time.Time        `bson:"deletedAt,omitempty" json:"-"`
}

// Terminal reports whether no further customer or webhook transition is legal.
func (d *BookingDraft) Terminal() bool {
	switch d.State {
	case DraftStateConfirmed, DraftStateFailed, DraftStateCanceled:
		return true
	}
	return false
}

// ValidTrainingType reports whether t names a known training type.
func ValidTrainingType(t string) bool {
	return t == TrainingOneToOne || t == TrainingGroup
}

// ValidPackageTier reports whether t names a known package tier.
func ValidPackageTier(t string) bool {
	switch t {
	case TierTraining, TierTrainingSISW, TierTrainingSISWTAV:
		return true
	}
	return false
}
