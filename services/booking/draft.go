package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coachbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartDraft begins checkout: a draft is created only once the first step's
// required fields (training type + course) are valid, not on every wizard
// keystroke.
func (svc *DefaultBookingService) StartDraft(ctx context.Context, customerID, trainingType, courseID string) (*models.BookingDraft, error) {
	if !models.ValidTrainingType(trainingType) {
		return nil, fmt.Errorf("unknown training type: %s", trainingType)
	}
	course, err := GetCourseByID(courseID)
	if err != nil {
		return nil, err
	}
	if _, ok := course.BasePriceFor(trainingType); !ok {
		return nil, fmt.Errorf("course %s does not offer %s training", courseID, trainingType)
	}

	now := time.Now()
	draft := &models.BookingDraft{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		TrainingType: trainingType,
		CourseID:     courseID,
		Currency:     "gbp",
		State:        models.DraftStateDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := svc.DraftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	svc.Logger.Info("booking draft started",
		zap.String("draftId", draft.ID),
		zap.String("customerId", customerID),
		zap.String("courseId", courseID))
	return draft, nil
}

// SelectPackage records the package tier. Price display depends on the tier,
// so this step must precede slot selection.
func (svc *DefaultBookingService) SelectPackage(ctx context.Context, customerID, draftID, tier string) (*models.BookingDraft, error) {
	if !models.ValidPackageTier(tier) {
		return nil, fmt.Errorf("unknown package tier: %s", tier)
	}
	draft, err := svc.editableDraft(ctx, customerID, draftID)
	if err != nil {
		return nil, err
	}

	draft.PackageTier = tier
	if err := svc.DraftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return draft, nil
}

// SubmitAnswers records the qualifying answers for the draft's course. Every
// question must receive a non-empty answer.
func (svc *DefaultBookingService) SubmitAnswers(ctx context.Context, customerID, draftID string, answers map[string]string) (*models.BookingDraft, error) {
	draft, err := svc.editableDraft(ctx, customerID, draftID)
	if err != nil {
		return nil, err
	}
	course, err := GetCourseByID(draft.CourseID)
	if err != nil {
		return nil, err
	}
	for _, q := range course.QualifyingQuestions {
		if strings.TrimSpace(answers[q]) == "" {
			return nil, ErrAnswersIncomplete
		}
	}

	draft.QualifyingAnswers = answers
	if err := svc.DraftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return draft, nil
}

// SelectSlots records the requested slots. Capacity figures are taken from
// the schedule template, never from the client; each requested slot must be a
// scheduled session.
func (svc *DefaultBookingService) SelectSlots(ctx context.Context, customerID, draftID string, slots []models.TimeSlot, consultation bool) (*models.BookingDraft, error) {
	if len(slots) == 0 {
		return nil, ErrNoSlotsRequested
	}
	draft, err := svc.editableDraft(ctx, customerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.PackageTier == "" {
		return nil, ErrPackageRequired
	}

	normalized := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		day, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid slot date %q: %w", s.Date, err)
		}
		tpl, ok := templateFor(day.Weekday(), s.Start)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotNotInSchedule, s.Date, s.Start)
		}
		normalized = append(normalized, models.TimeSlot{
			Date:     s.Date,
			Start:    s.Start,
			Capacity: tpl.Capacity,
		})
	}

	draft.RequestedSlots = normalized
	draft.ConsultationRequested = consultation
	if err := svc.DraftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return draft, nil
}

// GetDraft returns the customer's draft.
func (svc *DefaultBookingService) GetDraft(ctx context.Context, customerID, draftID string) (*models.BookingDraft, error) {
	draft, err := svc.DraftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.CustomerID != customerID {
		return nil, ErrNotDraftOwner
	}
	return draft, nil
}

// editableDraft loads the draft and checks ownership and mutability. A draft
// is mutable by its customer only while in DRAFT.
func (svc *DefaultBookingService) editableDraft(ctx context.Context, customerID, draftID string) (*models.BookingDraft, error) {
	draft, err := svc.DraftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.CustomerID != customerID {
		return nil, ErrNotDraftOwner
	}
	if draft.State != models.DraftStateDraft {
		return nil, ErrDraftNotEditable
	}
	return draft, nil
}
