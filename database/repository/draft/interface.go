package draftRepo

import (
	"context"
	"time"

	"coachbook/models"
)

// DraftRepository persists booking drafts. State changes go through
// TransitionState, a conditional update: when two transitions race (e.g. a
// customer cancel against an in-flight payment confirmation) only the first
// to commit matches, and the loser observes applied == false.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.BookingDraft) error
	GetByID(ctx context.Context, draftID string) (*models.BookingDraft, error)
	Update(ctx context.Context, draft *models.BookingDraft) error
	// TransitionState moves the draft from any of fromStates to toState.
	// Returns whether the transition applied.
	TransitionState(ctx context.Context, draftID string, fromStates []string, toState string) (bool, error)
	SoftDelete(ctx context.Context, draftID string) error
	// FindStale returns non-terminal drafts last touched before cutoff,
	// excluding soft-deleted ones.
	FindStale(ctx context.Context, cutoff time.Time) ([]models.BookingDraft, error)
}
