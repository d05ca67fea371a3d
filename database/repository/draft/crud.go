package draftRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDraftNotFound is returned when no live draft matches the id.
var ErrDraftNotFound = fmt.Errorf("booking draft not found")

// Create inserts a new draft document.
func (repo *MongoDraftRepo) Create(ctx context.Context, draft *models.BookingDraft) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, draft); err != nil {
		return fmt.Errorf("error creating draft: %w", err)
	}
	return nil
}

// GetByID retrieves a draft by id, excluding soft-deleted documents.
func (repo *MongoDraftRepo) GetByID(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var draft models.BookingDraft
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": draftID, "deletedAt": nil}).Decode(&draft)
	if err == mongo.ErrNoDocuments {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching draft %s: %w", draftID, err)
	}
	return &draft, nil
}

// Update replaces the draft document's mutable fields. Wizard-step updates
// only happen while the draft is in DRAFT; the filter enforces that so a
// submitted draft cannot be mutated by a stale client.
func (repo *MongoDraftRepo) Update(ctx context.Context, draft *models.BookingDraft) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	draft.UpdatedAt = time.Now()
	filter := bson.M{"id": draft.ID, "state": models.DraftStateDraft, "deletedAt": nil}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": draft})
	if err != nil {
		return fmt.Errorf("error updating draft %s: %w", draft.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// TransitionState conditionally moves the draft between states.
func (repo *MongoDraftRepo) TransitionState(ctx context.Context, draftID string, fromStates []string, toState string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":        draftID,
		"state":     bson.M{"$in": fromStates},
		"deletedAt": nil,
	}
	update := bson.M{"$set": bson.M{"state": toState, "updatedAt": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error transitioning draft %s to %s: %w", draftID, toState, err)
	}
	return res.MatchedCount > 0, nil
}

// SoftDelete marks a draft as deleted without removing the document.
func (repo *MongoDraftRepo) SoftDelete(ctx context.Context, draftID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": draftID}, update); err != nil {
		return fmt.Errorf("error soft-deleting draft %s: %w", draftID, err)
	}
	return nil
}

// FindStale returns live drafts still in DRAFT or AWAITING_PAYMENT whose last
// update is older than cutoff.
func (repo *MongoDraftRepo) FindStale(ctx context.Context, cutoff time.Time) ([]models.BookingDraft, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"state":     bson.M{"$in": []string{models.DraftStateDraft, models.DraftStateAwaitingPayment}},
		"updatedAt": bson.M{"$lt": cutoff},
		"deletedAt": nil,
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying stale drafts: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var drafts []models.BookingDraft
	if err := cursor.All(ctxWithTimeout, &drafts); err != nil {
		return nil, fmt.Errorf("error decoding stale drafts: %w", err)
	}
	return drafts, nil
}
