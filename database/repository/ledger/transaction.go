package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Hold claims every requested slot for the draft inside a single mongo
// transaction. Each slot's occupancy lives in its own counter document and is
// bumped with a guarded update (occupied + 1 <= capacity in the filter), so
// two concurrent Hold calls against the same slot cannot both succeed past
// capacity: the loser's update matches nothing and the whole transaction
// aborts with a CapacityError.
func (repo *MongoLedgerRepo) Hold(ctx context.Context, draftID string, slots []models.TimeSlot, ttl time.Duration) (string, error) {
	if len(slots) == 0 {
		return "", fmt.Errorf("no slots requested")
	}

	client := repo.holdColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return "", fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	holdSetID := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(ttl)

	txnFn := func(sc mongo.SessionContext) error {
		var conflicts []string
		for _, slot := range slots {
			slotID := slot.SlotID()

			// Ensure the counter document exists before the guarded bump.
			_, err := repo.counterColl.UpdateOne(sc,
				bson.M{"slotId": slotID},
				bson.M{"$setOnInsert": bson.M{"slotId": slotID, "capacity": slot.Capacity, "occupied": 0}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return fmt.Errorf("ensure counter for slot %s failed: %w", slotID, err)
			}

			filter := bson.M{
				"slotId":   slotID,
				"occupied": bson.M{"$lte": slot.Capacity - 1},
			}
			res, err := repo.counterColl.UpdateOne(sc, filter, bson.M{"$inc": bson.M{"occupied": 1}})
			if err != nil {
				return fmt.Errorf("occupancy bump for slot %s failed: %w", slotID, err)
			}
			if res.MatchedCount == 0 {
				conflicts = append(conflicts, slotID)
			}
		}

		// All-or-nothing: any full slot aborts the whole transaction, so the
		// bumps already applied roll back and no hold rows are written.
		if len(conflicts) > 0 {
			return &CapacityError{Slots: conflicts}
		}

		docs := make([]interface{}, 0, len(slots))
		for _, slot := range slots {
			docs = append(docs, models.SlotHold{
				ID:        uuid.New().String(),
				SlotID:    slot.SlotID(),
				Date:      slot.Date,
				Start:     slot.Start,
				HoldSetID: holdSetID,
				DraftID:   draftID,
				State:     models.HoldStateHeld,
				HeldAt:    now,
				ExpiresAt: expiresAt,
			})
		}
		if _, err := repo.holdColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert holds failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return "", err
	}

	return holdSetID, nil
}

// Confirm upgrades the set's HELD holds to CONFIRMED and reports how many it
// upgraded. Occupancy is unchanged; a set already confirmed matches nothing.
func (repo *MongoLedgerRepo) Confirm(ctx context.Context, holdSetID string) (int, error) {
	filter := bson.M{"holdSetId": holdSetID, "state": models.HoldStateHeld}
	update := bson.M{"$set": bson.M{"state": models.HoldStateConfirmed}}
	res, err := repo.holdColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("confirm hold set %s failed: %w", holdSetID, err)
	}
	return int(res.ModifiedCount), nil
}

// Release frees the set's capacity: each still-active hold flips to RELEASED
// and its slot counter is decremented, inside one transaction so a crash
// cannot leak occupancy. When ctx already carries a mongo session, the
// release joins that transaction instead of opening its own, so a caller's
// abort takes the release down with it.
func (repo *MongoLedgerRepo) Release(ctx context.Context, holdSetID string) error {
	if mongo.SessionFromContext(ctx) != nil {
		return repo.releaseSet(ctx, holdSetID)
	}

	client := repo.holdColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := repo.releaseSet(sc, holdSetID); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("release transaction failed: %w", err)
	}
	return nil
}

func (repo *MongoLedgerRepo) releaseSet(ctx context.Context, holdSetID string) error {
	activeFilter := bson.M{
		"holdSetId": holdSetID,
		"state":     bson.M{"$in": []string{models.HoldStateHeld, models.HoldStateConfirmed}},
	}
	cursor, err := repo.holdColl.Find(ctx, activeFilter)
	if err != nil {
		return fmt.Errorf("find active holds failed: %w", err)
	}
	var holds []models.SlotHold
	if err := cursor.All(ctx, &holds); err != nil {
		return fmt.Errorf("decode active holds failed: %w", err)
	}

	for _, h := range holds {
		res, err := repo.holdColl.UpdateOne(ctx,
			bson.M{"id": h.ID, "state": bson.M{"$in": []string{models.HoldStateHeld, models.HoldStateConfirmed}}},
			bson.M{"$set": bson.M{"state": models.HoldStateReleased}},
		)
		if err != nil {
			return fmt.Errorf("release hold %s failed: %w", h.ID, err)
		}
		if res.ModifiedCount == 0 {
			continue
		}
		if _, err := repo.counterColl.UpdateOne(ctx,
			bson.M{"slotId": h.SlotID, "occupied": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"occupied": -1}},
		); err != nil {
			return fmt.Errorf("occupancy rollback for slot %s failed: %w", h.SlotID, err)
		}
	}
	return nil
}
