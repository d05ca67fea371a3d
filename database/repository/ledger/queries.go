package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CountActive returns the current occupancy per slot id from the counter
// documents. Slots with no counter have zero occupancy and are omitted.
func (repo *MongoLedgerRepo) CountActive(ctx context.Context, slotIDs []string) (map[string]int, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.counterColl.Find(ctxWithTimeout, bson.M{"slotId": bson.M{"$in": slotIDs}})
	if err != nil {
		return nil, fmt.Errorf("error querying slot counters: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var counters []slotCounter
	if err := cursor.All(ctxWithTimeout, &counters); err != nil {
		return nil, fmt.Errorf("error decoding slot counters: %w", err)
	}

	counts := make(map[string]int, len(counters))
	for _, c := range counters {
		counts[c.SlotID] = c.Occupied
	}
	return counts, nil
}

// HoldsBySet returns every hold in the set, regardless of state.
func (repo *MongoLedgerRepo) HoldsBySet(ctx context.Context, holdSetID string) ([]models.SlotHold, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.holdColl.Find(ctxWithTimeout, bson.M{"holdSetId": holdSetID})
	if err != nil {
		return nil, fmt.Errorf("error querying holds for set %s: %w", holdSetID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var holds []models.SlotHold
	if err := cursor.All(ctxWithTimeout, &holds); err != nil {
		return nil, fmt.Errorf("error decoding holds for set %s: %w", holdSetID, err)
	}
	return holds, nil
}

// ExpiredHoldSets returns the distinct hold sets still in HELD whose expiry
// has passed, each with the draft that owns it. The sweeper uses the draft
// state to decide whether the set is safe to release.
func (repo *MongoLedgerRepo) ExpiredHoldSets(ctx context.Context, now time.Time) ([]ExpiredHoldSet, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"state":     models.HoldStateHeld,
		"expiresAt": bson.M{"$lt": now},
	}
	cursor, err := repo.holdColl.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying expired holds: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var holds []models.SlotHold
	if err := cursor.All(ctxWithTimeout, &holds); err != nil {
		return nil, fmt.Errorf("error decoding expired holds: %w", err)
	}

	seen := make(map[string]bool, len(holds))
	sets := make([]ExpiredHoldSet, 0, len(holds))
	for _, h := range holds {
		if seen[h.HoldSetID] {
			continue
		}
		seen[h.HoldSetID] = true
		sets = append(sets, ExpiredHoldSet{HoldSetID: h.HoldSetID, DraftID: h.DraftID})
	}
	return sets, nil
}
