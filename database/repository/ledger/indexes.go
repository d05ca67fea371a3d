package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the ledger collections.
func (repo *MongoLedgerRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	holdIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_hold_id"),
		},
		{
			Keys:    bson.D{{Key: "holdSetId", Value: 1}},
			Options: options.Index().SetName("hold_set_idx"),
		},
		{
			Keys:    bson.D{{Key: "slotId", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index().SetName("slot_state_idx"),
		},
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expiry_sweep_idx"),
		},
	}
	if _, err := repo.holdColl.Indexes().CreateMany(ctx, holdIndexes); err != nil {
		return fmt.Errorf("failed to create slot_holds indexes: %w", err)
	}

	counterIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slotId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_slot_counter"),
		},
	}
	if _, err := repo.counterColl.Indexes().CreateMany(ctx, counterIndexes); err != nil {
		return fmt.Errorf("failed to create slot_counters indexes: %w", err)
	}
	return nil
}
