package draftRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the booking_drafts collection.
func (repo *MongoDraftRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_draft_id"),
		},
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index().SetName("customer_state_idx"),
		},
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "updatedAt", Value: 1}},
			Options: options.Index().SetName("stale_sweep_idx"),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create draft indexes: %w", err)
	}
	return nil
}
