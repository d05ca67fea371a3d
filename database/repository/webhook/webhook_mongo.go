package webhookRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/database"
	"coachbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWebhookEventRepo implements WebhookEventRepository on MongoDB.
type MongoWebhookEventRepo struct {
	coll *mongo.Collection
}

func NewMongoWebhookEventRepo() *MongoWebhookEventRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoWebhookEventRepo{coll: db.Collection("webhook_events")}
}

// Record inserts the processed-event row. A duplicate providerEventId yields
// ErrDuplicateEvent via the unique index.
func (repo *MongoWebhookEventRepo) Record(ctx context.Context, event *models.WebhookEvent) error {
	if _, err := repo.coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("error recording webhook event %s: %w", event.ProviderEventID, err)
	}
	return nil
}

// WithTransaction runs fn inside a mongo session transaction. Repositories
// called with the supplied context join the same transaction.
func (repo *MongoWebhookEventRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// EnsureIndexes creates the necessary indexes on the webhook_events collection.
func (repo *MongoWebhookEventRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerEventId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider_event"),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create webhook event indexes: %w", err)
	}
	return nil
}
