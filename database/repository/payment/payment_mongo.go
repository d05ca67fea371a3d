package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/database"
	"coachbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrIntentNotFound is returned when no intent matches the lookup.
var ErrIntentNotFound = fmt.Errorf("payment intent not found")

// MongoPaymentIntentRepo implements PaymentIntentRepository on MongoDB.
type MongoPaymentIntentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentIntentRepo() *MongoPaymentIntentRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoPaymentIntentRepo{coll: db.Collection("payment_intents")}
}

// Create inserts a new intent document.
func (repo *MongoPaymentIntentRepo) Create(ctx context.Context, intent *models.PaymentIntent) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, intent); err != nil {
		return fmt.Errorf("error creating payment intent: %w", err)
	}
	return nil
}

// GetByDraftID retrieves the intent anchored to a draft.
func (repo *MongoPaymentIntentRepo) GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error) {
	return repo.findOne(ctx, bson.M{"draftId": draftID})
}

// GetByProviderIntentID retrieves the intent by the provider's id. This is
// the webhook correlation lookup.
func (repo *MongoPaymentIntentRepo) GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error) {
	return repo.findOne(ctx, bson.M{"providerIntentId": providerIntentID})
}

func (repo *MongoPaymentIntentRepo) findOne(ctx context.Context, filter bson.M) (*models.PaymentIntent, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var intent models.PaymentIntent
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&intent)
	if err == mongo.ErrNoDocuments {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching payment intent: %w", err)
	}
	return &intent, nil
}

// TransitionState conditionally moves the intent between states.
func (repo *MongoPaymentIntentRepo) TransitionState(ctx context.Context, intentID string, fromStates []string, toState string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": intentID, "state": bson.M{"$in": fromStates}}
	update := bson.M{"$set": bson.M{"state": toState, "updatedAt": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error transitioning intent %s to %s: %w", intentID, toState, err)
	}
	return res.MatchedCount > 0, nil
}

// EnsureIndexes creates the necessary indexes on the payment_intents collection.
func (repo *MongoPaymentIntentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: indexUnique("unique_intent_id"),
		},
		{
			Keys:    bson.D{{Key: "draftId", Value: 1}},
			Options: indexUnique("unique_intent_draft"),
		},
		{
			Keys:    bson.D{{Key: "providerIntentId", Value: 1}},
			Options: indexUnique("unique_provider_intent"),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment intent indexes: %w", err)
	}
	return nil
}
