package alertRepo

import (
	"context"
	"fmt"
	"time"

	"coachbook/database"
	"coachbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OperatorAlertRepository is the manual-intervention queue. Race losers
// (e.g. a cancellation that lost to a payment confirmation) land here for a
// manual refund instead of being silently dropped.
type OperatorAlertRepository interface {
	Create(ctx context.Context, alert *models.OperatorAlert) error
}

// MongoOperatorAlertRepo implements OperatorAlertRepository on MongoDB.
type MongoOperatorAlertRepo struct {
	coll *mongo.Collection
}

func NewMongoOperatorAlertRepo() *MongoOperatorAlertRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoOperatorAlertRepo{coll: db.Collection("operator_alerts")}
}

// Create inserts an alert document.
func (repo *MongoOperatorAlertRepo) Create(ctx context.Context, alert *models.OperatorAlert) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, alert); err != nil {
		return fmt.Errorf("error creating operator alert: %w", err)
	}
	return nil
}
