package draftRepo

import (
	"coachbook/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDraftRepo implements DraftRepository on MongoDB.
type MongoDraftRepo struct {
	coll *mongo.Collection
}

func NewMongoDraftRepo() *MongoDraftRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoDraftRepo{coll: db.Collection("booking_drafts")}
}
