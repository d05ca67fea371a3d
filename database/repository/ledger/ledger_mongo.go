package ledgerRepo

import (
	"coachbook/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLedgerRepo implements ReservationLedger on MongoDB. Occupancy is
// denormalized into a per-slot counter document so capacity checks are
// guarded single-document updates rather than racy count-then-insert reads.
type MongoLedgerRepo struct {
	holdColl    *mongo.Collection
	counterColl *mongo.Collection
}

// slotCounter is the denormalized occupancy document, one per slot that has
// ever had a hold.
type slotCounter struct {
	SlotID   string `bson:"slotId"`
	Capacity int    `bson:"capacity"`
	Occupied int    `bson:"occupied"`
}

func NewMongoLedgerRepo() *MongoLedgerRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoLedgerRepo{
		holdColl:    db.Collection("slot_holds"),
		counterColl: db.Collection("slot_counters"),
	}
}
