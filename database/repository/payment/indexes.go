package paymentRepo

import (
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexUnique(name string) *options.IndexOptions {
	return options.Index().SetUnique(true).SetName(name)
}
