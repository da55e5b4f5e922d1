package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	// unique indexes back Conflict errors and the one-cart-per-user rule,
	// so the store is unusable without them.
	unique bool
	models []mongo.IndexModel
}

var indexes = []collectionIndexes{
	{UsersCollection, true, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}},
	{CategoriesCollection, true, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}},
	{CartsCollection, true, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}},
	{ProductsCollection, false, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	}},
	{OrdersCollection, false, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	}},
	{ExpensesCollection, false, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
	}},
}

// EnsureIndexes creates the indexes every deployment needs. A unique index
// that cannot be built is an error; the others are logged and skipped.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log logrus.FieldLogger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, ci := range indexes {
		entry := log.WithField("collection", ci.collection)
		if _, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			if ci.unique {
				return fmt.Errorf("create unique index on %s: %w", ci.collection, err)
			}
			entry.WithError(err).Warn("Failed to create indexes")
			continue
		}
		entry.Debug("Indexes ready")
	}
	return nil
}
