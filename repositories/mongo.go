package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	CartsCollection      = "carts"
	OrdersCollection     = "orders"
	ExpensesCollection   = "expenses"
)

const queryTimeout = 10 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// notFoundOr turns ErrNoDocuments into a NotFound error for entity/id and
// wraps anything else.
func notFoundOr(err error, entity, id string) error {
	if err == mongo.ErrNoDocuments {
		return apperrors.NotFound("%s with ID %s not found", entity, id)
	}
	return fmt.Errorf("find %s %s: %w", entity, id, err)
}

// findAll runs a query and decodes every document into a non-nil slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func deleteByFilter(ctx context.Context, coll *mongo.Collection, filter bson.M, entity, id string) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", entity, id, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("%s with ID %s not found", entity, id)
	}
	return nil
}

// afterUpdate returns the post-update document from FindOneAndUpdate.
func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
