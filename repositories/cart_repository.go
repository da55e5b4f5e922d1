package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection(CartsCollection)}
}

// FindOrCreate returns the user's cart, creating an empty one on first use.
// The unique index on carts.user makes concurrent first calls converge on a
// single document.
func (r *CartRepository) FindOrCreate(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"user": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"items":       bson.A{},
		"totalAmount": 0.0,
		"version":     int64(0),
		"createdAt":   now,
		"updatedAt":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cart models.Cart
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if mongo.IsDuplicateKeyError(err) {
		// another request inserted the cart between our match and insert
		err = r.collection.FindOne(ctx, filter).Decode(&cart)
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("find or create cart for user %s: %w", userID.Hex(), err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// Save writes items and total if the stored version still matches
// cart.Version, then bumps the version. A stale cart yields a Conflict.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	filter := bson.M{"_id": cart.ID, "version": cart.Version}
	update := bson.M{
		"$set": bson.M{
			"items":       items,
			"totalAmount": cart.TotalAmount,
			"updatedAt":   now,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperrors.Conflict("Cart was modified concurrently, please retry")
	}
	cart.Items = items
	cart.Version++
	cart.UpdatedAt = now
	return nil
}
