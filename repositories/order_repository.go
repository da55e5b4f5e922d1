package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return models.Order{}, notFoundOr(err, "Order", id.Hex())
	}
	return order, nil
}

// FindAll returns matching orders, newest first.
func (r *OrderRepository) FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.UserID != nil {
		query["user"] = *filter.UserID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Order](ctx, r.collection, query, opts)
}

func (r *OrderRepository) Recent(ctx context.Context, limit int64) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return findAll[models.Order](ctx, r.collection, bson.M{}, opts)
}

// SetStatus updates the status and returns the order as it was before.
func (r *OrderRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var previous models.Order
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&previous); err != nil {
		return models.Order{}, notFoundOr(err, "Order", id.Hex())
	}
	return previous, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
