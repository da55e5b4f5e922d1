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

// ExpenseRepository scopes every lookup to the owning user, so an expense
// belonging to someone else is indistinguishable from a missing one.
type ExpenseRepository struct {
	collection *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{collection: db.Collection(ExpensesCollection)}
}

func (r *ExpenseRepository) Insert(ctx context.Context, expense *models.Expense) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	if expense.Tags == nil {
		expense.Tags = []string{}
	}
	if expense.Attachments == nil {
		expense.Attachments = []string{}
	}
	expense.CreatedAt = now
	expense.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) FindOne(ctx context.Context, userID, id primitive.ObjectID) (models.Expense, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var expense models.Expense
	if err := r.collection.FindOne(ctx, ownedBy(userID, id)).Decode(&expense); err != nil {
		return models.Expense{}, notFoundOr(err, "Expense", id.Hex())
	}
	return expense, nil
}

// FindAll returns matching expenses sorted by date, newest first.
func (r *ExpenseRepository) FindAll(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{"user": filter.UserID}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.PaymentMethod != nil {
		query["paymentMethod"] = *filter.PaymentMethod
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["date"] = dateRange
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[models.Expense](ctx, r.collection, query, opts)
}

func (r *ExpenseRepository) Update(ctx context.Context, userID, id primitive.ObjectID, patch models.ExpensePatch) (models.Expense, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.PaymentMethod != nil {
		set["paymentMethod"] = *patch.PaymentMethod
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.IsRecurring != nil {
		set["isRecurring"] = *patch.IsRecurring
	}
	if patch.RecurringFrequency != nil {
		set["recurringFrequency"] = *patch.RecurringFrequency
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Attachments != nil {
		set["attachments"] = *patch.Attachments
	}

	var expense models.Expense
	err := r.collection.FindOneAndUpdate(ctx, ownedBy(userID, id), bson.M{"$set": set}, afterUpdate()).Decode(&expense)
	if err != nil {
		return models.Expense{}, notFoundOr(err, "Expense", id.Hex())
	}
	return expense, nil
}

func (r *ExpenseRepository) PushAttachment(ctx context.Context, userID, id primitive.ObjectID, url string) (models.Expense, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"attachments": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	var expense models.Expense
	if err := r.collection.FindOneAndUpdate(ctx, ownedBy(userID, id), update, afterUpdate()).Decode(&expense); err != nil {
		return models.Expense{}, notFoundOr(err, "Expense", id.Hex())
	}
	return expense, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return deleteByFilter(ctx, r.collection, ownedBy(userID, id), "Expense", id.Hex())
}

func ownedBy(userID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "user": userID}
}
