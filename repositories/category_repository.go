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
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection(CategoriesCollection)}
}

func (r *CategoryRepository) Insert(ctx context.Context, category *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Category name already exists")
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var category models.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return models.Category{}, notFoundOr(err, "Category", id.Hex())
	}
	return category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Category](ctx, r.collection, bson.M{})
}

func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Category](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateCategoryRequest) (models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	var category models.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Category{}, apperrors.Conflict("Category name already exists")
		}
		return models.Category{}, notFoundOr(err, "Category", id.Hex())
	}
	return category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return deleteByFilter(ctx, r.collection, bson.M{"_id": id}, "Category", id.Hex())
}
