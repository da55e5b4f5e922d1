package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(ProductsCollection)}
}

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return models.Product{}, notFoundOr(err, "Product", id.Hex())
	}
	return product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Product](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ProductRepository) FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	return findAll[models.Product](ctx, r.collection, query)
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.CategoryID != nil {
		set["category"] = *patch.CategoryID
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.ReviewCount != nil {
		set["reviewCount"] = *patch.ReviewCount
	}

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&product)
	if err != nil {
		return models.Product{}, notFoundOr(err, "Product", id.Hex())
	}
	return product, nil
}

// PushImage appends url to the product's image list.
func (r *ProductRepository) PushImage(ctx context.Context, id primitive.ObjectID, url string) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"images": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	var product models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&product); err != nil {
		return models.Product{}, notFoundOr(err, "Product", id.Hex())
	}
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return deleteByFilter(ctx, r.collection, bson.M{"_id": id}, "Product", id.Hex())
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
