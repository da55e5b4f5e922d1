package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *ProductRepository) Insert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = cloneProduct(*product)
	r.order = append(r.order, product.ID)
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, apperrors.NotFound("Product with ID %s not found", id.Hex())
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *ProductRepository) FindAll(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	for _, id := range r.order {
		p := r.products[id]
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, apperrors.NotFound("Product with ID %s not found", id.Hex())
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.ReviewCount != nil {
		p.ReviewCount = *patch.ReviewCount
	}
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return cloneProduct(p), nil
}

func (r *ProductRepository) PushImage(_ context.Context, id primitive.ObjectID, url string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, apperrors.NotFound("Product with ID %s not found", id.Hex())
	}
	p.Images = append(append([]string{}, p.Images...), url)
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return cloneProduct(p), nil
}

func (r *ProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("Product with ID %s not found", id.Hex())
	}
	delete(r.products, id)
	r.order = without(r.order, id)
	return nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string{}, p.Images...)
	return p
}
