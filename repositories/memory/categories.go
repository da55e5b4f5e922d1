package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]models.Category
	order      []primitive.ObjectID
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[primitive.ObjectID]models.Category)}
}

func (r *CategoryRepository) nameTaken(name string, except primitive.ObjectID) bool {
	for id, c := range r.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Insert(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(category.Name, primitive.NilObjectID) {
		return apperrors.Conflict("Category name already exists")
	}
	now := time.Now().UTC()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	r.order = append(r.order, category.ID)
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return models.Category{}, apperrors.NotFound("Category with ID %s not found", id.Hex())
	}
	return c, nil
}

func (r *CategoryRepository) FindAll(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, 0, len(r.categories))
	for _, id := range r.order {
		out = append(out, r.categories[id])
	}
	return out, nil
}

func (r *CategoryRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Category{}
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, id primitive.ObjectID, patch models.UpdateCategoryRequest) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return models.Category{}, apperrors.NotFound("Category with ID %s not found", id.Hex())
	}
	if patch.Name != nil {
		if r.nameTaken(*patch.Name, id) {
			return models.Category{}, apperrors.Conflict("Category name already exists")
		}
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	c.UpdatedAt = time.Now().UTC()
	r.categories[id] = c
	return c, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return apperrors.NotFound("Category with ID %s not found", id.Hex())
	}
	delete(r.categories, id)
	r.order = without(r.order, id)
	return nil
}
