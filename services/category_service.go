package services

import (
	"context"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/sirupsen/logrus"
)

type CategoryService struct {
	categories CategoryStore
	log        logrus.FieldLogger
}

func NewCategoryService(categories CategoryStore, log logrus.FieldLogger) *CategoryService {
	return &CategoryService{categories: categories, log: log}
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (models.Category, error) {
	category := models.Category{
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
	}
	if err := s.categories.Insert(ctx, &category); err != nil {
		return models.Category{}, err
	}
	s.log.WithFields(logrus.Fields{"category_id": category.ID.Hex(), "name": category.Name}).Info("Category created")
	return category, nil
}

func (s *CategoryService) FindAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *CategoryService) FindOne(ctx context.Context, id string) (models.Category, error) {
	oid, err := ParseID("Category", id)
	if err != nil {
		return models.Category{}, err
	}
	return s.categories.FindByID(ctx, oid)
}

func (s *CategoryService) Update(ctx context.Context, id string, req models.UpdateCategoryRequest) (models.Category, error) {
	oid, err := ParseID("Category", id)
	if err != nil {
		return models.Category{}, err
	}
	return s.categories.Update(ctx, oid, models.UpdateCategoryRequest{
		Name:        utils.SanitizeOptional(req.Name),
		Description: utils.SanitizeOptional(req.Description),
	})
}

func (s *CategoryService) Remove(ctx context.Context, id string) error {
	oid, err := ParseID("Category", id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, oid); err != nil {
		return err
	}
	s.log.WithField("category_id", id).Info("Category deleted")
	return nil
}
