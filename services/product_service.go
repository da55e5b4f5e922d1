package services

import (
	"context"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductService struct {
	products   ProductStore
	categories CategoryStore
	log        logrus.FieldLogger
}

func NewProductService(products ProductStore, categories CategoryStore, log logrus.FieldLogger) *ProductService {
	return &ProductService{products: products, categories: categories, log: log}
}

// categoryRef resolves a category id and checks that it exists.
func (s *ProductService) categoryRef(ctx context.Context, id string) (primitive.ObjectID, error) {
	oid, err := ParseID("Category", id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := s.categories.FindByID(ctx, oid); err != nil {
		return primitive.NilObjectID, err
	}
	return oid, nil
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (models.Product, error) {
	categoryID, err := s.categoryRef(ctx, req.Category)
	if err != nil {
		return models.Product{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := models.Product{
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      utils.SanitizeStringArray(req.Images),
		CategoryID:  categoryID,
		IsActive:    isActive,
	}
	if err := s.products.Insert(ctx, &product); err != nil {
		return models.Product{}, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID.Hex(), "category_id": categoryID.Hex()}).Info("Product created")
	return product, nil
}

func (s *ProductService) FindAll(ctx context.Context, filter models.ProductFilter) ([]models.ProductView, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, products)
}

func (s *ProductService) FindOne(ctx context.Context, id string) (models.ProductView, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return models.ProductView{}, err
	}
	views, err := s.withCategories(ctx, []models.Product{product})
	if err != nil {
		return models.ProductView{}, err
	}
	return views[0], nil
}

// Get returns the stored product without expanding its category.
func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	oid, err := ParseID("Product", id)
	if err != nil {
		return models.Product{}, err
	}
	return s.products.FindByID(ctx, oid)
}

func (s *ProductService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (models.Product, error) {
	oid, err := ParseID("Product", id)
	if err != nil {
		return models.Product{}, err
	}

	patch := models.ProductPatch{
		Name:        utils.SanitizeOptional(req.Name),
		Description: utils.SanitizeOptional(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
	}
	if req.Images != nil {
		images := utils.SanitizeStringArray(*req.Images)
		patch.Images = &images
	}
	if req.Category != nil {
		categoryID, err := s.categoryRef(ctx, *req.Category)
		if err != nil {
			return models.Product{}, err
		}
		patch.CategoryID = &categoryID
	}

	product, err := s.products.Update(ctx, oid, patch)
	if err != nil {
		return models.Product{}, err
	}
	if req.Price != nil {
		s.log.WithFields(logrus.Fields{"product_id": id, "price": *req.Price}).Info("Product price changed")
	}
	return product, nil
}

func (s *ProductService) AddImage(ctx context.Context, id, url string) (models.Product, error) {
	oid, err := ParseID("Product", id)
	if err != nil {
		return models.Product{}, err
	}
	return s.products.PushImage(ctx, oid, url)
}

func (s *ProductService) Remove(ctx context.Context, id string) error {
	oid, err := ParseID("Product", id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("Product deleted")
	return nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

// withCategories expands each product's category reference with one batch
// lookup. A dangling reference leaves Category nil.
func (s *ProductService) withCategories(ctx context.Context, products []models.Product) ([]models.ProductView, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}
	categories, err := s.categories.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		view := models.ProductView{Product: p}
		if c, ok := byID[p.CategoryID]; ok {
			c := c
			view.Category = &c
		}
		views = append(views, view)
	}
	return views, nil
}
