package services

import (
	"context"

	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store contracts. The Mongo repositories and the in-memory stores both
// satisfy them. Lookups of a missing id fail with apperrors.NotFound,
// uniqueness violations with apperrors.Conflict.

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type CategoryStore interface {
	Insert(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.UpdateCategoryRequest) (models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductReader is the read side of the product store used by carts and
// order population.
type ProductReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

type ProductStore interface {
	ProductReader
	Insert(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error)
	PushImage(ctx context.Context, id primitive.ObjectID, url string) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// CartStore must make FindOrCreate atomic per user and reject a Save whose
// Version no longer matches the stored one.
type CartStore interface {
	FindOrCreate(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	Recent(ctx context.Context, limit int64) ([]models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error)
	Count(ctx context.Context) (int64, error)
}

// ExpenseStore scopes every single-document operation to its owner.
type ExpenseStore interface {
	Insert(ctx context.Context, expense *models.Expense) error
	FindOne(ctx context.Context, userID, id primitive.ObjectID) (models.Expense, error)
	FindAll(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch models.ExpensePatch) (models.Expense, error)
	PushAttachment(ctx context.Context, userID, id primitive.ObjectID, url string) (models.Expense, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}
