package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int                `json:"stock" bson:"stock"`
	Images      []string           `json:"images" bson:"images"`
	CategoryID  primitive.ObjectID `json:"categoryId" bson:"category"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	Rating      float64            `json:"rating" bson:"rating"`
	ReviewCount int                `json:"reviewCount" bson:"reviewCount"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductView is a product with its category reference expanded.
type ProductView struct {
	Product
	Category *Category `json:"category"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category" validate:"required,len=24,hexadecimal"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images,omitempty"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,len=24,hexadecimal"`
	IsActive    *bool     `json:"isActive,omitempty"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int      `json:"reviewCount,omitempty" validate:"omitempty,gte=0"`
}

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Images      *[]string
	CategoryID  *primitive.ObjectID
	IsActive    *bool
	Rating      *float64
	ReviewCount *int
}

// ProductFilter holds exact-match criteria; zero values are ignored.
type ProductFilter struct {
	CategoryID *primitive.ObjectID
	IsActive   *bool
}
