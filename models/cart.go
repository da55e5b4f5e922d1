package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a line owned by its cart.
type CartItem struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Cart is unique per user. Version increments on every save.
type Cart struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user" bson:"user"`
	Items       []CartItem         `json:"items" bson:"items"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	Version     int64              `json:"-" bson:"version"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,len=24,hexadecimal"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
