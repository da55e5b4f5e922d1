package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// OrderItem carries the unit price captured when the order was placed.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user" bson:"user"`
	Items           []OrderItem        `json:"items" bson:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ShippingAddress string             `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OrderItemView is a line with the product reference expanded. Product is
// nil when the product has since been deleted.
type OrderItemView struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// OrderView is an order with user and product references expanded.
type OrderView struct {
	ID              primitive.ObjectID `json:"id"`
	User            *UserSummary       `json:"user"`
	Items           []OrderItemView    `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	Status          OrderStatus        `json:"status"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type OrderItemRequest struct {
	ProductID string  `json:"product" validate:"required,len=24,hexadecimal"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64           `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// OrderFilter holds exact-match criteria; nil fields are ignored.
type OrderFilter struct {
	UserID *primitive.ObjectID
	Status *OrderStatus
}
