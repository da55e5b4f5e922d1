package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartRepository keeps one cart per user and rejects saves of stale
// versions the same way the Mongo repository does.
type CartRepository struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[primitive.ObjectID]models.Cart)}
}

func (r *CartRepository) FindOrCreate(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		now := time.Now().UTC()
		cart = models.Cart{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.carts[userID] = cart
	}
	return cloneCart(cart), nil
}

func (r *CartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[cart.UserID]
	if !ok || stored.ID != cart.ID || stored.Version != cart.Version {
		return apperrors.Conflict("Cart was modified concurrently, please retry")
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.Version++
	cart.UpdatedAt = time.Now().UTC()
	r.carts[cart.UserID] = cloneCart(*cart)
	return nil
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem{}, c.Items...)
	return c
}
