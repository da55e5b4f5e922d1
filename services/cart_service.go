package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/lock"
	"github.com/HSouheill/shop_backend/metrics"
	"github.com/HSouheill/shop_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCartNotCleared means the order was stored but the cart still holds its
// lines. Callers must not place the order again.
var ErrCartNotCleared = errors.New("order placed but cart could not be cleared")

// maxCartAttempts bounds the read-modify-write retries after a stale save.
const maxCartAttempts = 3

// CartService keeps one cart per user whose total always reflects live
// product prices.
type CartService struct {
	carts    CartStore
	products ProductReader
	locker   lock.Locker
	log      logrus.FieldLogger
}

func NewCartService(carts CartStore, products ProductReader, locker lock.Locker, log logrus.FieldLogger) *CartService {
	return &CartService{carts: carts, products: products, locker: locker, log: log}
}

// FindOrCreate returns the user's cart as stored, creating it if needed.
func (s *CartService) FindOrCreate(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return s.carts.FindOrCreate(ctx, userID)
}

// GetCart returns the cart with its total recomputed from current prices.
// The recomputed total is persisted when it differs from the stored one.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	cart, err := s.carts.FindOrCreate(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	items, total, err := s.reprice(ctx, cart.Items)
	if err != nil {
		return models.Cart{}, err
	}
	if total == cart.TotalAmount && len(items) == len(cart.Items) {
		return cart, nil
	}
	return s.mutate(ctx, userID, "reprice", func(*models.Cart) error { return nil })
}

func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, apperrors.Validation("quantity must be at least 1")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return models.Cart{}, err
	}

	return s.mutate(ctx, userID, "add", func(cart *models.Cart) error {
		if i := cart.FindItem(productID); i >= 0 {
			cart.Items[i].Quantity += quantity
			return nil
		}
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
		return nil
	})
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, apperrors.Validation("quantity must be at least 1")
	}
	return s.mutate(ctx, userID, "update", func(cart *models.Cart) error {
		i := cart.FindItem(productID)
		if i < 0 {
			return apperrors.NotFound("Item not found in cart")
		}
		cart.Items[i].Quantity = quantity
		return nil
	})
}

// RemoveItem drops the line for productID. Removing an absent line is not
// an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (models.Cart, error) {
	return s.mutate(ctx, userID, "remove", func(cart *models.Cart) error {
		if i := cart.FindItem(productID); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
		return nil
	})
}

// ClearCart empties the cart and zeroes its total without repricing.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	release, err := s.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return models.Cart{}, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		cart, err := s.carts.FindOrCreate(ctx, userID)
		if err != nil {
			return models.Cart{}, err
		}
		cart.Items = []models.CartItem{}
		cart.TotalAmount = 0

		err = s.carts.Save(ctx, &cart)
		if err == nil {
			metrics.RecordCartMutation("clear")
			return cart, nil
		}
		if !s.retryable(err, attempt, userID) {
			return models.Cart{}, err
		}
	}
}

// mutate runs one read-modify-write cycle under the user's lock, repricing
// before the versioned save and retrying when the save finds the cart
// changed underneath.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, op string, apply func(*models.Cart) error) (models.Cart, error) {
	release, err := s.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return models.Cart{}, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		cart, err := s.carts.FindOrCreate(ctx, userID)
		if err != nil {
			return models.Cart{}, err
		}
		if err := apply(&cart); err != nil {
			return models.Cart{}, err
		}
		items, total, err := s.reprice(ctx, cart.Items)
		if err != nil {
			return models.Cart{}, err
		}
		cart.Items = items
		cart.TotalAmount = total

		err = s.carts.Save(ctx, &cart)
		if err == nil {
			metrics.RecordCartMutation(op)
			s.log.WithFields(logrus.Fields{
				"user_id": userID.Hex(),
				"op":      op,
				"items":   len(cart.Items),
				"total":   cart.TotalAmount,
			}).Debug("Cart updated")
			return cart, nil
		}
		if !s.retryable(err, attempt, userID) {
			return models.Cart{}, err
		}
	}
}

func (s *CartService) retryable(err error, attempt int, userID primitive.ObjectID) bool {
	if !apperrors.IsConflict(err) || attempt >= maxCartAttempts {
		return false
	}
	s.log.WithFields(logrus.Fields{"user_id": userID.Hex(), "attempt": attempt}).Debug("Stale cart, retrying")
	return true
}

// reprice sums quantity × current price over the lines. Lines whose product
// no longer exists are dropped.
func (s *CartService) reprice(ctx context.Context, items []models.CartItem) ([]models.CartItem, float64, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, 0, err
	}
	prices := make(map[primitive.ObjectID]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	kept := make([]models.CartItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			s.log.WithField("product_id", item.ProductID.Hex()).Warn("Dropping cart line for deleted product")
			continue
		}
		kept = append(kept, item)
		total = total.Add(lineTotal(price, item.Quantity))
	}
	return kept, total.InexactFloat64(), nil
}

func cartLockKey(userID primitive.ObjectID) string {
	return "cart:" + userID.Hex()
}

// Checkout snapshots the cart lines at current prices, hands them to place,
// and empties the cart once place succeeds. A failure to empty the cart after
// that is reported as ErrCartNotCleared. The user's lock is held for the whole
// sequence so no line added meanwhile is lost.
func (s *CartService) Checkout(ctx context.Context, userID primitive.ObjectID, place func(items []models.OrderItem) error) error {
	release, err := s.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return err
	}
	defer release()

	cart, err := s.carts.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	prices := make(map[primitive.ObjectID]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	lines := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: price})
	}
	if len(lines) == 0 {
		return apperrors.Validation("Cart is empty")
	}

	if err := place(lines); err != nil {
		return err
	}

	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Save(ctx, &cart); err != nil {
		s.log.WithError(err).WithField("user_id", userID.Hex()).Error("Order placed but cart could not be cleared")
		return fmt.Errorf("%w: %v", ErrCartNotCleared, err)
	}
	metrics.RecordCartMutation("checkout")
	return nil
}
