package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/metrics"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRecentOrders is how many orders the dashboard lists.
const DefaultRecentOrders = 5

// OrderNotifier is told about order events after they are stored.
type OrderNotifier interface {
	OrderCreated(order models.Order)
	OrderStatusChanged(order models.Order, previous models.OrderStatus)
}

type noopNotifier struct{}

func (noopNotifier) OrderCreated(models.Order)                           {}
func (noopNotifier) OrderStatusChanged(models.Order, models.OrderStatus) {}

// OrderService stores orders with prices fixed at placement. Status writes
// accept any known status regardless of the current one.
type OrderService struct {
	orders   OrderStore
	users    UserStore
	products ProductReader
	cart     *CartService
	notifier OrderNotifier
	log      logrus.FieldLogger
}

func NewOrderService(orders OrderStore, users UserStore, products ProductReader, cart *CartService, notifier OrderNotifier, log logrus.FieldLogger) *OrderService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		cart:     cart,
		notifier: notifier,
		log:      log,
	}
}

// Create stores the order with the caller's prices. When no total is given
// it is computed once from those prices.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateOrderRequest) (models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	ids := make([]primitive.ObjectID, 0, len(req.Items))
	for _, line := range req.Items {
		productID, err := ParseID("Product", line.ProductID)
		if err != nil {
			return models.Order{}, err
		}
		if line.Quantity < 1 {
			return models.Order{}, apperrors.Validation("quantity must be at least 1")
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: line.Quantity, Price: line.Price})
		ids = append(ids, productID)
	}
	if err := s.requireProducts(ctx, ids); err != nil {
		return models.Order{}, err
	}

	var total float64
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	} else {
		total = orderTotal(items)
	}
	return s.place(ctx, userID, items, total, req.ShippingAddress, req.PaymentMethod)
}

// Checkout turns the user's cart into an order at current prices and
// empties the cart. On ErrCartNotCleared the placed order is returned along
// with the error.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, req models.CheckoutRequest) (models.Order, error) {
	var order models.Order
	err := s.cart.Checkout(ctx, userID, func(items []models.OrderItem) error {
		placed, err := s.place(ctx, userID, items, orderTotal(items), req.ShippingAddress, req.PaymentMethod)
		order = placed
		return err
	})
	if errors.Is(err, ErrCartNotCleared) {
		return order, err
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *OrderService) place(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, total float64, address, payment string) (models.Order, error) {
	order := models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: utils.SanitizeInput(address),
		PaymentMethod:   utils.SanitizeInput(payment),
	}
	if err := s.orders.Insert(ctx, &order); err != nil {
		return models.Order{}, err
	}

	metrics.RecordOrderCreated()
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID.Hex(),
		"user_id":  userID.Hex(),
		"total":    order.TotalAmount,
	}).Info("Order created")
	s.notifier.OrderCreated(order)
	return order, nil
}

func (s *OrderService) requireProducts(ctx context.Context, ids []primitive.ObjectID) error {
	ids = uniqueIDs(ids)
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	present := make(map[primitive.ObjectID]struct{}, len(found))
	for _, p := range found {
		present[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return apperrors.NotFound("Product with ID %s not found", id.Hex())
		}
	}
	return nil
}

func (s *OrderService) FindAll(ctx context.Context, filter models.OrderFilter) ([]models.OrderView, error) {
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, orders)
}

// FindOne returns any order, for admins.
func (s *OrderService) FindOne(ctx context.Context, id string) (models.OrderView, error) {
	oid, err := ParseID("Order", id)
	if err != nil {
		return models.OrderView{}, err
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return models.OrderView{}, err
	}
	return s.populateOne(ctx, order)
}

// FindOneForUser hides orders of other users behind NotFound.
func (s *OrderService) FindOneForUser(ctx context.Context, userID primitive.ObjectID, id string) (models.OrderView, error) {
	oid, err := ParseID("Order", id)
	if err != nil {
		return models.OrderView{}, err
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return models.OrderView{}, err
	}
	if order.UserID != userID {
		return models.OrderView{}, apperrors.NotFound("Order with ID %s not found", id)
	}
	return s.populateOne(ctx, order)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	oid, err := ParseID("Order", id)
	if err != nil {
		return models.Order{}, err
	}
	previous, err := s.orders.SetStatus(ctx, oid, status)
	if err != nil {
		return models.Order{}, err
	}

	order := previous
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	metrics.RecordOrderStatusChange(string(status))
	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"from":     previous.Status,
		"to":       status,
	}).Info("Order status changed")
	if previous.Status != status {
		s.notifier.OrderStatusChanged(order, previous.Status)
	}
	return order, nil
}

func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

// Recent returns the newest orders, populated.
func (s *OrderService) Recent(ctx context.Context, limit int) ([]models.OrderView, error) {
	if limit <= 0 {
		limit = DefaultRecentOrders
	}
	orders, err := s.orders.Recent(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, orders)
}

func (s *OrderService) populateOne(ctx context.Context, order models.Order) (models.OrderView, error) {
	views, err := s.populate(ctx, []models.Order{order})
	if err != nil {
		return models.OrderView{}, err
	}
	return views[0], nil
}

// populate expands user and product references with one batch lookup each.
// References to deleted documents are left nil.
func (s *OrderService) populate(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	var userIDs, productIDs []primitive.ObjectID
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, item := range o.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	users, err := s.users.FindByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, uniqueIDs(productIDs))
	if err != nil {
		return nil, err
	}
	userByID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Summary()
	}
	productByID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		view := models.OrderView{
			ID:              o.ID,
			Items:           make([]models.OrderItemView, 0, len(o.Items)),
			TotalAmount:     o.TotalAmount,
			Status:          o.Status,
			ShippingAddress: o.ShippingAddress,
			PaymentMethod:   o.PaymentMethod,
			CreatedAt:       o.CreatedAt,
			UpdatedAt:       o.UpdatedAt,
		}
		if u, ok := userByID[o.UserID]; ok {
			u := u
			view.User = &u
		}
		for _, item := range o.Items {
			line := models.OrderItemView{Quantity: item.Quantity, Price: item.Price}
			if p, ok := productByID[item.ProductID]; ok {
				p := p
				line.Product = &p
			}
			view.Items = append(view.Items, line)
		}
		views = append(views, view)
	}
	return views, nil
}

func orderTotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(lineTotal(item.Price, item.Quantity))
	}
	return total.InexactFloat64()
}
