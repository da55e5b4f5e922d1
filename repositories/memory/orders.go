package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]models.Order
	seq    map[primitive.ObjectID]int
	next   int
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[primitive.ObjectID]models.Order),
		seq:    make(map[primitive.ObjectID]int),
	}
}

func (r *OrderRepository) Insert(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = cloneOrder(*order)
	r.next++
	r.seq[order.ID] = r.next
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, apperrors.NotFound("Order with ID %s not found", id.Hex())
	}
	return cloneOrder(o), nil
}

// newestFirst orders by creation time, falling back to insertion order for
// orders created within the same clock tick.
func (r *OrderRepository) newestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return r.seq[orders[i].ID] > r.seq[orders[j].ID]
	})
}

func (r *OrderRepository) FindAll(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Order{}
	for _, o := range r.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	r.newestFirst(out)
	return out, nil
}

func (r *OrderRepository) Recent(ctx context.Context, limit int64) ([]models.Order, error) {
	all, err := r.FindAll(ctx, models.OrderFilter{})
	if err != nil {
		return nil, err
	}
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *OrderRepository) SetStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, apperrors.NotFound("Order with ID %s not found", id.Hex())
	}
	previous := cloneOrder(o)
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return previous, nil
}

func (r *OrderRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, o.Items...)
	return o
}
