package services

import (
	"context"
	"errors"
	"testing"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func orderRequest(p models.Product, qty int, price float64) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Items:           []models.OrderItemRequest{{ProductID: p.ID.Hex(), Quantity: qty, Price: price}},
		ShippingAddress: "1 Main St",
		PaymentMethod:   "card",
	}
}

func TestOrderTotalIsFixedAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	phone := f.product(t, "Phone", 500, f.category(t, "Electronics"))

	order, err := f.orders.Create(ctx, u.ID, orderRequest(phone, 2, 500))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	f.setPrice(t, phone, 750)

	view, err := f.orders.FindOne(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, view.TotalAmount)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 500.0, view.Items[0].Price)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, 750.0, view.Items[0].Product.Price)
	require.NotNil(t, view.User)
	assert.Equal(t, "ana@example.com", view.User.Email)
}

func TestOrderSuppliedTotalIsKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	phone := f.product(t, "Phone", 500, f.category(t, "Electronics"))

	req := orderRequest(phone, 2, 500)
	total := 950.0
	req.TotalAmount = &total

	order, err := f.orders.Create(ctx, u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 950.0, order.TotalAmount)
	assert.Len(t, f.notifier.created, 1)
}

func TestOrderUnknownProduct(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ana@example.com")

	_, err := f.orders.Create(context.Background(), u.ID, models.CreateOrderRequest{
		Items:           []models.OrderItemRequest{{ProductID: primitive.NewObjectID().Hex(), Quantity: 1, Price: 1}},
		ShippingAddress: "x",
		PaymentMethod:   "cash",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOrderScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "ana@example.com")
	other := f.user(t, "bob@example.com")
	p := f.product(t, "Pen", 2, f.category(t, "Office"))

	order, err := f.orders.Create(ctx, owner.ID, orderRequest(p, 1, 2))
	require.NoError(t, err)

	_, err = f.orders.FindOneForUser(ctx, other.ID, order.ID.Hex())
	assert.True(t, apperrors.IsNotFound(err))

	view, err := f.orders.FindOneForUser(ctx, owner.ID, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.ID, view.ID)

	mine, err := f.orders.FindAll(ctx, models.OrderFilter{UserID: &other.ID})
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestOrderStatusWritesArePermissive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	p := f.product(t, "Pen", 2, f.category(t, "Office"))
	order, err := f.orders.Create(ctx, u.ID, orderRequest(p, 1, 2))
	require.NoError(t, err)

	updated, err := f.orders.UpdateStatus(ctx, order.ID.Hex(), models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	updated, err = f.orders.UpdateStatus(ctx, order.ID.Hex(), models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	require.Len(t, f.notifier.changes, 2)
	assert.Equal(t, models.OrderStatusPending, f.notifier.changes[0].from)
	assert.Equal(t, models.OrderStatusDelivered, f.notifier.changes[0].to)

	_, err = f.orders.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.OrderStatusShipped)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOrderFilterByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	p := f.product(t, "Pen", 2, f.category(t, "Office"))

	first, err := f.orders.Create(ctx, u.ID, orderRequest(p, 1, 2))
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, u.ID, orderRequest(p, 2, 2))
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, first.ID.Hex(), models.OrderStatusShipped)
	require.NoError(t, err)

	shipped := models.OrderStatusShipped
	views, err := f.orders.FindAll(ctx, models.OrderFilter{Status: &shipped})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.ID, views[0].ID)
}

func TestCheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	c := f.category(t, "Office")
	pen := f.product(t, "Pen", 2, c)
	pad := f.product(t, "Pad", 5, c)

	_, err := f.carts.AddItem(ctx, u.ID, pen.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, u.ID, pad.ID, 1)
	require.NoError(t, err)

	order, err := f.orders.Checkout(ctx, u.ID, models.CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 11.0, order.TotalAmount)
	assert.Len(t, order.Items, 2)

	cart, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)

	_, err = f.orders.Checkout(ctx, u.ID, models.CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "cash"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

// emptySaveFails refuses to store an emptied cart.
type emptySaveFails struct {
	CartStore
}

func (s emptySaveFails) Save(ctx context.Context, cart *models.Cart) error {
	if len(cart.Items) == 0 {
		return errors.New("write concern timeout")
	}
	return s.CartStore.Save(ctx, cart)
}

func TestCheckoutReportsCartLeftFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	pen := f.product(t, "Pen", 2, f.category(t, "Office"))

	_, err := f.carts.AddItem(ctx, u.ID, pen.ID, 3)
	require.NoError(t, err)
	f.carts.carts = emptySaveFails{f.carts.carts}

	order, err := f.orders.Checkout(ctx, u.ID, models.CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "cash"})
	require.ErrorIs(t, err, ErrCartNotCleared)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, 6.0, order.TotalAmount)

	placed, err := f.orders.FindAll(ctx, models.OrderFilter{UserID: &u.ID})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, order.ID, placed[0].ID)

	cart, err := f.carts.FindOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")
	p := f.product(t, "Pen", 2, f.category(t, "Office"))

	var last models.Order
	for i := 1; i <= 7; i++ {
		o, err := f.orders.Create(ctx, u.ID, orderRequest(p, i, 2))
		require.NoError(t, err)
		last = o
	}

	recent, err := f.orders.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentOrders)
	assert.Equal(t, last.ID, recent[0].ID)
}
