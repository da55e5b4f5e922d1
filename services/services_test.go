package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/lock"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users      *UserService
	categories *CategoryService
	products   *ProductService
	carts      *CartService
	orders     *OrderService
	expenses   *ExpenseService
	dashboard  *DashboardService
	notifier   *recordingNotifier
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := quietLogger()

	userStore := memory.NewUserRepository()
	categoryStore := memory.NewCategoryRepository()
	productStore := memory.NewProductRepository()

	f := &fixture{notifier: &recordingNotifier{}}
	f.users = NewUserService(userStore, log)
	f.users.hashCost = bcrypt.MinCost
	f.categories = NewCategoryService(categoryStore, log)
	f.products = NewProductService(productStore, categoryStore, log)
	f.carts = NewCartService(memory.NewCartRepository(), productStore, lock.NewLocal(), log)
	f.orders = NewOrderService(memory.NewOrderRepository(), userStore, productStore, f.carts, f.notifier, log)
	f.expenses = NewExpenseService(memory.NewExpenseRepository(), log)
	f.dashboard = NewDashboardService(f.users, f.products, f.orders)
	return f
}

func (f *fixture) user(t *testing.T, email string) models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.CreateUserRequest{
		Name: "Test User", Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) category(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), models.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, price float64, category models.Category) models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), models.CreateProductRequest{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Stock:       10,
		Category:    category.ID.Hex(),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) setPrice(t *testing.T, p models.Product, price float64) {
	t.Helper()
	_, err := f.products.Update(context.Background(), p.ID.Hex(), models.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
}

type statusChange struct {
	orderID  primitive.ObjectID
	from, to models.OrderStatus
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []primitive.ObjectID
	changes []statusChange
}

func (r *recordingNotifier) OrderCreated(order models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, order.ID)
}

func (r *recordingNotifier) OrderStatusChanged(order models.Order, previous models.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, statusChange{orderID: order.ID, from: previous, to: order.Status})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
