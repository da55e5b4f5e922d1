package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/lock"
	"github.com/HSouheill/shop_backend/metrics"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories/memory"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/HSouheill/shop_backend/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	e     *echo.Echo
	jwt   *middleware.JWT
	users *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	userStore := memory.NewUserRepository()
	categoryStore := memory.NewCategoryRepository()
	productStore := memory.NewProductRepository()
	storage := utils.NewStorage(t.TempDir(), t.TempDir())
	require.NoError(t, storage.InitializeStorage())
	hub := websocket.NewHub(log)

	userService := services.NewUserService(userStore, log)
	productService := services.NewProductService(productStore, categoryStore, log)
	cartService := services.NewCartService(memory.NewCartRepository(), productStore, lock.NewLocal(), log)
	orderService := services.NewOrderService(memory.NewOrderRepository(), userStore, productStore, cartService,
		services.NewNotificationService(hub, nil, userStore, log), log)
	jwt := middleware.NewJWT("test-secret", time.Hour, log)

	e := echo.New()
	e.Validator = controllers.NewValidator()
	e.HTTPErrorHandler = controllers.HTTPErrorHandler(log)
	e.Use(metrics.Middleware())
	e.Use(middleware.ContentTypeGuard())

	SetupRoutes(e, Controllers{
		Health:       controllers.NewHealthController(nil, log),
		Auth:         controllers.NewAuthController(services.NewAuthService(userService, jwt, log), log),
		User:         controllers.NewUserController(userService, log),
		Category:     controllers.NewCategoryController(services.NewCategoryService(categoryStore, log), log),
		Product:      controllers.NewProductController(productService, storage, log),
		Cart:         controllers.NewCartController(cartService, log),
		Order:        controllers.NewOrderController(orderService, log),
		Expense:      controllers.NewExpenseController(services.NewExpenseService(memory.NewExpenseRepository(), log), storage, log),
		Admin:        controllers.NewAdminController(services.NewDashboardService(userService, productService, orderService), log),
		Notification: controllers.NewNotificationController(hub, log),
	}, NewGates(jwt, userService.IsActive), storage.BaseDir())

	return &testServer{e: e, jwt: jwt, users: userService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// register signs up a regular user and returns its token and id.
func (s *testServer) register(t *testing.T, email string) (string, string) {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name: "Shopper", Email: email, Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	auth := decode[models.AuthResponse](t, env)
	return auth.Token, auth.User.ID.Hex()
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin, err := s.users.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "adminpass")
	require.NoError(t, err)
	token, _, err := s.jwt.GenerateJWT(admin.ID.Hex(), admin.Email, models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (s *testServer) seedProduct(t *testing.T, admin string, price float64) models.Product {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/categories", admin, models.CreateCategoryRequest{Name: "Electronics"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	category := decode[models.Category](t, env)

	code, env = s.do(t, http.MethodPost, "/api/products", admin, map[string]interface{}{
		"name": "Phone", "description": "A phone", "price": price, "stock": 3, "category": category.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	return decode[models.Product](t, env)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shop_http_requests_total")
}

func TestAuthGates(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, http.StatusUnauthorized, env.Status)

	code, _ = s.do(t, http.MethodGet, "/api/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token, _ := s.register(t, "ana@example.com")
	code, env = s.do(t, http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, http.StatusForbidden, env.Status)

	code, _ = s.do(t, http.MethodPost, "/api/categories", token, models.CreateCategoryRequest{Name: "Books"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestQueryTokenOnlyOpensWebsocket(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "ana@example.com")

	code, _ := s.do(t, http.MethodGet, "/api/cart?token="+token, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Past the gate, a plain GET fails the upgrade handshake instead.
	code, _ = s.do(t, http.MethodGet, "/api/ws?token="+token, "", nil)
	assert.NotEqual(t, http.StatusUnauthorized, code)
}

func TestDeactivatedUserIsLockedOut(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	token, id := s.register(t, "ana@example.com")

	code, _ := s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := s.do(t, http.MethodPatch, "/api/admin/users/"+id+"/status", admin, map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRegisterRejectsInvalidBodyAndDuplicates(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	s.register(t, "ana@example.com")
	code, _ = s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name: "Again", Email: "ana@example.com", Password: "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestCartFollowsLivePrices(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	token, _ := s.register(t, "ana@example.com")
	phone := s.seedProduct(t, admin, 500)

	code, env := s.do(t, http.MethodPost, "/api/cart/items", token, models.AddCartItemRequest{ProductID: phone.ID.Hex(), Quantity: 2})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 1000.0, decode[models.Cart](t, env).TotalAmount)

	code, _ = s.do(t, http.MethodPatch, "/api/products/"+phone.ID.Hex(), admin, map[string]float64{"price": 600})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1200.0, decode[models.Cart](t, env).TotalAmount)

	code, _ = s.do(t, http.MethodPost, "/api/cart/items", token, models.AddCartItemRequest{ProductID: phone.ID.Hex(), Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPatch, "/api/cart/items/"+phone.ID.Hex()+"0", token, models.UpdateCartItemRequest{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[models.Cart](t, env).Items)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	owner, _ := s.register(t, "ana@example.com")
	other, _ := s.register(t, "bob@example.com")
	phone := s.seedProduct(t, admin, 500)

	code, env := s.do(t, http.MethodPost, "/api/orders", owner, models.CreateOrderRequest{
		Items:           []models.OrderItemRequest{{ProductID: phone.ID.Hex(), Quantity: 2, Price: 500}},
		ShippingAddress: "1 Main St",
		PaymentMethod:   "card",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	order := decode[models.Order](t, env)
	assert.Equal(t, 1000.0, order.TotalAmount)

	code, _ = s.do(t, http.MethodGet, "/api/orders/"+order.ID.Hex(), other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/orders/"+order.ID.Hex(), admin, nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[models.OrderView](t, env)
	require.NotNil(t, view.User)
	assert.Equal(t, "ana@example.com", view.User.Email)

	code, _ = s.do(t, http.MethodGet, "/api/orders", owner, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodGet, "/api/orders/my-orders", other, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]models.OrderView](t, env))

	code, _ = s.do(t, http.MethodPatch, "/api/orders/"+order.ID.Hex()+"/status", admin, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID.Hex()+"/status", admin, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.OrderStatusShipped, decode[models.Order](t, env).Status)

	code, env = s.do(t, http.MethodGet, "/api/admin/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, code)
	stats := decode[models.DashboardStats](t, env)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Len(t, stats.RecentOrders, 1)
}

func TestExpenseEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "ana@example.com")
	other, _ := s.register(t, "bob@example.com")

	for _, day := range []string{"2024-02-01", "2024-02-29", "2024-03-01"} {
		code, env := s.do(t, http.MethodPost, "/api/expenses", token, models.CreateExpenseRequest{
			Title: "Lunch", Amount: 10, Category: models.ExpenseCategoryFood,
			PaymentMethod: models.PaymentMethodCash, Date: day,
		})
		require.Equal(t, http.StatusCreated, code, env.Message)
	}

	code, _ := s.do(t, http.MethodPost, "/api/expenses", token, map[string]interface{}{
		"title": "Bad", "amount": 1, "category": "food", "paymentMethod": "cash", "date": "01/02/2024",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := s.do(t, http.MethodGet, "/api/expenses/stats/monthly/2024/2", token, nil)
	require.Equal(t, http.StatusOK, code)
	stats := decode[models.ExpenseStats](t, env)
	assert.Equal(t, 2, stats.TotalExpenses)
	assert.Equal(t, 20.0, stats.TotalAmount)

	code, _ = s.do(t, http.MethodGet, "/api/expenses/stats/monthly/2024/feb", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/expenses?startDate=2024-02-29&category=food", token, nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[[]models.Expense](t, env)
	require.Len(t, list, 2)

	code, _ = s.do(t, http.MethodGet, "/api/expenses?paymentMethod=barter", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/expenses/stats?startDate=2024-02-02&endDate=2024-03-01", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, decode[models.ExpenseStats](t, env).TotalExpenses)

	code, _ = s.do(t, http.MethodGet, "/api/expenses/stats?category=food", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/expenses/stats", other, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, decode[models.ExpenseStats](t, env).TotalExpenses)

	code, _ = s.do(t, http.MethodDelete, "/api/expenses/"+list[0].ID.Hex(), other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodDelete, "/api/expenses/"+list[0].ID.Hex(), token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestExpenseAttachmentsAreOwnerOnly(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "ana@example.com")
	other, _ := s.register(t, "bob@example.com")

	code, env := s.do(t, http.MethodPost, "/api/expenses", token, models.CreateExpenseRequest{
		Title: "Taxi", Amount: 12, Category: models.ExpenseCategoryTransport,
		PaymentMethod: models.PaymentMethodCash, Date: "2024-05-02",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	expense := decode[models.Expense](t, env)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "receipt.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 receipt"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/expenses/"+expense.ID.Hex()+"/attachments", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var uploaded envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	expense = decode[models.Expense](t, uploaded)
	require.Len(t, expense.Attachments, 1)
	link := expense.Attachments[0]
	assert.True(t, strings.HasPrefix(link, "/api/expenses/"+expense.ID.Hex()+"/attachments/"))

	download := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, link, nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		return rec
	}

	rec = download(token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 receipt", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, download(other).Code)
	assert.Equal(t, http.StatusUnauthorized, download("").Code)

	name := link[strings.LastIndex(link, "/")+1:]
	code, _ = s.do(t, http.MethodGet, "/uploads/expenses/"+name, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUnsupportedContentType(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("<login/>"))
	req.Header.Set(echo.HeaderContentType, "text/xml")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
