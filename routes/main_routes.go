package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/metrics"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Health       *controllers.HealthController
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Category     *controllers.CategoryController
	Product      *controllers.ProductController
	Cart         *controllers.CartController
	Order        *controllers.OrderController
	Expense      *controllers.ExpenseController
	Admin        *controllers.AdminController
	Notification *controllers.NotificationController
}

// Gates are the authentication middlewares shared by the route groups.
type Gates struct {
	// Auth requires a valid bearer token in the Authorization header.
	Auth echo.MiddlewareFunc
	// Stream is Auth that also takes ?token=, for websocket upgrades only.
	Stream echo.MiddlewareFunc
	// Admin requires the admin role and must follow Auth.
	Admin echo.MiddlewareFunc
}

// NewGates builds the gates from the JWT signer. active rejects tokens of
// deactivated accounts.
func NewGates(jwt *middleware.JWT, active middleware.ActiveCheck) Gates {
	return Gates{
		Auth:   jwt.JWTMiddleware(active),
		Stream: jwt.StreamMiddleware(active),
		Admin:  middleware.RequireRole(models.RoleAdmin),
	}
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, ctrl Controllers, gates Gates, uploadDir string) {
	e.Match([]string{"GET", "HEAD"}, "/health", ctrl.Health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	RegisterAuthRoutes(e, ctrl.Auth)
	RegisterUserRoutes(e, ctrl.User, gates)
	RegisterCategoryRoutes(e, ctrl.Category, gates)
	RegisterProductRoutes(e, ctrl.Product, gates)
	RegisterCartRoutes(e, ctrl.Cart, gates)
	RegisterOrderRoutes(e, ctrl.Order, gates)
	RegisterExpenseRoutes(e, ctrl.Expense, gates)
	RegisterAdminRoutes(e, ctrl.Admin, ctrl.User, ctrl.Order, gates)
	RegisterNotificationRoutes(e, ctrl.Notification, gates)
	RegisterFileRoutes(e, uploadDir)
}
