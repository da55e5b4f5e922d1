package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutes sets up all admin-related routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, userController *controllers.UserController, orderController *controllers.OrderController, gates Gates) {
	admin := e.Group("/api/admin", gates.Auth, gates.Admin)

	admin.GET("/dashboard/stats", adminController.GetDashboardStats)

	admin.GET("/users", userController.GetAllUsers)
	admin.GET("/users/:id", userController.GetUser)
	admin.PATCH("/users/:id/status", userController.UpdateUserStatus)
	admin.DELETE("/users/:id", userController.DeleteUser)

	admin.GET("/orders", orderController.GetAllOrders)
	admin.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
}
