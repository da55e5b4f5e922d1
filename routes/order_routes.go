package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterOrderRoutes(e *echo.Echo, orderController *controllers.OrderController, gates Gates) {
	orders := e.Group("/api/orders", gates.Auth)

	orders.POST("", orderController.CreateOrder)
	orders.POST("/checkout", orderController.Checkout)
	orders.GET("/my-orders", orderController.GetMyOrders)
	// owner or admin, checked in the handler
	orders.GET("/:id", orderController.GetOrder)

	orders.GET("", orderController.GetAllOrders, gates.Admin)
	orders.PATCH("/:id/status", orderController.UpdateOrderStatus, gates.Admin)
}
