package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterCartRoutes(e *echo.Echo, cartController *controllers.CartController, gates Gates) {
	cart := e.Group("/api/cart", gates.Auth)
	cart.GET("", cartController.GetCart)
	cart.DELETE("", cartController.ClearCart)
	cart.POST("/items", cartController.AddItem)
	cart.PATCH("/items/:productId", cartController.UpdateItem)
	cart.DELETE("/items/:productId", cartController.RemoveItem)
}
