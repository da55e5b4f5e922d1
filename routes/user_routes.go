package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterUserRoutes mounts the caller's own profile
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController, gates Gates) {
	users := e.Group("/api/users", gates.Auth)
	users.GET("/me", userController.GetProfile)
	users.PATCH("/me", userController.UpdateProfile)
}
