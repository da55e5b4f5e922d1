package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
}
