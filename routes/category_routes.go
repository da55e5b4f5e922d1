package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterCategoryRoutes sets up all category-related routes
func RegisterCategoryRoutes(e *echo.Echo, categoryController *controllers.CategoryController, gates Gates) {
	categories := e.Group("/api/categories")

	// Public routes (no auth required)
	categories.GET("", categoryController.GetAllCategories)
	categories.GET("/:id", categoryController.GetCategory)

	// Admin protected routes
	categories.POST("", categoryController.CreateCategory, gates.Auth, gates.Admin)
	categories.PATCH("/:id", categoryController.UpdateCategory, gates.Auth, gates.Admin)
	categories.DELETE("/:id", categoryController.DeleteCategory, gates.Auth, gates.Admin)
}
