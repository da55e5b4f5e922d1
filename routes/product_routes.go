package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterProductRoutes(e *echo.Echo, productController *controllers.ProductController, gates Gates) {
	products := e.Group("/api/products")

	products.GET("", productController.GetAllProducts)
	products.GET("/:id", productController.GetProduct)

	products.POST("", productController.CreateProduct, gates.Auth, gates.Admin)
	products.PATCH("/:id", productController.UpdateProduct, gates.Auth, gates.Admin)
	products.DELETE("/:id", productController.DeleteProduct, gates.Auth, gates.Admin)
	products.POST("/:id/images", productController.UploadProductImage, gates.Auth, gates.Admin)
}
