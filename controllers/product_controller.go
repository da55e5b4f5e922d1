package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const productImageDir = "products"

type ProductController struct {
	products *services.ProductService
	storage  *utils.Storage
	log      logrus.FieldLogger
}

func NewProductController(products *services.ProductService, storage *utils.Storage, log logrus.FieldLogger) *ProductController {
	return &ProductController{products: products, storage: storage, log: log}
}

func (pc *ProductController) CreateProduct(c echo.Context) error {
	var req models.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, pc.log, err)
	}

	product, err := pc.products.Create(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Product created successfully",
		Data:    product,
	})
}

// GetAllProducts lists products with their category, optionally filtered by
// ?category=<id> and ?isActive=<bool>
func (pc *ProductController) GetAllProducts(c echo.Context) error {
	filter, err := productFilter(c)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	products, err := pc.products.FindAll(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

func productFilter(c echo.Context) (models.ProductFilter, error) {
	var filter models.ProductFilter
	if raw := c.QueryParam("category"); raw != "" {
		id, err := services.ParseID("Category", raw)
		if err != nil {
			return filter, apperrors.Validation("Invalid category filter")
		}
		filter.CategoryID = &id
	}
	if c.QueryParam("isActive") != "" {
		var active bool
		if err := echo.QueryParamsBinder(c).Bool("isActive", &active).BindError(); err != nil {
			return filter, apperrors.Validation("isActive must be true or false")
		}
		filter.IsActive = &active
	}
	return filter, nil
}

func (pc *ProductController) GetProduct(c echo.Context) error {
	product, err := pc.products.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

func (pc *ProductController) UpdateProduct(c echo.Context) error {
	var req models.UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, pc.log, err)
	}

	product, err := pc.products.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product updated successfully",
		Data:    product,
	})
}

func (pc *ProductController) DeleteProduct(c echo.Context) error {
	if err := pc.products.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product deleted successfully",
	})
}

// UploadProductImage stores the multipart "image" field and appends its URL
// to the product's images
func (pc *ProductController) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := pc.products.Get(ctx, id); err != nil {
		return errorResponse(c, pc.log, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return errorResponse(c, pc.log, apperrors.Validation("Image file is required"))
	}

	url, err := pc.storage.SaveImage(file, productImageDir)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	product, err := pc.products.AddImage(ctx, id, url)
	if err != nil {
		return errorResponse(c, pc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Image uploaded successfully",
		Data:    product,
	})
}
