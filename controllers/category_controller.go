package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CategoryController struct {
	categories *services.CategoryService
	log        logrus.FieldLogger
}

func NewCategoryController(categories *services.CategoryService, log logrus.FieldLogger) *CategoryController {
	return &CategoryController{categories: categories, log: log}
}

// CreateCategory creates a new category
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	var req models.CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, cc.log, err)
	}

	category, err := cc.categories.Create(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// GetAllCategories retrieves all categories
func (cc *CategoryController) GetAllCategories(c echo.Context) error {
	categories, err := cc.categories.FindAll(c.Request().Context())
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// GetCategory retrieves a specific category by ID
func (cc *CategoryController) GetCategory(c echo.Context) error {
	category, err := cc.categories.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category retrieved successfully",
		Data:    category,
	})
}

// UpdateCategory updates an existing category
func (cc *CategoryController) UpdateCategory(c echo.Context) error {
	var req models.UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, cc.log, err)
	}

	category, err := cc.categories.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory deletes a category. Products keep their dangling reference.
func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	if err := cc.categories.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, cc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category deleted successfully",
	})
}
