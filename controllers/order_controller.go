package controllers

import (
	"errors"
	"net/http"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type OrderController struct {
	orders *services.OrderService
	log    logrus.FieldLogger
}

func NewOrderController(orders *services.OrderService, log logrus.FieldLogger) *OrderController {
	return &OrderController{orders: orders, log: log}
}

// CreateOrder places an order with the prices given in the request
func (oc *OrderController) CreateOrder(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	var req models.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, oc.log, err)
	}

	order, err := oc.orders.Create(c.Request().Context(), userID, req)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order created successfully",
		Data:    order,
	})
}

// Checkout turns the caller's cart into an order
func (oc *OrderController) Checkout(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	var req models.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, oc.log, err)
	}

	order, err := oc.orders.Checkout(c.Request().Context(), userID, req)
	if errors.Is(err, services.ErrCartNotCleared) {
		return c.JSON(http.StatusCreated, models.Response{
			Status:  http.StatusCreated,
			Message: "Order placed but the cart could not be emptied, do not check out again",
			Data:    order,
		})
	}
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order placed successfully",
		Data:    order,
	})
}

func (oc *OrderController) GetMyOrders(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	orders, err := oc.orders.FindAll(c.Request().Context(), models.OrderFilter{UserID: &userID})
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Orders retrieved successfully",
		Data:    orders,
	})
}

// GetAllOrders lists every order for admins, optionally filtered by
// ?status= and ?user=
func (oc *OrderController) GetAllOrders(c echo.Context) error {
	var filter models.OrderFilter
	if raw := c.QueryParam("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !validOrderStatus(status) {
			return errorResponse(c, oc.log, apperrors.Validation("Invalid status filter"))
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("user"); raw != "" {
		userID, err := services.ParseID("User", raw)
		if err != nil {
			return errorResponse(c, oc.log, apperrors.Validation("Invalid user filter"))
		}
		filter.UserID = &userID
	}

	orders, err := oc.orders.FindAll(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Orders retrieved successfully",
		Data:    orders,
	})
}

func validOrderStatus(status models.OrderStatus) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// GetOrder returns any order to an admin and only their own to a user
func (oc *OrderController) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		order models.OrderView
		err   error
	)
	if middleware.IsAdmin(c) {
		order, err = oc.orders.FindOne(ctx, id)
	} else {
		userID, cerr := callerID(c)
		if cerr != nil {
			return errorResponse(c, oc.log, cerr)
		}
		order, err = oc.orders.FindOneForUser(ctx, userID, id)
	}
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

func (oc *OrderController) UpdateOrderStatus(c echo.Context) error {
	var req models.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, oc.log, err)
	}

	order, err := oc.orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return errorResponse(c, oc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order status updated successfully",
		Data:    order,
	})
}
