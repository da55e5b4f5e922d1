package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CartController operates on the caller's own cart.
type CartController struct {
	carts *services.CartService
	log   logrus.FieldLogger
}

func NewCartController(carts *services.CartService, log logrus.FieldLogger) *CartController {
	return &CartController{carts: carts, log: log}
}

func (cc *CartController) respond(c echo.Context, cart models.Cart, err error, message string) error {
	if err != nil {
		return errorResponse(c, cc.log, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    cart,
	})
}

// GetCart returns the cart priced at current product prices
func (cc *CartController) GetCart(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	cart, err := cc.carts.GetCart(c.Request().Context(), userID)
	return cc.respond(c, cart, err, "Cart retrieved successfully")
}

func (cc *CartController) AddItem(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	var req models.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, cc.log, err)
	}
	productID, err := services.ParseID("Product", req.ProductID)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	cart, err := cc.carts.AddItem(c.Request().Context(), userID, productID, req.Quantity)
	return cc.respond(c, cart, err, "Item added to cart")
}

func (cc *CartController) UpdateItem(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	var req models.UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, cc.log, err)
	}
	productID, err := services.ParseID("Product", c.Param("productId"))
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	cart, err := cc.carts.UpdateItemQuantity(c.Request().Context(), userID, productID, req.Quantity)
	return cc.respond(c, cart, err, "Cart item updated")
}

func (cc *CartController) RemoveItem(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}
	productID, err := services.ParseID("Product", c.Param("productId"))
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	cart, err := cc.carts.RemoveItem(c.Request().Context(), userID, productID)
	return cc.respond(c, cart, err, "Item removed from cart")
}

func (cc *CartController) ClearCart(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, cc.log, err)
	}

	cart, err := cc.carts.ClearCart(c.Request().Context(), userID)
	return cc.respond(c, cart, err, "Cart cleared")
}
