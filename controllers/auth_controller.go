package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	auth *services.AuthService
	log  logrus.FieldLogger
}

func NewAuthController(auth *services.AuthService, log logrus.FieldLogger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

// Register creates a regular account and returns a token for it
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, ac.log, err)
	}

	resp, err := ac.auth.Register(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, ac.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User registered successfully",
		Data:    resp,
	})
}

// Login exchanges credentials for a token
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, ac.log, err)
	}

	resp, err := ac.auth.Login(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, ac.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    resp,
	})
}
