package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserController serves the caller's own profile and the admin user list.
type UserController struct {
	users *services.UserService
	log   logrus.FieldLogger
}

func NewUserController(users *services.UserService, log logrus.FieldLogger) *UserController {
	return &UserController{users: users, log: log}
}

// GetProfile returns the authenticated user
func (uc *UserController) GetProfile(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	user, err := uc.users.FindOne(c.Request().Context(), userID.Hex())
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile patches the authenticated user
func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, uc.log, err)
	}

	user, err := uc.users.Update(c.Request().Context(), userID.Hex(), req)
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

func (uc *UserController) GetAllUsers(c echo.Context) error {
	users, err := uc.users.FindAll(c.Request().Context())
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

func (uc *UserController) GetUser(c echo.Context) error {
	user, err := uc.users.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// UpdateUserStatus activates or deactivates an account. Tokens of an
// inactive account stop working on their next request.
func (uc *UserController) UpdateUserStatus(c echo.Context) error {
	var req models.UpdateUserStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, uc.log, err)
	}

	user, err := uc.users.UpdateStatus(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User status updated successfully",
		Data:    user,
	})
}

func (uc *UserController) DeleteUser(c echo.Context) error {
	if err := uc.users.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, uc.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}
