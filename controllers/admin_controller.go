package controllers

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AdminController struct {
	dashboard *services.DashboardService
	log       logrus.FieldLogger
}

func NewAdminController(dashboard *services.DashboardService, log logrus.FieldLogger) *AdminController {
	return &AdminController{dashboard: dashboard, log: log}
}

// GetDashboardStats returns entity counts and the most recent orders
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	stats, err := ac.dashboard.Stats(c.Request().Context())
	if err != nil {
		return errorResponse(c, ac.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard statistics retrieved successfully",
		Data:    stats,
	})
}
