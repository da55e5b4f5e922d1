package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterNotificationRoutes mounts the websocket stream. Browsers cannot
// set headers on an upgrade, so this is the one route taking ?token=.
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController, gates Gates) {
	e.GET("/api/ws", notificationController.Connect, gates.Stream)
}
