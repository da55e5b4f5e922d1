package controllers

import (
	"github.com/HSouheill/shop_backend/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// NotificationController upgrades authenticated clients to the order
// notification stream.
type NotificationController struct {
	hub *websocket.Hub
	log logrus.FieldLogger
}

func NewNotificationController(hub *websocket.Hub, log logrus.FieldLogger) *NotificationController {
	return &NotificationController{hub: hub, log: log}
}

func (nc *NotificationController) Connect(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, nc.log, err)
	}
	if err := websocket.HandleWebSocket(c, nc.hub, userID); err != nil {
		nc.log.WithError(err).WithField("user_id", userID.Hex()).Warn("WebSocket upgrade failed")
		return nil
	}
	return nil
}
