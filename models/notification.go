package models

// Notification is pushed to connected clients over the websocket hub.
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	NotificationConnected          = "connected"
	NotificationOrderCreated       = "order_created"
	NotificationOrderStatusChanged = "order_status_changed"
)
