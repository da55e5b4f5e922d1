package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// ErrNotConnected is returned when a user has no open connection.
var ErrNotConnected = errors.New("user not connected")

// Client is one websocket connection of an authenticated user. A user may
// hold several at once.
type Client struct {
	hub    *Hub
	UserID primitive.ObjectID
	conn   *websocket.Conn
	send   chan models.Notification
}

// Hub maintains the set of active clients and routes notifications to them.
type Hub struct {
	clients    map[primitive.ObjectID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        logrus.FieldLogger
}

// NewHub creates a new Hub instance
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's event loop and closes every connection when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[primitive.ObjectID]map[*Client]struct{})
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.UserID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
				}
				if len(set) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser queues a notification on every connection of the user. A
// connection whose buffer is full misses the message.
func (h *Hub) SendToUser(userID primitive.ObjectID, notification models.Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set, ok := h.clients[userID]
	if !ok || len(set) == 0 {
		return ErrNotConnected
	}
	for client := range set {
		select {
		case client.send <- notification:
		default:
			h.log.WithField("user_id", userID.Hex()).Warn("Websocket send buffer full, dropping notification")
		}
	}
	return nil
}

// Connections returns how many connections the user currently holds.
func (h *Hub) Connections(userID primitive.ObjectID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
