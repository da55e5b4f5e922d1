package websocket

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/models"
	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSendToUserWithoutConnection(t *testing.T) {
	hub := NewHub(quietLogger())
	err := hub.SendToUser(primitive.NewObjectID(), models.Notification{Type: "x"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestHubDeliversToConnectedUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(quietLogger())
	go hub.Run(ctx)

	userID := primitive.NewObjectID()
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(c, hub, userID)
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var welcome models.Notification
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, models.NotificationConnected, welcome.Type)

	require.Eventually(t, func() bool { return hub.Connections(userID) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.SendToUser(userID, models.Notification{
		Type:    models.NotificationOrderStatusChanged,
		Message: "Your order is now shipped",
	}))

	var got models.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.NotificationOrderStatusChanged, got.Type)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connections(userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}
