package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pusher delivers a notification to a connected user.
type Pusher interface {
	SendToUser(userID primitive.ObjectID, notification models.Notification) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

// NotificationService tells order owners about their orders over the
// websocket hub and, when a mailer is configured, by email. Delivery is
// best effort; failures are only logged.
type NotificationService struct {
	pusher Pusher
	mailer Mailer
	users  UserStore
	log    logrus.FieldLogger
	wg     sync.WaitGroup
}

// NewNotificationService accepts a nil pusher or mailer to disable that
// channel.
func NewNotificationService(pusher Pusher, mailer Mailer, users UserStore, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{pusher: pusher, mailer: mailer, users: users, log: log}
}

func (n *NotificationService) OrderCreated(order models.Order) {
	n.push(order.UserID, models.Notification{
		Type:    models.NotificationOrderCreated,
		Message: "Your order has been placed",
		Data:    order,
	})
	n.mail(order.UserID,
		fmt.Sprintf("Order %s received", order.ID.Hex()),
		fmt.Sprintf("Thank you for your order.\n\nOrder: %s\nTotal: %.2f\nStatus: %s\n", order.ID.Hex(), order.TotalAmount, order.Status),
	)
}

func (n *NotificationService) OrderStatusChanged(order models.Order, previous models.OrderStatus) {
	n.push(order.UserID, models.Notification{
		Type:    models.NotificationOrderStatusChanged,
		Message: fmt.Sprintf("Your order is now %s", order.Status),
		Data: map[string]interface{}{
			"orderId":        order.ID.Hex(),
			"status":         order.Status,
			"previousStatus": previous,
		},
	})
	n.mail(order.UserID,
		fmt.Sprintf("Order %s is %s", order.ID.Hex(), order.Status),
		fmt.Sprintf("Your order %s changed from %s to %s.\n", order.ID.Hex(), previous, order.Status),
	)
}

// Wait blocks until queued emails have been attempted.
func (n *NotificationService) Wait() {
	n.wg.Wait()
}

func (n *NotificationService) push(userID primitive.ObjectID, notification models.Notification) {
	if n.pusher == nil {
		return
	}
	if err := n.pusher.SendToUser(userID, notification); err != nil {
		n.log.WithError(err).WithField("user_id", userID.Hex()).Debug("Notification not pushed")
	}
}

func (n *NotificationService) mail(userID primitive.ObjectID, subject, body string) {
	if n.mailer == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := n.users.FindByID(ctx, userID)
		if err != nil {
			n.log.WithError(err).WithField("user_id", userID.Hex()).Warn("Cannot email order owner")
			return
		}
		if err := n.mailer.Send(user.Email, subject, body); err != nil {
			n.log.WithError(err).WithField("user_id", userID.Hex()).Warn("Failed to send order email")
		}
	}()
}
