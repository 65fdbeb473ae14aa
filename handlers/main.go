package handlers

import (
	"context"

	"github.com/cyverse-de/notification-preferences/logging"
	"github.com/cyverse-de/notification-preferences/preferences"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var log = logging.Log.WithFields(logrus.Fields{"package": "handlers"})

// Routing keys used by the service.
const (
	CheckRoutingKey          = "notification.preferences.check"
	UpdateRoutingKey         = "notification.preferences.update"
	DecisionRoutingKeyPrefix = "notification.preferences.decision."
	ChangedRoutingKeyPrefix  = "notification.preferences.changed."
)

// MessageHandler describes the interface used to handle AMQP messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, delivery amqp.Delivery) error
}

// Publisher publishes a message body with a routing key.
type Publisher interface {
	Publish(key string, body []byte) error
}

// ServiceProvider returns the preference service for a user.
type ServiceProvider interface {
	For(user string) *preferences.Service
}

// InitMessageHandlers returns a map from routing key to message handler.
func InitMessageHandlers(services ServiceProvider, publisher Publisher) map[string]MessageHandler {
	return map[string]MessageHandler{
		CheckRoutingKey:  NewEligibility(services, publisher),
		UpdateRoutingKey: NewUpdate(services),
	}
}
