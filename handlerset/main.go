package handlerset

import (
	"context"

	"github.com/cyverse-de/messaging/v9"
	"github.com/cyverse-de/notification-preferences/handlers"
	"github.com/cyverse-de/notification-preferences/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var log = logging.Log.WithFields(logrus.Fields{"package": "handlerset"})

// AMQPSettings represents the settings that we require in order to connect to the AMQP exchange.
type AMQPSettings struct {
	URI          string
	ExchangeName string
	ExchangeType string
	QueueName    string

	// PrefetchCount is the number of unacknowledged deliveries the broker may send at once. Zero means no limit.
	PrefetchCount int
}

// HandlerSet represents a set of AMQP message handlers.
type HandlerSet struct {
	amqpClient *messaging.Client
	handlerFor map[string]handlers.MessageHandler
}

// New creates a new handler set. The handler set owns an AMQP client that is used to publish eligibility
// decisions and preference changes.
func New(amqpSettings *AMQPSettings, services handlers.ServiceProvider) (*HandlerSet, error) {
	wrapMsg := "unable to create the message handler set"

	// Create the AMQP client.
	amqpClient, err := messaging.NewClient(amqpSettings.URI, false)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Enable publishing to the exchange.
	err = amqpClient.SetupPublishing(amqpSettings.ExchangeName)
	if err != nil {
		amqpClient.Close()
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Build and return the handler set.
	handlerSet := &HandlerSet{amqpClient: amqpClient}
	handlerSet.handlerFor = handlers.InitMessageHandlers(services, handlerSet)
	return handlerSet, nil
}

// newWithHandlers creates a handler set that has no AMQP client.
func newWithHandlers(handlerFor map[string]handlers.MessageHandler) *HandlerSet {
	return &HandlerSet{handlerFor: handlerFor}
}

// Publish publishes a message to the exchange.
func (hs *HandlerSet) Publish(key string, body []byte) error {
	if hs.amqpClient == nil {
		return errors.New("the handler set has no AMQP client")
	}
	return hs.amqpClient.Publish(key, body)
}

// RoutingKeys returns the routing keys that the handler set has handlers for.
func (hs *HandlerSet) RoutingKeys() []string {
	keys := make([]string, 0, len(hs.handlerFor))
	for key := range hs.handlerFor {
		keys = append(keys, key)
	}
	return keys
}

// Dispatch passes a delivery to the handler registered for its routing key.
func (hs *HandlerSet) Dispatch(ctx context.Context, delivery amqp.Delivery) error {
	handler, ok := hs.handlerFor[delivery.RoutingKey]
	if !ok {
		return handlers.NewUnrecoverableError("no handler for routing key: %s", delivery.RoutingKey)
	}
	return handler.HandleMessage(ctx, delivery)
}

// handleDelivery dispatches a single delivery. Successfully handled deliveries are acknowledged. Failed deliveries
// are requeued if the error is recoverable and dropped otherwise.
func (hs *HandlerSet) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	entry := log.WithField("routing-key", delivery.RoutingKey)

	err := hs.Dispatch(ctx, delivery)
	if err == nil {
		if ackErr := delivery.Ack(false); ackErr != nil {
			entry.WithError(ackErr).Error("unable to acknowledge the delivery")
		}
		return
	}

	requeue := handlers.IsRecoverable(err)
	entry.WithError(err).WithField("requeue", requeue).Error("unable to handle the delivery")
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		entry.WithError(nackErr).Error("unable to reject the delivery")
	}
}

// Close closes a message handler set.
func (hs *HandlerSet) Close() {
	if hs.amqpClient != nil {
		hs.amqpClient.Close()
	}
}
