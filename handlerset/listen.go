package handlerset

import (
	"context"

	"github.com/pkg/errors"
)

// Listen registers the handler set as the consumer of every routing key that it has handlers for, using the same
// AMQP client that publishes its messages, and dispatches deliveries until the context is cancelled.
func (hs *HandlerSet) Listen(ctx context.Context, settings *AMQPSettings) error {
	if hs.amqpClient == nil {
		return errors.New("unable to listen for preference messages: the handler set has no AMQP client")
	}

	hs.amqpClient.AddConsumerMulti(
		settings.ExchangeName,
		settings.ExchangeType,
		settings.QueueName,
		hs.RoutingKeys(),
		hs.handleDelivery,
		settings.PrefetchCount,
	)
	go hs.amqpClient.Listen()

	log.WithField("queue", settings.QueueName).Info("listening for preference messages")
	<-ctx.Done()
	return nil
}
