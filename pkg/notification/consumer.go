package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type consumeChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type sender interface {
	Send(n Notification) error
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewConsumer(logger *slog.Logger, channel consumeChannel, queue string, sender sender) *Consumer {
	return &Consumer{
		logger:  logger,
		channel: channel,
		queue:   queue,
		sender:  sender,
	}
}

type Consumer struct {
	logger  *slog.Logger
	channel consumeChannel
	queue   string
	sender  sender
}

// Consume handles deliveries until ctx is cancelled or the delivery channel is closed.
func (c *Consumer) Consume(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queue, "event-manager", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("notification delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var n Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		c.logger.ErrorContext(ctx, "Error unmarshalling notification message", "error", err)
		if err := d.Nack(false, false); err != nil {
			c.logger.ErrorContext(ctx, "Error negatively acknowledging notification message", "error", err)
		}
		return
	}

	logger := c.logger.With("kind", n.Kind, "eventId", n.EventID)
	if err := c.sender.Send(n); err != nil {
		// requeue once, a second failure drops the message
		requeue := !d.Redelivered
		logger.ErrorContext(ctx, "Error sending notification", "error", err, "requeue", requeue)
		if err := d.Nack(false, requeue); err != nil {
			logger.ErrorContext(ctx, "Error negatively acknowledging notification message", "error", err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.ErrorContext(ctx, "Error acknowledging notification message", "error", err)
		return
	}
	logger.InfoContext(ctx, "Sent notification")
}
